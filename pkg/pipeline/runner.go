package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/arbor/pkg/cache"
	"github.com/matzehuels/arbor/pkg/errors"
	"github.com/matzehuels/arbor/pkg/graph"
	"github.com/matzehuels/arbor/pkg/hierarchy"
	"github.com/matzehuels/arbor/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so caching behaves the same everywhere.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// LayoutTTL is the cache lifetime of computed layouts.
	LayoutTTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:     c,
		Keyer:     keyer,
		Logger:    logger,
		LayoutTTL: cache.TTLLayout,
	}
}

// Layout computes the layout of tree, consulting the cache first unless
// opts.Refresh is set. Cache failures are logged and never fail the run.
func (r *Runner) Layout(ctx context.Context, tree graph.Tree, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root := graph.ToHierarchy(tree)
	treeData, err := graph.MarshalTree(root)
	if err != nil {
		return nil, err
	}
	result := &Result{TreeHash: cache.Hash(treeData)}
	key := r.Keyer.LayoutKey(result.TreeHash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		if cached, ok := r.lookup(ctx, key, opts.Logger); ok {
			result.Layout = cached
			result.CacheHit = true
			result.fillStats()
			opts.Logger.Debug("layout cache hit", "tree", short(result.TreeHash))
			return result, nil
		}
	}

	nodes := hierarchy.Count(root)
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.Algorithm, nodes)
	start := time.Now()
	l, err := GenerateLayout(root, opts)
	elapsed := time.Since(start)
	hooks.OnLayoutComplete(ctx, opts.Algorithm, nodes, elapsed, err)
	if err != nil {
		return nil, err
	}

	result.Layout = l
	result.fillStats()
	result.Stats.LayoutTime = elapsed

	opts.Logger.Info("computed layout",
		"algorithm", opts.Algorithm,
		"nodes", result.Stats.NodeCount,
		"leaves", result.Stats.LeafCount,
		"duration", elapsed)

	r.store(ctx, cache.TypeTree, r.Keyer.TreeKey(result.TreeHash), treeData, cache.TTLTree, opts.Logger)
	if data, err := graph.MarshalLayout(l); err == nil {
		r.store(ctx, cache.TypeLayout, key, data, r.LayoutTTL, opts.Logger)
	}
	return result, nil
}

// Tree returns the canonical tree previously laid out under hash.
func (r *Runner) Tree(ctx context.Context, hash string) (graph.Tree, error) {
	var (
		data []byte
		hit  bool
	)
	err := cache.RetryWithBackoff(ctx, func() error {
		var err error
		data, hit, err = r.Cache.Get(ctx, r.Keyer.TreeKey(hash))
		return err
	})
	if err != nil {
		return graph.Tree{}, errors.Wrap(errors.ErrCodeInternal, err, "read tree %s", short(hash))
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, cache.TypeTree)
		return graph.Tree{}, errors.New(errors.ErrCodeNotFound, "tree %s not found", short(hash))
	}
	observability.Cache().OnCacheHit(ctx, cache.TypeTree)
	return graph.UnmarshalTree(data)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) lookup(ctx context.Context, key string, logger *log.Logger) (graph.Layout, bool) {
	var (
		data []byte
		hit  bool
	)
	err := cache.RetryWithBackoff(ctx, func() error {
		var err error
		data, hit, err = r.Cache.Get(ctx, key)
		return err
	})
	if err != nil {
		logger.Warn("cache read failed", "err", err)
		return graph.Layout{}, false
	}
	if hit {
		l, err := graph.UnmarshalLayout(data)
		if err == nil {
			observability.Cache().OnCacheHit(ctx, cache.TypeLayout)
			return l, true
		}
		logger.Debug("discarding unreadable cached layout", "err", err)
	}
	observability.Cache().OnCacheMiss(ctx, cache.TypeLayout)
	return graph.Layout{}, false
}

func (r *Runner) store(ctx context.Context, keyType, key string, data []byte, ttl time.Duration, logger *log.Logger) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		logger.Warn("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func (res *Result) fillStats() {
	res.Stats.NodeCount = len(res.Layout.Nodes)
	res.Stats.LeafCount = res.Layout.Leaves
	res.Stats.MaxDepth = res.Layout.MaxDepth
}

func short(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}

package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/arbor/pkg/cache"
	arborerrors "github.com/matzehuels/arbor/pkg/errors"
	"github.com/matzehuels/arbor/pkg/graph"
	"github.com/matzehuels/arbor/pkg/observability"
)

var errUnavailable = errors.New("cache unavailable")

func twoLeaves() graph.Tree {
	return graph.Tree{ID: "root", Children: []graph.Tree{{ID: "a"}, {ID: "b"}}}
}

func newFileRunner(t *testing.T) (*Runner, *cache.FileCache) {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	return NewRunner(fc, nil, nil), fc
}

// failingCache fails every operation.
type failingCache struct{ sets int }

func (f *failingCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errUnavailable
}
func (f *failingCache) Set(context.Context, string, []byte, time.Duration) error {
	f.sets++
	return errUnavailable
}
func (f *failingCache) Delete(context.Context, string) error { return errUnavailable }
func (f *failingCache) Close() error                         { return nil }

// countingHooks records cache events.
type countingHooks struct {
	observability.NoopCacheHooks
	hits, misses, sets int
}

func (c *countingHooks) OnCacheHit(context.Context, string)      { c.hits++ }
func (c *countingHooks) OnCacheMiss(context.Context, string)     { c.misses++ }
func (c *countingHooks) OnCacheSet(context.Context, string, int) { c.sets++ }

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	opts.SetDefaults()

	if opts.Algorithm != "cluster" {
		t.Errorf("Algorithm = %q, want cluster", opts.Algorithm)
	}
	if opts.Width != DefaultWidth || opts.Height != DefaultHeight {
		t.Errorf("frame = %vx%v, want %vx%v", opts.Width, opts.Height, DefaultWidth, DefaultHeight)
	}
	if opts.Separation != "uniform" || opts.Orientation != "left-right" {
		t.Errorf("separation %q orientation %q", opts.Separation, opts.Orientation)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}

	before := opts
	opts.SetDefaults()
	if before != opts {
		t.Error("SetDefaults should be idempotent")
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code arborerrors.Code
	}{
		{"Valid", Options{Algorithm: "tidy", Separation: "sibling", Orientation: "top-down"}, ""},
		{"NodeSize", Options{NodeWidth: 10, NodeHeight: 20}, ""},
		{"UnknownAlgorithm", Options{Algorithm: "radial"}, arborerrors.ErrCodeInvalidAlgorithm},
		{"NegativeWidth", Options{Width: -1}, arborerrors.ErrCodeInvalidInput},
		{"UnknownSeparation", Options{Separation: "wide"}, arborerrors.ErrCodeInvalidInput},
		{"UnknownOrientation", Options{Orientation: "radial"}, arborerrors.ErrCodeInvalidInput},
		{"HalfNodeSize", Options{NodeWidth: 10}, arborerrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.code == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if got := arborerrors.GetCode(err); got != tt.code {
				t.Errorf("code = %q, want %q (err %v)", got, tt.code, err)
			}
		})
	}
}

func TestLayoutKeyOptsDistinguishOptions(t *testing.T) {
	a := Options{}
	a.SetDefaults()
	b := a
	b.Orientation = "top-down"
	if a.LayoutKeyOpts() == b.LayoutKeyOpts() {
		t.Error("orientation should be part of the key")
	}
}

func TestRunnerLayout(t *testing.T) {
	ctx := context.Background()
	r, _ := newFileRunner(t)

	res, err := r.Layout(ctx, twoLeaves(), Options{})
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if res.CacheHit {
		t.Error("first run should miss the cache")
	}
	if len(res.TreeHash) != 64 {
		t.Errorf("TreeHash = %q", res.TreeHash)
	}
	if res.Stats.NodeCount != 3 || res.Stats.LeafCount != 2 || res.Stats.MaxDepth != 1 {
		t.Errorf("Stats = %+v", res.Stats)
	}

	l := res.Layout
	if l.Width != 960 || l.Height != 500 {
		t.Errorf("frame = %vx%v, want 960x500", l.Width, l.Height)
	}
	a := l.Nodes[1]
	if a.ID != "a" || a.X != 125 || a.Y != 960 || a.ScreenX != 960 || a.ScreenY != 125 {
		t.Errorf("node a = %+v", a)
	}
}

func TestRunnerLayoutTopDown(t *testing.T) {
	r, _ := newFileRunner(t)
	res, err := r.Layout(context.Background(), twoLeaves(), Options{Orientation: "top-down"})
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	a := res.Layout.Nodes[1]
	if a.X != 240 || a.Y != 500 || a.ScreenX != 240 || a.ScreenY != 500 {
		t.Errorf("node a = %+v, want breadth across the 960 width", a)
	}
}

func TestRunnerLayoutNodeSize(t *testing.T) {
	r, _ := newFileRunner(t)
	res, err := r.Layout(context.Background(), twoLeaves(), Options{
		Algorithm:   "tidy",
		Orientation: "top-down",
		NodeWidth:   30,
		NodeHeight:  80,
	})
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	nodes := res.Layout.Nodes
	if got := nodes[2].X - nodes[1].X; got != 30 {
		t.Errorf("sibling gap = %v, want 30", got)
	}
	if nodes[1].Y != 80 {
		t.Errorf("depth spacing = %v, want 80", nodes[1].Y)
	}
}

func TestRunnerCaching(t *testing.T) {
	ctx := context.Background()
	r, _ := newFileRunner(t)
	hooks := &countingHooks{}
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	first, err := r.Layout(ctx, twoLeaves(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Layout(ctx, twoLeaves(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheHit {
		t.Error("second run should hit the cache")
	}
	if second.TreeHash != first.TreeHash {
		t.Error("same tree should hash the same")
	}
	if len(second.Layout.Nodes) != 3 || second.Layout.Nodes[2].ScreenY != 375 {
		t.Errorf("cached layout differs: %+v", second.Layout.Nodes)
	}

	refreshed, err := r.Layout(ctx, twoLeaves(), Options{Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if refreshed.CacheHit {
		t.Error("Refresh should bypass the cache")
	}

	other, _ := r.Layout(ctx, twoLeaves(), Options{Algorithm: "tidy"})
	if other.CacheHit {
		t.Error("different options should miss")
	}

	if hooks.hits != 1 || hooks.misses != 2 {
		t.Errorf("hooks hits=%d misses=%d, want 1 and 2", hooks.hits, hooks.misses)
	}
	if hooks.sets != 6 {
		t.Errorf("hooks sets=%d, want 6 (tree + layout per computed run)", hooks.sets)
	}
}

func TestRunnerNameAliasHashesLikeID(t *testing.T) {
	r, _ := newFileRunner(t)
	withID, _ := r.Layout(context.Background(), graph.Tree{ID: "x"}, Options{})
	withName, _ := r.Layout(context.Background(), graph.Tree{Name: "x"}, Options{})
	if withID.TreeHash != withName.TreeHash {
		t.Error("name alias should canonicalise to id")
	}
	if !withName.CacheHit {
		t.Error("canonical tree should share the cache entry")
	}
}

func TestRunnerTree(t *testing.T) {
	ctx := context.Background()
	r, _ := newFileRunner(t)

	res, err := r.Layout(ctx, twoLeaves(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	tree, err := r.Tree(ctx, res.TreeHash)
	if err != nil {
		t.Fatalf("Tree: %v", err)
	}
	if tree.ID != "root" || len(tree.Children) != 2 || tree.Children[1].ID != "b" {
		t.Errorf("Tree = %+v", tree)
	}

	_, err = r.Tree(ctx, strings.Repeat("0", 64))
	if !arborerrors.Is(err, arborerrors.ErrCodeNotFound) {
		t.Errorf("unknown hash: %v, want NOT_FOUND", err)
	}
}

func TestRunnerCacheFailuresAreNotFatal(t *testing.T) {
	defer func(d time.Duration) { cache.RetryDelay = d }(cache.RetryDelay)
	cache.RetryDelay = time.Millisecond

	fc := &failingCache{}
	r := NewRunner(fc, nil, nil)
	res, err := r.Layout(context.Background(), twoLeaves(), Options{})
	if err != nil {
		t.Fatalf("Layout with broken cache: %v", err)
	}
	if res.CacheHit || len(res.Layout.Nodes) != 3 {
		t.Errorf("result = %+v", res)
	}
	if fc.sets != 2 {
		t.Errorf("sets attempted = %d, want 2", fc.sets)
	}
}

func TestRunnerInvalidOptions(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, err := r.Layout(context.Background(), twoLeaves(), Options{Algorithm: "radial"})
	if !arborerrors.Is(err, arborerrors.ErrCodeInvalidAlgorithm) {
		t.Errorf("err = %v, want INVALID_ALGORITHM", err)
	}
}

func TestRunnerCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewRunner(nil, nil, nil)
	if _, err := r.Layout(ctx, twoLeaves(), Options{}); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRunnerUsesRunnerLogger(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	opts := Options{}
	r.applyLogger(&opts)
	if opts.Logger != r.Logger {
		t.Error("unset option logger should take the runner's logger")
	}
}

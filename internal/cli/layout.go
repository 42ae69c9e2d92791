package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/arbor/pkg/graph"
	"github.com/matzehuels/arbor/pkg/pipeline"
	"github.com/matzehuels/arbor/pkg/store"
)

// layoutFlags holds the flags shared by commands that compute layouts.
type layoutFlags struct {
	opts    pipeline.Options
	output  string
	noCache bool
	print   bool
	save    bool
}

// register adds the layout flags to cmd. Zero values defer to the config.
func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.opts.Refresh, "refresh", false, "recompute even when a cached layout exists")
	cmd.Flags().BoolVar(&f.print, "print", false, "print a table of positioned nodes")
	cmd.Flags().BoolVar(&f.save, "save", false, "also store the layout (see 'arbor layouts')")

	cmd.Flags().StringVarP(&f.opts.Algorithm, "algorithm", "a", "", "layout algorithm: cluster, tidy")
	cmd.Flags().Float64Var(&f.opts.Width, "width", 0, "frame width")
	cmd.Flags().Float64Var(&f.opts.Height, "height", 0, "frame height")
	cmd.Flags().Float64Var(&f.opts.NodeWidth, "node-width", 0, "fixed node spacing across the breadth axis (with --node-height)")
	cmd.Flags().Float64Var(&f.opts.NodeHeight, "node-height", 0, "fixed node spacing along the depth axis (with --node-width)")
	cmd.Flags().StringVar(&f.opts.Separation, "separation", "", "neighbour separation: uniform, sibling")
	cmd.Flags().StringVar(&f.opts.Orientation, "orientation", "", "screen orientation: left-right, top-down")
}

// merge fills unset flag values from the configured defaults.
func (f *layoutFlags) merge(d pipeline.Options) pipeline.Options {
	o := f.opts
	if o.Algorithm == "" {
		o.Algorithm = d.Algorithm
	}
	if o.Width == 0 {
		o.Width = d.Width
	}
	if o.Height == 0 {
		o.Height = d.Height
	}
	if o.Separation == "" {
		o.Separation = d.Separation
	}
	if o.Orientation == "" {
		o.Orientation = d.Orientation
	}
	if o.NodeWidth == 0 && o.NodeHeight == 0 {
		o.NodeWidth, o.NodeHeight = d.NodeWidth, d.NodeHeight
	}
	return o
}

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var flags layoutFlags

	cmd := &cobra.Command{
		Use:   "layout <tree.json>",
		Short: "Compute the layout of a tree",
		Long: `Compute the layout of a tree.

The input is a nested JSON tree: {"id": "root", "children": [...]}, where
"name" is accepted in place of "id". The output is a layout.json file with
every node's depth, layout coordinates and screen coordinates.

Results are cached, so laying out the same tree with the same options again
is served from the cache.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], &flags)
		},
	}
	flags.register(cmd)
	return cmd
}

// runLayout loads the tree, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, flags *layoutFlags) error {
	prog := newProgress(c.Logger)
	root, err := graph.ReadTreeFile(input)
	if err != nil {
		return fmt.Errorf("load tree %s: %w", input, err)
	}
	tree, err := graph.FromHierarchy(root)
	if err != nil {
		return fmt.Errorf("load tree %s: %w", input, err)
	}
	prog.done("Read " + input)

	output := flags.output
	if output == "" {
		output = defaultOutput(input)
	}
	return c.layoutTree(ctx, tree, output, flags)
}

// defaultOutput derives <name>.layout.json from the input path.
func defaultOutput(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".layout.json"
}

// layoutTree runs the pipeline on tree and reports the result.
func (c *CLI) layoutTree(ctx context.Context, tree graph.Tree, output string, flags *layoutFlags) error {
	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := flags.merge(c.layoutDefaults())
	opts.Logger = c.Logger

	spin := newSpinner(ctx, c.errOut, fmt.Sprintf("Computing %s layout...", opts.Algorithm)).Start()
	res, err := runner.Layout(ctx, tree, opts)
	spin.Stop()
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}
	if err := graph.WriteLayoutFile(res.Layout, output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Layout complete")
	printFile(output)
	printStats(res.Stats.NodeCount, res.Stats.LeafCount, res.Stats.MaxDepth, res.CacheHit)

	if flags.save {
		id, err := c.saveLayout(ctx, res)
		if err != nil {
			return err
		}
		printDetail("Stored as %s", id)
	}
	if flags.print {
		printNewline()
		printNodeTable(res.Layout)
	}
	return nil
}

func (c *CLI) saveLayout(ctx context.Context, res *pipeline.Result) (string, error) {
	st, err := c.newStore(ctx, true)
	if err != nil {
		return "", fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	rec := store.NewRecord(res.TreeHash, res.Layout)
	if err := st.Save(ctx, rec); err != nil {
		return "", fmt.Errorf("store layout: %w", err)
	}
	return rec.ID, nil
}

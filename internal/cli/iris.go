package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/arbor/pkg/decision"
	"github.com/matzehuels/arbor/pkg/errors"
	"github.com/matzehuels/arbor/pkg/graph"
)

// irisCommand creates the iris command, which grows a decision tree and
// lays it out.
func (c *CLI) irisCommand() *cobra.Command {
	var (
		flags    layoutFlags
		growOpts decision.Options
		samples  string
		dir      string
	)

	cmd := &cobra.Command{
		Use:   "iris",
		Short: "Grow a decision tree on the iris sample and lay it out",
		Long: `Grow a decision tree classifier and lay it out.

By default the tree is grown on a built-in sample of the iris data set. Use
--samples to grow it on a JSON file instead:

  [{"features": [5.1, 3.5, 1.4, 0.2], "label": "setosa"}, ...]

Writes <dir>/iris.tree.json (the tree) and <dir>/iris.layout.json (its
layout). Split nodes are labelled "feature <= threshold", leaves with their
majority class.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runIris(cmd.Context(), samples, dir, growOpts, &flags)
		},
	}

	cmd.Flags().StringVar(&samples, "samples", "", "JSON file of training samples (default: built-in iris sample)")
	cmd.Flags().StringVar(&dir, "dir", ".", "output directory")
	cmd.Flags().StringVar((*string)(&growOpts.Criterion), "criterion", string(decision.DefaultCriterion), "split criterion: gini, entropy")
	cmd.Flags().IntVar(&growOpts.MaxDepth, "max-depth", 0, "maximum tree depth (0 = unlimited)")
	cmd.Flags().IntVar(&growOpts.MinSamplesSplit, "min-samples-split", 2, "smallest node that may be split")
	flags.register(cmd)

	return cmd
}

func (c *CLI) runIris(ctx context.Context, samplesPath, dir string, growOpts decision.Options, flags *layoutFlags) error {
	samples := decision.IrisSample()
	growOpts.FeatureNames = decision.IrisFeatures
	if samplesPath != "" {
		var err error
		if samples, err = readSamples(samplesPath); err != nil {
			return err
		}
		growOpts.FeatureNames = nil
	}

	prog := newProgress(c.Logger)
	dt, err := decision.Grow(samples, growOpts)
	if err != nil {
		return fmt.Errorf("grow tree: %w", err)
	}
	prog.done(fmt.Sprintf("Grew %s tree on %d samples", dt.Criterion, len(samples)))

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	root := dt.Hierarchy()
	treePath := filepath.Join(dir, "iris.tree.json")
	if err := graph.WriteTreeFile(root, treePath); err != nil {
		return fmt.Errorf("write tree %s: %w", treePath, err)
	}
	tree, err := graph.FromHierarchy(root)
	if err != nil {
		return err
	}
	printSuccess("Decision tree written")
	printFile(treePath)

	output := flags.output
	if output == "" {
		output = filepath.Join(dir, "iris.layout.json")
	}
	return c.layoutTree(ctx, tree, output, flags)
}

func readSamples(path string) ([]decision.Sample, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read samples %s: %w", path, err)
	}
	var samples []decision.Sample
	if err := json.Unmarshal(data, &samples); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode samples %s", path)
	}
	return samples, nil
}

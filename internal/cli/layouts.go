package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/arbor/pkg/graph"
)

// layoutsCommand creates the command for managing stored layouts.
func (c *CLI) layoutsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layouts",
		Short: "List, export and delete stored layouts",
	}

	cmd.AddCommand(c.layoutsListCommand())
	cmd.AddCommand(c.layoutsExportCommand())
	cmd.AddCommand(c.layoutsDeleteCommand())

	return cmd
}

func (c *CLI) layoutsListCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored layouts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.newStore(cmd.Context(), true)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			recs, err := st.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				printInfo("No stored layouts")
				return nil
			}
			for _, rec := range recs {
				fmt.Fprintln(stdout, StyleValue.Render(rec.ID)+"  "+StyleDim.Render(fmt.Sprintf("%s  %-7s  %d nodes",
					rec.CreatedAt.Local().Format(time.DateTime),
					rec.Layout.Algorithm,
					len(rec.Layout.Nodes))))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of layouts")
	return cmd
}

func (c *CLI) layoutsExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export <id> <file>",
		Short: "Write a stored layout to a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.newStore(cmd.Context(), true)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			rec, err := st.Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("layout %s: %w", args[0], err)
			}
			if err := graph.WriteLayoutFile(rec.Layout, args[1]); err != nil {
				return err
			}
			printSuccess("Exported %s", rec.ID)
			printFile(args[1])
			return nil
		},
	}
}

func (c *CLI) layoutsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>...",
		Short: "Delete stored layouts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.newStore(cmd.Context(), true)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			for _, id := range args {
				if err := st.Delete(cmd.Context(), id); err != nil {
					return fmt.Errorf("delete %s: %w", id, err)
				}
				printSuccess("Deleted %s", id)
			}
			return nil
		},
	}
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/arbor/internal/server"
	"github.com/matzehuels/arbor/pkg/observability"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the layout HTTP API",
		Long: `Run the layout HTTP API.

Layouts are cached with the configured cache backend and stored with the
configured store backend (memory, file or mongo). Prometheus metrics are
served at /metrics unless --no-metrics is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.Config.Server
			if addr != "" {
				cfg.Addr = addr
			}

			runner, err := c.newRunner(ctx, false)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			st, err := c.newStore(ctx, false)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			scfg := server.Config{
				Addr:           cfg.Addr,
				ReadTimeout:    cfg.ReadTimeout,
				WriteTimeout:   cfg.WriteTimeout,
				RequestTimeout: cfg.RequestTimeout,
				MaxBodyBytes:   cfg.MaxBodyBytes,
				ListLimit:      cfg.ListLimit,
				Defaults:       c.layoutDefaults(),
			}
			if !noMetrics {
				hooks := observability.NewPrometheusHooks()
				observability.SetPipelineHooks(hooks)
				observability.SetCacheHooks(hooks)
				observability.SetHTTPHooks(hooks)
				scfg.Metrics = hooks.Handler()
			}

			c.Logger.Info("starting server",
				"cache", c.Config.Cache.Backend,
				"store", c.Config.Store.Backend)
			return server.New(scfg, runner, st, c.Logger).Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "do not expose /metrics")

	return cmd
}

package cli

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gangsheet/pkg/observability"
	"github.com/matzehuels/gangsheet/pkg/server"
)

// serveCommand creates the serve command. Its flags are bound to the
// server.* config keys.
func (c *CLI) serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the gang sheet HTTP service",
		Long: `Serve exposes the planner over HTTP.

  POST /merge    multipart upload (file, quantity, rotate, preset, format, ...)
                 responds with the rendered gang sheet
  POST /plan     same form, responds with the JSON placement plan
  GET  /presets  available sheet presets
  GET  /healthz  health check
  GET  /metrics  Prometheus metrics (with --metrics)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context())
		},
	}

	d := DefaultConfig().Server
	cmd.Flags().String("addr", d.Addr, "listen address")
	cmd.Flags().Int("max-upload-mb", d.MaxUploadMB, "maximum upload size in MiB")
	cmd.Flags().Bool("metrics", false, "serve Prometheus metrics at /metrics")
	cmd.Flags().String("cache-backend", CacheFile, "cache backend: file, redis, none")
	cmd.Flags().String("redis-url", "", "Redis URL for the redis cache backend")
	cmd.Flags().String("presets-file", "", "TOML file with extra sheet presets")

	return cmd
}

func (c *CLI) runServe(ctx context.Context) error {
	cfg := c.config()

	runner, err := c.newRunner(ctx, false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	srvCfg := server.Config{
		Addr:           cfg.Server.Addr,
		MaxUploadBytes: int64(cfg.Server.MaxUploadMB) << 20,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}
	if cfg.Server.Metrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		observability.NewMetrics(reg).Register()
		srvCfg.Metrics = reg
	}

	c.Logger.Info("starting server",
		"addr", srvCfg.Addr,
		"cache", cfg.Cache.Backend,
		"metrics", cfg.Server.Metrics)
	return server.New(runner, c.Logger, srvCfg).ListenAndServe(ctx)
}

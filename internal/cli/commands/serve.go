package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ceu-caminhodomar/portal/internal/cli/config"
	"github.com/ceu-caminhodomar/portal/internal/portal"
	"github.com/ceu-caminhodomar/portal/internal/server"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Port  int
	Watch bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the portal JSON API",
		Long: `Start an HTTP server exposing the datasets as a JSON API.

Endpoints:
- GET  /api/status                  dataset status
- GET  /api/people?by=&q=           person search
- GET  /api/{spaces|activities}     filtered schedule (q, space, day)
- GET  /api/{dataset}/options       spaces and days for the filters
- POST /api/{dataset}/{n}/summary   AI summary of record n
- POST /api/refresh                 reload every dataset
- GET  /api/events                  status updates (server-sent events)

With --watch the config file is watched and changes are applied without a
restart.`,
		Example: `  # Serve on the configured port (default 8080)
  portal serve

  # Serve on another port without watching the config file
  portal serve --port 3000 --watch=false`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 0, fmt.Sprintf("Port to serve on (default: %d)", config.DefaultPort))
	cmd.Flags().BoolVar(&opts.Watch, "watch", true, "Reload when the config file changes")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	cfg := cc.Cfg

	// CLI flags override config file
	port := cfg.Server.Port
	if opts.Port != 0 {
		port = opts.Port
	}
	watch := cfg.Server.Watch
	if cmd.Flags().Changed("watch") {
		watch = opts.Watch
	}

	if err := cc.Portal.Load(cmd.Context()); err != nil {
		// Not fatal: the API reports the failure and /api/refresh can retry.
		cc.Renderer.Error(fmt.Sprintf("%s: %v", portal.LoadErrorText, err))
	}

	srvCfg := server.Config{
		Portal:        cc.Portal,
		Summaries:     cc.Summaries,
		Columns:       cfg.Columns,
		Port:          port,
		SessionSecret: cfg.Server.SessionSecret,
		Logger:        cc.Logger,
	}
	if watch && cfg.ConfigFile != "" {
		srvCfg.WatchFile = cfg.ConfigFile
		srvCfg.Reload = newReloader(cmd, cfg.ConfigFile)
	}

	srv := server.New(srvCfg)

	cc.Renderer.Println(fmt.Sprintf("Serving the portal API on http://localhost:%d", port))
	if srvCfg.WatchFile != "" {
		cc.Renderer.Muted(fmt.Sprintf("Watching %s", srvCfg.WatchFile))
	}
	cc.Renderer.Println("Press Ctrl+C to stop")

	return srv.Serve(cmd.Context())
}

// newReloader re-reads the config file, keeping the command-line overrides.
func newReloader(cmd *cobra.Command, file string) server.Reloader {
	return func(_ context.Context) (server.Settings, error) {
		cfg, err := config.LoadConfig(file, cmd.Root().PersistentFlags())
		if err != nil {
			return server.Settings{}, err
		}
		if err := cfg.RequireSource(); err != nil {
			return server.Settings{}, err
		}
		logger := config.GetLogger(cmd.Context())
		return server.Settings{
			Fetcher: NewFetcher(cfg, logger),
			Tabs:    cfg.Tabs,
			Columns: cfg.Columns,
		}, nil
	}
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/adminkit"
	"github.com/vango-dev/adminkit/pkg/module"
)

func serveCmd(opts *globalOptions) *cobra.Command {
	var (
		addr    string
		preload bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the admin server",
		Long: `Start the admin server.

The server renders module pages inside the admin layout, exposes the
drawer API under /_admin and Prometheus metrics on the configured path.
It stops gracefully on SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := opts.loadConfig()
			if err != nil {
				return err
			}
			mods, drawers, err := opts.registries()
			if err != nil {
				return err
			}

			cfg := adminkit.ConfigFromFile(fc)
			cfg.Modules = mods
			cfg.Drawers = drawers
			cfg.Logger = adminkit.NewLogger(fc.Log, cmd.ErrOrStderr())
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if preload {
				cfg.Preload = true
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cmd, cfg, mods)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Address to listen on (default from config)")
	cmd.Flags().BoolVar(&preload, "preload", false, "Load every lazy module before serving")
	return cmd
}

func serve(ctx context.Context, cmd *cobra.Command, cfg adminkit.Config, mods *module.Registry) error {
	app := adminkit.New(cfg)
	success(cmd, "adminkit %s on http://%s (%d routes)", adminkit.Version, cfg.Server.Addr, mods.Len())
	return app.Run(ctx)
}

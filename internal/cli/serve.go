package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"options-dashboard/internal/server"
)

func addServeCommand(rootCmd *cobra.Command, app *App) {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard JSON API",
		Long: `Serve chains, exposure views, snapshots and indicators over HTTP under
/api/v1, with prometheus metrics at /metrics. Stops cleanly on SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.Config
			if addr != "" {
				cfg.Server.Addr = addr
			}

			srv := server.New(app.Gateway, app.Service, server.Config{
				Addr:          cfg.Server.Addr,
				Compression:   cfg.Server.Compression,
				ReadTimeout:   cfg.Server.ReadTimeout,
				WriteTimeout:  cfg.Server.WriteTimeout,
				DefaultTicker: cfg.Display.DefaultTicker,
				Palette:       cfg.Display.Palette,
				Scale:         cfg.Display.Scale,
			}, app.Logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			NewOutput(cmd).Info("Serving on %s (provider: %s)", cfg.Server.Addr, app.Gateway.ProviderName())
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	rootCmd.AddCommand(cmd)
}

package main

import (
	"context"
	"log/slog"

	"github.com/aretw0/lifecycle"
	"github.com/spf13/cobra"

	"github.com/aretw0/blogadmin/internal/api"
)

var (
	listenAddr string
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the admin operations as a JSON API",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app := mustOpenApp(cmd)
		ctx := cmd.Context()

		addr := app.Settings.Listen
		if cmd.Flags().Changed("listen") {
			addr = listenAddr
		}

		opts := []api.Option{api.WithLogger(slog.Default())}
		if app.Metrics != nil {
			opts = append(opts, api.WithMetricsHandler(app.Metrics.Handler()))
		}
		server := api.NewServer(app.Service, opts...)

		if serveWatch {
			// Keeps the consistency gauge current between requests.
			app.Service.Report(ctx)
			lifecycle.Go(ctx, func(ctx context.Context) error {
				return watchContent(ctx, app, func() { app.Service.Report(ctx) })
			}, lifecycle.WithErrorHandler(func(err error) {
				slog.Error("content watcher stopped", "error", err)
			}))
		}

		if err := server.Run(ctx, addr); err != nil {
			fatal("Server failed", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "Listen address (default from settings, 127.0.0.1:8080)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "Refresh the consistency metrics when the content changes")
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/blogadmin"
	lcadapter "github.com/aretw0/blogadmin/pkg/adapters/lifecycle"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the consistency report whenever the content changes",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app := mustOpenApp(cmd)
		ctx := cmd.Context()

		report := app.Service.Report(ctx)
		if !mustEmit(report) {
			printReport(os.Stdout, report)
		}

		err := watchContent(ctx, app, func() {
			report := app.Service.Report(ctx)
			if !mustEmit(report) {
				fmt.Println()
				printReport(os.Stdout, report)
			}
		})
		if err != nil {
			fatal("Failed to watch content", err)
		}
	},
}

// watchContent calls onChange after every debounced burst of content
// changes until ctx is done.
func watchContent(ctx context.Context, app *blogadmin.App, onChange func()) error {
	if app.Content == nil {
		return fmt.Errorf("content store does not support watching")
	}
	src := lcadapter.NewSource(app.Content, app.Settings.Debounce)
	if err := src.Start(ctx); err != nil {
		return err
	}
	slog.Info("watching content", "root", app.Settings.ContentRoot)
	for ev := range src.Events() {
		slog.Info("content changed", "event", ev.String())
		onChange()
	}
	return nil
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

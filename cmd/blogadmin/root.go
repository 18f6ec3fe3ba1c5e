package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/blogadmin"
	"github.com/aretw0/blogadmin/internal/config"
)

var (
	verbose      bool
	jsonOutput   bool
	outputFormat string
	settingsPath string
	configPath   string
	contentRoot  string
	logLevel     = new(slog.LevelVar)
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "blogadmin",
	Short: "Administer the categories and authors of a Markdown blog",
	Long: `blogadmin keeps a Markdown blog's declared categories and authors
(userconf.py) consistent with the category folders and the front matter
of its posts. It edits userconf.py in place, preserving its layout.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logLevel.Set(slog.LevelDebug)
		}
		opts := &slog.HandlerOptions{
			Level: logLevel,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	pf.BoolVar(&jsonOutput, "json", false, "Output in JSON format (same as --format json)")
	pf.StringVarP(&outputFormat, "format", "o", "text", "Output format: text, json or yaml")
	pf.StringVar(&settingsPath, "settings", "", "Settings file (default: blogadmin.yaml in the blog root)")
	pf.StringVar(&configPath, "config", "", "Path to userconf.py")
	pf.StringVar(&contentRoot, "content", "", "Content root directory")
}

// resolveSettings loads the settings of the blog that contains wd. Relative
// paths are anchored at the blog root, or at the directory of an explicit
// settings file, so commands work from anywhere inside the blog.
func resolveSettings(wd, settingsFile string) (config.Settings, string, error) {
	base := wd
	if root, err := blogadmin.FindRoot(wd); err == nil {
		base = root
	}
	if settingsFile != "" {
		if !filepath.IsAbs(settingsFile) {
			settingsFile = filepath.Join(wd, settingsFile)
		}
		base = filepath.Dir(settingsFile)
	} else if candidate := filepath.Join(base, config.DefaultSettingsFile); fileExists(candidate) {
		settingsFile = candidate
	}

	loader := config.Loader{
		SettingsFile: settingsFile,
		EnvFile:      filepath.Join(base, config.DefaultEnvFile),
	}
	s, err := loader.Load()
	if err != nil {
		return s, settingsFile, err
	}
	return s.Resolve(base), settingsFile, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// loadSettings resolves settings and applies the global flags on top.
// --config and --content stay relative to the working directory.
func loadSettings(cmd *cobra.Command) (config.Settings, error) {
	wd, err := os.Getwd()
	if err != nil {
		return config.Settings{}, err
	}
	s, path, err := resolveSettings(wd, settingsPath)
	if err != nil {
		return s, err
	}
	flags := cmd.Flags()
	if flags.Changed("config") {
		s.ConfigPath = configPath
	}
	if flags.Changed("content") {
		s.ContentRoot = contentRoot
	}
	if !verbose {
		logLevel.Set(s.Level())
	}
	slog.Debug("settings resolved", "settings", path, "config", s.ConfigPath, "content", s.ContentRoot)
	return s, s.Validate()
}

// openApp loads settings and wires the application.
func openApp(cmd *cobra.Command) (*blogadmin.App, error) {
	s, err := loadSettings(cmd)
	if err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}
	return blogadmin.New(cmd.Context(), s, blogadmin.WithLogger(slog.Default()))
}

func mustOpenApp(cmd *cobra.Command) *blogadmin.App {
	app, err := openApp(cmd)
	if err != nil {
		fatal("Failed to initialize blogadmin", err)
	}
	return app
}

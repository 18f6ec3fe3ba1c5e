// Package platform wires Settings into a ready core.Service.
package platform

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/blogadmin/internal/config"
	"github.com/aretw0/blogadmin/pkg/adapters/fs"
	"github.com/aretw0/blogadmin/pkg/adapters/pyconf"
	"github.com/aretw0/blogadmin/pkg/core"
	"github.com/aretw0/blogadmin/pkg/git"
	"github.com/aretw0/blogadmin/pkg/metrics"
)

// App bundles the service with the adapters behind it.
type App struct {
	Settings config.Settings
	Service  *core.Service
	Logger   *slog.Logger

	// Content is nil when a custom content store was injected.
	Content *fs.Repository
	// Config is nil when a custom config store was injected.
	Config *pyconf.Store
	// Metrics is nil when a custom recorder was injected.
	Metrics *metrics.PrometheusRecorder
}

// New builds the application from s.
//
//	app, err := platform.New(settings, platform.WithLogger(logger))
func New(ctx context.Context, s config.Settings, opts ...Option) (*App, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	app := &App{Settings: s, Logger: logger}

	content := o.content
	if content == nil {
		app.Content = fs.NewRepository(fs.Config{
			Root:      s.ContentRoot,
			Pattern:   s.Pattern,
			Logger:    logger.With("component", "content"),
			IndexPath: s.IndexPath,
		})
		content = app.Content
	}

	store := o.config
	if store == nil {
		storeOpts := []pyconf.Option{pyconf.WithLogger(logger.With("component", "config"))}
		if s.BackupDir != "" {
			storeOpts = append(storeOpts, pyconf.WithBackupDir(s.BackupDir))
		}
		app.Config = pyconf.NewStore(s.ConfigPath, storeOpts...)
		store = app.Config
	}

	recorder := o.recorder
	if recorder == nil {
		app.Metrics = metrics.NewPrometheusRecorder(nil)
		recorder = app.Metrics
	}

	versioner := o.versioner
	if versioner == nil && s.Git {
		v, err := newGitVersioner(ctx, s.ConfigPath, logger.With("component", "git"))
		if err != nil {
			return nil, err
		}
		versioner = v
	}

	svcOpts := []core.ServiceOption{
		core.WithLogger(logger),
		core.WithAliases(s.Aliases),
		core.WithRecorder(recorder),
	}
	if versioner != nil {
		svcOpts = append(svcOpts, core.WithVersioner(versioner))
	}
	app.Service = core.NewService(store, content, svcOpts...)

	logger.Debug("application wired",
		"config", s.ConfigPath,
		"content", s.ContentRoot,
		"pattern", s.Pattern,
		"git", versioner != nil,
	)
	return app, nil
}

// newGitVersioner locates the work tree holding the configuration file.
func newGitVersioner(ctx context.Context, configPath string, logger *slog.Logger) (*git.Versioner, error) {
	dir, err := filepath.Abs(filepath.Dir(configPath))
	if err != nil {
		return nil, err
	}
	client := git.NewClient(dir, logger)
	if !client.IsRepo(ctx) {
		return nil, fmt.Errorf("git versioning enabled but %s is not inside a git work tree", dir)
	}
	top, err := client.Run(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, err
	}
	client.WorkDir = top
	return git.NewVersioner(client), nil
}

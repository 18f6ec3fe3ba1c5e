package platform

import (
	"log/slog"

	"github.com/aretw0/blogadmin/pkg/core"
)

// options holds the wiring overrides for New.
type options struct {
	logger    *slog.Logger
	recorder  core.Recorder
	versioner core.Versioner
	content   core.ContentStore
	config    core.ConfigStore
}

// Option defines a functional option for configuring the application.
type Option func(*options)

func defaultOptions() *options {
	return &options{}
}

// WithLogger sets the logger shared by every component.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRecorder replaces the Prometheus recorder.
func WithRecorder(r core.Recorder) Option {
	return func(o *options) {
		o.recorder = r
	}
}

// WithVersioner replaces the git versioner, regardless of Settings.Git.
func WithVersioner(v core.Versioner) Option {
	return func(o *options) {
		o.versioner = v
	}
}

// WithContentStore injects a custom content store (e.g. a mock).
// If provided, the filesystem repository is not created.
func WithContentStore(c core.ContentStore) Option {
	return func(o *options) {
		o.content = c
	}
}

// WithConfigStore injects a custom configuration store.
// If provided, the userconf.py store is not created.
func WithConfigStore(c core.ConfigStore) Option {
	return func(o *options) {
		o.config = c
	}
}

package blogadmin

import (
	"context"
	"log/slog"

	"github.com/aretw0/blogadmin/internal/config"
	"github.com/aretw0/blogadmin/internal/platform"
	"github.com/aretw0/blogadmin/pkg/core"
)

// --- Types ---

// Settings is the resolved runtime configuration.
type Settings = config.Settings

// App bundles the service with its adapters.
type App = platform.App

// Option configures the application wiring.
type Option = platform.Option

// --- Configuration ---

// DefaultSettings returns the built-in defaults.
func DefaultSettings() Settings {
	return config.Defaults()
}

// LoadSettings resolves settings from .env, the YAML settings file and the
// BLOGADMIN_* environment. An empty path reads blogadmin.yaml when present.
func LoadSettings(path string) (Settings, error) {
	return config.Load(path)
}

// WithLogger sets the logger shared by every component.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRecorder replaces the Prometheus metrics recorder.
func WithRecorder(r core.Recorder) Option {
	return platform.WithRecorder(r)
}

// WithVersioner replaces the git versioner.
func WithVersioner(v core.Versioner) Option {
	return platform.WithVersioner(v)
}

// WithContentStore injects a custom content store.
func WithContentStore(c core.ContentStore) Option {
	return platform.WithContentStore(c)
}

// WithConfigStore injects a custom configuration store.
func WithConfigStore(c core.ConfigStore) Option {
	return platform.WithConfigStore(c)
}

// --- Factory ---

// New wires the service described by s.
func New(ctx context.Context, s Settings, opts ...Option) (*App, error) {
	return platform.New(ctx, s, opts...)
}

// FindRoot looks upwards from dir for a blog checkout (blogadmin.yaml or userconf.py).
func FindRoot(dir string) (string, error) {
	return platform.FindRoot(dir)
}

// --- Commit messages ---

const (
	CommitTypeFeat     = core.CommitTypeFeat
	CommitTypeFix      = core.CommitTypeFix
	CommitTypeRefactor = core.CommitTypeRefactor
	CommitTypeChore    = core.CommitTypeChore
)

// FormatChangeReason builds a Conventional Commit message with the blogadmin footer.
func FormatChangeReason(ctype, scope, subject, body string) string {
	return core.FormatCommitMessage(ctype, scope, subject, body)
}

// AppendFooter appends the blogadmin footer to an arbitrary message.
func AppendFooter(msg string) string {
	return core.AppendFooter(msg)
}

// WithChangeReason attaches a commit message for the next mutation.
func WithChangeReason(ctx context.Context, msg string) context.Context {
	return context.WithValue(ctx, core.ChangeReasonKey, msg)
}

// Package fs implements the content side of blogadmin on the local
// filesystem: scanning Markdown front matter, listing category folders,
// staging category migrations and watching the tree for changes.
package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/blogadmin/pkg/core"
)

var errStopWalk = errors.New("stop walk")

// DefaultPattern selects the Markdown documents under the content root.
const DefaultPattern = "**/*.md"

// Config holds the configuration for the filesystem content repository.
type Config struct {
	Root    string
	Pattern string // doublestar glob relative to Root, e.g. "**/*.md"
	Logger  *slog.Logger

	// IndexPath enables the front-matter cache and persists it between runs.
	// Empty disables caching: every scan rereads every document.
	IndexPath string
}

// Repository implements core.ContentStore on a directory tree.
type Repository struct {
	Root   string
	config Config
	cache  *cache

	mu            sync.RWMutex
	watcherActive bool
	lastScan      *time.Time
	lastScanned   int
}

// NewRepository creates a new filesystem-backed content repository.
func NewRepository(config Config) *Repository {
	if config.Pattern == "" {
		config.Pattern = DefaultPattern
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	r := &Repository{Root: config.Root, config: config, cache: newCache(config.IndexPath)}
	if err := r.cache.load(); err != nil {
		config.Logger.Warn("ignoring front-matter cache", "path", config.IndexPath, "error", err)
	}
	return r
}

// ignoredDir reports directories that never hold content.
func ignoredDir(name string) bool {
	return strings.HasPrefix(name, ".") || name == "__pycache__"
}

// checkRoot fails when the content root is missing or not a directory.
func (r *Repository) checkRoot() error {
	info, err := os.Stat(r.Root)
	if err != nil {
		return fmt.Errorf("content root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("content root %s is not a directory", r.Root)
	}
	return nil
}

// walk calls fn for every document file under the root that matches the
// pattern. It stops early when fn returns false or ctx is cancelled.
func (r *Repository) walk(ctx context.Context, fn func(path, rel string, d fs.DirEntry) bool) error {
	err := filepath.WalkDir(r.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			r.config.Logger.Warn("skipping unreadable path", "path", path, "error", err)
			if d != nil && d.IsDir() && path != r.Root {
				return filepath.SkipDir
			}
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if path != r.Root && ignoredDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), TempFilePrefix) {
			return nil
		}
		rel, err := filepath.Rel(r.Root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if ok, _ := doublestar.Match(r.config.Pattern, rel); !ok {
			return nil
		}
		if !fn(path, rel, d) {
			return errStopWalk
		}
		return nil
	})
	if errors.Is(err, errStopWalk) {
		return nil
	}
	return err
}

func (r *Repository) recordScan(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.lastScan = &now
	r.lastScanned = n
}

var _ core.ContentStore = (*Repository)(nil)

package fs

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last change before an event is emitted.
const DefaultDebounce = 200 * time.Millisecond

// ChangeEvent reports a burst of changes in the content tree.
type ChangeEvent struct {
	Path  string // last path seen in the burst, relative to the root
	Op    string
	Count int // number of raw filesystem events coalesced
	Time  time.Time
}

// String implements lifecycle.Event.
func (e ChangeEvent) String() string {
	return fmt.Sprintf("%s %s (%d change(s))", strings.ToLower(e.Op), e.Path, e.Count)
}

// Watch observes the content tree and emits one debounced event per burst
// of changes. The channel is closed when ctx is done.
func (r *Repository) Watch(ctx context.Context, debounce time.Duration) (<-chan ChangeEvent, error) {
	if err := r.checkRoot(); err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := r.recursiveAdd(watcher, r.Root); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	out := make(chan ChangeEvent)
	r.setWatcherActive(true)
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(out)
		defer r.setWatcherActive(false)
		defer watcher.Close()
		return r.watchLoop(ctx, watcher, debounce, out)
	}, lifecycle.WithErrorHandler(func(err error) {
		if r.config.Logger.Enabled(ctx, slog.LevelDebug) {
			r.config.Logger.Error("watcher failed", "error", err, "stack", string(debug.Stack()))
			return
		}
		r.config.Logger.Error("watcher failed", "error", err)
	}))
	return out, nil
}

func (r *Repository) recursiveAdd(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != r.Root && ignoredDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// relevant reports whether a raw event may change the report: a matching
// document or a directory (which may be a category folder).
func (r *Repository) relevant(ev fsnotify.Event) (string, bool) {
	rel, err := filepath.Rel(r.Root, ev.Name)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	base := filepath.Base(ev.Name)
	if strings.HasPrefix(base, TempFilePrefix) {
		return "", false
	}
	for _, part := range strings.Split(rel, "/") {
		if ignoredDir(part) {
			return "", false
		}
	}
	if ok, _ := doublestar.Match(r.config.Pattern, rel); ok {
		return rel, true
	}
	// Removed or renamed entries can no longer be stat'ed; treat extensionless
	// names as folders.
	if filepath.Ext(base) == "" {
		return rel, true
	}
	return "", false
}

func (r *Repository) watchLoop(ctx context.Context, w *fsnotify.Watcher, debounce time.Duration, out chan<- ChangeEvent) error {
	var (
		pending *ChangeEvent
		timer   *time.Timer
		fire    <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			r.config.Logger.Debug("event received", "name", ev.Name, "op", ev.Op.String())
			if ev.Has(fsnotify.Create) {
				// New category or year/month folders must be watched too.
				_ = r.recursiveAdd(w, ev.Name)
			}
			rel, ok := r.relevant(ev)
			if !ok {
				continue
			}
			if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				r.cache.remove(rel)
			}
			if pending == nil {
				pending = &ChangeEvent{}
			}
			pending.Path = rel
			pending.Op = ev.Op.String()
			pending.Count++
			pending.Time = time.Now()
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if pending == nil {
				continue
			}
			select {
			case out <- *pending:
			case <-ctx.Done():
				return nil
			}
			pending = nil

		case err, ok := <-w.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			r.config.Logger.Error("fsnotify error", "error", err)
		}
	}
}

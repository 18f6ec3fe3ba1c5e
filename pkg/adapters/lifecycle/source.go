// Package lifecycle exposes content changes as a lifecycle.Source.
package lifecycle

import (
	"context"
	"time"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/blogadmin/pkg/adapters/fs"
)

// Watcher is the part of the fs repository the source needs.
type Watcher interface {
	Watch(ctx context.Context, debounce time.Duration) (<-chan fs.ChangeEvent, error)
}

type contentSource struct {
	watcher  Watcher
	debounce time.Duration
	out      chan lifecycle.Event
}

// NewSource creates a lifecycle.Source that emits debounced content changes.
func NewSource(w Watcher, debounce time.Duration) lifecycle.Source {
	return &contentSource{
		watcher:  w,
		debounce: debounce,
		out:      make(chan lifecycle.Event),
	}
}

func (s *contentSource) Events() <-chan lifecycle.Event {
	return s.out
}

// Start begins watching. The events channel closes when ctx is done or the
// watcher stops.
func (s *contentSource) Start(ctx context.Context) error {
	events, err := s.watcher.Watch(ctx, s.debounce)
	if err != nil {
		close(s.out)
		return err
	}
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-events:
				if !ok {
					return nil
				}
				// fs.ChangeEvent implements lifecycle.Event (has String())
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}

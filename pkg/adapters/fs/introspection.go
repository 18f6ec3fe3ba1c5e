package fs

import (
	"time"

	"github.com/aretw0/introspection"
)

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	Root          string     `json:"root"`
	Pattern       string     `json:"pattern"`
	WatcherActive bool       `json:"watcher_active"`
	LastScan      *time.Time `json:"last_scan,omitempty"`
	LastScanned   int        `json:"last_scanned"`
	CacheEntries  int        `json:"cache_entries"`
	CacheHits     int        `json:"cache_hits"`
	CacheMisses   int        `json:"cache_misses"`
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	hits, misses := r.cache.stats()
	entries := r.cache.len()

	r.mu.RLock()
	defer r.mu.RUnlock()

	return RepositoryState{
		CacheEntries:  entries,
		CacheHits:     hits,
		CacheMisses:   misses,
		Root:          r.Root,
		Pattern:       r.config.Pattern,
		WatcherActive: r.watcherActive,
		LastScan:      r.lastScan,
		LastScanned:   r.lastScanned,
	}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "content"
}

var _ introspection.Introspectable = (*Repository)(nil)
var _ introspection.Component = (*Repository)(nil)

func (r *Repository) setWatcherActive(active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.watcherActive = active
}

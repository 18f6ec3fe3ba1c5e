package fs

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/blogadmin/pkg/core"
)

const indexVersion = 1

// indexEntry holds the parsed front matter of one document.
type indexEntry struct {
	Metadata core.Metadata `json:"metadata"`
	ModTime  time.Time     `json:"mod_time"`
	Size     int64         `json:"size"`
}

type index struct {
	Version int                    `json:"version"`
	Entries map[string]*indexEntry `json:"entries"` // keyed by slash-separated relative path
}

// cache keeps parsed front matter between runs, persisted at path. Entries
// are valid while the file's mtime and size are unchanged. A nil *cache is
// disabled: every lookup misses and nothing is stored.
type cache struct {
	path string

	mu    sync.RWMutex
	index index
	dirty bool
	hits  int
	miss  int
}

// newCache returns nil for an empty path, so a repository without an index
// rereads every document on every scan.
func newCache(path string) *cache {
	if path == "" {
		return nil
	}
	return &cache{path: path, index: index{Version: indexVersion, Entries: map[string]*indexEntry{}}}
}

// load reads the persisted index. A missing or corrupt file yields an empty cache.
func (c *cache) load() error {
	if c == nil {
		return nil
	}
	data, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read cache: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	var idx index
	if err := json.Unmarshal(data, &idx); err != nil || idx.Version != indexVersion || idx.Entries == nil {
		c.index.Entries = map[string]*indexEntry{}
		return nil
	}
	c.index = idx
	c.dirty = false
	return nil
}

// save persists the index when it changed since the last save.
func (c *cache) save() error {
	if c == nil {
		return nil
	}
	c.mu.RLock()
	if !c.dirty {
		c.mu.RUnlock()
		return nil
	}
	data, err := json.MarshalIndent(c.index, "", "  ")
	c.mu.RUnlock()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return err
	}
	if err := WriteFileAtomic(c.path, data, 0o644); err != nil {
		return err
	}

	c.mu.Lock()
	c.dirty = false
	c.mu.Unlock()
	return nil
}

// get returns the cached metadata when the entry is fresh.
func (c *cache) get(rel string, info os.FileInfo) (core.Metadata, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.index.Entries[rel]
	if !ok || !e.ModTime.Equal(info.ModTime()) || e.Size != info.Size() {
		c.miss++
		return nil, false
	}
	c.hits++
	return maps.Clone(e.Metadata), true
}

func (c *cache) set(rel string, info os.FileInfo, meta core.Metadata) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index.Entries[rel] = &indexEntry{Metadata: meta, ModTime: info.ModTime(), Size: info.Size()}
	c.dirty = true
}

func (c *cache) remove(rel string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.index.Entries[rel]; ok {
		delete(c.index.Entries, rel)
		c.dirty = true
	}
}

// prune drops entries for documents not seen in a complete scan.
func (c *cache) prune(keep map[string]bool) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for rel := range c.index.Entries {
		if !keep[rel] {
			delete(c.index.Entries, rel)
			c.dirty = true
		}
	}
}

func (c *cache) len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.index.Entries)
}

func (c *cache) stats() (hits, misses int) {
	if c == nil {
		return 0, 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.miss
}

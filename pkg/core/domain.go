// Package core holds the blog admin domain: documents, categories, authors,
// the configuration snapshot and the rules that mutate it.
package core

import (
	"path/filepath"
	"strings"
	"time"
)

// Metadata is the flat front-matter mapping of a document. Keys are lower-cased.
type Metadata map[string]string

// Document is a Markdown content item identified by its file path.
type Document struct {
	Path     string // absolute (or root-joined) path on disk
	RelPath  string // slash-separated path relative to the content root
	Metadata Metadata
	ModTime  time.Time
}

// Stem returns the file name without its extension.
func (d Document) Stem() string {
	base := filepath.Base(d.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Slug returns the slug from front matter, or the filename stem when absent.
func (d Document) Slug() string {
	if s := d.Metadata["slug"]; s != "" {
		return s
	}
	return d.Stem()
}

// Title returns the front-matter title, falling back to the filename stem.
func (d Document) Title() string {
	if t := d.Metadata["title"]; t != "" {
		return t
	}
	return d.Stem()
}

func (d Document) Date() string     { return d.Metadata["date"] }
func (d Document) Category() string { return d.Metadata["category"] }
func (d Document) Summary() string  { return d.Metadata["summary"] }

// Authors splits the comma-separated authors value.
func (d Document) Authors() []string {
	return splitList(d.Metadata["authors"])
}

// Tags splits the comma-separated tags value.
func (d Document) Tags() []string {
	return splitList(d.Metadata["tags"])
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Status is the lifecycle flag of a category or author.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// Category is a declared category: a technical id and a display name.
type Category struct {
	ID          string `json:"id" yaml:"id"`
	DisplayName string `json:"display_name" yaml:"display_name"`
	Status      Status `json:"status" yaml:"status"`
}

// Author is a declared author, keyed by display name.
type Author struct {
	Name   string `json:"name" yaml:"name"`
	Status Status `json:"status" yaml:"status"`
}

// Snapshot is the declarative configuration as loaded for one operation.
// It is a value: mutations return a modified copy.
type Snapshot struct {
	Authors         []Author   `json:"authors" yaml:"authors"`
	DefaultAuthor   string     `json:"default_author" yaml:"default_author"`
	Categories      []Category `json:"categories" yaml:"categories"`
	DefaultCategory string     `json:"default_category" yaml:"default_category"`
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Authors = append([]Author(nil), s.Authors...)
	out.Categories = append([]Category(nil), s.Categories...)
	return out
}

// CategoryIDs returns the declared category ids in declaration order.
func (s Snapshot) CategoryIDs() []string {
	ids := make([]string, 0, len(s.Categories))
	for _, c := range s.Categories {
		ids = append(ids, c.ID)
	}
	return ids
}

func (s Snapshot) categoryIndex(id string) int {
	for i, c := range s.Categories {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// Category looks up a declared category by id.
func (s Snapshot) Category(id string) (Category, bool) {
	if i := s.categoryIndex(id); i >= 0 {
		return s.Categories[i], true
	}
	return Category{}, false
}

func (s Snapshot) authorIndex(name string) int {
	for i, a := range s.Authors {
		if a.Name == name {
			return i
		}
	}
	return -1
}

// Author looks up a declared author by name.
func (s Snapshot) Author(name string) (Author, bool) {
	if i := s.authorIndex(name); i >= 0 {
		return s.Authors[i], true
	}
	return Author{}, false
}

// ActiveAuthors returns the names of all active authors in declaration order.
func (s Snapshot) ActiveAuthors() []string {
	var out []string
	for _, a := range s.Authors {
		if a.Status != StatusInactive {
			out = append(out, a.Name)
		}
	}
	return out
}

// Result is returned by every administrative mutation.
type Result struct {
	Snapshot Snapshot `json:"snapshot"`
	Message  string   `json:"message"`
	Migrated int      `json:"migrated,omitempty"`
}

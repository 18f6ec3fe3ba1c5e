package fs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"maps"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/aretw0/blogadmin/pkg/core"
)

const maxLineSize = 1 << 20

var errInvalidUTF8 = errors.New("front matter is not valid UTF-8")

// ParseFrontMatter reads key:value lines up to the first blank line. Keys
// are lower-cased, both sides trimmed, and the last duplicate wins. Lines
// without a colon are ignored.
func ParseFrontMatter(r io.Reader) (core.Metadata, error) {
	meta := core.Metadata{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	first := true
	for sc.Scan() {
		line := sc.Text()
		if first {
			line = strings.TrimPrefix(line, "\ufeff")
			first = false
		}
		if !utf8.ValidString(line) {
			return nil, errInvalidUTF8
		}
		if strings.TrimSpace(line) == "" {
			break
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		meta[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(value)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return meta, nil
}

func (r *Repository) readDocument(path, rel string, d fs.DirEntry) (core.Document, error) {
	info, err := d.Info()
	if err != nil {
		return core.Document{}, err
	}
	doc := core.Document{Path: path, RelPath: rel, ModTime: info.ModTime()}
	if meta, ok := r.cache.get(rel, info); ok {
		doc.Metadata = meta
		return doc, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return core.Document{}, err
	}
	defer f.Close()

	meta, err := ParseFrontMatter(f)
	if err != nil {
		return core.Document{}, fmt.Errorf("parse front matter: %w", err)
	}
	r.cache.set(rel, info, maps.Clone(meta))
	doc.Metadata = meta
	return doc, nil
}

// Documents returns a lazy sequence over every matching document. Each
// iteration walks the tree again. Unreadable files are logged and skipped.
func (r *Repository) Documents(ctx context.Context) (iter.Seq[core.Document], error) {
	if err := r.checkRoot(); err != nil {
		return nil, err
	}
	return func(yield func(core.Document) bool) {
		n := 0
		stopped := false
		seen := make(map[string]bool)
		err := r.walk(ctx, func(path, rel string, d fs.DirEntry) bool {
			seen[rel] = true
			doc, err := r.readDocument(path, rel, d)
			if err != nil {
				r.cache.remove(rel)
				r.config.Logger.Warn("skipping document", "path", path, "error", err)
				return true
			}
			n++
			if !yield(doc) {
				stopped = true
				return false
			}
			return true
		})
		if err != nil {
			r.config.Logger.Warn("content scan interrupted", "root", r.Root, "error", err)
		}
		r.recordScan(n)
		if err != nil || stopped {
			return
		}
		r.cache.prune(seen)
		if err := r.cache.save(); err != nil {
			r.config.Logger.Warn("failed to save front-matter cache", "path", r.config.IndexPath, "error", err)
		}
	}, nil
}

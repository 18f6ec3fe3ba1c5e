package fs

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/blogadmin/pkg/core"
)

// RewriteCategory rewrites the category line of a document's front matter
// according to move. A value equal to the old id or to one of its aliases
// becomes the new id; a value equal (after normalization) to the old display
// name becomes the new display name. Everything else, including the spacing
// after the colon and the line ending, is preserved. ok is false when
// nothing matched.
func RewriteCategory(content []byte, move core.CategoryMove) (out []byte, ok bool) {
	var buf bytes.Buffer
	rest := content
	inHeader := true
	for len(rest) > 0 {
		line := rest
		if i := bytes.IndexByte(rest, '\n'); i >= 0 {
			line = rest[:i+1]
		}
		rest = rest[len(line):]

		if inHeader {
			body := bytes.TrimRight(line, "\r\n")
			if len(bytes.TrimSpace(body)) == 0 {
				inHeader = false
			} else if replaced, hit := rewriteLine(body, move); hit {
				buf.Write(replaced)
				buf.Write(line[len(body):])
				ok = true
				continue
			}
		}
		buf.Write(line)
	}
	if !ok {
		return content, false
	}
	return buf.Bytes(), true
}

func rewriteLine(line []byte, move core.CategoryMove) ([]byte, bool) {
	key, value, found := strings.Cut(string(line), ":")
	if !found || strings.ToLower(strings.TrimSpace(key)) != "category" {
		return nil, false
	}
	trimmed := strings.TrimSpace(value)
	var target string
	switch {
	case trimmed == move.From.ID:
		target = move.To.ID
	case move.From.DisplayName != "" && core.NormalizeName(trimmed) == core.NormalizeName(move.From.DisplayName):
		target = move.To.DisplayName
	case move.HasAlias(trimmed):
		target = move.To.ID
	default:
		return nil, false
	}
	lead := value[:len(value)-len(strings.TrimLeft(value, " \t"))]
	trail := value[len(strings.TrimRight(value, " \t")):]
	return []byte(key + ":" + lead + target + trail), true
}

type stagedFile struct {
	path     string
	rel      string
	original []byte
	updated  []byte
}

// Migration is a staged set of document rewrites. It implements core.MigrationPlan.
type Migration struct {
	mu        sync.Mutex
	files     []stagedFile
	committed int
	logger    *slog.Logger
	written   func(rel string)
}

// PlanCategoryMigration reads every document and stages the rewrites for
// move. Nothing is written until Commit.
func (r *Repository) PlanCategoryMigration(ctx context.Context, move core.CategoryMove) (core.MigrationPlan, error) {
	if err := r.checkRoot(); err != nil {
		return nil, err
	}
	plan := &Migration{logger: r.config.Logger, written: r.cache.remove}
	var readErr error
	err := r.walk(ctx, func(path, rel string, d fs.DirEntry) bool {
		content, err := os.ReadFile(path)
		if err != nil {
			readErr = fmt.Errorf("read %s: %w", rel, err)
			return false
		}
		if updated, ok := RewriteCategory(content, move); ok {
			plan.files = append(plan.files, stagedFile{path: path, rel: rel, original: content, updated: updated})
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	if readErr != nil {
		// A document that cannot be read cannot be migrated; abort before any write.
		return nil, readErr
	}
	return plan, nil
}

// Len returns the number of staged documents.
func (m *Migration) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.files)
}

// Paths returns the staged document paths.
func (m *Migration) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.files))
	for i, f := range m.files {
		out[i] = f.path
	}
	return out
}

// Commit writes the staged documents in order. On failure the files
// already written stay written until Rollback.
func (m *Migration) Commit(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := m.committed; i < len(m.files); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		f := m.files[i]
		if err := ReplaceFile(f.path, f.updated); err != nil {
			return fmt.Errorf("migrate %s: %w", f.path, err)
		}
		m.touched(f.rel)
		m.committed = i + 1
	}
	return nil
}

// Rollback restores the original content of every committed document.
func (m *Migration) Rollback(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var errs []error
	for i := m.committed - 1; i >= 0; i-- {
		f := m.files[i]
		if err := ReplaceFile(f.path, f.original); err != nil {
			m.logger.Warn("failed to restore document", "path", f.path, "error", err)
			errs = append(errs, fmt.Errorf("restore %s: %w", f.path, err))
		}
		m.touched(f.rel)
	}
	m.committed = 0
	if len(errs) > 0 {
		return fmt.Errorf("rollback incomplete: %d file(s) not restored: %w", len(errs), errs[0])
	}
	return nil
}

// touched drops any cached front matter of a rewritten document, so the
// next scan never trusts an mtime that did not move.
func (m *Migration) touched(rel string) {
	if m.written != nil {
		m.written(rel)
	}
}

var _ core.MigrationPlan = (*Migration)(nil)

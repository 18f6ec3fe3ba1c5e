package fs

import (
	"context"
	"fmt"
	"os"
)

// Folders lists the immediate subdirectories of the root, in lexical order.
// Hidden entries and __pycache__ are excluded.
func (r *Repository) Folders(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(r.Root)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() && !ignoredDir(e.Name()) {
			out = append(out, e.Name())
		}
	}
	return out, nil
}

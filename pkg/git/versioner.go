package git

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/blogadmin/pkg/core"
)

// Versioner commits the files touched by a service mutation.
type Versioner struct {
	client *Client
}

// NewVersioner wraps client as a core.Versioner.
func NewVersioner(client *Client) *Versioner {
	return &Versioner{client: client}
}

// Commit stages paths and commits them with message. Paths outside the
// work tree are skipped. Nothing is committed when the paths are unchanged.
func (v *Versioner) Commit(ctx context.Context, message string, paths ...string) error {
	rels := v.relPaths(paths)
	if len(rels) == 0 {
		return nil
	}

	unlock, err := v.client.Lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	if err := v.client.Add(ctx, rels...); err != nil {
		return fmt.Errorf("stage changes: %w", err)
	}
	staged, err := v.client.HasStaged(ctx)
	if err != nil {
		return err
	}
	if !staged {
		v.client.Logger.Debug("nothing to commit", "paths", rels)
		return nil
	}
	if err := v.client.Commit(ctx, message); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	v.client.Logger.Info("committed changes", "files", len(rels))
	return nil
}

func (v *Versioner) relPaths(paths []string) []string {
	root, err := filepath.Abs(v.client.WorkDir)
	if err != nil {
		root = v.client.WorkDir
	}
	var out []string
	seen := map[string]bool{}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		rel, err := filepath.Rel(root, abs)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			v.client.Logger.Warn("skipping path outside the repository", "path", p)
			continue
		}
		rel = filepath.ToSlash(rel)
		if !seen[rel] {
			seen[rel] = true
			out = append(out, rel)
		}
	}
	return out
}

var _ core.Versioner = (*Versioner)(nil)

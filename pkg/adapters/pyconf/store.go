// Package pyconf reads and patches the Python-literal configuration file
// (userconf.py) that declares authors and categories.
package pyconf

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	fsadapter "github.com/aretw0/blogadmin/pkg/adapters/fs"
	"github.com/aretw0/blogadmin/pkg/core"
)

// BackupDirName is the directory, next to the configuration file, that receives backups.
const BackupDirName = "backups"

// Store is a core.ConfigStore over a configuration source file. It keeps
// no state between calls.
type Store struct {
	path      string
	backupDir string
	logger    *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithBackupDir overrides the backup directory.
func WithBackupDir(dir string) Option {
	return func(s *Store) {
		if dir != "" {
			s.backupDir = dir
		}
	}
}

// NewStore creates a store for the configuration file at path.
func NewStore(path string, opts ...Option) *Store {
	s := &Store{
		path:      path,
		backupDir: filepath.Join(filepath.Dir(path), BackupDirName),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the configuration file path.
func (s *Store) Path() string { return s.path }

// Load reads a fresh snapshot. Missing fields load as empty; missing
// status entries default to active.
func (s *Store) Load(ctx context.Context) (core.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return core.Snapshot{}, err
	}
	src, err := os.ReadFile(s.path)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("read config: %w", err)
	}
	return decodeSnapshot(src)
}

func decodeSnapshot(src []byte) (core.Snapshot, error) {
	var snap core.Snapshot

	authors, err := getStrings(src, FieldAuthors)
	if err != nil {
		return snap, err
	}
	authorStatus, err := getItems(src, FieldAuthorStatus)
	if err != nil {
		return snap, err
	}
	if snap.DefaultAuthor, err = getString(src, FieldDefaultAuthor); err != nil {
		return snap, err
	}
	pairs, err := getPairs(src, FieldCategoryList)
	if err != nil {
		return snap, err
	}
	catStatus, err := getItems(src, FieldCategoryStatus)
	if err != nil {
		return snap, err
	}
	if snap.DefaultCategory, err = getString(src, FieldDefaultCategory); err != nil {
		return snap, err
	}

	for _, name := range authors {
		st, err := statusOf(authorStatus, name)
		if err != nil {
			return snap, fmt.Errorf("%s: author %q: %w", FieldAuthorStatus, name, err)
		}
		snap.Authors = append(snap.Authors, core.Author{Name: name, Status: st})
	}
	for _, p := range pairs {
		st, err := statusOf(catStatus, p.First)
		if err != nil {
			return snap, fmt.Errorf("%s: category %q: %w", FieldCategoryStatus, p.First, err)
		}
		snap.Categories = append(snap.Categories, core.Category{ID: p.First, DisplayName: p.Second, Status: st})
	}
	return snap, nil
}

// statusOf looks up key's status. A missing or empty entry means active;
// anything but active or inactive is rejected.
func statusOf(items []Item, key string) (core.Status, error) {
	for _, it := range items {
		if it.Key != key || strings.TrimSpace(it.Value) == "" {
			continue
		}
		st := core.Status(strings.ToLower(strings.TrimSpace(it.Value)))
		if !st.Valid() {
			return "", fmt.Errorf("unknown status %q", it.Value)
		}
		return st, nil
	}
	return core.StatusActive, nil
}

// Save patches the fields of snap whose value differs from the file.
// Untouched assignments stay byte-identical; an unchanged snapshot writes nothing.
func (s *Store) Save(ctx context.Context, snap core.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	src, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	out, changed, err := s.patch(src, snap)
	if err != nil {
		return err
	}
	if len(changed) == 0 {
		s.logger.Debug("config unchanged", "path", s.path)
		return nil
	}
	if err := fsadapter.ReplaceFile(s.path, out); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	s.logger.Info("config updated", "path", s.path, "fields", changed)
	return nil
}

func (s *Store) patch(src []byte, snap core.Snapshot) ([]byte, []string, error) {
	current, err := decodeSnapshot(src)
	if err != nil {
		return nil, nil, err
	}
	authorStatus, err := getItems(src, FieldAuthorStatus)
	if err != nil {
		return nil, nil, err
	}
	catStatus, err := getItems(src, FieldCategoryStatus)
	if err != nil {
		return nil, nil, err
	}

	names := make([]string, len(snap.Authors))
	aStatus := make(map[string]core.Status, len(snap.Authors))
	for i, a := range snap.Authors {
		names[i] = a.Name
		aStatus[a.Name] = a.Status
	}
	pairs := make([]Pair, len(snap.Categories))
	ids := make([]string, len(snap.Categories))
	cStatus := make(map[string]core.Status, len(snap.Categories))
	for i, c := range snap.Categories {
		pairs[i] = Pair{c.ID, c.DisplayName}
		ids[i] = c.ID
		cStatus[c.ID] = c.Status
	}

	mergedAuthors := mergeStatus(authorStatus, names, aStatus)
	mergedCats := mergeStatus(catStatus, ids, cStatus)
	updates := []struct {
		path  string
		value any
		same  bool
	}{
		{FieldAuthors, names, slices.Equal(names, authorNames(current))},
		{FieldAuthorStatus, mergedAuthors, slices.Equal(mergedAuthors, authorStatus)},
		{FieldDefaultAuthor, snap.DefaultAuthor, snap.DefaultAuthor == current.DefaultAuthor},
		{FieldCategoryList, pairs, slices.Equal(pairs, categoryPairs(current))},
		{FieldCategoryStatus, mergedCats, slices.Equal(mergedCats, catStatus)},
		{FieldDefaultCategory, snap.DefaultCategory, snap.DefaultCategory == current.DefaultCategory},
	}

	var changed []string
	for _, u := range updates {
		if u.same {
			continue
		}
		next, ok, err := SetField(src, u.path, u.value)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			s.logger.Debug("field skipped", "field", u.path)
			continue
		}
		src = next
		changed = append(changed, u.path)
	}
	return src, changed, nil
}

// mergeStatus keeps the existing key order for surviving keys and appends
// new keys in declaration order.
func mergeStatus(existing []Item, keys []string, status map[string]core.Status) []Item {
	out := make([]Item, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, it := range existing {
		st, ok := status[it.Key]
		if !ok || seen[it.Key] {
			continue
		}
		seen[it.Key] = true
		out = append(out, Item{it.Key, statusText(st)})
	}
	for _, k := range keys {
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, Item{k, statusText(status[k])})
	}
	return out
}

func statusText(st core.Status) string {
	if st == "" {
		return string(core.StatusActive)
	}
	return string(st)
}

func authorNames(s core.Snapshot) []string {
	out := make([]string, len(s.Authors))
	for i, a := range s.Authors {
		out[i] = a.Name
	}
	return out
}

func categoryPairs(s core.Snapshot) []Pair {
	out := make([]Pair, len(s.Categories))
	for i, c := range s.Categories {
		out[i] = Pair{c.ID, c.DisplayName}
	}
	return out
}

// Backup copies the configuration file to backups/<stem>_YYYYMMDD_HHMMSS<ext>.
func (s *Store) Backup(ctx context.Context, now time.Time) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	src, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("read config: %w", err)
	}
	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}
	base := filepath.Base(s.path)
	ext := filepath.Ext(base)
	name := fmt.Sprintf("%s_%s%s", base[:len(base)-len(ext)], now.Format("20060102_150405"), ext)
	dst := filepath.Join(s.backupDir, name)
	if err := fsadapter.WriteFileAtomic(dst, src, 0o644); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	return dst, nil
}

func getString(src []byte, path string) (string, error) {
	v, ok, err := GetField(src, path)
	if err != nil || !ok {
		return "", err
	}
	s, err := v.AsString(src)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func getStrings(src []byte, path string) ([]string, error) {
	v, ok, err := GetField(src, path)
	if err != nil || !ok {
		return nil, err
	}
	out, err := v.AsStrings()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

func getPairs(src []byte, path string) ([]Pair, error) {
	v, ok, err := GetField(src, path)
	if err != nil || !ok {
		return nil, err
	}
	out, err := v.AsPairs()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

func getItems(src []byte, path string) ([]Item, error) {
	v, ok, err := GetField(src, path)
	if err != nil || !ok {
		return nil, err
	}
	out, err := v.AsItems()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

package pyconf

import (
	"os"

	"github.com/aretw0/introspection"
)

// StoreState exposes the store configuration for observability.
type StoreState struct {
	Path      string `json:"path"`
	BackupDir string `json:"backup_dir"`
	Exists    bool   `json:"exists"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	_, err := os.Stat(s.path)
	return StoreState{
		Path:      s.path,
		BackupDir: s.backupDir,
		Exists:    err == nil,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "pyconf"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	s, err := Loader{
		EnvFile:      filepath.Join(dir, "missing.env"),
		SettingsFile: "",
		Getenv:       env(nil),
	}.Load()
	require.NoError(t, err)
	assert.Equal(t, Defaults(), s)
	assert.Equal(t, slog.LevelInfo, s.Level())
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	envFile := write(t, dir, ".env", "BLOGADMIN_CONTENT=from-dotenv\nBLOGADMIN_LISTEN=:1000\nBLOGADMIN_PATTERN=posts/**/*.md\n")
	settings := write(t, dir, "blogadmin.yaml", `
config: site/userconf.py
content: from-yaml
listen: ":2000"
git: true
debounce: 500ms
aliases:
  فناوری: Tech
`)

	s, err := Loader{
		EnvFile:      envFile,
		SettingsFile: settings,
		Getenv:       env(map[string]string{"BLOGADMIN_LISTEN": ":3000", "BLOGADMIN_LOG_LEVEL": "debug"}),
	}.Load()
	require.NoError(t, err)

	assert.Equal(t, "site/userconf.py", s.ConfigPath)
	assert.Equal(t, "from-yaml", s.ContentRoot, "yaml overrides .env")
	assert.Equal(t, "posts/**/*.md", s.Pattern, ".env overrides defaults")
	assert.Equal(t, ":3000", s.Listen, "environment overrides yaml")
	assert.True(t, s.Git)
	assert.Equal(t, 500*time.Millisecond, s.Debounce)
	assert.Equal(t, map[string]string{"فناوری": "Tech"}, s.Aliases)
	assert.Equal(t, slog.LevelDebug, s.Level())
}

func TestLoadExplicitSettingsMissing(t *testing.T) {
	_, err := Loader{
		EnvFile:      filepath.Join(t.TempDir(), ".env"),
		SettingsFile: filepath.Join(t.TempDir(), "nope.yaml"),
		Getenv:       env(nil),
	}.Load()
	require.Error(t, err)
}

func TestLoadInvalidValues(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		env  map[string]string
		yaml string
	}{
		{name: "bad bool", env: map[string]string{"BLOGADMIN_GIT": "maybe"}},
		{name: "bad duration", env: map[string]string{"BLOGADMIN_DEBOUNCE": "soon"}},
		{name: "bad level", env: map[string]string{"BLOGADMIN_LOG_LEVEL": "loud"}},
		{name: "bad yaml", yaml: "config: [unclosed"},
		{name: "empty content", yaml: `content: ""`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := Loader{EnvFile: filepath.Join(dir, "none.env"), Getenv: env(tt.env)}
			if tt.yaml != "" {
				l.SettingsFile = write(t, t.TempDir(), "s.yaml", tt.yaml)
			}
			_, err := l.Load()
			assert.Error(t, err)
		})
	}
}

func TestResolveAnchorsRelativePaths(t *testing.T) {
	base := filepath.Join(string(filepath.Separator), "srv", "blog")
	s := Defaults()
	s.BackupDir = "archive"
	s.IndexPath = filepath.Join(base, "index.json")

	got := s.Resolve(base)
	assert.Equal(t, filepath.Join(base, "userconf.py"), got.ConfigPath)
	assert.Equal(t, filepath.Join(base, "content"), got.ContentRoot)
	assert.Equal(t, filepath.Join(base, "archive"), got.BackupDir)
	assert.Equal(t, filepath.Join(base, "index.json"), got.IndexPath)
	assert.Equal(t, "userconf.py", s.ConfigPath, "receiver is unchanged")

	s.BackupDir = ""
	assert.Empty(t, s.Resolve(base).BackupDir)
}

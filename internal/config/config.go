// Package config loads blogadmin settings from defaults, a .env file, a YAML
// settings file and BLOGADMIN_* environment variables, in that order of
// increasing precedence. Command-line flags are applied on top by the CLI.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultSettingsFile is read when present and no other file is named.
	DefaultSettingsFile = "blogadmin.yaml"
	// DefaultEnvFile is read when present.
	DefaultEnvFile = ".env"

	envPrefix = "BLOGADMIN_"
)

// Settings is the resolved runtime configuration.
type Settings struct {
	ConfigPath  string            `yaml:"config"`
	ContentRoot string            `yaml:"content"`
	Pattern     string            `yaml:"pattern"`
	Aliases     map[string]string `yaml:"aliases"`
	Listen      string            `yaml:"listen"`
	BackupDir   string            `yaml:"backup_dir"`
	IndexPath   string            `yaml:"index"`
	Git         bool              `yaml:"git"`
	LogLevel    string            `yaml:"log_level"`
	Debounce    time.Duration     `yaml:"debounce"`
}

// Defaults returns the settings used when nothing else is configured.
func Defaults() Settings {
	return Settings{
		ConfigPath:  "userconf.py",
		ContentRoot: "content",
		Pattern:     "**/*.md",
		Listen:      "127.0.0.1:8080",
		LogLevel:    "info",
		Debounce:    200 * time.Millisecond,
	}
}

// Loader resolves Settings. The zero value reads the default files and the
// process environment.
type Loader struct {
	EnvFile      string              // default DefaultEnvFile
	SettingsFile string              // default DefaultSettingsFile, optional unless set
	Getenv       func(string) string // default os.Getenv
}

// Load resolves Settings with a zero Loader naming settingsFile.
func Load(settingsFile string) (Settings, error) {
	return Loader{SettingsFile: settingsFile}.Load()
}

// Load applies every source in order and validates the result.
func (l Loader) Load() (Settings, error) {
	s := Defaults()
	getenv := l.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	envFile := l.EnvFile
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	dotenv, err := readDotenv(envFile)
	if err != nil {
		return s, err
	}
	if err := s.applyEnv(func(k string) string { return dotenv[k] }); err != nil {
		return s, fmt.Errorf("%s: %w", envFile, err)
	}

	if err := s.applyFile(l.SettingsFile); err != nil {
		return s, err
	}

	if err := s.applyEnv(getenv); err != nil {
		return s, fmt.Errorf("environment: %w", err)
	}
	return s, s.Validate()
}

func readDotenv(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return values, nil
}

// applyFile overlays the YAML settings file. Keys absent from the file keep
// their current value.
func (s *Settings) applyFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultSettingsFile
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && !explicit {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read settings: %w", err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return fmt.Errorf("parse settings %s: %w", path, err)
	}
	return nil
}

func (s *Settings) applyEnv(get func(string) string) error {
	str := func(key string, dst *string) {
		if v := get(envPrefix + key); v != "" {
			*dst = v
		}
	}
	str("CONFIG", &s.ConfigPath)
	str("CONTENT", &s.ContentRoot)
	str("PATTERN", &s.Pattern)
	str("LISTEN", &s.Listen)
	str("BACKUP_DIR", &s.BackupDir)
	str("INDEX", &s.IndexPath)
	str("LOG_LEVEL", &s.LogLevel)

	if v := get(envPrefix + "GIT"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sGIT: %w", envPrefix, err)
		}
		s.Git = b
	}
	if v := get(envPrefix + "DEBOUNCE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sDEBOUNCE: %w", envPrefix, err)
		}
		s.Debounce = d
	}
	return nil
}

// Resolve anchors the relative file paths at base, normally the blog root.
// Absolute and empty paths are left alone.
func (s Settings) Resolve(base string) Settings {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}
	s.ConfigPath = abs(s.ConfigPath)
	s.ContentRoot = abs(s.ContentRoot)
	s.BackupDir = abs(s.BackupDir)
	s.IndexPath = abs(s.IndexPath)
	return s
}

// Validate checks the resolved settings.
func (s Settings) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.ConfigPath, validation.Required),
		validation.Field(&s.ContentRoot, validation.Required),
		validation.Field(&s.Pattern, validation.Required),
		validation.Field(&s.Listen, validation.Required),
		validation.Field(&s.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&s.Debounce, validation.Min(time.Duration(0))),
	)
}

// Level maps LogLevel to a slog level. Unknown values give Info.
func (s Settings) Level() slog.Level {
	switch strings.ToLower(s.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

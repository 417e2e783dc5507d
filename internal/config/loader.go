package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// ConfigDir is the directory name under ~/.config
	ConfigDir = "geoview"
	// ConfigFile is the config file name
	ConfigFile = "config.json"
	// ConfigFileYAML is read when ConfigFile does not exist
	ConfigFileYAML = "config.yaml"
)

// FileSystem abstracts file operations for testability
type FileSystem interface {
	UserHomeDir() (string, error)
	ReadFile(path string) ([]byte, error)
}

// ConfigFileReader implements FileSystem using the real OS for config loading
type ConfigFileReader struct{}

func (ConfigFileReader) UserHomeDir() (string, error) {
	return os.UserHomeDir()
}

func (ConfigFileReader) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Loader handles configuration loading with injected dependencies
type Loader struct {
	fs FileSystem
}

// NewLoader creates a production Loader using the real filesystem
func NewLoader() *Loader {
	return &Loader{fs: ConfigFileReader{}}
}

// NewLoaderWithFS creates a Loader with a custom filesystem (for testing)
func NewLoaderWithFS(fs FileSystem) *Loader {
	return &Loader{fs: fs}
}

// Dir returns ~/.config/geoview, or "" when the home directory is unknown.
func (l *Loader) Dir() string {
	homeDir, err := l.fs.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config", ConfigDir)
}

// Load reads configuration from ~/.config/geoview/config.json (falling back to
// config.yaml) and merges it with defaults. Dotfile values override defaults.
// Returns default config if no dotfile exists.
// Returns error only for parse errors, permission issues, or validation failures.
func (l *Loader) Load() (*Config, error) {
	dir := l.Dir()
	if dir == "" {
		return DefaultConfig(), nil // Use defaults if can't get home dir
	}

	cfg, err := l.LoadFile(filepath.Join(dir, ConfigFile))
	if err == nil || !os.IsNotExist(err) {
		return cfg, err
	}

	cfg, err = l.LoadFile(filepath.Join(dir, ConfigFileYAML))
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil // Use defaults if file doesn't exist
		}
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads a single config file over the defaults. The format is chosen
// by extension: .yaml/.yml use YAML, everything else JSON.
// A missing file is returned as an os.ErrNotExist error so callers can decide.
//
// NOTE: Keys are unmarshalled directly over the default configuration.
// This allows explicit zero values (e.g., 0, false, "") in the config file to override defaults.
func (l *Loader) LoadFile(path string) (*Config, error) {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Load is a convenience function using the default loader
func Load() (*Config, error) {
	return NewLoader().Load()
}

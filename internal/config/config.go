package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/example/contacts/internal/logging"
)

// EnvHome overrides the data directory.
const EnvHome = "CONTACTS_HOME"

// CurrentVersion is written into new config files.
const CurrentVersion = "1"

// FileName is the config file inside the data directory.
const FileName = "config.json"

// Config represents the contact directory configuration
type Config struct {
	Version   string `json:"version"`
	DBPath    string `json:"db_path"`              // SQLite database file
	PhotoDir  string `json:"photo_dir"`            // where imported photos are copied
	LogLevel  string `json:"log_level,omitempty"`  // debug, info, warn, error
	LogFormat string `json:"log_format,omitempty"` // text or json
	LogFile   string `json:"log_file,omitempty"`   // empty means stderr
}

// HomeDir returns the data directory: $CONTACTS_HOME, else ~/.contacts.
func HomeDir() (string, error) {
	if dir := os.Getenv(EnvHome); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".contacts"), nil
}

// Default returns the configuration used when home has no config file.
func Default(home string) *Config {
	return &Config{
		Version:  CurrentVersion,
		DBPath:   filepath.Join(home, "contacts.db"),
		PhotoDir: filepath.Join(home, "photos"),
		LogLevel: "warn",
	}
}

// LoadConfig reads config.json from home. Missing fields take their defaults.
func LoadConfig(home string) (*Config, error) {
	data, err := os.ReadFile(filepath.Join(home, FileName))
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default(home)
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// SaveConfig writes config.json to home
func SaveConfig(home string, cfg *Config) error {
	if err := os.MkdirAll(home, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", home, err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(home, FileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Resolve loads the config from HomeDir, falling back to Default when
// no config file exists yet.
func Resolve() (*Config, error) {
	home, err := HomeDir()
	if err != nil {
		return nil, err
	}

	cfg, err := LoadConfig(home)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(home), nil
	}
	return cfg, err
}

// Logging returns the logger options of the config.
func (c *Config) Logging() logging.Options {
	return logging.Options{
		Level:  c.LogLevel,
		Format: c.LogFormat,
		File:   c.LogFile,
	}
}

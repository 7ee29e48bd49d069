// Package config persists small bits of tool state between runs,
// currently the most recently used input and output directories.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
)

// DefaultFileName is the config file name created next to the binary
// or under the user config directory.
const DefaultFileName = "backport_config.json"

// Config holds persisted tool state.
type Config struct {
	LastInput  string    `json:"last_input,omitempty"`
	LastOutput string    `json:"last_output,omitempty"`
	LastUsed   time.Time `json:"last_used,omitempty"`
}

// DefaultPath returns the config file location, preferring the user
// config directory and falling back to the working directory.
func DefaultPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "backport", DefaultFileName)
	}

	return DefaultFileName
}

// Load reads the config at path. A missing or unreadable file yields a
// zero Config with no error; persisted state is best-effort.
func Load(path string) *Config {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return &Config{}
	}

	return cfg
}

// Save writes the config to path, creating parent directories as needed.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	return os.WriteFile(path, data, 0o644)
}

// RememberDirs records the directories used by the current run and
// saves the config. Errors are ignored; this is convenience state only.
func RememberDirs(path, input, output string) {
	cfg := Load(path)
	cfg.LastInput = input
	cfg.LastOutput = output
	cfg.LastUsed = time.Now().UTC()
	_ = cfg.Save(path)
}

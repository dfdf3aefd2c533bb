package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DefaultServerURL is used when no config file or flag provides one.
const DefaultServerURL = "http://localhost:5000"

// Config represents the global ~/.chatty/config.toml.
type Config struct {
	// ServerURL is the base URL of the chat service REST API.
	ServerURL string `toml:"server_url"`
	// PushURL overrides the push channel endpoint. Empty means derive
	// it from ServerURL (http -> ws).
	PushURL string `toml:"push_url"`
}

// Load reads config from the given path. Returns zero config and error if file missing.
func Load(path string) (*Config, error) {
	var cfg Config
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}

// Resolve determines the server URL using precedence:
// 1. flagOverride (--server flag)
// 2. config.toml server_url
// 3. DefaultServerURL
func Resolve(flagOverride, path string) string {
	if flagOverride != "" {
		return flagOverride
	}
	cfg, err := Load(path)
	if err == nil && cfg.ServerURL != "" {
		return cfg.ServerURL
	}
	return DefaultServerURL
}

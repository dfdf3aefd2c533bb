// Package profile resolves the on-disk layout under ~/.chatty: the
// config file, log directory and the single-instance lock.
package profile

import (
	"os"
	"path/filepath"
)

// BaseDir returns ~/.chatty.
func BaseDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".chatty")
}

// ConfigPath returns the config file path.
func ConfigPath() string {
	return filepath.Join(BaseDir(), "config.toml")
}

// LogDir returns the log directory.
func LogDir() string {
	return filepath.Join(BaseDir(), "logs")
}

// LogPath returns the client log file path.
func LogPath() string {
	return filepath.Join(LogDir(), "chatty.log")
}

// LockPath returns the lock file path.
func LockPath() string {
	return filepath.Join(BaseDir(), "LOCK")
}

// EnsureDirs creates the profile directory tree with proper permissions.
func EnsureDirs() error {
	for _, d := range []string{BaseDir(), LogDir()} {
		if err := os.MkdirAll(d, 0700); err != nil {
			return err
		}
	}
	return nil
}

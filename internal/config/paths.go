package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	appDirName = "browsershell"
	dirPerm    = 0o755
	filePerm   = 0o644
)

// GetConfigDir returns the directory holding config.toml, honoring
// XDG_CONFIG_HOME.
func GetConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine user config directory: %w", err)
	}
	return filepath.Join(base, appDirName), nil
}

// GetDataDir returns the directory for mutable state such as the
// session database.
func GetDataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", appDirName), nil
}

// GetDatabaseFile returns the default session database path.
func GetDatabaseFile() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "shell.db"), nil
}

// EnsureDirectories creates the config and data directories.
func EnsureDirectories() error {
	configDir, err := GetConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(configDir, dirPerm); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	dataDir, err := GetDataDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dataDir, dirPerm); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}

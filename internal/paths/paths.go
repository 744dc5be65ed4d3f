// Package paths resolves the per-user data and config directories the
// store and config packages persist into. No XDG-directories library
// appears anywhere in the example pack, so this follows the
// XDG Base Directory fallback chain by hand against os.UserHomeDir, the
// same primitive steveyegge-beads reaches for when it needs a per-user
// path (cmd/bd/doctor/claude.go, cmd/bd/workspace.go).
package paths

import (
	"os"
	"path/filepath"
)

// AppDirName is the application subdirectory created under the data and
// config directories.
const AppDirName = "task-athlete"

// DataDir returns the directory workouts.sqlite is stored in, creating it
// if necessary. On Linux this is $XDG_DATA_HOME/task-athlete or
// ~/.local/share/task-athlete.
func DataDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	dir := filepath.Join(base, AppDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// ConfigDirEnvVar overrides the config directory when set, generalizing
// the original source's WORKOUT_CONFIG_DIR environment variable. If it
// points to a path that doesn't exist yet, the path is created.
const ConfigDirEnvVar = "TASK_ATHLETE_CONFIG_DIR"

// ConfigDir returns the directory config.toml is stored in, creating it
// if necessary. ConfigDirEnvVar takes precedence over the XDG fallback
// chain when set.
func ConfigDir() (string, error) {
	if override := os.Getenv(ConfigDirEnvVar); override != "" {
		if err := os.MkdirAll(override, 0o755); err != nil {
			return "", err
		}
		return override, nil
	}

	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	dir := filepath.Join(base, AppDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// DatabasePath returns the full path to the SQLite database file.
func DatabasePath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "workouts.sqlite"), nil
}

// ConfigPath returns the full path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

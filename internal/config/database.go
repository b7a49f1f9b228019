package config

import (
	"os"
	"path/filepath"
)

// DefaultDatabasePath returns the default SQLite database location,
// honoring XDG_DATA_HOME when set.
func DefaultDatabasePath() string {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, "tally", "tally.db")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "tally.db")
	}
	return filepath.Join(home, ".local", "share", "tally", "tally.db")
}

// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
)

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), "perky", "config.toml")
}

// DefaultLayoutTablePath returns the default layout table location.
func DefaultLayoutTablePath() string {
	return filepath.Join(XDGConfigHome(), "perky", "default.lt.json")
}

// DefaultKeyTablePath returns the default key table location.
func DefaultKeyTablePath() string {
	return filepath.Join(XDGConfigHome(), "perky", "default.kt.json")
}

// DefaultNGramTablePath returns the default n-gram table location for
// an arity (1, 2, or 3).
func DefaultNGramTablePath(arity int) string {
	name := map[int]string{1: "1-grams.tsv", 2: "2-grams.tsv", 3: "3-grams.tsv"}[arity]
	return filepath.Join(XDGConfigHome(), "perky", "ngrams", name)
}

// DefaultDBPath returns the default path for the run history database.
func DefaultDBPath() string {
	return filepath.Join(XDGDataHome(), "perky", "perky.db")
}

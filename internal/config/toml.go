// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Scoring ScoringConfig `toml:"scoring"`
	Output  OutputConfig  `toml:"output"`
}

// ScoringConfig maps scoring and permutation defaults.
type ScoringConfig struct {
	Metric   *string `toml:"metric"`
	Goal     *string `toml:"goal"`
	Weight   *string `toml:"weight"`
	Truncate *uint64 `toml:"truncate"`
	Threads  *int    `toml:"threads"`
	SleepNS  *int64  `toml:"sleep-ns"`
}

// OutputConfig maps printing defaults.
type OutputConfig struct {
	Format         *string `toml:"format"`
	Style          *string `toml:"style"`
	PrintSummaries *bool   `toml:"print-summaries"`
	PrintPerc      *bool   `toml:"print-perc"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

package main

import (
	"github.com/BurntSushi/toml"
)

// Config is the contents of a plotexpr.toml file. Flags given on the command
// line override it.
type Config struct {
	// Format is the fmt verb for printing results.
	Format string `toml:"format"`
	// History is the file where the REPL keeps its line history. Relative
	// paths are relative to the home directory.
	History string `toml:"history"`
	// Definitions are executed in order before anything else.
	Definitions []string     `toml:"definitions"`
	Sample      SampleConfig `toml:"sample"`
}

// SampleConfig holds defaults for -sample.
type SampleConfig struct {
	From    float64 `toml:"from"`
	To      float64 `toml:"to"`
	N       int     `toml:"n"`
	Workers int     `toml:"workers"`
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() *Config {
	return &Config{
		Format:  "%g",
		History: ".plotexpr_history",
		Sample: SampleConfig{
			From:    -10,
			To:      10,
			N:       21,
			Workers: 4,
		},
	}
}

// LoadConfig reads a config file. Settings the file omits keep their
// defaults.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}
	if _, err := toml.DecodeFile(path, config); err != nil {
		return nil, err
	}
	return config, nil
}

// Package config holds the CLI's runtime settings, layered from defaults, an
// optional YAML file, and environment variables.
package config

import (
	"errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config carries the settings shared by every subcommand.
type Config struct {
	// DBPath is the SQLite database file holding rated games.
	DBPath string `koanf:"db_path"`
	// DataDir is the default directory for lookup tables (ratings.csv,
	// shooting.csv) next to the game files.
	DataDir string `koanf:"data_dir"`
	// LogLevel is the zap level name (debug, info, warn, error).
	LogLevel string `koanf:"log_level"`
	// Workers bounds per-game concurrency for season runs. Zero means one
	// worker per CPU.
	Workers int `koanf:"workers"`
}

// New returns a Config with defaults applied.
func New() *Config {
	return &Config{
		DBPath:   "spametrics.db",
		DataDir:  ".",
		LogLevel: "info",
	}
}

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if SPAM_CONFIG is set
//  3. env (prefix SPAM_)
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("SPAM_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Environment variables: SPAM_DB_PATH, SPAM_LOG_LEVEL, ...
	// Preserve underscores to match the koanf tags on the struct.
	envProvider := env.Provider("SPAM_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "spam_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if cfg.DBPath == "" {
		return nil, errors.New("db_path must not be empty")
	}
	return &cfg, nil
}

// Package config loads knex CLI settings from an optional YAML file
// overlaid by KNEX_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix selects the environment variables read by Load.
const EnvPrefix = "KNEX_"

// Output formats.
const (
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Config holds the CLI settings.
type Config struct {
	LogLevel       string `koanf:"log_level"`       // debug|info|warn|error
	LogJSON        bool   `koanf:"log_json"`        // JSON log lines on stderr
	RaiseException bool   `koanf:"raise_exception"` // default error policy
	Output         string `koanf:"output"`          // json|yaml
	Pipeline       string `koanf:"pipeline"`        // default pipeline file
}

// ---------------------------------------------------------------------------
// Loader
// ---------------------------------------------------------------------------

// Load merges YAML at path (if set and present) with env-vars
// (prefix `KNEX_`, nested keys joined by `__`), then applies defaults.
func Load(path string) (Config, error) {
	return load(path, env.Provider(EnvPrefix, "__", envKey))
}

func load(path string, environ koanf.Provider) (Config, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil &&
			!errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", path, err)
		}
	}

	if err := k.Load(environ, nil); err != nil {
		return Config{}, fmt.Errorf("load %s* environment: %w", EnvPrefix, err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, err
	}
	applyDefaults(&cfg)
	return cfg, nil
}

// envKey maps KNEX_LOG_LEVEL to log_level.
func envKey(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

// ---------------------------------------------------------------------------
// defaults
// ---------------------------------------------------------------------------

func applyDefaults(c *Config) {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
	c.Output = strings.ToLower(strings.TrimSpace(c.Output))
	if c.Output != OutputJSON && c.Output != OutputYAML {
		c.Output = OutputJSON
	}
}

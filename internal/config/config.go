// Package config loads application configuration in layers: defaults
// from flag definitions, then an optional YAML file, then RECALL_*
// environment variables, then explicitly set flags.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix is the prefix for environment overrides, e.g.
// RECALL_LOG_LEVEL maps onto the log-level key.
const EnvPrefix = "RECALL_"

// Config is the application configuration.
type Config struct {
	DB       string   `koanf:"db"`
	Addr     string   `koanf:"addr"`
	LogLevel string   `koanf:"log-level"`
	Sources  []string `koanf:"sources"`
	ReposDir string   `koanf:"repos-dir"`
}

// Load resolves the configuration from the given flag set and an
// optional config file path.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file %s: %w", configFile, err)
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(key string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), "_", "-")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment config: %w", err)
	}

	if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
		return nil, fmt.Errorf("failed to load flag config: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

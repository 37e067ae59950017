// Package config provides configuration management for confpipe using Viper.
package config

import (
	"io/fs"
	"slices"

	"github.com/spf13/viper"

	"github.com/thoreinstein/confpipe/internal/errors"
	"github.com/thoreinstein/confpipe/internal/paths"
)

// EnvPrefix is prepended to config keys when reading environment overrides,
// e.g. CONFPIPE_SCHEMA.
const EnvPrefix = "CONFPIPE"

// Config represents the top-level configuration structure.
type Config struct {
	Version      int      `mapstructure:"version" yaml:"version"`
	Schema       string   `mapstructure:"schema" yaml:"schema"`
	ProfileDir   string   `mapstructure:"profile_dir" yaml:"profile_dir"`
	EnvFile      string   `mapstructure:"env_file" yaml:"env_file"`
	Namespaces   []string `mapstructure:"namespaces" yaml:"namespaces"`
	Strict       bool     `mapstructure:"strict" yaml:"strict"`
	OutputFormat string   `mapstructure:"output_format" yaml:"output_format"`
}

// defaults lists every key with its default value, in display order.
var defaults = []struct {
	Key   string
	Value any
}{
	{"version", 1},
	{"schema", "confpipe.yaml"},
	{"profile_dir", "."},
	{"env_file", ""},
	{"namespaces", []string{}},
	{"strict", false},
	{"output_format", "json"},
}

// Keys returns the known configuration keys in display order.
func Keys() []string {
	keys := make([]string, len(defaults))
	for i, d := range defaults {
		keys[i] = d.Key
	}
	return keys
}

// Init initializes Viper with default configuration.
// It resets any previous Viper state, so it is safe to call again
// (tests and repeated command executions rely on this).
func Init() {
	viper.Reset()

	// Config file settings
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".") // Current directory
	viper.AddConfigPath(paths.AppConfigDir())

	// Environment variable support
	viper.SetEnvPrefix(EnvPrefix)
	viper.AutomaticEnv()

	for _, d := range defaults {
		viper.SetDefault(d.Key, d.Value)
	}
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations.
// Returns the loaded configuration or default values if no file is found (when path is empty).
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound) && path == "":
			// Implicit load without a file: defaults apply
		case errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist):
			return nil, errors.Mark(errors.Wrapf(err, "config file not found at %s", path), errors.ErrNotFound)
		default:
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, errors.Mark(errors.Wrap(errors.Join(errs...), "validating config"), errors.ErrInvalidConfig)
	}

	return &cfg, nil
}

// Get returns the effective value of a known key.
func Get(key string) (any, error) {
	if !slices.Contains(Keys(), key) {
		return nil, errors.WithHint(
			errors.Wrapf(errors.ErrUnknownKey, "%q", key),
			"Run: confpipe config list",
		)
	}
	return viper.Get(key), nil
}

// FileUsed returns the config file that was read, or "" when defaults apply.
func FileUsed() string {
	return viper.ConfigFileUsed()
}

// Package config loads the lscpu command configuration from an optional
// config file, LSCPU_* environment variables and command line flags.
package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/earentir/lscpu/internal/report"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Color modes
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config holds the lscpu command configuration.
type Config struct {
	Format string   `mapstructure:"format"`
	Fields []string `mapstructure:"fields"`
	Color  string   `mapstructure:"color"`
	Replay string   `mapstructure:"replay"`
	Pin    int      `mapstructure:"pin"`
	Debug  bool     `mapstructure:"debug"`
}

// Load reads configuration from file and environment, with flags taking
// precedence. A missing config file is not an error unless cfgFile names it.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("lscpu")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "lscpu"))
		}
		v.AddConfigPath("/etc/lscpu")
	}

	v.SetDefault("format", report.FormatText)
	v.SetDefault("fields", []string{})
	v.SetDefault("color", ColorAuto)
	v.SetDefault("replay", "")
	v.SetDefault("pin", -1)
	v.SetDefault("debug", false)

	v.SetEnvPrefix("LSCPU")
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, errors.Wrap(err, "failed to bind flags")
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "failed to read config")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	cfg.Fields = splitFields(cfg.Fields)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// splitFields accepts both list entries and comma separated values, as
// LSCPU_FIELDS=a,b arrives as a single string.
func splitFields(in []string) []string {
	var out []string
	for _, entry := range in {
		for _, name := range strings.Split(entry, ",") {
			if name = strings.TrimSpace(name); name != "" {
				out = append(out, name)
			}
		}
	}
	return out
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	if !slices.Contains(report.Formats, c.Format) {
		return errors.Errorf("invalid format %q, expected one of: %s", c.Format, strings.Join(report.Formats, ", "))
	}
	if !slices.Contains([]string{ColorAuto, ColorAlways, ColorNever}, c.Color) {
		return errors.Errorf("invalid color mode %q, expected auto, always or never", c.Color)
	}
	return nil
}

// Package config loads calculator service configuration from an optional TOML
// file with environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"

	"github.com/zephyrtronium/calcexpr"
)

// EnvPrefix is the prefix of environment variables read by Load. Variable
// names join the prefix, section, and field, e.g. CALC_SERVER_PORT,
// CALC_CALC_MAX_LENGTH, CALC_RATE_LIMIT_RPS, or CALC_PLOT_XMIN.
const EnvPrefix = "CALC"

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Calc      CalcConfig      `toml:"calc"`
	History   HistoryConfig   `toml:"history"`
	Logging   LogConfig       `toml:"logging"`
	RateLimit RateLimitConfig `toml:"rate_limit" split_words:"true"`
	Plot      PlotConfig      `toml:"plot"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `toml:"port"`
	Host string `toml:"host"`
}

// Addr is the listen address.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// CalcConfig holds evaluator defaults.
type CalcConfig struct {
	Angle     calcexpr.AngleMode `toml:"angle"`
	MaxLength int                `toml:"max_length" split_words:"true"`
}

// HistoryConfig holds history store configuration. An empty path keeps
// history in memory only.
type HistoryConfig struct {
	Path  string `toml:"path"`
	Limit int    `toml:"limit"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `toml:"rps" envconfig:"RPS"`
	Burst             int  `toml:"burst"`
	Enabled           bool `toml:"enabled"`
}

// PlotConfig holds plot sampling defaults.
type PlotConfig struct {
	Width    int     `toml:"width"`
	MaxWidth int     `toml:"max_width" split_words:"true"`
	XMin     float64 `toml:"x_min"`
	XMax     float64 `toml:"x_max"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8080",
			Host: "0.0.0.0",
		},
		Calc: CalcConfig{
			Angle:     calcexpr.Degrees,
			MaxLength: calcexpr.DefaultMaxLength,
		},
		History: HistoryConfig{
			Limit: 50,
		},
		Logging: LogConfig{
			Level: "info",
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		Plot: PlotConfig{
			Width:    800,
			MaxWidth: 10000,
			XMin:     -10,
			XMax:     10,
		},
	}
}

// Load reads the TOML file at path, if path is not empty, over the defaults
// and then applies environment overrides. A missing file is an error only
// when required is set.
func Load(path string, required bool) (*Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(b, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist) && !required:
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Server.Port == "":
		return errors.New("config: server port is required")
	case c.Calc.Angle != calcexpr.Degrees && c.Calc.Angle != calcexpr.Radians:
		return fmt.Errorf("config: invalid angle mode %v", c.Calc.Angle)
	case c.History.Limit <= 0:
		return fmt.Errorf("config: history limit must be positive, not %d", c.History.Limit)
	case c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0):
		return errors.New("config: rate limit rps and burst must be positive")
	case c.Plot.Width <= 0 || c.Plot.MaxWidth < c.Plot.Width:
		return fmt.Errorf("config: plot width %d must be in (0, %d]", c.Plot.Width, c.Plot.MaxWidth)
	case !(c.Plot.XMin < c.Plot.XMax):
		return fmt.Errorf("config: plot range [%g, %g] is empty", c.Plot.XMin, c.Plot.XMax)
	}
	return nil
}

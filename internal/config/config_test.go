package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/calcexpr"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, calcexpr.Degrees, cfg.Calc.Angle)
	assert.Equal(t, calcexpr.DefaultMaxLength, cfg.Calc.MaxLength)
	assert.Equal(t, 50, cfg.History.Limit)
	assert.Empty(t, cfg.History.Path)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 800, cfg.Plot.Width)
	require.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calc.toml")
	const doc = `
[server]
port = "9000"

[calc]
angle = "radians"
max_length = 100

[history]
path = "/var/lib/calc/history.json"

[rate_limit]
enabled = false

[plot]
x_min = -3.5
x_max = 3.5
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host, "unset keys keep defaults")
	assert.Equal(t, calcexpr.Radians, cfg.Calc.Angle)
	assert.Equal(t, 100, cfg.Calc.MaxLength)
	assert.Equal(t, "/var/lib/calc/history.json", cfg.History.Path)
	assert.Equal(t, 50, cfg.History.Limit)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, -3.5, cfg.Plot.XMin)
	assert.Equal(t, 3.5, cfg.Plot.XMax)
}

func TestLoadEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calc.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server]\nport = \"9000\"\n"), 0o644))
	env := map[string]string{
		"CALC_SERVER_PORT":      "9100",
		"CALC_CALC_ANGLE":       "rad",
		"CALC_CALC_MAX_LENGTH":  "42",
		"CALC_HISTORY_LIMIT":    "10",
		"CALC_LOGGING_LEVEL":    "debug",
		"CALC_RATE_LIMIT_RPS":   "5",
		"CALC_RATE_LIMIT_BURST": "7",
		"CALC_PLOT_WIDTH":       "100",
	}
	for k, v := range env {
		t.Setenv(k, v)
	}

	cfg, err := Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.Server.Port, "environment overrides file")
	assert.Equal(t, calcexpr.Radians, cfg.Calc.Angle)
	assert.Equal(t, 42, cfg.Calc.MaxLength)
	assert.Equal(t, 10, cfg.History.Limit)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 5, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 7, cfg.RateLimit.Burst)
	assert.Equal(t, 100, cfg.Plot.Width)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.toml")

	cfg, err := Load(missing, false)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = Load(missing, true)
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[server\nport = "), 0o644))
	_, err = Load(bad, true)
	assert.Error(t, err)
	_, err = Load(bad, false)
	assert.Error(t, err, "only a missing file is optional")

	angle := filepath.Join(dir, "angle.toml")
	require.NoError(t, os.WriteFile(angle, []byte("[calc]\nangle = \"gradians\"\n"), 0o644))
	_, err = Load(angle, true)
	assert.Error(t, err)

	t.Setenv("CALC_HISTORY_LIMIT", "lots")
	_, err = Load("", false)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		modify func(*Config)
	}{
		{"port", func(c *Config) { c.Server.Port = "" }},
		{"angle", func(c *Config) { c.Calc.Angle = 7 }},
		{"history", func(c *Config) { c.History.Limit = 0 }},
		{"rate", func(c *Config) { c.RateLimit.Burst = 0 }},
		{"width", func(c *Config) { c.Plot.Width = c.Plot.MaxWidth + 1 }},
		{"range", func(c *Config) { c.Plot.XMin = c.Plot.XMax }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := Default()
			c.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
	cfg := Default()
	cfg.RateLimit.Enabled = false
	cfg.RateLimit.Burst = 0
	assert.NoError(t, cfg.Validate())
}

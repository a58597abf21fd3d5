package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, 1_000_000, cfg.Bench.Iterations)
	assert.Equal(t, 1, cfg.Bench.Workers)
	assert.Equal(t, "json", cfg.Batch.Format)
	assert.Equal(t, "-", cfg.Batch.Output)
	assert.Equal(t, 5*time.Second, cfg.Progress.Interval)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: debug
  pretty: true
bench:
  iterations: 500
  workers: 4
batch:
  count: 10
  format: yaml
metrics:
  enabled: true
  listen_addr: "127.0.0.1:9191"
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Pretty)
	assert.Equal(t, 500, cfg.Bench.Iterations)
	assert.Equal(t, 4, cfg.Bench.Workers)
	assert.Equal(t, 10, cfg.Batch.Count)
	assert.Equal(t, "yaml", cfg.Batch.Format)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "127.0.0.1:9191", cfg.Metrics.ListenAddr)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("BENCH_ITERATIONS", "250")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 250, cfg.Bench.Iterations)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	for name, mutate := range map[string]func(*Config){
		"zero bench iterations": func(c *Config) { c.Bench.Iterations = 0 },
		"zero bench workers":    func(c *Config) { c.Bench.Workers = 0 },
		"zero batch count":      func(c *Config) { c.Batch.Count = 0 },
		"bad batch format":      func(c *Config) { c.Batch.Format = "csv" },
		"zero progress":         func(c *Config) { c.Progress.Interval = 0 },
		"metrics without addr": func(c *Config) {
			c.Metrics.Enabled = true
			c.Metrics.ListenAddr = " "
		},
	} {
		cfg := Default()
		mutate(cfg)
		require.Error(t, cfg.Validate(), name)
	}

	require.NoError(t, Default().Validate())
}

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the complete application configuration
type Config struct {
	Log      LogConfig      `mapstructure:"log"      yaml:"log"`
	Metrics  MetricsConfig  `mapstructure:"metrics"  yaml:"metrics"`
	Bench    BenchConfig    `mapstructure:"bench"    yaml:"bench"`
	Batch    BatchConfig    `mapstructure:"batch"    yaml:"batch"`
	Progress ProgressConfig `mapstructure:"progress" yaml:"progress"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"  env:"LOG_LEVEL"`
	Pretty bool   `mapstructure:"pretty" yaml:"pretty" env:"LOG_PRETTY"`
}

// MetricsConfig holds the optional ops endpoint configuration
type MetricsConfig struct {
	Enabled    bool   `mapstructure:"enabled"     yaml:"enabled"     env:"METRICS_ENABLED"`
	ListenAddr string `mapstructure:"listen_addr" yaml:"listen_addr" env:"METRICS_LISTEN_ADDR"`
}

// BenchConfig holds benchmark run configuration
type BenchConfig struct {
	Iterations int `mapstructure:"iterations" yaml:"iterations" env:"BENCH_ITERATIONS"`
	Workers    int `mapstructure:"workers"    yaml:"workers"    env:"BENCH_WORKERS"`
}

// BatchConfig holds bulk generation configuration
type BatchConfig struct {
	Count          int    `mapstructure:"count"           yaml:"count"           env:"BATCH_COUNT"`
	Workers        int    `mapstructure:"workers"         yaml:"workers"         env:"BATCH_WORKERS"`
	Format         string `mapstructure:"format"          yaml:"format"          env:"BATCH_FORMAT"`
	Output         string `mapstructure:"output"          yaml:"output"          env:"BATCH_OUTPUT"`
	IncludePrivate bool   `mapstructure:"include_private" yaml:"include_private" env:"BATCH_INCLUDE_PRIVATE"`
}

// ProgressConfig holds throughput reporting configuration
type ProgressConfig struct {
	Interval time.Duration `mapstructure:"interval" yaml:"interval" env:"PROGRESS_INTERVAL"`
}

// Load loads configuration from an optional file and the environment.
// An empty configPath runs on defaults plus environment overrides; no
// file is ever required.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.listen_addr", ":9090")

	v.SetDefault("bench.iterations", 1_000_000)
	v.SetDefault("bench.workers", 1)

	v.SetDefault("batch.count", 1)
	v.SetDefault("batch.workers", 1)
	v.SetDefault("batch.format", "json")
	v.SetDefault("batch.output", "-")
	v.SetDefault("batch.include_private", false)

	v.SetDefault("progress.interval", "5s")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Metrics.Enabled && strings.TrimSpace(c.Metrics.ListenAddr) == "" {
		return fmt.Errorf("metrics.listen_addr must be set when metrics enabled")
	}
	if c.Bench.Iterations <= 0 {
		return fmt.Errorf("bench.iterations must be positive, got %d", c.Bench.Iterations)
	}
	if c.Bench.Workers <= 0 {
		return fmt.Errorf("bench.workers must be positive, got %d", c.Bench.Workers)
	}
	if c.Batch.Count <= 0 {
		return fmt.Errorf("batch.count must be positive, got %d", c.Batch.Count)
	}
	if c.Batch.Workers <= 0 {
		return fmt.Errorf("batch.workers must be positive, got %d", c.Batch.Workers)
	}
	switch c.Batch.Format {
	case "json", "yaml":
	default:
		return fmt.Errorf("batch.format must be json or yaml, got %q", c.Batch.Format)
	}
	if c.Progress.Interval <= 0 {
		return fmt.Errorf("progress.interval must be positive")
	}
	return nil
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Pretty: false,
		},
		Metrics: MetricsConfig{
			Enabled:    false,
			ListenAddr: ":9090",
		},
		Bench: BenchConfig{
			Iterations: 1_000_000,
			Workers:    1,
		},
		Batch: BatchConfig{
			Count:   1,
			Workers: 1,
			Format:  "json",
			Output:  "-",
		},
		Progress: ProgressConfig{
			Interval: 5 * time.Second,
		},
	}
}

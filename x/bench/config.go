package bench

import (
	"fmt"

	"github.com/rs/zerolog"
)

// DefaultIterations matches the original mass-generation run length.
const DefaultIterations = 1_000_000

// Config configures a benchmark Runner.
type Config struct {
	// Iterations is the number of key derivations to perform.
	Iterations int
	// Workers is the number of concurrent generation goroutines.
	// Generation is embarrassingly parallel; 1 reproduces the serial run.
	Workers int
	Logger  zerolog.Logger
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig(logger zerolog.Logger) Config {
	return Config{
		Iterations: DefaultIterations,
		Workers:    1,
		Logger:     logger.With().Str("component", "bench").Logger(),
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Iterations <= 0 {
		return fmt.Errorf("bench: iterations must be positive, got %d", c.Iterations)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("bench: workers must be positive, got %d", c.Workers)
	}
	return nil
}

package wcc

import (
	"os"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Config manages refinement configuration using Viper.
type Config struct {
	v *viper.Viper
}

// NewConfig creates a new configuration with defaults.
func NewConfig() *Config {
	v := viper.New()

	// Algorithm parameters
	v.SetDefault("algorithm.max_depth", 64)

	// Performance parameters
	v.SetDefault("performance.num_workers", runtime.NumCPU())

	// Output parameters
	v.SetDefault("output.dir", "")

	// Logging parameters
	v.SetDefault("logging.level", "info")

	return &Config{v: v}
}

// LoadFromFile loads configuration from file.
func (c *Config) LoadFromFile(path string) error {
	c.v.SetConfigFile(path)
	return c.v.ReadInConfig()
}

// MaxDepth bounds the recursion depth of the refinement; branches that
// exceed it are discarded.
func (c *Config) MaxDepth() int { return c.v.GetInt("algorithm.max_depth") }

// NumWorkers is the number of top-level clusters refined concurrently.
func (c *Config) NumWorkers() int { return c.v.GetInt("performance.num_workers") }

// OutputDir is the directory accepted clusters are written to. Empty means
// do not persist.
func (c *Config) OutputDir() string { return c.v.GetString("output.dir") }

func (c *Config) LogLevel() string { return c.v.GetString("logging.level") }

// Set allows dynamic configuration changes.
func (c *Config) Set(key string, value interface{}) {
	c.v.Set(key, value)
}

// CreateLogger creates a zerolog logger based on config.
func (c *Config) CreateLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
	}).Level(level).With().Timestamp().Str("service", "wcc").Logger()
}

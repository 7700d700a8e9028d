package config

import (
	"github.com/spf13/viper"
)

// BenchConfig contains all configuration for the command line benchmark.
type BenchConfig struct {
	Input   InputConfig   `mapstructure:"input"`
	Sweep   SweepConfig   `mapstructure:"sweep"`
	Logging LoggingConfig `mapstructure:"logging"`
}

func (c *BenchConfig) Validate() error {
	if err := c.Input.Validate(); err != nil {
		return err
	}
	return c.Sweep.Validate()
}

// LoadBench loads the benchmark configuration from the given path.
// If configPath is empty, it looks for bench.yaml in the config/ directory.
// Environment variables with GOSUM_BENCH_ prefix override config file values.
func LoadBench(configPath string) (*BenchConfig, error) {
	v := viper.New()

	v.SetDefault("input.length", 200_000_000)
	v.SetDefault("input.min_value", 1)
	v.SetDefault("input.max_value", 10)
	v.SetDefault("input.seed", 0)
	v.SetDefault("input.paths", []string{})
	v.SetDefault("sweep.min_workers", 2)
	v.SetDefault("sweep.max_workers", 20)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	var cfg BenchConfig
	if err := load(v, configPath, "bench", "GOSUM_BENCH", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

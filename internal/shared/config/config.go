package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoggingConfig contains logging-related configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// InputConfig describes where the summed sequence comes from. When Paths is
// empty a random sequence of Length values in [MinValue, MaxValue] is used.
type InputConfig struct {
	Length   int      `mapstructure:"length"`
	MinValue int32    `mapstructure:"min_value"`
	MaxValue int32    `mapstructure:"max_value"`
	Seed     uint64   `mapstructure:"seed"`
	Paths    []string `mapstructure:"paths"`
}

// SweepConfig bounds the worker counts benchmarked against the single
// worker baseline.
type SweepConfig struct {
	MinWorkers int `mapstructure:"min_workers"`
	MaxWorkers int `mapstructure:"max_workers"`
}

func (c SweepConfig) Validate() error {
	if c.MinWorkers < 1 {
		return fmt.Errorf("sweep.min_workers must be >= 1, got %d", c.MinWorkers)
	}
	if c.MaxWorkers < c.MinWorkers {
		return fmt.Errorf("sweep.max_workers (%d) must be >= sweep.min_workers (%d)", c.MaxWorkers, c.MinWorkers)
	}
	return nil
}

func (c InputConfig) Validate() error {
	if len(c.Paths) > 0 {
		return nil
	}
	if c.Length < 0 {
		return fmt.Errorf("input.length must be >= 0, got %d", c.Length)
	}
	if c.MinValue > c.MaxValue {
		return fmt.Errorf("input.min_value (%d) must be <= input.max_value (%d)", c.MinValue, c.MaxValue)
	}
	return nil
}

// load reads configPath, or <name>.yaml from ./config or the working
// directory, applies environment overrides with the given prefix and
// decodes the result into out.
func load(v *viper.Viper, configPath, name, envPrefix string, out any) error {
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(name)
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.Unmarshal(out); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}
	return nil
}

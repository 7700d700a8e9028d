package config

import (
	"time"

	"github.com/spf13/viper"
)

// ServerConfig contains all configuration for the benchmark server.
type ServerConfig struct {
	REST    RESTConfig    `mapstructure:"rest"`
	GRPC    GRPCConfig    `mapstructure:"grpc"`
	Limits  LimitsConfig  `mapstructure:"limits"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// RESTConfig contains REST API server configuration.
type RESTConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// GRPCConfig contains gRPC server configuration.
type GRPCConfig struct {
	Addr             string        `mapstructure:"addr"`
	KeepaliveMinTime time.Duration `mapstructure:"keepalive_min_time"`
}

// LimitsConfig caps the size of benchmarks accepted over the network.
type LimitsConfig struct {
	MaxLength  int `mapstructure:"max_length"`
	MaxWorkers int `mapstructure:"max_workers"`
}

// LoadServer loads the server configuration from the given path.
// If configPath is empty, it looks for server.yaml in the config/ directory.
// Environment variables with GOSUM_SERVER_ prefix override config file values.
func LoadServer(configPath string) (*ServerConfig, error) {
	v := viper.New()

	v.SetDefault("rest.addr", ":8080")
	v.SetDefault("rest.read_timeout", 15*time.Second)
	v.SetDefault("rest.write_timeout", 60*time.Second)
	v.SetDefault("rest.idle_timeout", 60*time.Second)
	v.SetDefault("grpc.addr", ":9090")
	v.SetDefault("grpc.keepalive_min_time", 30*time.Second)
	v.SetDefault("limits.max_length", 50_000_000)
	v.SetDefault("limits.max_workers", 64)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	var cfg ServerConfig
	if err := load(v, configPath, "server", "GOSUM_SERVER", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

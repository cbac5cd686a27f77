package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// RetryWorkers sizes the sync retry dispatcher pool.
	RetryWorkers int `env:"RETRY_WORKERS, default=4"`

	Mongo MongoConfig
	Redis RedisConfig
}

// MongoConfig selects the remote backend. An empty URI means "no backend
// configured": the service runs in degraded mode against seed data and every
// mutation stays local.
type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB,  default=canine_care"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Configured reports whether a remote backend was selected.
func (c MongoConfig) Configured() bool { return c.URI != "" }

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}

package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Mongo MongoConfig
	Redis RedisConfig
	Geo   GeoConfig

	// CacheBackend selects where distance lookups are cached:
	// "records" reads back recent calculation records (default),
	// "redis" uses the dedicated fast store.
	CacheBackend string `env:"CACHE_BACKEND, default=records"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=shipping_engine"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// GeoConfig configures the external distance provider. The credential is
// injected into the client at construction time; nothing reads it globally.
type GeoConfig struct {
	BaseURL string        `env:"GEO_BASE_URL, default=https://maps.googleapis.com/maps/api"`
	APIKey  string        `env:"GEO_API_KEY"`
	Timeout time.Duration `env:"GEO_TIMEOUT,  default=10s"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}

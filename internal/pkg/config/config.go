package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	DriverMongo  = "mongo"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

type Config struct {
	Port      string `env:"PORT,       default=8080"`
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	Auth  AuthConfig
	Store StoreConfig
	Cache CacheConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type AuthConfig struct {
	JWTSecret    string `env:"JWT_SECRET, required"`
	CookieSecure bool   `env:"COOKIE_SECURE, default=true"`
	BcryptCost   int    `env:"BCRYPT_COST,   default=10"`
	HashWorkers  int    `env:"HASH_WORKERS,  default=4"`
}

type StoreConfig struct {
	Driver string `env:"STORE_DRIVER, default=mongo"`
}

type CacheConfig struct {
	Driver     string        `env:"CACHE_DRIVER,      default=memory"`
	ProductTTL time.Duration `env:"PRODUCT_CACHE_TTL, default=5m"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=storefront"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith resolves configuration from an arbitrary lookuper and validates
// the driver selections.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case DriverMongo, DriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", DriverMongo, DriverMemory, c.Store.Driver)
	}
	switch c.Cache.Driver {
	case DriverRedis, DriverMemory:
	default:
		return fmt.Errorf("CACHE_DRIVER must be %q or %q, got %q", DriverRedis, DriverMemory, c.Cache.Driver)
	}
	if c.Auth.HashWorkers < 1 {
		return fmt.Errorf("HASH_WORKERS must be positive, got %d", c.Auth.HashWorkers)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

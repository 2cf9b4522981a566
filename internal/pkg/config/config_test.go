package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	if err != nil {
		t.Fatalf("LoadWith: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if !cfg.Auth.CookieSecure {
		t.Error("CookieSecure should default to true")
	}
	if cfg.Auth.BcryptCost != 10 || cfg.Auth.HashWorkers != 4 {
		t.Errorf("auth defaults = %+v", cfg.Auth)
	}
	if cfg.Store.Driver != DriverMongo || cfg.Cache.Driver != DriverMemory {
		t.Errorf("drivers = %q/%q", cfg.Store.Driver, cfg.Cache.Driver)
	}
	if cfg.Cache.ProductTTL != 5*time.Minute {
		t.Errorf("ProductTTL = %v", cfg.Cache.ProductTTL)
	}
	if cfg.Mongo.Database != "storefront" {
		t.Errorf("Mongo.Database = %q", cfg.Mongo.Database)
	}
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":        "s3cret",
		"PORT":              "3001",
		"COOKIE_SECURE":     "false",
		"STORE_DRIVER":      "memory",
		"CACHE_DRIVER":      "redis",
		"REDIS_PASSWORD":    "pw",
		"PRODUCT_CACHE_TTL": "30s",
		"LOG_PRETTY":        "true",
	}))
	if err != nil {
		t.Fatalf("LoadWith: %v", err)
	}
	if cfg.Port != "3001" || cfg.Auth.CookieSecure || !cfg.LogPretty {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.Store.Driver != DriverMemory || cfg.Cache.Driver != DriverRedis {
		t.Errorf("drivers = %q/%q", cfg.Store.Driver, cfg.Cache.Driver)
	}
	if cfg.Redis.Password != "pw" || cfg.Cache.ProductTTL != 30*time.Second {
		t.Errorf("redis/cache = %+v %+v", cfg.Redis, cfg.Cache)
	}
}

func TestLoadWith_Errors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"missing secret", map[string]string{}, "JWT_SECRET"},
		{"bad store", map[string]string{"JWT_SECRET": "x", "STORE_DRIVER": "postgres"}, "STORE_DRIVER"},
		{"bad cache", map[string]string{"JWT_SECRET": "x", "CACHE_DRIVER": "memcached"}, "CACHE_DRIVER"},
		{"no workers", map[string]string{"JWT_SECRET": "x", "HASH_WORKERS": "0"}, "HASH_WORKERS"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadWith(context.Background(), envconfig.MapLookuper(tc.env))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q does not mention %s", err, tc.wantErr)
			}
		})
	}
}

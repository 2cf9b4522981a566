// Package app holds the process wiring shared by the service binaries:
// backing-store selection, cache selection and the HTTP server lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/storefront/platform/internal/core/ports"
	"github.com/storefront/platform/internal/infrastructure/db/memory"
	mongodb "github.com/storefront/platform/internal/infrastructure/db/mongo"
	redisdb "github.com/storefront/platform/internal/infrastructure/db/redis"
	"github.com/storefront/platform/internal/infrastructure/http/handlers"
	"github.com/storefront/platform/internal/pkg/config"
)

const shutdownTimeout = 30 * time.Second

// Infra is the set of backing services opened for one process.
type Infra struct {
	Mongo  *mongodb.Store
	Redis  *goredis.Client
	Cache  ports.Cache
	Checks []handlers.Check

	log zerolog.Logger
}

// OpenInfra connects to the configured document store and cache. With the
// memory drivers nothing is dialled and the in-process implementations are
// used instead.
func OpenInfra(ctx context.Context, cfg *config.Config, cachePrefix string, log zerolog.Logger) (*Infra, error) {
	infra := &Infra{log: log}

	if cfg.Store.Driver == config.DriverMongo {
		store, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		infra.Mongo = store
		infra.Checks = append(infra.Checks, handlers.Check{Name: "mongodb", Pinger: store})
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")
	}

	switch cfg.Cache.Driver {
	case config.DriverRedis:
		client, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			infra.Close(ctx)
			return nil, err
		}
		infra.Redis = client
		cache := redisdb.NewCache(client, cachePrefix)
		infra.Cache = cache
		infra.Checks = append(infra.Checks, handlers.Check{Name: "redis", Pinger: cache})
		log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")
	default:
		infra.Cache = memory.NewCache()
	}

	return infra, nil
}

// UserRepository returns the user store for the configured driver.
func (i *Infra) UserRepository(ctx context.Context) (ports.UserRepository, error) {
	if i.Mongo == nil {
		return memory.NewUserRepository(), nil
	}
	repo := mongodb.NewUserRepository(i.Mongo.DB)
	if err := repo.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("user indexes: %w", err)
	}
	return repo, nil
}

// ProductRepository returns the product store for the configured driver.
func (i *Infra) ProductRepository(ctx context.Context) (ports.ProductRepository, error) {
	if i.Mongo == nil {
		return memory.NewProductRepository(), nil
	}
	repo := mongodb.NewProductRepository(i.Mongo.DB)
	if err := repo.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("product indexes: %w", err)
	}
	return repo, nil
}

// Close releases the backing connections. It still runs when ctx is already
// cancelled, bounded by its own timeout.
func (i *Infra) Close(ctx context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	if i.Redis != nil {
		if err := i.Redis.Close(); err != nil {
			i.log.Error().Err(err).Msg("failed to close redis client")
		}
	}
	if i.Mongo != nil {
		if err := i.Mongo.Close(ctx); err != nil {
			i.log.Error().Err(err).Msg("failed to disconnect mongodb")
		}
	}
}

// SignalContext is cancelled on SIGINT or SIGTERM.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// Serve runs e on addr until ctx is cancelled, then shuts it down gracefully.
func Serve(ctx context.Context, e *echo.Echo, addr string, log zerolog.Logger) error {
	e.Server.ReadTimeout = 15 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.IdleTimeout = 60 * time.Second

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("address", addr).Msg("server starting")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

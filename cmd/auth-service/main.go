// Command auth-service serves registration, login, sessions and the
// caller's address book.
//
//	@title						Storefront Auth API
//	@version					1.0
//	@description				User accounts, cookie sessions and addresses.
//	@BasePath					/
//	@securityDefinitions.apikey	CookieAuth
//	@in							cookie
//	@name						token
package main

import (
	"context"
	"errors"
	"io/fs"
	"net"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	_ "github.com/storefront/platform/docs"
	"github.com/storefront/platform/internal/api"
	"github.com/storefront/platform/internal/api/handler"
	"github.com/storefront/platform/internal/api/metrics"
	"github.com/storefront/platform/internal/app"
	"github.com/storefront/platform/internal/core/service"
	"github.com/storefront/platform/internal/infrastructure/queue"
	"github.com/storefront/platform/internal/pkg/config"
	"github.com/storefront/platform/internal/pkg/password"
	"github.com/storefront/platform/internal/pkg/session"
	"github.com/storefront/platform/pkg/logger"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	log := logger.New(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty, Service: "auth-service"})
	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		log.Warn().Err(envErr).Msg("could not read .env file")
	}

	if err := run(cfg, log); err != nil {
		log.Error().Err(err).Msg("auth-service stopped with error")
		os.Exit(1)
	}
	log.Info().Msg("auth-service exited properly")
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := app.SignalContext()
	defer stop()

	infra, err := app.OpenInfra(ctx, cfg, "auth", log)
	if err != nil {
		return err
	}
	defer infra.Close(ctx)

	users, err := infra.UserRepository(ctx)
	if err != nil {
		return err
	}

	// The pool outlives ctx so requests still draining after a signal can hash.
	poolCtx, stopPool := context.WithCancel(context.Background())
	defer stopPool()
	pool := queue.NewPool(cfg.Auth.HashWorkers, log, queue.WithDepthGauge(metrics.HashQueueDepth))
	pool.Start(poolCtx)

	tokens, err := session.NewManager(cfg.Auth.JWTSecret)
	if err != nil {
		return err
	}
	hasher := password.NewHasher(cfg.Auth.BcryptCost, password.WithRunner(pool))

	e := api.NewAuthRouter(api.AuthDeps{
		Observability: api.Observability{Log: log, Checks: infra.Checks, Swagger: !cfg.IsProduction()},
		Auth:          service.NewAuthService(users, hasher, tokens, metrics.Recorder{}, log),
		Addresses:     service.NewAddressService(users, metrics.Recorder{}, log),
		Tokens:        tokens,
		Cookies:       handler.CookieConfig{Secure: cfg.Auth.CookieSecure},
	})

	return app.Serve(ctx, e, net.JoinHostPort("", cfg.Port), log)
}

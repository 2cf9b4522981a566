// Command product-service serves the seller catalog.
//
//	@title						Storefront Product API
//	@version					1.0
//	@description				Catalog CRUD for sellers.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package main

import (
	"errors"
	"io/fs"
	"net"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	_ "github.com/storefront/platform/docs"
	"github.com/storefront/platform/internal/api"
	"github.com/storefront/platform/internal/api/metrics"
	"github.com/storefront/platform/internal/app"
	"github.com/storefront/platform/internal/core/service"
	"github.com/storefront/platform/internal/pkg/config"
	"github.com/storefront/platform/internal/pkg/session"
	"github.com/storefront/platform/pkg/logger"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	log := logger.New(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty, Service: "product-service"})
	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		log.Warn().Err(envErr).Msg("could not read .env file")
	}

	if err := run(cfg, log); err != nil {
		log.Error().Err(err).Msg("product-service stopped with error")
		os.Exit(1)
	}
	log.Info().Msg("product-service exited properly")
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := app.SignalContext()
	defer stop()

	infra, err := app.OpenInfra(ctx, cfg, "product", log)
	if err != nil {
		return err
	}
	defer infra.Close(ctx)

	products, err := infra.ProductRepository(ctx)
	if err != nil {
		return err
	}

	tokens, err := session.NewManager(cfg.Auth.JWTSecret)
	if err != nil {
		return err
	}

	e := api.NewProductRouter(api.ProductDeps{
		Observability: api.Observability{Log: log, Checks: infra.Checks, Swagger: !cfg.IsProduction()},
		Products:      service.NewProductService(products, infra.Cache, cfg.Cache.ProductTTL, metrics.Recorder{}, log),
		Tokens:        tokens,
	})

	return app.Serve(ctx, e, net.JoinHostPort("", cfg.Port), log)
}

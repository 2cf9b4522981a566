package http

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/storefront/platform/internal/infrastructure/http/handlers"
)

// OpsConfig selects what RegisterOps exposes.
type OpsConfig struct {
	Checks   []handlers.Check
	Gatherer prometheus.Gatherer
	Swagger  bool
}

// RegisterOps mounts the unauthenticated operational routes shared by every
// service: health probes, the Prometheus scrape endpoint and the API docs.
func RegisterOps(e *echo.Echo, cfg OpsConfig) {
	healthHandler := handlers.NewHealthHandler()
	readyHandler := handlers.NewReadinessHandler(cfg.Checks...)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readyHandler.Readiness)

	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))

	if cfg.Swagger {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}
}

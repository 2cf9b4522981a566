package api

import (
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/storefront/platform/internal/api/handler"
	"github.com/storefront/platform/internal/api/middleware"
	"github.com/storefront/platform/internal/core/domain"
	"github.com/storefront/platform/internal/core/ports"
	opshttp "github.com/storefront/platform/internal/infrastructure/http"
	"github.com/storefront/platform/internal/infrastructure/http/handlers"
)

const bodyLimit = "1M"

// Observability groups what every router needs for logging, metrics and
// readiness. A nil Registerer/Gatherer falls back to the Prometheus defaults.
type Observability struct {
	Log        zerolog.Logger
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
	Checks     []handlers.Check
	Swagger    bool
}

// AuthDeps wires the auth service router.
type AuthDeps struct {
	Observability
	Auth      ports.AuthService
	Addresses ports.AddressService
	Tokens    ports.TokenVerifier
	Cookies   handler.CookieConfig
}

// ProductDeps wires the product service router.
type ProductDeps struct {
	Observability
	Products ports.ProductService
	Tokens   ports.TokenVerifier
}

// NewAuthRouter builds the Echo instance of the auth service.
func NewAuthRouter(d AuthDeps) *echo.Echo {
	e := newEcho(d.Observability, "auth")

	authHandler := handler.NewAuthHandler(d.Auth, d.Cookies)
	addressHandler := handler.NewAddressHandler(d.Addresses)
	session := middleware.Session(d.Tokens, d.Log)

	// --- Auth routes ---
	g := e.Group("/api/auth")
	g.POST("/register", authHandler.Register)
	g.POST("/login", authHandler.Login)
	g.GET("/logout", authHandler.Logout)
	g.GET("/me", authHandler.Me, session)

	// --- Address routes (caller's own document only) ---
	addr := g.Group("/users/me/addresses", session)
	addr.GET("", addressHandler.List)
	addr.POST("", addressHandler.Add)
	addr.DELETE("/:addressId", addressHandler.Delete)

	return e
}

// NewProductRouter builds the Echo instance of the product service. Writes
// accept the session either as a Bearer token or as the auth service cookie.
func NewProductRouter(d ProductDeps) *echo.Echo {
	e := newEcho(d.Observability, "product")

	productHandler := handler.NewProductHandler(d.Products)
	session := middleware.Session(d.Tokens, d.Log,
		middleware.FromBearer(),
		middleware.FromCookie(handler.SessionCookieName),
	)
	sellerOnly := middleware.RBAC(domain.RoleSeller)

	g := e.Group("/api/products")
	g.GET("", productHandler.List)
	g.GET("/:id", productHandler.Get)
	g.POST("", productHandler.Create, session, sellerOnly)
	g.DELETE("/:id", productHandler.Delete, session, sellerOnly)

	return e
}

func newEcho(o Observability, subsystem string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(o.Log)

	// --- Global middleware ---
	e.Pre(echomiddleware.RemoveTrailingSlash())
	e.Use(echomiddleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(o.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "storefront",
		Subsystem:  subsystem,
		Registerer: o.Registerer,
		Skipper:    skipOps,
	}))
	e.Use(echomiddleware.BodyLimit(bodyLimit))

	// --- Ops routes (no auth required) ---
	opshttp.RegisterOps(e, opshttp.OpsConfig{
		Checks:   o.Checks,
		Gatherer: o.Gatherer,
		Swagger:  o.Swagger,
	})

	return e
}

func skipOps(c echo.Context) bool {
	p := c.Request().URL.Path
	return p == "/metrics" || strings.HasPrefix(p, "/health") || strings.HasPrefix(p, "/swagger")
}

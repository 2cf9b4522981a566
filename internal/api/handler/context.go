package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/storefront/platform/internal/core/domain"
)

const claimsKey = "session.claims"

// SetClaims attaches verified session claims to the request context.
func SetClaims(c echo.Context, claims *domain.Claims) {
	c.Set(claimsKey, claims)
}

// ClaimsFrom returns the claims attached by the session middleware. A
// missing or empty identity means the middleware did not run, which is
// reported as domain.ErrUnauthenticated.
func ClaimsFrom(c echo.Context) (*domain.Claims, error) {
	claims, _ := c.Get(claimsKey).(*domain.Claims)
	if claims == nil || claims.ID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return claims, nil
}

package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/storefront/platform/internal/api/handler"
	"github.com/storefront/platform/internal/core/domain"
)

// RBAC enforces role-based access control on the session claims. It must run
// after Session; requests without claims are unauthenticated, requests with
// a role outside allowedRoles are forbidden.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := handler.ClaimsFrom(c)
			if err != nil {
				return err
			}
			if _, ok := allowed[claims.Role]; !ok {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}

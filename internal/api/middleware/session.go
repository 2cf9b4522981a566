package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/storefront/platform/internal/api/handler"
	"github.com/storefront/platform/internal/api/metrics"
	"github.com/storefront/platform/internal/core/domain"
	"github.com/storefront/platform/internal/core/ports"
	"github.com/storefront/platform/internal/pkg/session"
)

// TokenExtractor pulls a raw session token out of a request. present reports
// whether the carrier (cookie or header) was sent at all; a carrier that is
// present but unusable yields present=true and an empty token.
type TokenExtractor func(c echo.Context) (token string, present bool)

// FromCookie reads the token from the named cookie.
func FromCookie(name string) TokenExtractor {
	return func(c echo.Context) (string, bool) {
		ck, err := c.Cookie(name)
		if err != nil || ck.Value == "" {
			return "", false
		}
		return ck.Value, true
	}
}

// FromBearer reads the token from "Authorization: Bearer <token>".
func FromBearer() TokenExtractor {
	return func(c echo.Context) (string, bool) {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return "", false
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return "", true
		}
		return strings.TrimSpace(parts[1]), true
	}
}

// Session verifies the session token and injects its claims into the echo
// context. Every failure is reported to the client as the same
// domain.ErrUnauthenticated; the reason is only logged at debug level and
// counted. Extractors are tried in order; the first carrier present wins.
// With no extractors the "token" cookie is used.
func Session(verifier ports.TokenVerifier, log zerolog.Logger, extractors ...TokenExtractor) echo.MiddlewareFunc {
	if len(extractors) == 0 {
		extractors = []TokenExtractor{FromCookie(handler.SessionCookieName)}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, present := "", false
			for _, extract := range extractors {
				if token, present = extract(c); present {
					break
				}
			}

			if !present {
				return reject(c, log, "missing", nil)
			}
			if token == "" {
				return reject(c, log, "malformed", nil)
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				return reject(c, log, rejectionReason(err), err)
			}

			handler.SetClaims(c, claims)
			return next(c)
		}
	}
}

func reject(c echo.Context, log zerolog.Logger, reason string, err error) error {
	metrics.SessionRejectionsTotal.WithLabelValues(reason).Inc()
	log.Debug().
		Err(err).
		Str("reason", reason).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("session rejected")
	return domain.ErrUnauthenticated
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, session.ErrExpired):
		return "expired"
	case errors.Is(err, session.ErrInvalidSignature):
		return "invalid_signature"
	default:
		return "malformed"
	}
}

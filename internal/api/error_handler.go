package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/storefront/platform/internal/api/handler"
	"github.com/storefront/platform/internal/core/domain"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>", "errors": [...]}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, handler.ErrorResponse) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, handler.ErrorResponse{Error: "validation failed", Errors: ve.Fields}
	}

	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			logUnhandled(log, c, err)
		}
		return he.Code, handler.ErrorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, handler.ErrorResponse{Error: "Unauthorized"}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, handler.ErrorResponse{Error: "Invalid credentials"}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, handler.ErrorResponse{Error: "Forbidden"}
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, handler.ErrorResponse{Error: "Username or email already exists"}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, handler.ErrorResponse{Error: "User not found"}
	case errors.Is(err, domain.ErrAddressNotFound):
		return http.StatusNotFound, handler.ErrorResponse{Error: "Address not found"}
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound, handler.ErrorResponse{Error: "Product not found"}
	}

	// Unexpected error: log the real cause, return a generic message.
	logUnhandled(log, c, err)
	return http.StatusInternalServerError, handler.ErrorResponse{Error: "internal server error"}
}

func logUnhandled(log zerolog.Logger, c echo.Context, err error) {
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")
}

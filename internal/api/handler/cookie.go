package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/storefront/platform/internal/pkg/session"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "token"

// CookieConfig controls the attributes of the session cookie.
type CookieConfig struct {
	// Secure restricts the cookie to HTTPS. Disable only for local plain-HTTP setups.
	Secure bool
}

func (cc CookieConfig) set(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(session.TTL / time.Second),
		HttpOnly: true,
		Secure:   cc.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// clear overwrites the session cookie with an empty, already expired one.
func (cc CookieConfig) clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cc.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

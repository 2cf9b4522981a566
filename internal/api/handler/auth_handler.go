package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/platform/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	cookies     CookieConfig
}

func NewAuthHandler(authService ports.AuthService, cookies CookieConfig) *AuthHandler {
	return &AuthHandler{authService: authService, cookies: cookies}
}

// Register creates a new user account and starts a session.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	sess, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FullName.FirstName,
		LastName:  req.FullName.LastName,
	})
	if err != nil {
		return err
	}

	h.cookies.set(c, sess.Token)
	return c.JSON(http.StatusCreated, authResponse{
		Message: "User registered successfully",
		User:    toUserResponse(sess.User),
	})
}

// Login authenticates by username or email and starts a session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	sess, err := h.authService.Login(c.Request().Context(), ports.LoginInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	h.cookies.set(c, sess.Token)
	return c.JSON(http.StatusOK, authResponse{
		Message: "Login successful",
		User:    toUserResponse(sess.User),
	})
}

// Me returns the identity carried by the session token. No store lookup.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  meResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	claims, err := ClaimsFrom(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, meResponse{
		Message: "Current user fetched successfully",
		User:    toClaimsResponse(claims),
	})
}

// Logout clears the session cookie. It never fails and ignores any cookie sent.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /api/auth/logout [get]
func (h *AuthHandler) Logout(c echo.Context) error {
	h.cookies.clear(c)
	return c.JSON(http.StatusOK, messageResponse{Message: "Logged out successfully"})
}

// bindAndValidate decodes the request body into req and runs the validator.
// Malformed bodies surface as 400 through the echo.HTTPError returned by Bind.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}

package handler

import (
	"time"

	"github.com/storefront/platform/internal/core/domain"
	"github.com/storefront/platform/internal/core/ports"
)

// ── Requests ─────────────────────────────────────────────────────────────────

type fullNameRequest struct {
	FirstName string `json:"firstName" validate:"required,max=64"`
	LastName  string `json:"lastName"  validate:"required,max=64"`
}

type registerRequest struct {
	Username string          `json:"username" validate:"required,min=3,max=32"`
	Email    string          `json:"email"    validate:"required,email"`
	Password string          `json:"password" validate:"required,max=72"`
	FullName fullNameRequest `json:"fullName"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required_without=Email"`
	Email    string `json:"email"`
	Password string `json:"password" validate:"required"`
}

type addressRequest struct {
	Street    string `json:"street"    validate:"required"`
	City      string `json:"city"      validate:"required"`
	State     string `json:"state"     validate:"required"`
	Zip       string `json:"zip"       validate:"required"`
	Country   string `json:"country"   validate:"required"`
	IsDefault bool   `json:"isDefault"`
}

func (r addressRequest) toInput() ports.AddressInput {
	return ports.AddressInput{
		Street:    r.Street,
		City:      r.City,
		State:     r.State,
		Zip:       r.Zip,
		Country:   r.Country,
		IsDefault: r.IsDefault,
	}
}

// createProductRequest binds from JSON or multipart/urlencoded forms.
type createProductRequest struct {
	Title         string  `json:"title"         form:"title"         validate:"required"`
	Description   string  `json:"description"   form:"description"`
	PriceAmount   float64 `json:"priceAmount"   form:"priceAmount"   validate:"gt=0"`
	PriceCurrency string  `json:"priceCurrency" form:"priceCurrency" validate:"omitempty,oneof=INR USD inr usd"`
}

type listProductsQuery struct {
	Page     int    `query:"page"`
	Limit    int    `query:"limit"`
	SellerID string `query:"sellerId"`
}

// ── Responses ────────────────────────────────────────────────────────────────

type messageResponse struct {
	Message string `json:"message"`
}

type userResponse struct {
	ID        string           `json:"id"`
	Username  string           `json:"username"`
	Email     string           `json:"email"`
	FullName  domain.FullName  `json:"fullName"`
	Role      string           `json:"role"`
	Addresses []domain.Address `json:"addresses"`
}

func toUserResponse(u *domain.User) userResponse {
	addrs := u.Addresses
	if addrs == nil {
		addrs = []domain.Address{}
	}
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      u.Role,
		Addresses: addrs,
	}
}

type authResponse struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
}

// claimsResponse mirrors the token payload, timestamps in Unix seconds.
type claimsResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IssuedAt int64  `json:"iat"`
	Expires  int64  `json:"exp"`
}

func toClaimsResponse(c *domain.Claims) claimsResponse {
	return claimsResponse{
		ID:       c.ID,
		Username: c.Username,
		Email:    c.Email,
		Role:     c.Role,
		IssuedAt: unixOrZero(c.IssuedAt),
		Expires:  unixOrZero(c.ExpiresAt),
	}
}

func unixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

type meResponse struct {
	Message string         `json:"message"`
	User    claimsResponse `json:"user"`
}

type addressListResponse struct {
	Message          string           `json:"message"`
	Addresses        []domain.Address `json:"addresses"`
	DefaultAddressID *string          `json:"defaultAddressId"`
}

type addressResponse struct {
	Message string          `json:"message"`
	Address *domain.Address `json:"address"`
}

type addressDeleteResponse struct {
	Message   string           `json:"message"`
	Addresses []domain.Address `json:"addresses"`
}

type productResponse struct {
	Data *domain.Product `json:"data"`
}

type productListResponse struct {
	Data       []*domain.Product `json:"data"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"totalPages"`
}

// ErrorResponse documents the error envelope rendered by the HTTP error handler.
type ErrorResponse struct {
	Error  string   `json:"error"`
	Errors []string `json:"errors,omitempty"`
}

package domain

import "time"

const (
	RoleUser   = "user"
	RoleSeller = "seller"
)

// FullName is the structured display name of a user.
type FullName struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Address is a postal address embedded in a user document. At most one
// address of a user has IsDefault set.
type Address struct {
	ID        string `json:"id"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zip       string `json:"zip"`
	Country   string `json:"country"`
	IsDefault bool   `json:"isDefault"`
}

// User models an account of the storefront.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     FullName  `json:"fullName"`
	Role         string    `json:"role"`
	Addresses    []Address `json:"addresses"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// DefaultAddress returns the address flagged as default, if any.
func (u *User) DefaultAddress() (Address, bool) {
	return DefaultOf(u.Addresses)
}

// DefaultOf returns the first address flagged as default.
func DefaultOf(addrs []Address) (Address, bool) {
	for _, a := range addrs {
		if a.IsDefault {
			return a, true
		}
	}
	return Address{}, false
}

// Claims is the identity carried inside a session token.
type Claims struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

// ClaimsFor builds the token claims for a user. Timestamps are filled in by
// the token issuer.
func ClaimsFor(u *User) Claims {
	return Claims{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}
}

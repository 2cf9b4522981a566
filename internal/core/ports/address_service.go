package ports

import (
	"context"

	"github.com/storefront/platform/internal/core/domain"
)

// AddressInput carries the fields of a new address.
type AddressInput struct {
	Street    string
	City      string
	State     string
	Zip       string
	Country   string
	IsDefault bool
}

// AddressBook is the caller's address list together with the ID of the
// default address (empty when none is flagged).
type AddressBook struct {
	Addresses        []domain.Address
	DefaultAddressID string
}

// AddressService manages the addresses embedded in the caller's user document.
type AddressService interface {
	List(ctx context.Context, userID string) (*AddressBook, error)
	Add(ctx context.Context, userID string, in AddressInput) (*domain.Address, error)
	Delete(ctx context.Context, userID, addressID string) ([]domain.Address, error)
}

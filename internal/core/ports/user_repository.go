package ports

import (
	"context"

	"github.com/storefront/platform/internal/core/domain"
)

// UserRepository defines persistence of user documents and their embedded
// addresses.
type UserRepository interface {
	// Create inserts a new user and returns it with its generated ID.
	// Returns domain.ErrUserExists when username or email is taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// ExistsByUsernameOrEmail reports whether any user matches either value.
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	// FindByLogin looks a user up by username or email, password hash included.
	FindByLogin(ctx context.Context, username, email string) (*domain.User, error)
	// FindByID returns the user without its password hash.
	FindByID(ctx context.Context, id string) (*domain.User, error)

	// AddAddress appends addr to the user's list in a single atomic update and
	// returns it with its generated ID. When addr.IsDefault is set every other
	// address of the user is demoted within the same update.
	AddAddress(ctx context.Context, userID string, addr domain.Address) (*domain.Address, error)
	// RemoveAddress pulls one address and returns the remaining list.
	// Returns domain.ErrAddressNotFound when the user has no such address.
	RemoveAddress(ctx context.Context, userID, addressID string) ([]domain.Address, error)
}

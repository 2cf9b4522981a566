// Package memory provides process-local implementations of the repository
// and cache ports. They back the services in development (STORE_DRIVER=memory,
// CACHE_DRIVER=memory) and in tests.
package memory

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/storefront/platform/internal/core/domain"
)

// UserRepository keeps users in a map. A single mutex serialises every write,
// so each address mutation is applied as one atomic step.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	c.Addresses = cloneAddresses(u.Addresses)
	return &c
}

func cloneAddresses(in []domain.Address) []domain.Address {
	out := make([]domain.Address, len(in))
	copy(out, in)
	return out
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}

	c := cloneUser(user)
	c.ID = primitive.NewObjectID().Hex()
	if c.Role == "" {
		c.Role = domain.RoleUser
	}
	r.users[c.ID] = c
	return cloneUser(c), nil
}

func (r *UserRepository) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.findByLogin(username, email) != nil, nil
}

func (r *UserRepository) FindByLogin(_ context.Context, username, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u := r.findByLogin(username, email)
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepository) findByLogin(username, email string) *domain.User {
	for _, u := range r.users {
		if (username != "" && u.Username == username) || (email != "" && u.Email == email) {
			return u
		}
	}
	return nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	c := cloneUser(u)
	c.PasswordHash = ""
	return c, nil
}

func (r *UserRepository) AddAddress(_ context.Context, userID string, addr domain.Address) (*domain.Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	addr.ID = primitive.NewObjectID().Hex()
	if addr.IsDefault {
		for i := range u.Addresses {
			u.Addresses[i].IsDefault = false
		}
	}
	u.Addresses = append(u.Addresses, addr)
	u.UpdatedAt = time.Now().UTC()

	return &addr, nil
}

func (r *UserRepository) RemoveAddress(_ context.Context, userID, addressID string) ([]domain.Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		return nil, domain.ErrAddressNotFound
	}

	idx := -1
	for i, a := range u.Addresses {
		if a.ID == addressID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, domain.ErrAddressNotFound
	}

	u.Addresses = append(u.Addresses[:idx], u.Addresses[idx+1:]...)
	u.UpdatedAt = time.Now().UTC()
	return cloneAddresses(u.Addresses), nil
}

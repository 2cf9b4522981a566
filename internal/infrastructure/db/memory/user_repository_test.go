package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/platform/internal/core/domain"
)

func seedUser(t *testing.T, r *UserRepository, username string) *domain.User {
	t.Helper()
	u, err := r.Create(context.Background(), &domain.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
		Role:         domain.RoleUser,
	})
	require.NoError(t, err)
	return u
}

func addr(street string, def bool) domain.Address {
	return domain.Address{Street: street, City: "X", State: "Y", Zip: "00001", Country: "US", IsDefault: def}
}

func TestUserRepository_CreateUniqueness(t *testing.T) {
	r := NewUserRepository()
	ctx := context.Background()
	seedUser(t, r, "alice")

	_, err := r.Create(ctx, &domain.User{Username: "alice", Email: "other@example.com"})
	assert.ErrorIs(t, err, domain.ErrUserExists)

	_, err = r.Create(ctx, &domain.User{Username: "other", Email: "alice@example.com"})
	assert.ErrorIs(t, err, domain.ErrUserExists)
}

func TestUserRepository_FindByLogin(t *testing.T) {
	r := NewUserRepository()
	ctx := context.Background()
	u := seedUser(t, r, "alice")

	byName, err := r.FindByLogin(ctx, "alice", "")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)
	assert.Equal(t, "hash", byName.PasswordHash)

	byEmail, err := r.FindByLogin(ctx, "", "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	_, err = r.FindByLogin(ctx, "", "")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	exists, err := r.ExistsByUsernameOrEmail(ctx, "nobody", "alice@example.com")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUserRepository_FindByIDOmitsHash(t *testing.T) {
	r := NewUserRepository()
	u := seedUser(t, r, "alice")

	got, err := r.FindByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Empty(t, got.PasswordHash)

	_, err = r.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepository_AddAddressDemotesOthers(t *testing.T) {
	r := NewUserRepository()
	ctx := context.Background()
	u := seedUser(t, r, "alice")

	first, err := r.AddAddress(ctx, u.ID, addr("1 Main", true))
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	second, err := r.AddAddress(ctx, u.ID, addr("2 Main", true))
	require.NoError(t, err)

	got, err := r.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, got.Addresses, 2)
	assert.False(t, got.Addresses[0].IsDefault)
	assert.True(t, got.Addresses[1].IsDefault)
	assert.Equal(t, second.ID, got.Addresses[1].ID)

	_, err = r.AddAddress(ctx, "missing", addr("3 Main", false))
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepository_RemoveAddressKeepsOrder(t *testing.T) {
	r := NewUserRepository()
	ctx := context.Background()
	u := seedUser(t, r, "alice")

	var ids []string
	for i := 0; i < 3; i++ {
		a, err := r.AddAddress(ctx, u.ID, addr(fmt.Sprintf("%d Main", i), i == 0))
		require.NoError(t, err)
		ids = append(ids, a.ID)
	}

	remaining, err := r.RemoveAddress(ctx, u.ID, ids[1])
	require.NoError(t, err)
	require.Len(t, remaining, 2)
	assert.Equal(t, ids[0], remaining[0].ID)
	assert.Equal(t, ids[2], remaining[1].ID)

	_, err = r.RemoveAddress(ctx, u.ID, ids[1])
	assert.ErrorIs(t, err, domain.ErrAddressNotFound)
}

func TestUserRepository_ConcurrentDefaultsKeepSingleDefault(t *testing.T) {
	r := NewUserRepository()
	ctx := context.Background()
	u := seedUser(t, r, "alice")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := r.AddAddress(ctx, u.ID, addr(fmt.Sprintf("%d Main", i), true))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := r.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, got.Addresses, 50)

	defaults := 0
	for _, a := range got.Addresses {
		if a.IsDefault {
			defaults++
		}
	}
	assert.Equal(t, 1, defaults)
	assert.True(t, got.Addresses[len(got.Addresses)-1].IsDefault)
}

func TestUserRepository_ReturnsCopies(t *testing.T) {
	r := NewUserRepository()
	ctx := context.Background()
	u := seedUser(t, r, "alice")
	_, err := r.AddAddress(ctx, u.ID, addr("1 Main", false))
	require.NoError(t, err)

	got, err := r.FindByID(ctx, u.ID)
	require.NoError(t, err)
	got.Addresses[0].Street = "mutated"

	again, err := r.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "1 Main", again.Addresses[0].Street)
}

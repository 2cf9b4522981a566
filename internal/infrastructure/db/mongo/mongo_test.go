package mongo

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/storefront/platform/internal/core/domain"
	"github.com/storefront/platform/internal/core/ports"
)

// testStore connects to MONGO_TEST_URI and returns a throwaway database.
// The test is skipped when the variable is not set.
func testStore(t *testing.T) *Store {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	ctx := context.Background()
	store, err := Connect(ctx, Config{URI: uri, Database: "storefront_test_" + primitive.NewObjectID().Hex()})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = store.DB.Drop(ctx)
		_ = store.Close(ctx)
	})
	return store
}

func newTestUser(t *testing.T, repo *UserRepository, username string) *domain.User {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Millisecond)
	u, err := repo.Create(context.Background(), &domain.User{
		Username:     username,
		Email:        username + "@x.io",
		PasswordHash: "$2a$10$hash",
		FullName:     domain.FullName{FirstName: "A", LastName: "L"},
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	require.NoError(t, err)
	return u
}

func TestUserRepository_UniqueIndexes(t *testing.T) {
	store := testStore(t)
	repo := NewUserRepository(store.DB)
	ctx := context.Background()
	require.NoError(t, repo.EnsureIndexes(ctx))

	newTestUser(t, repo, "alice")

	_, err := repo.Create(ctx, &domain.User{Username: "alice", Email: "other@x.io"})
	assert.ErrorIs(t, err, domain.ErrUserExists)

	exists, err := repo.ExistsByUsernameOrEmail(ctx, "nobody", "alice@x.io")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUserRepository_PasswordProjection(t *testing.T) {
	store := testStore(t)
	repo := NewUserRepository(store.DB)
	ctx := context.Background()
	u := newTestUser(t, repo, "alice")

	byLogin, err := repo.FindByLogin(ctx, "", "alice@x.io")
	require.NoError(t, err)
	assert.NotEmpty(t, byLogin.PasswordHash)

	byID, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, byID.PasswordHash)
}

func TestUserRepository_AddressLifecycle(t *testing.T) {
	store := testStore(t)
	repo := NewUserRepository(store.DB)
	ctx := context.Background()
	u := newTestUser(t, repo, "alice")

	a1, err := repo.AddAddress(ctx, u.ID, domain.Address{Street: "1 A St", City: "Pune", State: "MH", Zip: "411001", Country: "IN", IsDefault: true})
	require.NoError(t, err)
	a2, err := repo.AddAddress(ctx, u.ID, domain.Address{Street: "$2 B St", City: "Goa", State: "GA", Zip: "403001", Country: "IN"})
	require.NoError(t, err)
	a3, err := repo.AddAddress(ctx, u.ID, domain.Address{Street: "3 C St", City: "Delhi", State: "DL", Zip: "110001", Country: "IN", IsDefault: true})
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, got.Addresses, 3)
	assert.Equal(t, []string{a1.ID, a2.ID, a3.ID}, []string{got.Addresses[0].ID, got.Addresses[1].ID, got.Addresses[2].ID})
	assert.Equal(t, "$2 B St", got.Addresses[1].Street)
	def, ok := got.DefaultAddress()
	require.True(t, ok)
	assert.Equal(t, a3.ID, def.ID)

	remaining, err := repo.RemoveAddress(ctx, u.ID, a3.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 2)
	_, ok = domain.DefaultOf(remaining)
	assert.False(t, ok)

	_, err = repo.RemoveAddress(ctx, u.ID, a3.ID)
	assert.ErrorIs(t, err, domain.ErrAddressNotFound)
	_, err = repo.RemoveAddress(ctx, u.ID, "not-an-id")
	assert.ErrorIs(t, err, domain.ErrAddressNotFound)
}

func TestUserRepository_ConcurrentDefaults(t *testing.T) {
	store := testStore(t)
	repo := NewUserRepository(store.DB)
	ctx := context.Background()
	u := newTestUser(t, repo, "alice")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.AddAddress(ctx, u.ID, domain.Address{Street: "s", City: "c", State: "st", Zip: "z", Country: "IN", IsDefault: true})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, got.Addresses, 20)
	defaults := 0
	for _, a := range got.Addresses {
		if a.IsDefault {
			defaults++
		}
	}
	assert.Equal(t, 1, defaults)
}

func TestProductRepository_OwnerScopedDelete(t *testing.T) {
	store := testStore(t)
	repo := NewProductRepository(store.DB)
	ctx := context.Background()
	require.NoError(t, repo.EnsureIndexes(ctx))

	seller := primitive.NewObjectID().Hex()
	other := primitive.NewObjectID().Hex()
	for i := 0; i < 3; i++ {
		_, err := repo.Create(ctx, &domain.Product{Title: "p", Price: domain.Price{Amount: 10, Currency: domain.CurrencyINR}, SellerID: seller})
		require.NoError(t, err)
	}
	p, err := repo.Create(ctx, &domain.Product{Title: "q", Price: domain.Price{Amount: 5, Currency: domain.CurrencyUSD}, SellerID: other})
	require.NoError(t, err)

	items, total, err := repo.List(ctx, ports.ListProductsFilter{SellerID: seller, Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, items, 2)

	assert.ErrorIs(t, repo.Delete(ctx, p.ID, seller), domain.ErrProductNotFound)
	require.NoError(t, repo.Delete(ctx, p.ID, other))
	_, err = repo.FindByID(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

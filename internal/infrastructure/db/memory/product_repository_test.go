package memory

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/platform/internal/core/domain"
	"github.com/storefront/platform/internal/core/ports"
)

func TestProductRepository_ListNewestFirstWithPaging(t *testing.T) {
	r := NewProductRepository()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		seller := "s1"
		if i%2 == 1 {
			seller = "s2"
		}
		_, err := r.Create(ctx, &domain.Product{Title: fmt.Sprintf("p%d", i), SellerID: seller})
		require.NoError(t, err)
	}

	page, total, err := r.List(ctx, ports.ListProductsFilter{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	require.Len(t, page, 2)
	assert.Equal(t, "p4", page[0].Title)
	assert.Equal(t, "p3", page[1].Title)

	page, total, err = r.List(ctx, ports.ListProductsFilter{SellerID: "s1", Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, page, 1)
	assert.Equal(t, "p0", page[0].Title)

	page, _, err = r.List(ctx, ports.ListProductsFilter{Page: 9, Limit: 2})
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestProductRepository_DeleteChecksOwner(t *testing.T) {
	r := NewProductRepository()
	ctx := context.Background()
	p, err := r.Create(ctx, &domain.Product{Title: "p", SellerID: "s1"})
	require.NoError(t, err)

	assert.ErrorIs(t, r.Delete(ctx, p.ID, "s2"), domain.ErrProductNotFound)
	require.NoError(t, r.Delete(ctx, p.ID, "s1"))

	_, err = r.FindByID(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

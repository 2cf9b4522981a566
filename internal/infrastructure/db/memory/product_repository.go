package memory

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/storefront/platform/internal/core/domain"
	"github.com/storefront/platform/internal/core/ports"
)

// ProductRepository keeps products in insertion order; List returns the
// newest first, like the Mongo implementation.
type ProductRepository struct {
	mu       sync.RWMutex
	products map[string]*domain.Product
	order    []string
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{products: make(map[string]*domain.Product)}
}

func (r *ProductRepository) Create(_ context.Context, p *domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := *p
	c.ID = primitive.NewObjectID().Hex()
	r.products[c.ID] = &c
	r.order = append(r.order, c.ID)

	out := c
	return &out, nil
}

func (r *ProductRepository) FindByID(_ context.Context, id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	c := *p
	return &c, nil
}

func (r *ProductRepository) List(_ context.Context, f ports.ListProductsFilter) ([]*domain.Product, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*domain.Product
	for i := len(r.order) - 1; i >= 0; i-- {
		p, ok := r.products[r.order[i]]
		if !ok {
			continue
		}
		if f.SellerID != "" && p.SellerID != f.SellerID {
			continue
		}
		c := *p
		matched = append(matched, &c)
	}

	total := int64(len(matched))
	limit := f.Limit
	if limit <= 0 {
		limit = len(matched)
	}
	skip := (f.Page - 1) * limit
	if skip < 0 {
		skip = 0
	}
	if skip >= len(matched) {
		return []*domain.Product{}, total, nil
	}
	end := skip + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}

func (r *ProductRepository) Delete(_ context.Context, id, sellerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok || p.SellerID != sellerID {
		return domain.ErrProductNotFound
	}
	delete(r.products, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

package ports

import (
	"context"

	"github.com/storefront/platform/internal/core/domain"
)

// ListProductsFilter carries the query parameters for listing products.
type ListProductsFilter struct {
	SellerID string // optional
	Page     int    // 1-based
	Limit    int
}

// ProductRepository defines persistence operations for products.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	// List returns a page of products matching filter and the total count.
	List(ctx context.Context, filter ListProductsFilter) ([]*domain.Product, int64, error)
	// Delete removes the product when it belongs to sellerID.
	Delete(ctx context.Context, id, sellerID string) error
}

// CreateProductInput carries the data needed to create a product.
type CreateProductInput struct {
	Title         string
	Description   string
	PriceAmount   float64
	PriceCurrency string
	SellerID      string
}

// ListProductsResult is returned by ProductService.List.
type ListProductsResult struct {
	Items      []*domain.Product
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

type ProductService interface {
	Create(ctx context.Context, in CreateProductInput) (*domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, filter ListProductsFilter) (*ListProductsResult, error)
	Delete(ctx context.Context, id, sellerID string) error
}

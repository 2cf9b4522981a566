package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/storefront/platform/internal/core/domain"
	"github.com/storefront/platform/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
	productKeyPrefix = "product:"
)

// ProductService implements catalog CRUD with a read-through cache for
// single-product lookups.
type ProductService struct {
	repo     ports.ProductRepository
	cache    ports.Cache
	cacheTTL time.Duration
	metrics  ports.Metrics
	log      zerolog.Logger
}

func NewProductService(repo ports.ProductRepository, cache ports.Cache, cacheTTL time.Duration, m ports.Metrics, log zerolog.Logger) *ProductService {
	return &ProductService{repo: repo, cache: cache, cacheTTL: cacheTTL, metrics: orNop(m), log: log}
}

// Create stores a new product owned by in.SellerID.
func (s *ProductService) Create(ctx context.Context, in ports.CreateProductInput) (*domain.Product, error) {
	currency := strings.ToUpper(strings.TrimSpace(in.PriceCurrency))
	if currency == "" {
		currency = domain.CurrencyINR
	}

	var fields []string
	title := strings.TrimSpace(in.Title)
	if title == "" {
		fields = append(fields, "title is required")
	}
	if in.PriceAmount <= 0 {
		fields = append(fields, "priceAmount must be greater than 0")
	}
	if currency != domain.CurrencyINR && currency != domain.CurrencyUSD {
		fields = append(fields, "priceCurrency must be one of: INR USD")
	}
	if len(fields) > 0 {
		return nil, domain.NewValidationError(fields...)
	}
	if in.SellerID == "" {
		return nil, domain.ErrForbidden
	}

	now := time.Now().UTC()
	p := &domain.Product{
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Price:       domain.Price{Amount: in.PriceAmount, Currency: currency},
		SellerID:    in.SellerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create product")
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.metrics.ProductCreated(currency)
	s.log.Info().Str("product_id", created.ID).Str("seller_id", in.SellerID).Msg("product created")
	return created, nil
}

// Get returns a product, serving from the cache when possible. Cache failures
// are logged and fall through to the repository.
func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	key := productKeyPrefix + id

	raw, ok, err := s.cache.Get(ctx, key)
	switch {
	case err != nil:
		s.metrics.ProductCache("error")
		s.log.Warn().Err(err).Str("key", key).Msg("product cache read failed")
	case ok:
		var p domain.Product
		if jsonErr := json.Unmarshal([]byte(raw), &p); jsonErr == nil {
			s.metrics.ProductCache("hit")
			return &p, nil
		}
		s.metrics.ProductCache("error")
		s.log.Warn().Str("key", key).Msg("discarding undecodable cached product")
	default:
		s.metrics.ProductCache("miss")
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, wrapRepoErr("get product", err)
	}

	if b, err := json.Marshal(p); err == nil {
		if err := s.cache.Set(ctx, key, string(b), s.cacheTTL); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("product cache write failed")
		}
	}
	return p, nil
}

// List returns one page of products. Limit defaults to 20 and is capped at 100.
func (s *ProductService) List(ctx context.Context, f ports.ListProductsFilter) (*ports.ListProductsResult, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = defaultPageLimit
	}
	if f.Limit > maxPageLimit {
		f.Limit = maxPageLimit
	}

	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if items == nil {
		items = []*domain.Product{}
	}

	totalPages := int((total + int64(f.Limit) - 1) / int64(f.Limit))
	return &ports.ListProductsResult{
		Items:      items,
		Total:      total,
		Page:       f.Page,
		Limit:      f.Limit,
		TotalPages: totalPages,
	}, nil
}

// Delete removes a product owned by sellerID and evicts it from the cache.
func (s *ProductService) Delete(ctx context.Context, id, sellerID string) error {
	if err := s.repo.Delete(ctx, id, sellerID); err != nil {
		return wrapRepoErr("delete product", err)
	}
	if err := s.cache.Delete(ctx, productKeyPrefix+id); err != nil {
		s.log.Warn().Err(err).Str("product_id", id).Msg("product cache eviction failed")
	}
	s.log.Info().Str("product_id", id).Str("seller_id", sellerID).Msg("product deleted")
	return nil
}

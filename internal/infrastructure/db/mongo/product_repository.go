package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/storefront/platform/internal/core/domain"
	"github.com/storefront/platform/internal/core/ports"
)

const productsCollection = "products"

type ProductRepository struct {
	col *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{col: db.Collection(productsCollection)}
}

type mongoPrice struct {
	Amount   float64 `bson:"amount"`
	Currency string  `bson:"currency"`
}

type mongoProduct struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Price       mongoPrice         `bson:"price"`
	Seller      primitive.ObjectID `bson:"seller"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

// Create inserts a new product document.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	seller, err := primitive.ObjectIDFromHex(p.SellerID)
	if err != nil {
		return nil, domain.ErrForbidden
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoProduct{
		ID:          primitive.NewObjectID(),
		Title:       p.Title,
		Description: p.Description,
		Price:       mongoPrice{Amount: p.Price.Amount, Currency: p.Price.Currency},
		Seller:      seller,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}
	return toDomainProduct(doc), nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrProductNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoProduct
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return toDomainProduct(doc), nil
}

// List returns one page of products, newest first. When filter.SellerID is
// set only that seller's products are returned.
func (r *ProductRepository) List(ctx context.Context, filter ports.ListProductsFilter) ([]*domain.Product, int64, error) {
	q := bson.M{}
	if filter.SellerID != "" {
		seller, err := primitive.ObjectIDFromHex(filter.SellerID)
		if err != nil {
			return []*domain.Product{}, 0, nil
		}
		q["seller"] = seller
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.col.CountDocuments(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	if filter.Limit > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		opts.SetSkip(int64((page - 1) * filter.Limit)).SetLimit(int64(filter.Limit))
	}

	cur, err := r.col.Find(ctx, q, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find products: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoProduct
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode products: %w", err)
	}

	items := make([]*domain.Product, 0, len(docs))
	for _, d := range docs {
		items = append(items, toDomainProduct(d))
	}
	return items, total, nil
}

// Delete removes a product only when sellerID owns it. A foreign product is
// reported as not found so existence is not leaked.
func (r *ProductRepository) Delete(ctx context.Context, id, sellerID string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrProductNotFound
	}
	seller, err := primitive.ObjectIDFromHex(sellerID)
	if err != nil {
		return domain.ErrProductNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid, "seller": seller})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// EnsureIndexes creates the seller lookup index and a text index over title
// and description.
func (r *ProductRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "seller", Value: 1}}},
		{Keys: bson.D{{Key: "title", Value: "text"}, {Key: "description", Value: "text"}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func toDomainProduct(d mongoProduct) *domain.Product {
	return &domain.Product{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Price:       domain.Price{Amount: d.Price.Amount, Currency: d.Price.Currency},
		SellerID:    d.Seller.Hex(),
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

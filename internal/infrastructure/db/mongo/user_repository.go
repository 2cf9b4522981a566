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
)

const usersCollection = "users"

// UserRepository implements ports.UserRepository using MongoDB. Addresses
// are embedded in the user document, so every address mutation is a single
// document update.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

type mongoFullName struct {
	FirstName string `bson:"firstName"`
	LastName  string `bson:"lastName"`
}

type mongoAddress struct {
	ID        primitive.ObjectID `bson:"_id"`
	Street    string             `bson:"street"`
	City      string             `bson:"city"`
	State     string             `bson:"state"`
	Zip       string             `bson:"zip"`
	Country   string             `bson:"country"`
	IsDefault bool               `bson:"isDefault"`
}

type mongoUser struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password,omitempty"`
	FullName     mongoFullName      `bson:"fullName"`
	Role         string             `bson:"role"`
	Addresses    []mongoAddress     `bson:"addresses"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

// withoutPassword is the projection used for every read except login.
var withoutPassword = bson.M{"password": 0}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoUser{
		ID:           primitive.NewObjectID(),
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		FullName:     mongoFullName{FirstName: user.FullName.FirstName, LastName: user.FullName.LastName},
		Role:         user.Role,
		Addresses:    toMongoAddresses(user.Addresses),
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
	if doc.Role == "" {
		doc.Role = domain.RoleUser
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return toDomainUser(doc), nil
}

func (r *UserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	filter, ok := loginFilter(username, email)
	if !ok {
		return false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return n > 0, nil
}

func (r *UserRepository) FindByLogin(ctx context.Context, username, email string) (*domain.User, error) {
	filter, ok := loginFilter(username, email)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, filter, nil)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid}, withoutPassword)
}

func (r *UserRepository) findOne(ctx context.Context, filter, projection bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOne()
	if projection != nil {
		opts.SetProjection(projection)
	}

	var mu mongoUser
	if err := r.coll.FindOne(ctx, filter, opts).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return toDomainUser(mu), nil
}

// AddAddress appends addr with one update. A default address is added with
// an aggregation-pipeline update that rewrites every existing entry with
// isDefault=false and concatenates the new one, so demotion and insertion
// commit together.
func (r *UserRepository) AddAddress(ctx context.Context, userID string, addr domain.Address) (*domain.Address, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toMongoAddress(addr)
	doc.ID = primitive.NewObjectID()
	now := time.Now().UTC()

	var update interface{}
	if doc.IsDefault {
		demoted := bson.D{{Key: "$map", Value: bson.D{
			{Key: "input", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$addresses", bson.A{}}}}},
			{Key: "in", Value: bson.D{{Key: "$mergeObjects", Value: bson.A{"$$this", bson.D{{Key: "isDefault", Value: false}}}}}},
		}}}
		// $literal keeps user-supplied strings starting with "$" from being
		// read as field paths.
		appended := bson.D{{Key: "$literal", Value: bson.A{doc}}}
		update = mongo.Pipeline{
			{{Key: "$set", Value: bson.D{
				{Key: "addresses", Value: bson.D{{Key: "$concatArrays", Value: bson.A{demoted, appended}}}},
				{Key: "updatedAt", Value: now},
			}}},
		}
	} else {
		update = bson.M{
			"$push": bson.M{"addresses": doc},
			"$set":  bson.M{"updatedAt": now},
		}
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return nil, fmt.Errorf("add address: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrUserNotFound
	}

	out := toDomainAddress(doc)
	return &out, nil
}

// RemoveAddress pulls the address with a filter that requires it to exist,
// so a missing address and a missing user both surface as ErrAddressNotFound.
func (r *UserRepository) RemoveAddress(ctx context.Context, userID, addressID string) ([]domain.Address, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrAddressNotFound
	}
	aid, err := primitive.ObjectIDFromHex(addressID)
	if err != nil {
		return nil, domain.ErrAddressNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": uid, "addresses._id": aid}
	update := bson.M{
		"$pull": bson.M{"addresses": bson.M{"_id": aid}},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"addresses": 1})

	var mu mongoUser
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAddressNotFound
		}
		return nil, fmt.Errorf("remove address: %w", err)
	}
	return toDomainAddresses(mu.Addresses), nil
}

// EnsureIndexes creates the unique indexes backing username/email uniqueness.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

func loginFilter(username, email string) (bson.M, bool) {
	var or bson.A
	if username != "" {
		or = append(or, bson.M{"username": username})
	}
	if email != "" {
		or = append(or, bson.M{"email": email})
	}
	if len(or) == 0 {
		return nil, false
	}
	return bson.M{"$or": or}, true
}

func toDomainUser(mu mongoUser) *domain.User {
	return &domain.User{
		ID:           mu.ID.Hex(),
		Username:     mu.Username,
		Email:        mu.Email,
		PasswordHash: mu.PasswordHash,
		FullName:     domain.FullName{FirstName: mu.FullName.FirstName, LastName: mu.FullName.LastName},
		Role:         mu.Role,
		Addresses:    toDomainAddresses(mu.Addresses),
		CreatedAt:    mu.CreatedAt.UTC(),
		UpdatedAt:    mu.UpdatedAt.UTC(),
	}
}

func toMongoAddress(a domain.Address) mongoAddress {
	doc := mongoAddress{
		Street:    a.Street,
		City:      a.City,
		State:     a.State,
		Zip:       a.Zip,
		Country:   a.Country,
		IsDefault: a.IsDefault,
	}
	if oid, err := primitive.ObjectIDFromHex(a.ID); err == nil {
		doc.ID = oid
	}
	return doc
}

func toMongoAddresses(in []domain.Address) []mongoAddress {
	out := make([]mongoAddress, 0, len(in))
	for _, a := range in {
		doc := toMongoAddress(a)
		if doc.ID.IsZero() {
			doc.ID = primitive.NewObjectID()
		}
		out = append(out, doc)
	}
	return out
}

func toDomainAddress(doc mongoAddress) domain.Address {
	return domain.Address{
		ID:        doc.ID.Hex(),
		Street:    doc.Street,
		City:      doc.City,
		State:     doc.State,
		Zip:       doc.Zip,
		Country:   doc.Country,
		IsDefault: doc.IsDefault,
	}
}

func toDomainAddresses(in []mongoAddress) []domain.Address {
	out := make([]domain.Address, 0, len(in))
	for _, doc := range in {
		out = append(out, toDomainAddress(doc))
	}
	return out
}

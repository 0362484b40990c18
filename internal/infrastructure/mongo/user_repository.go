package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "inventorypos/internal/domain/user"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// userDoc is keyed by email; there is no separate opaque id.
type userDoc struct {
	Email        string    `bson:"_id"`
	Name         string    `bson:"name"`
	Role         string    `bson:"role"`
	ProductLimit int       `bson:"productLimit"`
	Logo         string    `bson:"logo"`
	CreatedAt    time.Time `bson:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) coll() *mongo.Collection {
	return r.store.collection(collUsers)
}

func (r *UserRepository) Insert(ctx context.Context, u *domain.User) error {
	if u == nil || u.Email == "" {
		return fmt.Errorf("user repository: email is required")
	}
	_, err := r.coll().InsertOne(ctx, userDoc{
		Email:        u.Email,
		Name:         u.Name,
		Role:         string(u.Role),
		ProductLimit: u.ProductLimit,
		Logo:         u.Logo,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	})
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrAlreadyExists
	}
	return err
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var doc userDoc
	err := r.coll().FindOne(ctx, bson.M{"_id": email}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &domain.User{
		Email:        doc.Email,
		Name:         doc.Name,
		Role:         domain.Role(doc.Role),
		ProductLimit: doc.ProductLimit,
		Logo:         doc.Logo,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}, nil
}

// SetProductLimit is an absolute $set, not an $inc.
func (r *UserRepository) SetProductLimit(ctx context.Context, email string, limit int) error {
	res, err := r.coll().UpdateOne(ctx, bson.M{"_id": email}, bson.M{"$set": bson.M{
		"productLimit": limit,
		"updatedAt":    time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

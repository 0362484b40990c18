package mongo

import (
	"context"
	"fmt"
	"time"

	domain "inventorypos/internal/domain/shop"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type shopDoc struct {
	ID           string    `bson:"_id"`
	OwnerEmail   string    `bson:"ownerEmail"`
	OwnerID      string    `bson:"ownerId"`
	Name         string    `bson:"name"`
	Logo         string    `bson:"logo"`
	ProductLimit int       `bson:"productLimit"`
	Income       float64   `bson:"income"`
	CreatedAt    time.Time `bson:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

type ShopRepository struct {
	store *Store
}

func NewShopRepository(store *Store) *ShopRepository {
	return &ShopRepository{store: store}
}

func (r *ShopRepository) coll() *mongo.Collection {
	return r.store.collection(collShops)
}

func (r *ShopRepository) Insert(ctx context.Context, s *domain.Shop) error {
	if s == nil || s.ID == "" {
		return fmt.Errorf("shop repository: id is required")
	}
	_, err := r.coll().InsertOne(ctx, shopDoc{
		ID:           s.ID,
		OwnerEmail:   s.OwnerEmail,
		OwnerID:      s.OwnerID,
		Name:         s.Name,
		Logo:         s.Logo,
		ProductLimit: s.ProductLimit,
		Income:       s.Income,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	})
	return err
}

func (r *ShopRepository) ListByOwner(ctx context.Context, ownerEmail string) ([]*domain.Shop, error) {
	cur, err := r.coll().Find(ctx, bson.M{"ownerEmail": ownerEmail})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]*domain.Shop, 0)
	for cur.Next(ctx) {
		var doc shopDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, &domain.Shop{
			ID:           doc.ID,
			OwnerEmail:   doc.OwnerEmail,
			OwnerID:      doc.OwnerID,
			Name:         doc.Name,
			Logo:         doc.Logo,
			ProductLimit: doc.ProductLimit,
			Income:       doc.Income,
			CreatedAt:    doc.CreatedAt,
			UpdatedAt:    doc.UpdatedAt,
		})
	}
	return out, cur.Err()
}

func (r *ShopRepository) CountByOwner(ctx context.Context, ownerEmail string) (int64, error) {
	return r.coll().CountDocuments(ctx, bson.M{"ownerEmail": ownerEmail})
}

// GrantQuota matches on the ownerId field, not ownerEmail. The matched
// count is not checked: a grant that matches no shop is a silent no-op
// at this layer.
func (r *ShopRepository) GrantQuota(ctx context.Context, ownerID string, limitDelta int, incomeDelta float64) error {
	if ownerID == "" {
		return nil
	}
	_, err := r.coll().UpdateOne(ctx, bson.M{"ownerId": ownerID}, bson.M{
		"$inc": bson.M{
			"productLimit": limitDelta,
			"income":       incomeDelta,
		},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	})
	return err
}

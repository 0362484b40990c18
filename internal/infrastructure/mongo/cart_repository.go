package mongo

import (
	"context"
	"fmt"
	"time"

	domain "inventorypos/internal/domain/cart"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type cartDoc struct {
	ID         string    `bson:"_id"`
	OwnerEmail string    `bson:"ownerEmail"`
	ProductID  string    `bson:"productId"`
	Quantity   int       `bson:"quantity"`
	CreatedAt  time.Time `bson:"createdAt"`
}

type CartRepository struct {
	store *Store
}

func NewCartRepository(store *Store) *CartRepository {
	return &CartRepository{store: store}
}

func (r *CartRepository) coll() *mongo.Collection {
	return r.store.collection(collCarts)
}

func (r *CartRepository) Insert(ctx context.Context, i *domain.Item) error {
	if i == nil || i.ID == "" {
		return fmt.Errorf("cart repository: id is required")
	}
	_, err := r.coll().InsertOne(ctx, cartDoc{
		ID:         i.ID,
		OwnerEmail: i.OwnerEmail,
		ProductID:  i.ProductID,
		Quantity:   i.Quantity,
		CreatedAt:  i.CreatedAt,
	})
	return err
}

func (r *CartRepository) ListByOwner(ctx context.Context, ownerEmail string) ([]*domain.Item, error) {
	cur, err := r.coll().Find(ctx, bson.M{"ownerEmail": ownerEmail})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]*domain.Item, 0)
	for cur.Next(ctx) {
		var doc cartDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, &domain.Item{
			ID:         doc.ID,
			OwnerEmail: doc.OwnerEmail,
			ProductID:  doc.ProductID,
			Quantity:   doc.Quantity,
			CreatedAt:  doc.CreatedAt,
		})
	}
	return out, cur.Err()
}

func (r *CartRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

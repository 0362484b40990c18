package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "inventorypos/internal/domain/product"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type productDoc struct {
	ID          string    `bson:"_id"`
	OwnerEmail  string    `bson:"ownerEmail"`
	Name        string    `bson:"name"`
	ImageURL    string    `bson:"imageUrl"`
	Quantity    int       `bson:"quantity"`
	Cost        string    `bson:"cost"`
	Profit      string    `bson:"profit"`
	Discount    string    `bson:"discount"`
	Description string    `bson:"description"`
	Location    string    `bson:"location"`
	SaleCount   int       `bson:"saleCount"`
	CreatedAt   time.Time `bson:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

func toProductDoc(p *domain.Product) productDoc {
	return productDoc{
		ID:          p.ID,
		OwnerEmail:  p.OwnerEmail,
		Name:        p.Name,
		ImageURL:    p.ImageURL,
		Quantity:    p.Quantity,
		Cost:        p.Cost,
		Profit:      p.Profit,
		Discount:    p.Discount,
		Description: p.Description,
		Location:    p.Location,
		SaleCount:   p.SaleCount,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (d productDoc) toDomain() *domain.Product {
	return &domain.Product{
		ID:          d.ID,
		OwnerEmail:  d.OwnerEmail,
		Name:        d.Name,
		ImageURL:    d.ImageURL,
		Quantity:    d.Quantity,
		Cost:        d.Cost,
		Profit:      d.Profit,
		Discount:    d.Discount,
		Description: d.Description,
		Location:    d.Location,
		SaleCount:   d.SaleCount,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type ProductRepository struct {
	store *Store
}

func NewProductRepository(store *Store) *ProductRepository {
	return &ProductRepository{store: store}
}

func (r *ProductRepository) coll() *mongo.Collection {
	return r.store.collection(collProducts)
}

func (r *ProductRepository) Insert(ctx context.Context, p *domain.Product) error {
	if p == nil || p.ID == "" {
		return fmt.Errorf("product repository: id is required")
	}
	_, err := r.coll().InsertOne(ctx, toProductDoc(p))
	return err
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	var doc productDoc
	err := r.coll().FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *ProductRepository) ListByOwner(ctx context.Context, ownerEmail string) ([]*domain.Product, error) {
	cur, err := r.coll().Find(ctx, bson.M{"ownerEmail": ownerEmail})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]*domain.Product, 0)
	for cur.Next(ctx) {
		var doc productDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toDomain())
	}
	return out, cur.Err()
}

func (r *ProductRepository) CountByOwner(ctx context.Context, ownerEmail string) (int64, error) {
	return r.coll().CountDocuments(ctx, bson.M{"ownerEmail": ownerEmail})
}

// ReplaceByID issues a $set of the entire editable field set with upsert
// enabled. Every field is always written, so a caller that omits one
// clears it; ownerEmail and saleCount are not part of the $set and
// survive the replace.
func (r *ProductRepository) ReplaceByID(ctx context.Context, id string, f domain.Fields) error {
	if id == "" {
		return fmt.Errorf("product repository: id is required")
	}

	update := bson.M{"$set": bson.M{
		"name":        f.Name,
		"imageUrl":    f.ImageURL,
		"quantity":    f.Quantity,
		"cost":        f.Cost,
		"profit":      f.Profit,
		"discount":    f.Discount,
		"description": f.Description,
		"location":    f.Location,
		"updatedAt":   time.Now().UTC(),
	}}
	_, err := r.coll().UpdateOne(ctx, bson.M{"_id": id}, update, options.Update().SetUpsert(true))
	return err
}

// DecrementStock is a read-modify-write, not a conditional update:
// concurrent callers can interleave between the read and the write. The
// per-call below-zero refusal is the only guard, matching the store
// semantics the rest of the system is built around.
func (r *ProductRepository) DecrementStock(ctx context.Context, id string, amount int) (int, error) {
	p, err := r.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}

	newQuantity := p.Quantity - amount
	if newQuantity < 0 {
		return 0, domain.ErrOutOfStock
	}

	_, err = r.coll().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"quantity":  newQuantity,
		"updatedAt": time.Now().UTC(),
	}})
	if err != nil {
		return 0, err
	}
	return newQuantity, nil
}

func (r *ProductRepository) IncrementSaleCount(ctx context.Context, id string) error {
	res, err := r.coll().UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"saleCount": 1},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "inventorypos/internal/domain/sale"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type saleDoc struct {
	ID           string    `bson:"_id"`
	ProductID    string    `bson:"productId"`
	ProductName  string    `bson:"productName"`
	Quantity     int       `bson:"quantity"`
	SellingPrice float64   `bson:"sellingPrice"`
	CreatedAt    time.Time `bson:"createdAt"`
}

// SaleRepository only ever inserts and reads; there is no update or
// delete path for ledger entries.
type SaleRepository struct {
	store *Store
}

func NewSaleRepository(store *Store) *SaleRepository {
	return &SaleRepository{store: store}
}

func (r *SaleRepository) coll() *mongo.Collection {
	return r.store.collection(collSales)
}

func (r *SaleRepository) Append(ctx context.Context, rec *domain.Record) error {
	if rec == nil || rec.ID == "" {
		return fmt.Errorf("sale repository: id is required")
	}
	_, err := r.coll().InsertOne(ctx, saleDoc{
		ID:           rec.ID,
		ProductID:    rec.ProductID,
		ProductName:  rec.ProductName,
		Quantity:     rec.Quantity,
		SellingPrice: rec.SellingPrice,
		CreatedAt:    rec.CreatedAt,
	})
	return err
}

// FindByProductID looks up by the denormalized product reference, not by
// the ledger's own _id.
func (r *SaleRepository) FindByProductID(ctx context.Context, productID string) (*domain.Record, error) {
	var doc saleDoc
	err := r.coll().FindOne(ctx, bson.M{"productId": productID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &domain.Record{
		ID:           doc.ID,
		ProductID:    doc.ProductID,
		ProductName:  doc.ProductName,
		Quantity:     doc.Quantity,
		SellingPrice: doc.SellingPrice,
		CreatedAt:    doc.CreatedAt,
	}, nil
}

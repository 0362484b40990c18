package mongo

import (
	"context"
	"fmt"
	"time"

	domain "inventorypos/internal/domain/payment"

	"go.mongodb.org/mongo-driver/mongo"
)

type paymentDoc struct {
	ID        string    `bson:"_id"`
	Email     string    `bson:"email"`
	UserID    string    `bson:"userId"`
	Plan      string    `bson:"plan"`
	Amount    float64   `bson:"amount"`
	Role      string    `bson:"role"`
	CreatedAt time.Time `bson:"createdAt"`
}

type PaymentRepository struct {
	store *Store
}

func NewPaymentRepository(store *Store) *PaymentRepository {
	return &PaymentRepository{store: store}
}

func (r *PaymentRepository) coll() *mongo.Collection {
	return r.store.collection(collPayments)
}

func (r *PaymentRepository) Append(ctx context.Context, rec *domain.Record) error {
	if rec == nil || rec.ID == "" {
		return fmt.Errorf("payment repository: id is required")
	}
	_, err := r.coll().InsertOne(ctx, paymentDoc{
		ID:        rec.ID,
		Email:     rec.Email,
		UserID:    rec.UserID,
		Plan:      rec.Plan,
		Amount:    rec.Amount,
		Role:      string(rec.Role),
		CreatedAt: rec.CreatedAt,
	})
	return err
}

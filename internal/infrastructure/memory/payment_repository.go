package memory

import (
	"context"
	"fmt"
	"sync"

	domain "inventorypos/internal/domain/payment"
)

type PaymentRepository struct {
	mu      sync.RWMutex
	records []*domain.Record
}

func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{}
}

func (r *PaymentRepository) Append(ctx context.Context, rec *domain.Record) error {
	_ = ctx
	if rec == nil || rec.ID == "" {
		return fmt.Errorf("payment repository: id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = append(r.records, rec.Clone())
	return nil
}

// All exists for tests asserting what was persisted.
func (r *PaymentRepository) All(ctx context.Context) ([]*domain.Record, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Record, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec.Clone())
	}
	return out, nil
}

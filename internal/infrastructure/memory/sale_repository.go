package memory

import (
	"context"
	"fmt"
	"sync"

	domain "inventorypos/internal/domain/sale"
)

// SaleRepository is append-only; records are stored in insertion order
// and never mutated.
type SaleRepository struct {
	mu      sync.RWMutex
	records []*domain.Record
}

func NewSaleRepository() *SaleRepository {
	return &SaleRepository{}
}

func (r *SaleRepository) Append(ctx context.Context, rec *domain.Record) error {
	_ = ctx
	if rec == nil || rec.ID == "" {
		return fmt.Errorf("sale repository: id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = append(r.records, rec.Clone())
	return nil
}

// FindByProductID returns the first record referencing the product.
func (r *SaleRepository) FindByProductID(ctx context.Context, productID string) (*domain.Record, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rec := range r.records {
		if rec.ProductID == productID {
			return rec.Clone(), nil
		}
	}
	return nil, domain.ErrNotFound
}

// CountByProductID exists for tests asserting ledger growth.
func (r *SaleRepository) CountByProductID(ctx context.Context, productID string) (int, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, rec := range r.records {
		if rec.ProductID == productID {
			n++
		}
	}
	return n, nil
}

package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	domain "inventorypos/internal/domain/product"
)

type ProductRepository struct {
	mu       sync.RWMutex
	products map[string]*domain.Product
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{
		products: make(map[string]*domain.Product),
	}
}

func (r *ProductRepository) Insert(ctx context.Context, p *domain.Product) error {
	_ = ctx
	if p == nil || p.ID == "" {
		return fmt.Errorf("product repository: id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.products[p.ID] = p.Clone()
	return nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p.Clone(), nil
}

func (r *ProductRepository) ListByOwner(ctx context.Context, ownerEmail string) ([]*domain.Product, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Product, 0)
	for _, p := range r.products {
		if p.OwnerEmail == ownerEmail {
			out = append(out, p.Clone())
		}
	}
	return out, nil
}

func (r *ProductRepository) CountByOwner(ctx context.Context, ownerEmail string) (int64, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, p := range r.products {
		if p.OwnerEmail == ownerEmail {
			n++
		}
	}
	return n, nil
}

// ReplaceByID overwrites the entire editable field set, inserting when
// absent. OwnerEmail and SaleCount are outside the replaced set.
func (r *ProductRepository) ReplaceByID(ctx context.Context, id string, f domain.Fields) error {
	_ = ctx
	if id == "" {
		return fmt.Errorf("product repository: id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		p = &domain.Product{ID: id, CreatedAt: time.Now().UTC()}
		r.products[id] = p
	}

	p.Name = f.Name
	p.ImageURL = f.ImageURL
	p.Quantity = f.Quantity
	p.Cost = f.Cost
	p.Profit = f.Profit
	p.Discount = f.Discount
	p.Description = f.Description
	p.Location = f.Location
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *ProductRepository) DecrementStock(ctx context.Context, id string, amount int) (int, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return 0, domain.ErrNotFound
	}

	newQuantity := p.Quantity - amount
	if newQuantity < 0 {
		return 0, domain.ErrOutOfStock
	}

	p.Quantity = newQuantity
	p.UpdatedAt = time.Now().UTC()
	return newQuantity, nil
}

func (r *ProductRepository) IncrementSaleCount(ctx context.Context, id string) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return domain.ErrNotFound
	}

	p.SaleCount++
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

package memory

import (
	"context"
	"fmt"
	"sync"

	domain "inventorypos/internal/domain/cart"
)

type CartRepository struct {
	mu    sync.RWMutex
	items map[string]*domain.Item
}

func NewCartRepository() *CartRepository {
	return &CartRepository{
		items: make(map[string]*domain.Item),
	}
}

func (r *CartRepository) Insert(ctx context.Context, i *domain.Item) error {
	_ = ctx
	if i == nil || i.ID == "" {
		return fmt.Errorf("cart repository: id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[i.ID] = i.Clone()
	return nil
}

func (r *CartRepository) ListByOwner(ctx context.Context, ownerEmail string) ([]*domain.Item, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Item, 0)
	for _, i := range r.items {
		if i.OwnerEmail == ownerEmail {
			out = append(out, i.Clone())
		}
	}
	return out, nil
}

func (r *CartRepository) Delete(ctx context.Context, id string) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

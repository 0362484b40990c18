package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	domain "inventorypos/internal/domain/shop"
)

type ShopRepository struct {
	mu    sync.RWMutex
	shops map[string]*domain.Shop
}

func NewShopRepository() *ShopRepository {
	return &ShopRepository{
		shops: make(map[string]*domain.Shop),
	}
}

func (r *ShopRepository) Insert(ctx context.Context, s *domain.Shop) error {
	_ = ctx
	if s == nil || s.ID == "" {
		return fmt.Errorf("shop repository: id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.shops[s.ID] = s.Clone()
	return nil
}

func (r *ShopRepository) ListByOwner(ctx context.Context, ownerEmail string) ([]*domain.Shop, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Shop, 0)
	for _, s := range r.shops {
		if s.OwnerEmail == ownerEmail {
			out = append(out, s.Clone())
		}
	}
	return out, nil
}

func (r *ShopRepository) CountByOwner(ctx context.Context, ownerEmail string) (int64, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, s := range r.shops {
		if s.OwnerEmail == ownerEmail {
			n++
		}
	}
	return n, nil
}

// GrantQuota applies additive updates to every shop whose OwnerID
// matches. Matching nothing is not an error.
func (r *ShopRepository) GrantQuota(ctx context.Context, ownerID string, limitDelta int, incomeDelta float64) error {
	_ = ctx
	if ownerID == "" {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.shops {
		if s.OwnerID == ownerID {
			s.ProductLimit += limitDelta
			s.Income += incomeDelta
			s.UpdatedAt = time.Now().UTC()
		}
	}
	return nil
}

package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	domain "inventorypos/internal/domain/user"
)

type UserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users: make(map[string]*domain.User),
	}
}

func (r *UserRepository) Insert(ctx context.Context, u *domain.User) error {
	_ = ctx
	if u == nil || u.Email == "" {
		return fmt.Errorf("user repository: email is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[u.Email]; exists {
		return domain.ErrAlreadyExists
	}
	r.users[u.Email] = u.Clone()
	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u.Clone(), nil
}

func (r *UserRepository) SetProductLimit(ctx context.Context, email string, limit int) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[email]
	if !ok {
		return domain.ErrNotFound
	}
	u.ProductLimit = limit
	u.UpdatedAt = time.Now().UTC()
	return nil
}

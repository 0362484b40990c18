package cart

import (
	"context"
	"errors"
	"fmt"

	"inventorypos/internal/domain/cart"
)

var (
	ErrRepository = errors.New("cart: repository failure")
	ErrValidation = errors.New("cart: invalid input")
)

type IDGenerator interface {
	NewID() string
}

type Service struct {
	items cart.Repository
	idGen IDGenerator
}

func NewService(items cart.Repository, idGen IDGenerator) *Service {
	return &Service{items: items, idGen: idGen}
}

type AddInput struct {
	OwnerEmail string
	ProductID  string
	Quantity   int
}

func (s *Service) Add(ctx context.Context, in AddInput) (string, error) {
	if in.OwnerEmail == "" {
		return "", fmt.Errorf("%w: owner email is required", ErrValidation)
	}
	if in.ProductID == "" {
		return "", fmt.Errorf("%w: product id is required", ErrValidation)
	}

	item, err := cart.NewItem(s.idGen.NewID(), in.OwnerEmail, in.ProductID, in.Quantity)
	if err != nil {
		return "", err
	}
	if err := s.items.Insert(ctx, item); err != nil {
		return "", fmt.Errorf("%w: %w", ErrRepository, err)
	}
	return item.ID, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerEmail string) ([]*cart.Item, error) {
	return s.items.ListByOwner(ctx, ownerEmail)
}

func (s *Service) Remove(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: item id is required", ErrValidation)
	}
	return s.items.Delete(ctx, id)
}

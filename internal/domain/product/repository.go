package product

import "context"

// Repository persists products. Each call is an independent store
// operation; callers composing several calls get no cross-call atomicity.
type Repository interface {
	Insert(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	ListByOwner(ctx context.Context, ownerEmail string) ([]*Product, error)
	CountByOwner(ctx context.Context, ownerEmail string) (int64, error)

	// ReplaceByID overwrites the entire client-editable field set, creating
	// the document when absent. Fields not present in the replacement are
	// cleared, not preserved; OwnerEmail and SaleCount are outside the
	// replaced set and survive.
	ReplaceByID(ctx context.Context, id string, f Fields) error

	// DecrementStock subtracts amount from the product's quantity and
	// returns the new quantity. It refuses to go below zero: when
	// quantity-amount is negative it returns ErrOutOfStock and leaves the
	// stored quantity unchanged.
	DecrementStock(ctx context.Context, id string, amount int) (int, error)

	IncrementSaleCount(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

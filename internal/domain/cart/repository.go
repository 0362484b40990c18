package cart

import "context"

type Repository interface {
	Insert(ctx context.Context, i *Item) error
	ListByOwner(ctx context.Context, ownerEmail string) ([]*Item, error)
	Delete(ctx context.Context, id string) error
}

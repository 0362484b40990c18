package cart

import (
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("cart: item not found")
	ErrInvalidQuantity = errors.New("cart: quantity must be greater than zero")
)

// Item is a plain document with no derived invariant; the referenced
// product is a soft id resolved by application logic.
type Item struct {
	ID         string
	OwnerEmail string
	ProductID  string
	Quantity   int
	CreatedAt  time.Time
}

func NewItem(id, ownerEmail, productID string, quantity int) (*Item, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	return &Item{
		ID:         id,
		OwnerEmail: ownerEmail,
		ProductID:  productID,
		Quantity:   quantity,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

func (i *Item) Clone() *Item {
	if i == nil {
		return nil
	}
	clone := *i
	return &clone
}

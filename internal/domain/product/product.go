package product

import (
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("product: not found")
	ErrOutOfStock      = errors.New("product: out of stock")
	ErrInvalidQuantity = errors.New("product: quantity must be zero or greater")
)

// Product is a single inventory item owned by a shop owner.
//
// Cost, Profit and Discount are carried as raw strings exactly as the
// client submitted them. Price computation parses them at sale time; a
// non-numeric value flows through as NaN rather than being rejected on
// write. See selling.SellingPrice.
type Product struct {
	ID          string
	OwnerEmail  string
	Name        string
	ImageURL    string
	Quantity    int
	Cost        string
	Profit      string
	Discount    string
	Description string
	Location    string
	SaleCount   int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Fields is the client-supplied portion of a product document.
type Fields struct {
	Name        string
	ImageURL    string
	Quantity    int
	Cost        string
	Profit      string
	Discount    string
	Description string
	Location    string
}

func New(id, ownerEmail string, f Fields) (*Product, error) {
	if f.Quantity < 0 {
		return nil, ErrInvalidQuantity
	}

	now := time.Now().UTC()
	return &Product{
		ID:          id,
		OwnerEmail:  ownerEmail,
		Name:        f.Name,
		ImageURL:    f.ImageURL,
		Quantity:    f.Quantity,
		Cost:        f.Cost,
		Profit:      f.Profit,
		Discount:    f.Discount,
		Description: f.Description,
		Location:    f.Location,
		SaleCount:   0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

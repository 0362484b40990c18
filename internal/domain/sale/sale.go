package sale

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("sale: not found")

// Record is one ledger entry. It snapshots the product's name and
// pre-sale quantity so later edits to the live product never alter
// history. Records are append-only and never mutated.
type Record struct {
	ID           string
	ProductID    string
	ProductName  string
	Quantity     int
	SellingPrice float64
	CreatedAt    time.Time
}

func NewRecord(id, productID, productName string, quantity int, sellingPrice float64) *Record {
	return &Record{
		ID:           id,
		ProductID:    productID,
		ProductName:  productName,
		Quantity:     quantity,
		SellingPrice: sellingPrice,
		CreatedAt:    time.Now().UTC(),
	}
}

func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	clone := *r
	return &clone
}

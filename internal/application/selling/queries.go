package selling

import (
	"context"

	"inventorypos/internal/domain/sale"
)

// SaleQuery answers read-only ledger lookups. Lookup is by the record's
// denormalized product reference, mirroring how records are retrieved at
// the boundary.
type SaleQuery struct {
	sales sale.Repository
}

func NewSaleQuery(sales sale.Repository) *SaleQuery {
	return &SaleQuery{sales: sales}
}

func (q *SaleQuery) ByProductID(ctx context.Context, productID string) (*sale.Record, error) {
	if productID == "" {
		return nil, newValidation("product id is required")
	}
	return q.sales.FindByProductID(ctx, productID)
}

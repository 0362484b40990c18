package sale

import "context"

// Repository is the append-only sale ledger. Lookups go through the
// denormalized product reference, not the record's own id: a record is
// created under its ledger id but retrieved by the product it sold.
type Repository interface {
	Append(ctx context.Context, r *Record) error
	FindByProductID(ctx context.Context, productID string) (*Record, error)
}

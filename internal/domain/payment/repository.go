package payment

import "context"

// Repository is append-only; records are never updated or deleted.
type Repository interface {
	Append(ctx context.Context, r *Record) error
}

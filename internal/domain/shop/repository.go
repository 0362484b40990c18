package shop

import "context"

type Repository interface {
	Insert(ctx context.Context, s *Shop) error
	ListByOwner(ctx context.Context, ownerEmail string) ([]*Shop, error)
	CountByOwner(ctx context.Context, ownerEmail string) (int64, error)

	// GrantQuota adds limitDelta to ProductLimit and incomeDelta to Income
	// on the shop whose OwnerID matches. Matching no shop is not an error;
	// the update simply applies to nothing.
	GrantQuota(ctx context.Context, ownerID string, limitDelta int, incomeDelta float64) error
}

package quota

import "errors"

// ErrCapacityExceeded is returned by creation guards when an owner is at
// or over the creation limit for an entity kind.
var ErrCapacityExceeded = errors.New("quota: creation limit reached")

type EntityKind string

const (
	KindShop    EntityKind = "shop"
	KindProduct EntityKind = "product"
)

// Creation ceilings per owner. The product ceiling is a fixed constant:
// the creation guard does not consult the per-user ProductLimit purchased
// through payment plans, even though that field is maintained elsewhere.
// The two quotas are separate.
const (
	MaxShopsPerOwner    = 1
	MaxProductsPerOwner = 3
)

// planTiers is a closed enumeration of purchasable plans. Unknown plan
// identifiers resolve to the zero tier rather than an error.
var planTiers = map[string]int{
	"$10": 200,
	"$20": 450,
	"$50": 1500,
}

// AdmitCreation reports whether an owner with currentCount existing
// entities of the given kind may create one more.
func AdmitCreation(kind EntityKind, currentCount int64) bool {
	switch kind {
	case KindShop:
		return currentCount < MaxShopsPerOwner
	case KindProduct:
		return currentCount < MaxProductsPerOwner
	default:
		return false
	}
}

// TierForPlan maps a plan identifier to the quota it unlocks.
func TierForPlan(plan string) int {
	return planTiers[plan]
}

package payment

import (
	"time"

	"inventorypos/internal/domain/user"
)

// Record is an immutable payment document. It drives quota propagation
// but is never re-derived from other state.
type Record struct {
	ID        string
	Email     string
	UserID    string
	Plan      string
	Amount    float64
	Role      user.Role
	CreatedAt time.Time
}

func NewRecord(id, email, userID, plan string, amount float64, role user.Role) *Record {
	return &Record{
		ID:        id,
		Email:     email,
		UserID:    userID,
		Plan:      plan,
		Amount:    amount,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
}

func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	clone := *r
	return &clone
}

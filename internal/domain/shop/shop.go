package shop

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("shop: not found")

// Shop is a tenant. OwnerEmail keys creation-limit checks; OwnerID keys
// the quota-grant update applied on admin payments. The two identifiers
// are distinct fields and are never reconciled against each other.
type Shop struct {
	ID           string
	OwnerEmail   string
	OwnerID      string
	Name         string
	Logo         string
	ProductLimit int
	Income       float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Fields struct {
	OwnerID string
	Name    string
	Logo    string
}

func New(id, ownerEmail string, f Fields) *Shop {
	now := time.Now().UTC()
	return &Shop{
		ID:         id,
		OwnerEmail: ownerEmail,
		OwnerID:    f.OwnerID,
		Name:       f.Name,
		Logo:       f.Logo,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (s *Shop) Clone() *Shop {
	if s == nil {
		return nil
	}
	clone := *s
	return &clone
}

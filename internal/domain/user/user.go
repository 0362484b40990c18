package user

import (
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("user: not found")
	ErrAlreadyExists = errors.New("user: already exists")
)

type Role string

const (
	RoleRegular Role = "regular"
	RoleAdmin   Role = "admin"
)

// User is keyed by email; uniqueness is checked at registration, not
// enforced by a store constraint.
type User struct {
	Email        string
	Name         string
	Role         Role
	ProductLimit int
	Logo         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func New(email, name string, role Role, logo string) *User {
	if role == "" {
		role = RoleRegular
	}
	now := time.Now().UTC()
	return &User{
		Email:     email,
		Name:      name,
		Role:      role,
		Logo:      logo,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

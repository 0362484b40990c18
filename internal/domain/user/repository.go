package user

import "context"

type Repository interface {
	Insert(ctx context.Context, u *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)

	// SetProductLimit overwrites the user's quota with an absolute value.
	// It is not additive; any previously purchased quota is replaced.
	SetProductLimit(ctx context.Context, email string, limit int) error
}

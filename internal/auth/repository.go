package auth

import "context"

// Repository provides persistence for user accounts.
type Repository interface {
	CreateUser(ctx context.Context, user User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	CountUsers(ctx context.Context) (int, error)
}

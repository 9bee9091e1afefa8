package user

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested user does not exist.
var ErrNotFound = errors.New("user not found")

// User is a marketplace account. Every user can both buy and sell.
type User struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Reviews   []string
}

// Repository defines persistence operations for user accounts.
type Repository interface {
	GetByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, u *User) error
	AddReview(ctx context.Context, sellerID, review string) error
}

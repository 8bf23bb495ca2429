package repository

import (
	"context"

	"betaware/internal/model"
)

// UserRepository defines operations for user data.
// Lookups return (nil, nil) when no user matches; the service layer
// decides whether that is an error.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
	FindAll(ctx context.Context) ([]model.User, error)
}

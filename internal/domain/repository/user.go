package repository

import (
	"context"

	"github.com/polkiloo/pos80/internal/domain/model"
)

// UserRepository describes persistence operations for staff users.
type UserRepository interface {
	Create(ctx context.Context, user model.User) (*model.User, error)
	GetByLogin(ctx context.Context, login string) (*model.User, error)
	Count(ctx context.Context) (int, error)
}

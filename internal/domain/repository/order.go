package repository

import (
	"context"
	"time"

	"github.com/polkiloo/pos80/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	Create(ctx context.Context, order model.Order) error
	Get(ctx context.Context, id string) (*model.Order, error)
	List(ctx context.Context) ([]model.Order, error)
	// Update applies fn to the stored order inside one critical section and
	// persists the result unless fn returns an error.
	Update(ctx context.Context, id string, fn func(*model.Order) error) (*model.Order, error)
	Delete(ctx context.Context, id string) error
	ListUndispatched(ctx context.Context, limit int) ([]model.Order, error)
	MarkDispatched(ctx context.Context, id string, at time.Time) error
	DeleteAll(ctx context.Context) error
}

package repository

import (
	"context"

	"github.com/polkiloo/pos80/internal/domain/model"
)

// ProductRepository manages the menu catalog.
type ProductRepository interface {
	List(ctx context.Context) ([]model.Product, error)
	Get(ctx context.Context, id int64) (*model.Product, error)
	Create(ctx context.Context, product model.Product) (*model.Product, error)
	Update(ctx context.Context, product model.Product) error
	Delete(ctx context.Context, id int64) error
}

// PrinterRepository manages printer configuration.
type PrinterRepository interface {
	List(ctx context.Context) ([]model.Printer, error)
	Get(ctx context.Context, id int64) (*model.Printer, error)
	Create(ctx context.Context, printer model.Printer) (*model.Printer, error)
	Update(ctx context.Context, printer model.Printer) error
	Delete(ctx context.Context, id int64) error
}

package handlers

import (
	"context"
	"io"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/pos80/internal/domain/model"
	"github.com/polkiloo/pos80/internal/receipt"
	"github.com/polkiloo/pos80/internal/usecase"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Login(ctx context.Context, login, password string) (*model.User, string, error)
	ParseToken(token string) (model.Actor, error)
	CreateUser(ctx context.Context, in usecase.CreateUserInput) (*model.User, error)
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	PlaceOrder(ctx context.Context, in usecase.CreateOrderInput) (*model.Order, error)
	Orders(ctx context.Context, status model.OrderStatus) ([]model.Order, error)
	Track(ctx context.Context, code string) ([]model.Order, error)
	EditOrder(ctx context.Context, id string, patch model.OrderPatch) (*model.Order, error)
	ChangeStatus(ctx context.Context, id string, status model.OrderStatus, actor model.Actor) (*model.Order, error)
	DeleteOrder(ctx context.Context, id string) error
	KitchenQueue(ctx context.Context) ([]model.Order, error)
	DeliveryQueue(ctx context.Context) ([]model.Order, error)
	Receipt(ctx context.Context, id string) (receipt.Document, error)
	PrintOrder(ctx context.Context, id string) (model.PrintAck, error)
}

// TillFacade provides the cash register workflow.
type TillFacade interface {
	Till(ctx context.Context) (model.TillSession, error)
	OpenTill(ctx context.Context, openingFloat decimal.Decimal) (model.TillSession, error)
	CloseTill(ctx context.Context) (*usecase.CloseResult, error)
	TillReport(ctx context.Context) (model.ReconciliationReport, error)
	ResetRecords(ctx context.Context) error
}

// CatalogFacade manages the menu.
type CatalogFacade interface {
	Menu(ctx context.Context) ([]model.Product, error)
	Product(ctx context.Context, id int64) (*model.Product, error)
	CreateProduct(ctx context.Context, p model.Product) (*model.Product, error)
	UpdateProduct(ctx context.Context, p model.Product) (*model.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

// PrinterFacade manages printer configuration.
type PrinterFacade interface {
	Printers(ctx context.Context) ([]model.Printer, error)
	CreatePrinter(ctx context.Context, p model.Printer) (*model.Printer, error)
	UpdatePrinter(ctx context.Context, p model.Printer) (*model.Printer, error)
	DeletePrinter(ctx context.Context, id int64) error
	TestPrinter(ctx context.Context, id int64) (model.PrintAck, error)
}

// ReportFacade aggregates sales data.
type ReportFacade interface {
	SalesReport(ctx context.Context, filter model.SalesFilter) (model.SalesSummary, error)
	SalesCSV(ctx context.Context, filter model.SalesFilter, w io.Writer) error
	Dashboard(ctx context.Context) (model.Dashboard, error)
}

// POSFacade aggregates the full set of operations used across handlers.
type POSFacade interface {
	AuthFacade
	OrderFacade
	TillFacade
	CatalogFacade
	PrinterFacade
	ReportFacade
}

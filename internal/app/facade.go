package app

import (
	"context"
	"io"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/pos80/internal/domain/model"
	"github.com/polkiloo/pos80/internal/receipt"
	"github.com/polkiloo/pos80/internal/usecase"
)

// POSFacade aggregates the use cases behind the HTTP API.
type POSFacade struct {
	auth     *usecase.AuthUseCase
	orders   *usecase.OrderUseCase
	till     *usecase.TillUseCase
	catalog  *usecase.CatalogUseCase
	printers *usecase.PrinterUseCase
	reports  *usecase.ReportUseCase
}

// NewPOSFacade constructs POSFacade.
func NewPOSFacade(auth *usecase.AuthUseCase, orders *usecase.OrderUseCase, till *usecase.TillUseCase, catalog *usecase.CatalogUseCase, printers *usecase.PrinterUseCase, reports *usecase.ReportUseCase) *POSFacade {
	return &POSFacade{auth: auth, orders: orders, till: till, catalog: catalog, printers: printers, reports: reports}
}

func (f *POSFacade) SeedStaff(ctx context.Context, password string) error {
	return f.auth.SeedDefaults(ctx, password)
}

func (f *POSFacade) Login(ctx context.Context, login, password string) (*model.User, string, error) {
	return f.auth.Authenticate(ctx, login, password)
}

func (f *POSFacade) CreateUser(ctx context.Context, in usecase.CreateUserInput) (*model.User, error) {
	return f.auth.CreateUser(ctx, in)
}

func (f *POSFacade) ParseToken(token string) (model.Actor, error) {
	return f.auth.ParseToken(token)
}

func (f *POSFacade) PlaceOrder(ctx context.Context, in usecase.CreateOrderInput) (*model.Order, error) {
	return f.orders.Create(ctx, in)
}

func (f *POSFacade) Orders(ctx context.Context, status model.OrderStatus) ([]model.Order, error) {
	return f.orders.List(ctx, model.OrderFilter{Status: status})
}

func (f *POSFacade) Track(ctx context.Context, code string) ([]model.Order, error) {
	return f.orders.LookupByTrackingCode(ctx, code)
}

func (f *POSFacade) EditOrder(ctx context.Context, id string, patch model.OrderPatch) (*model.Order, error) {
	return f.orders.Edit(ctx, id, patch)
}

func (f *POSFacade) ChangeStatus(ctx context.Context, id string, status model.OrderStatus, actor model.Actor) (*model.Order, error) {
	return f.orders.Transition(ctx, id, status, actor)
}

func (f *POSFacade) DeleteOrder(ctx context.Context, id string) error {
	return f.orders.Delete(ctx, id)
}

func (f *POSFacade) KitchenQueue(ctx context.Context) ([]model.Order, error) {
	return f.orders.KitchenQueue(ctx)
}

func (f *POSFacade) DeliveryQueue(ctx context.Context) ([]model.Order, error) {
	return f.orders.DeliveryQueue(ctx)
}

func (f *POSFacade) Receipt(ctx context.Context, id string) (receipt.Document, error) {
	return f.orders.Receipt(ctx, id)
}

// PrintOrder sends the ticket of order id to the default printer. Sink
// failures come back as *errors.PrintError.
func (f *POSFacade) PrintOrder(ctx context.Context, id string) (model.PrintAck, error) {
	return f.orders.Print(ctx, id)
}

func (f *POSFacade) Till(ctx context.Context) (model.TillSession, error) {
	return f.till.Status(ctx)
}

func (f *POSFacade) OpenTill(ctx context.Context, openingFloat decimal.Decimal) (model.TillSession, error) {
	return f.till.Open(ctx, openingFloat)
}

func (f *POSFacade) CloseTill(ctx context.Context) (*usecase.CloseResult, error) {
	return f.till.Close(ctx)
}

func (f *POSFacade) TillReport(ctx context.Context) (model.ReconciliationReport, error) {
	return f.till.Report(ctx)
}

func (f *POSFacade) ResetRecords(ctx context.Context) error {
	return f.till.ResetRecords(ctx)
}

func (f *POSFacade) Menu(ctx context.Context) ([]model.Product, error) {
	return f.catalog.List(ctx)
}

func (f *POSFacade) Product(ctx context.Context, id int64) (*model.Product, error) {
	return f.catalog.Get(ctx, id)
}

func (f *POSFacade) CreateProduct(ctx context.Context, p model.Product) (*model.Product, error) {
	return f.catalog.Create(ctx, p)
}

func (f *POSFacade) UpdateProduct(ctx context.Context, p model.Product) (*model.Product, error) {
	return f.catalog.Update(ctx, p)
}

func (f *POSFacade) DeleteProduct(ctx context.Context, id int64) error {
	return f.catalog.Delete(ctx, id)
}

func (f *POSFacade) Printers(ctx context.Context) ([]model.Printer, error) {
	return f.printers.List(ctx)
}

func (f *POSFacade) CreatePrinter(ctx context.Context, p model.Printer) (*model.Printer, error) {
	return f.printers.Create(ctx, p)
}

func (f *POSFacade) UpdatePrinter(ctx context.Context, p model.Printer) (*model.Printer, error) {
	return f.printers.Update(ctx, p)
}

func (f *POSFacade) DeletePrinter(ctx context.Context, id int64) error {
	return f.printers.Delete(ctx, id)
}

func (f *POSFacade) TestPrinter(ctx context.Context, id int64) (model.PrintAck, error) {
	return f.printers.Test(ctx, id)
}

func (f *POSFacade) SalesReport(ctx context.Context, filter model.SalesFilter) (model.SalesSummary, error) {
	return f.reports.Sales(ctx, filter)
}

func (f *POSFacade) SalesCSV(ctx context.Context, filter model.SalesFilter, w io.Writer) error {
	return f.reports.SalesCSV(ctx, filter, w)
}

func (f *POSFacade) Dashboard(ctx context.Context) (model.Dashboard, error) {
	return f.reports.Dashboard(ctx)
}

// TicketFacade adapts order use cases to the print watcher.
type TicketFacade struct {
	orders *usecase.OrderUseCase
}

// NewTicketFacade constructs TicketFacade.
func NewTicketFacade(orders *usecase.OrderUseCase) *TicketFacade {
	return &TicketFacade{orders: orders}
}

func (f *TicketFacade) OrdersToPrint(ctx context.Context, limit int) ([]model.Order, error) {
	return f.orders.Undispatched(ctx, limit)
}

func (f *TicketFacade) PrintTicket(ctx context.Context, order model.Order) error {
	_, err := f.orders.PrintTicket(ctx, order)
	return err
}

func (f *TicketFacade) MarkPrinted(ctx context.Context, orderID string) error {
	return f.orders.MarkDispatched(ctx, orderID)
}

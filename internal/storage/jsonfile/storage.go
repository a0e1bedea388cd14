package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	domainErrors "github.com/polkiloo/pos80/internal/domain/errors"
	"github.com/polkiloo/pos80/internal/domain/model"
	"github.com/polkiloo/pos80/internal/domain/repository"
)

const (
	ordersFile   = "orders.json"
	tillFile     = "till.json"
	productsFile = "products.json"
	printersFile = "printers.json"
	usersFile    = "users.json"
	reportsDir   = "reports"

	reportTimeLayout = "20060102-150405"
)

// Storage acts as repository facade backed by JSON files in one directory.
type Storage struct {
	dir    string
	logger *slog.Logger

	orders   *document[[]model.Order]
	till     *document[model.TillSession]
	products *document[[]model.Product]
	printers *document[[]model.Printer]
	users    *document[[]model.User]
}

type orderRepository struct {
	storage *Storage
}

type tillRepository struct {
	storage *Storage
}

type reportArchive struct {
	storage *Storage
}

type productRepository struct {
	storage *Storage
}

type printerRepository struct {
	storage *Storage
}

type userRepository struct {
	storage *Storage
}

// New prepares the data directory and returns file backed storage.
func New(dir string, logger *slog.Logger) (*Storage, error) {
	if err := os.MkdirAll(filepath.Join(dir, reportsDir), 0o755); err != nil {
		return nil, fmt.Errorf("prepare data dir: %w", err)
	}
	return &Storage{
		dir:      dir,
		logger:   logger,
		orders:   newDocument(dir, ordersFile, func() []model.Order { return []model.Order{} }, logger),
		till:     newDocument(dir, tillFile, func() model.TillSession { return model.TillSession{} }, logger),
		products: newDocument(dir, productsFile, func() []model.Product { return []model.Product{} }, logger),
		printers: newDocument(dir, printersFile, func() []model.Printer { return []model.Printer{} }, logger),
		users:    newDocument(dir, usersFile, func() []model.User { return []model.User{} }, logger),
	}, nil
}

// HealthCheck verifies the data directory is still present.
func (s *Storage) HealthCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("data dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data dir %s is not a directory", s.dir)
	}
	return nil
}

// Dir returns the data directory.
func (s *Storage) Dir() string {
	return s.dir
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Till() repository.TillRepository {
	return &tillRepository{storage: s}
}

func (s *Storage) Reports() repository.ReportArchive {
	return &reportArchive{storage: s}
}

func (s *Storage) Products() repository.ProductRepository {
	return &productRepository{storage: s}
}

func (s *Storage) Printers() repository.PrinterRepository {
	return &printerRepository{storage: s}
}

func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

// --- OrderRepository implementation ---

func (r *orderRepository) Create(ctx context.Context, order model.Order) error {
	return r.storage.orders.mutate(ctx, func(orders *[]model.Order) error {
		*orders = append(*orders, order)
		return nil
	})
}

func (r *orderRepository) Get(ctx context.Context, id string) (*model.Order, error) {
	orders, err := r.storage.orders.read(ctx)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].ID == id {
			return &orders[i], nil
		}
	}
	return nil, domainErrors.ErrOrderNotFound
}

func (r *orderRepository) List(ctx context.Context) ([]model.Order, error) {
	return r.storage.orders.read(ctx)
}

func (r *orderRepository) Update(ctx context.Context, id string, fn func(*model.Order) error) (*model.Order, error) {
	var updated model.Order
	err := r.storage.orders.mutate(ctx, func(orders *[]model.Order) error {
		for i := range *orders {
			if (*orders)[i].ID != id {
				continue
			}
			candidate := (*orders)[i]
			if err := fn(&candidate); err != nil {
				return err
			}
			(*orders)[i] = candidate
			updated = candidate
			return nil
		}
		return domainErrors.ErrOrderNotFound
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *orderRepository) Delete(ctx context.Context, id string) error {
	return r.storage.orders.mutate(ctx, func(orders *[]model.Order) error {
		for i := range *orders {
			if (*orders)[i].ID == id {
				*orders = append((*orders)[:i], (*orders)[i+1:]...)
				return nil
			}
		}
		return domainErrors.ErrOrderNotFound
	})
}

func (r *orderRepository) ListUndispatched(ctx context.Context, limit int) ([]model.Order, error) {
	orders, err := r.storage.orders.read(ctx)
	if err != nil {
		return nil, err
	}
	pending := make([]model.Order, 0)
	for _, o := range orders {
		if o.DispatchedAt == nil {
			pending = append(pending, o)
		}
	}
	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})
	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

func (r *orderRepository) MarkDispatched(ctx context.Context, id string, at time.Time) error {
	_, err := r.Update(ctx, id, func(o *model.Order) error {
		if o.DispatchedAt == nil {
			o.DispatchedAt = &at
		}
		return nil
	})
	return err
}

func (r *orderRepository) DeleteAll(ctx context.Context) error {
	return r.storage.orders.mutate(ctx, func(orders *[]model.Order) error {
		*orders = []model.Order{}
		return nil
	})
}

// --- TillRepository implementation ---

func (r *tillRepository) Get(ctx context.Context) (model.TillSession, error) {
	return r.storage.till.read(ctx)
}

func (r *tillRepository) Update(ctx context.Context, fn func(*model.TillSession) error) (model.TillSession, error) {
	var updated model.TillSession
	err := r.storage.till.mutate(ctx, func(session *model.TillSession) error {
		if err := fn(session); err != nil {
			return err
		}
		updated = *session
		return nil
	})
	return updated, err
}

// --- ReportArchive implementation ---

func (a *reportArchive) Save(ctx context.Context, report model.ReconciliationReport) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	stamp := report.GeneratedAt
	if report.ClosedAt != nil {
		stamp = *report.ClosedAt
	}
	dir := filepath.Join(a.storage.dir, reportsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("prepare reports dir: %w", err)
	}

	base := "closing-" + stamp.Format(reportTimeLayout)
	path := filepath.Join(dir, base+".json")
	for n := 1; fileExists(path); n++ {
		path = filepath.Join(dir, fmt.Sprintf("%s-%d.json", base, n))
	}

	data, err := json.MarshalIndent(report, "", "    ")
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// --- ProductRepository implementation ---

func (r *productRepository) List(ctx context.Context) ([]model.Product, error) {
	return r.storage.products.read(ctx)
}

func (r *productRepository) Get(ctx context.Context, id int64) (*model.Product, error) {
	products, err := r.storage.products.read(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (r *productRepository) Create(ctx context.Context, product model.Product) (*model.Product, error) {
	err := r.storage.products.mutate(ctx, func(products *[]model.Product) error {
		var maxID int64
		for _, p := range *products {
			maxID = max(maxID, p.ID)
		}
		product.ID = maxID + 1
		*products = append(*products, product)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) Update(ctx context.Context, product model.Product) error {
	return r.storage.products.mutate(ctx, func(products *[]model.Product) error {
		for i := range *products {
			if (*products)[i].ID == product.ID {
				(*products)[i] = product
				return nil
			}
		}
		return domainErrors.ErrNotFound
	})
}

func (r *productRepository) Delete(ctx context.Context, id int64) error {
	return r.storage.products.mutate(ctx, func(products *[]model.Product) error {
		for i := range *products {
			if (*products)[i].ID == id {
				*products = append((*products)[:i], (*products)[i+1:]...)
				return nil
			}
		}
		return domainErrors.ErrNotFound
	})
}

// --- PrinterRepository implementation ---

func (r *printerRepository) List(ctx context.Context) ([]model.Printer, error) {
	return r.storage.printers.read(ctx)
}

func (r *printerRepository) Get(ctx context.Context, id int64) (*model.Printer, error) {
	printers, err := r.storage.printers.read(ctx)
	if err != nil {
		return nil, err
	}
	for i := range printers {
		if printers[i].ID == id {
			return &printers[i], nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (r *printerRepository) Create(ctx context.Context, printer model.Printer) (*model.Printer, error) {
	err := r.storage.printers.mutate(ctx, func(printers *[]model.Printer) error {
		var maxID int64
		for _, p := range *printers {
			maxID = max(maxID, p.ID)
		}
		printer.ID = maxID + 1
		*printers = append(*printers, printer)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &printer, nil
}

func (r *printerRepository) Update(ctx context.Context, printer model.Printer) error {
	return r.storage.printers.mutate(ctx, func(printers *[]model.Printer) error {
		for i := range *printers {
			if (*printers)[i].ID == printer.ID {
				(*printers)[i] = printer
				return nil
			}
		}
		return domainErrors.ErrNotFound
	})
}

func (r *printerRepository) Delete(ctx context.Context, id int64) error {
	return r.storage.printers.mutate(ctx, func(printers *[]model.Printer) error {
		for i := range *printers {
			if (*printers)[i].ID == id {
				*printers = append((*printers)[:i], (*printers)[i+1:]...)
				return nil
			}
		}
		return domainErrors.ErrNotFound
	})
}

// --- UserRepository implementation ---

func (r *userRepository) Create(ctx context.Context, user model.User) (*model.User, error) {
	err := r.storage.users.mutate(ctx, func(users *[]model.User) error {
		var maxID int64
		for _, u := range *users {
			if strings.EqualFold(u.Login, user.Login) {
				return domainErrors.ErrAlreadyExists
			}
			maxID = max(maxID, u.ID)
		}
		user.ID = maxID + 1
		*users = append(*users, user)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	users, err := r.storage.users.read(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if strings.EqualFold(users[i].Login, login) {
			return &users[i], nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (r *userRepository) Count(ctx context.Context) (int, error) {
	users, err := r.storage.users.read(ctx)
	if err != nil {
		return 0, err
	}
	return len(users), nil
}

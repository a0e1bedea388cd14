package test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/pos80/internal/domain/errors"
	"github.com/polkiloo/pos80/internal/domain/model"
	"github.com/polkiloo/pos80/internal/domain/repository"
)

// OrderRepositoryStub keeps orders in memory. Err fails every call;
// ListErr fails only List and ListUndispatched.
type OrderRepositoryStub struct {
	mu      sync.Mutex
	Orders  map[string]model.Order
	Err     error
	ListErr error
	// Marked counts MarkDispatched calls per order id.
	Marked map[string]int
}

// NewOrderRepositoryStub constructs an empty order stub.
func NewOrderRepositoryStub() *OrderRepositoryStub {
	return &OrderRepositoryStub{Orders: make(map[string]model.Order), Marked: make(map[string]int)}
}

func (s *OrderRepositoryStub) Create(ctx context.Context, order model.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, exists := s.Orders[order.ID]; exists {
		return domainErrors.ErrAlreadyExists
	}
	s.Orders[order.ID] = order
	return nil
}

func (s *OrderRepositoryStub) Get(ctx context.Context, id string) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	o, ok := s.Orders[id]
	if !ok {
		return nil, domainErrors.ErrOrderNotFound
	}
	return &o, nil
}

func (s *OrderRepositoryStub) List(ctx context.Context) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	out := make([]model.Order, 0, len(s.Orders))
	for _, o := range s.Orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *OrderRepositoryStub) Update(ctx context.Context, id string, fn func(*model.Order) error) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	o, ok := s.Orders[id]
	if !ok {
		return nil, domainErrors.ErrOrderNotFound
	}
	if err := fn(&o); err != nil {
		return nil, err
	}
	s.Orders[id] = o
	return &o, nil
}

func (s *OrderRepositoryStub) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.Orders[id]; !ok {
		return domainErrors.ErrOrderNotFound
	}
	delete(s.Orders, id)
	return nil
}

func (s *OrderRepositoryStub) ListUndispatched(ctx context.Context, limit int) ([]model.Order, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Order, 0, len(all))
	for _, o := range all {
		if o.DispatchedAt == nil {
			out = append(out, o)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *OrderRepositoryStub) MarkDispatched(ctx context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	o, ok := s.Orders[id]
	if !ok {
		return domainErrors.ErrOrderNotFound
	}
	if s.Marked == nil {
		s.Marked = make(map[string]int)
	}
	s.Marked[id]++
	if o.DispatchedAt == nil {
		o.DispatchedAt = &at
		s.Orders[id] = o
	}
	return nil
}

func (s *OrderRepositoryStub) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Orders = make(map[string]model.Order)
	return nil
}

// TillRepositoryStub holds a single till session in memory.
type TillRepositoryStub struct {
	mu      sync.Mutex
	Session model.TillSession
	Err     error
}

func (s *TillRepositoryStub) Get(ctx context.Context) (model.TillSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return model.TillSession{}, s.Err
	}
	return s.Session, nil
}

func (s *TillRepositoryStub) Update(ctx context.Context, fn func(*model.TillSession) error) (model.TillSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return model.TillSession{}, s.Err
	}
	session := s.Session
	if err := fn(&session); err != nil {
		return model.TillSession{}, err
	}
	s.Session = session
	return session, nil
}

// ReportArchiveStub collects saved reports.
type ReportArchiveStub struct {
	mu      sync.Mutex
	Reports []model.ReconciliationReport
	Err     error
}

func (s *ReportArchiveStub) Save(ctx context.Context, report model.ReconciliationReport) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return "", s.Err
	}
	s.Reports = append(s.Reports, report)
	return "memory/" + report.GeneratedAt.Format("20060102-150405"), nil
}

// ProductRepositoryStub keeps catalog entries in insertion order.
type ProductRepositoryStub struct {
	mu       sync.Mutex
	Products []model.Product
	Err      error
}

func (s *ProductRepositoryStub) List(ctx context.Context) ([]model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return append([]model.Product(nil), s.Products...), nil
}

func (s *ProductRepositoryStub) Get(ctx context.Context, id int64) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, p := range s.Products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (s *ProductRepositoryStub) Create(ctx context.Context, product model.Product) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var maxID int64
	for _, p := range s.Products {
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	product.ID = maxID + 1
	s.Products = append(s.Products, product)
	return &product, nil
}

func (s *ProductRepositoryStub) Update(ctx context.Context, product model.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for i, p := range s.Products {
		if p.ID == product.ID {
			s.Products[i] = product
			return nil
		}
	}
	return domainErrors.ErrNotFound
}

func (s *ProductRepositoryStub) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for i, p := range s.Products {
		if p.ID == id {
			s.Products = append(s.Products[:i], s.Products[i+1:]...)
			return nil
		}
	}
	return domainErrors.ErrNotFound
}

// PrinterRepositoryStub keeps printers in insertion order.
type PrinterRepositoryStub struct {
	mu       sync.Mutex
	Printers []model.Printer
	Err      error
}

func (s *PrinterRepositoryStub) List(ctx context.Context) ([]model.Printer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return append([]model.Printer(nil), s.Printers...), nil
}

func (s *PrinterRepositoryStub) Get(ctx context.Context, id int64) (*model.Printer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, p := range s.Printers {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (s *PrinterRepositoryStub) Create(ctx context.Context, printer model.Printer) (*model.Printer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var maxID int64
	for _, p := range s.Printers {
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	printer.ID = maxID + 1
	s.Printers = append(s.Printers, printer)
	return &printer, nil
}

func (s *PrinterRepositoryStub) Update(ctx context.Context, printer model.Printer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for i, p := range s.Printers {
		if p.ID == printer.ID {
			s.Printers[i] = printer
			return nil
		}
	}
	return domainErrors.ErrNotFound
}

func (s *PrinterRepositoryStub) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for i, p := range s.Printers {
		if p.ID == id {
			s.Printers = append(s.Printers[:i], s.Printers[i+1:]...)
			return nil
		}
	}
	return domainErrors.ErrNotFound
}

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	mu    sync.Mutex
	Users map[string]*model.User
	Next  int64
	Err   error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{Users: make(map[string]*model.User), Next: 1}
}

// Create registers user unless already exists or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, user model.User) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Users == nil {
		s.Users = make(map[string]*model.User)
	}
	key := strings.ToLower(user.Login)
	if _, exists := s.Users[key]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	user.ID = s.Next
	s.Next++
	s.Users[key] = &user
	return &user, nil
}

// GetByLogin fetches user by login or returns not found.
func (s *UserRepositoryStub) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[strings.ToLower(login)]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// Count returns the number of stored users.
func (s *UserRepositoryStub) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	return len(s.Users), nil
}

// FactoryStub bundles in-memory repositories behind repository.Factory.
type FactoryStub struct {
	OrderRepo   *OrderRepositoryStub
	TillRepo    *TillRepositoryStub
	ReportRepo  *ReportArchiveStub
	ProductRepo *ProductRepositoryStub
	PrinterRepo *PrinterRepositoryStub
	UserRepo    *UserRepositoryStub
	HealthErr   error
}

// NewFactoryStub returns a factory with empty repositories.
func NewFactoryStub() *FactoryStub {
	return &FactoryStub{
		OrderRepo:   NewOrderRepositoryStub(),
		TillRepo:    &TillRepositoryStub{},
		ReportRepo:  &ReportArchiveStub{},
		ProductRepo: &ProductRepositoryStub{},
		PrinterRepo: &PrinterRepositoryStub{},
		UserRepo:    NewUserRepositoryStub(),
	}
}

func (f *FactoryStub) HealthCheck(ctx context.Context) error { return f.HealthErr }
func (f *FactoryStub) Orders() repository.OrderRepository { return f.OrderRepo }
func (f *FactoryStub) Till() repository.TillRepository { return f.TillRepo }
func (f *FactoryStub) Reports() repository.ReportArchive { return f.ReportRepo }
func (f *FactoryStub) Products() repository.ProductRepository { return f.ProductRepo }
func (f *FactoryStub) Printers() repository.PrinterRepository { return f.PrinterRepo }
func (f *FactoryStub) Users() repository.UserRepository { return f.UserRepo }

var _ repository.Factory = (*FactoryStub)(nil)

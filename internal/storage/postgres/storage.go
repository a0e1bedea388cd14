package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/polkiloo/pos80/internal/domain/errors"
	"github.com/polkiloo/pos80/internal/domain/model"
	"github.com/polkiloo/pos80/internal/domain/repository"
)

type pgxPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
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

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
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

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id BIGSERIAL PRIMARY KEY,
            login TEXT UNIQUE NOT NULL,
            name TEXT NOT NULL DEFAULT '',
            role TEXT NOT NULL,
            password_hash TEXT NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id TEXT PRIMARY KEY,
            tracking_code TEXT NOT NULL,
            customer_name TEXT NOT NULL,
            phone TEXT NOT NULL DEFAULT '',
            fulfillment_type TEXT NOT NULL,
            address TEXT NOT NULL DEFAULT '',
            payment_method TEXT NOT NULL,
            change_for NUMERIC(12,2),
            receipt_reference TEXT NOT NULL DEFAULT '',
            line_items JSONB NOT NULL DEFAULT '[]',
            total NUMERIC(12,2) NOT NULL,
            status TEXT NOT NULL,
            channel TEXT NOT NULL,
            notes TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL,
            dispatched_at TIMESTAMPTZ
        )`,
		`CREATE TABLE IF NOT EXISTS till_session (
            id SMALLINT PRIMARY KEY CHECK (id = 1),
            is_open BOOLEAN NOT NULL DEFAULT FALSE,
            opened_at TIMESTAMPTZ,
            closed_at TIMESTAMPTZ,
            opening_float NUMERIC(12,2) NOT NULL DEFAULT 0
        )`,
		`CREATE TABLE IF NOT EXISTS closing_reports (
            id BIGSERIAL PRIMARY KEY,
            closed_at TIMESTAMPTZ,
            payload JSONB NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS products (
            id BIGSERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            price NUMERIC(12,2) NOT NULL,
            image_ref TEXT NOT NULL DEFAULT ''
        )`,
		`CREATE TABLE IF NOT EXISTS printers (
            id BIGSERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            connection_type TEXT NOT NULL,
            address TEXT NOT NULL DEFAULT ''
        )`,
		`INSERT INTO till_session (id) VALUES (1) ON CONFLICT (id) DO NOTHING`,
		`CREATE INDEX IF NOT EXISTS idx_orders_created ON orders(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_undispatched ON orders(created_at) WHERE dispatched_at IS NULL`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- OrderRepository implementation ---

const selectOrders = `SELECT id, tracking_code, customer_name, phone, fulfillment_type, address, payment_method,
                      change_for, receipt_reference, line_items, total, status, channel, notes,
                      created_at, updated_at, dispatched_at FROM orders`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (model.Order, error) {
	var (
		o     model.Order
		items []byte
	)
	err := row.Scan(&o.ID, &o.TrackingCode, &o.CustomerName, &o.Phone, &o.FulfillmentType, &o.Address, &o.PaymentMethod,
		&o.ChangeFor, &o.ReceiptReference, &items, &o.Total, &o.Status, &o.Channel, &o.Notes,
		&o.CreatedAt, &o.UpdatedAt, &o.DispatchedAt)
	if err != nil {
		return o, err
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &o.LineItems); err != nil {
			return o, fmt.Errorf("decode line items of %s: %w", o.ID, err)
		}
	}
	return o, nil
}

func collectOrders(rows pgx.Rows) ([]model.Order, error) {
	defer rows.Close()

	result := make([]model.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) Create(ctx context.Context, order model.Order) error {
	items, err := json.Marshal(order.LineItems)
	if err != nil {
		return fmt.Errorf("encode line items: %w", err)
	}
	const query = `INSERT INTO orders (id, tracking_code, customer_name, phone, fulfillment_type, address, payment_method,
                   change_for, receipt_reference, line_items, total, status, channel, notes, created_at, updated_at, dispatched_at)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err = r.storage.pool.Exec(ctx, query, order.ID, order.TrackingCode, order.CustomerName, order.Phone,
		order.FulfillmentType, order.Address, order.PaymentMethod, order.ChangeFor, order.ReceiptReference,
		items, order.Total, order.Status, order.Channel, order.Notes, order.CreatedAt, order.UpdatedAt, order.DispatchedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *orderRepository) Get(ctx context.Context, id string) (*model.Order, error) {
	o, err := scanOrder(r.storage.pool.QueryRow(ctx, selectOrders+` WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrOrderNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) List(ctx context.Context) ([]model.Order, error) {
	rows, err := r.storage.pool.Query(ctx, selectOrders+` ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

func (r *orderRepository) Update(ctx context.Context, id string, fn func(*model.Order) error) (*model.Order, error) {
	var updated model.Order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		o, err := scanOrder(tx.QueryRow(ctx, selectOrders+` WHERE id=$1 FOR UPDATE`, id))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrOrderNotFound
			}
			return err
		}
		if err := fn(&o); err != nil {
			return err
		}
		const updateQuery = `UPDATE orders SET customer_name=$1, phone=$2, address=$3, notes=$4, status=$5,
                             updated_at=$6, dispatched_at=$7 WHERE id=$8`
		if _, err := tx.Exec(ctx, updateQuery, o.CustomerName, o.Phone, o.Address, o.Notes, o.Status,
			o.UpdatedAt, o.DispatchedAt, id); err != nil {
			return err
		}
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *orderRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.storage.pool.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrOrderNotFound
	}
	return nil
}

func (r *orderRepository) ListUndispatched(ctx context.Context, limit int) ([]model.Order, error) {
	var lim *int
	if limit > 0 {
		lim = &limit
	}
	rows, err := r.storage.pool.Query(ctx, selectOrders+` WHERE dispatched_at IS NULL ORDER BY created_at LIMIT $1`, lim)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

func (r *orderRepository) MarkDispatched(ctx context.Context, id string, at time.Time) error {
	const query = `UPDATE orders SET dispatched_at=COALESCE(dispatched_at, $1) WHERE id=$2`
	tag, err := r.storage.pool.Exec(ctx, query, at, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrOrderNotFound
	}
	return nil
}

func (r *orderRepository) DeleteAll(ctx context.Context) error {
	_, err := r.storage.pool.Exec(ctx, `DELETE FROM orders`)
	return err
}

// --- TillRepository implementation ---

const selectTill = `SELECT is_open, opened_at, closed_at, opening_float FROM till_session WHERE id=1`

func scanTill(row rowScanner) (model.TillSession, error) {
	var s model.TillSession
	err := row.Scan(&s.IsOpen, &s.OpenedAt, &s.ClosedAt, &s.OpeningFloat)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.TillSession{}, nil
	}
	return s, err
}

func (r *tillRepository) Get(ctx context.Context) (model.TillSession, error) {
	return scanTill(r.storage.pool.QueryRow(ctx, selectTill))
}

func (r *tillRepository) Update(ctx context.Context, fn func(*model.TillSession) error) (model.TillSession, error) {
	var updated model.TillSession
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		session, err := scanTill(tx.QueryRow(ctx, selectTill+` FOR UPDATE`))
		if err != nil {
			return err
		}
		if err := fn(&session); err != nil {
			return err
		}
		const upsert = `INSERT INTO till_session (id, is_open, opened_at, closed_at, opening_float)
                        VALUES (1, $1, $2, $3, $4)
                        ON CONFLICT (id) DO UPDATE SET is_open=EXCLUDED.is_open, opened_at=EXCLUDED.opened_at,
                        closed_at=EXCLUDED.closed_at, opening_float=EXCLUDED.opening_float`
		if _, err := tx.Exec(ctx, upsert, session.IsOpen, session.OpenedAt, session.ClosedAt, session.OpeningFloat); err != nil {
			return err
		}
		updated = session
		return nil
	})
	return updated, err
}

// --- ReportArchive implementation ---

func (a *reportArchive) Save(ctx context.Context, report model.ReconciliationReport) (string, error) {
	payload, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}
	var id int64
	const query = `INSERT INTO closing_reports (closed_at, payload) VALUES ($1, $2) RETURNING id`
	if err := a.storage.pool.QueryRow(ctx, query, report.ClosedAt, payload).Scan(&id); err != nil {
		return "", err
	}
	return fmt.Sprintf("closing_reports/%d", id), nil
}

// --- ProductRepository implementation ---

func (r *productRepository) List(ctx context.Context) ([]model.Product, error) {
	rows, err := r.storage.pool.Query(ctx, `SELECT id, name, description, price, image_ref FROM products ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]model.Product, 0)
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageRef); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *productRepository) Get(ctx context.Context, id int64) (*model.Product, error) {
	const query = `SELECT id, name, description, price, image_ref FROM products WHERE id=$1`
	var p model.Product
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageRef)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) Create(ctx context.Context, product model.Product) (*model.Product, error) {
	const query = `INSERT INTO products (name, description, price, image_ref) VALUES ($1, $2, $3, $4) RETURNING id`
	err := r.storage.pool.QueryRow(ctx, query, product.Name, product.Description, product.Price, product.ImageRef).Scan(&product.ID)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) Update(ctx context.Context, product model.Product) error {
	const query = `UPDATE products SET name=$1, description=$2, price=$3, image_ref=$4 WHERE id=$5`
	tag, err := r.storage.pool.Exec(ctx, query, product.Name, product.Description, product.Price, product.ImageRef, product.ID)
	return affected(tag, err)
}

func (r *productRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.storage.pool.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	return affected(tag, err)
}

// --- PrinterRepository implementation ---

func (r *printerRepository) List(ctx context.Context) ([]model.Printer, error) {
	rows, err := r.storage.pool.Query(ctx, `SELECT id, name, connection_type, address FROM printers ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]model.Printer, 0)
	for rows.Next() {
		var p model.Printer
		if err := rows.Scan(&p.ID, &p.Name, &p.ConnectionType, &p.Address); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *printerRepository) Get(ctx context.Context, id int64) (*model.Printer, error) {
	const query = `SELECT id, name, connection_type, address FROM printers WHERE id=$1`
	var p model.Printer
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.ConnectionType, &p.Address)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *printerRepository) Create(ctx context.Context, printer model.Printer) (*model.Printer, error) {
	const query = `INSERT INTO printers (name, connection_type, address) VALUES ($1, $2, $3) RETURNING id`
	err := r.storage.pool.QueryRow(ctx, query, printer.Name, printer.ConnectionType, printer.Address).Scan(&printer.ID)
	if err != nil {
		return nil, err
	}
	return &printer, nil
}

func (r *printerRepository) Update(ctx context.Context, printer model.Printer) error {
	const query = `UPDATE printers SET name=$1, connection_type=$2, address=$3 WHERE id=$4`
	tag, err := r.storage.pool.Exec(ctx, query, printer.Name, printer.ConnectionType, printer.Address, printer.ID)
	return affected(tag, err)
}

func (r *printerRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.storage.pool.Exec(ctx, `DELETE FROM printers WHERE id=$1`, id)
	return affected(tag, err)
}

func affected(tag pgconn.CommandTag, err error) error {
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// --- UserRepository implementation ---

func (r *userRepository) Create(ctx context.Context, user model.User) (*model.User, error) {
	const query = `INSERT INTO users (login, name, role, password_hash) VALUES ($1, $2, $3, $4) RETURNING id`
	err := r.storage.pool.QueryRow(ctx, query, user.Login, user.Name, user.Role, user.PasswordHash).Scan(&user.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	const query = `SELECT id, login, name, role, password_hash FROM users WHERE lower(login)=lower($1)`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, login).Scan(&u.ID, &u.Login, &u.Name, &u.Role, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.storage.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

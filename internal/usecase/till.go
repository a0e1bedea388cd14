package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/pos80/internal/domain/errors"
	"github.com/polkiloo/pos80/internal/domain/model"
	"github.com/polkiloo/pos80/internal/domain/repository"
	"github.com/polkiloo/pos80/internal/metrics"
	"github.com/polkiloo/pos80/internal/receipt"
)

// CloseResult is the outcome of closing the till. PrintWarning is set when
// the closing report could not be printed; the till is closed regardless.
type CloseResult struct {
	Session      model.TillSession
	Report       model.ReconciliationReport
	ArchiveRef   string
	PrintWarning error
}

// TillUseCase runs the cash register open/close/reconcile workflow.
type TillUseCase struct {
	till     repository.TillRepository
	orders   repository.OrderRepository
	archive  repository.ReportArchive
	printer  PrintDispatcher
	renderer *receipt.Renderer
	metrics  *metrics.Metrics
	scope    model.ReportScope
	now      func() time.Time
}

// NewTillUseCase constructs TillUseCase. scope selects the orders a report covers.
func NewTillUseCase(till repository.TillRepository, orders repository.OrderRepository, archive repository.ReportArchive, printer PrintDispatcher, renderer *receipt.Renderer, m *metrics.Metrics, scope model.ReportScope) *TillUseCase {
	if scope == "" {
		scope = model.ScopeAll
	}
	return &TillUseCase{
		till:     till,
		orders:   orders,
		archive:  archive,
		printer:  printer,
		renderer: renderer,
		metrics:  m,
		scope:    scope,
		now:      time.Now,
	}
}

// Status returns the current or last session.
func (u *TillUseCase) Status(ctx context.Context) (model.TillSession, error) {
	return u.till.Get(ctx)
}

// Open starts a session with the given opening float.
func (u *TillUseCase) Open(ctx context.Context, openingFloat decimal.Decimal) (model.TillSession, error) {
	if openingFloat.IsNegative() {
		return model.TillSession{}, domainErrors.Validation("openingFloat", "must not be negative")
	}
	return u.till.Update(ctx, func(s *model.TillSession) error {
		if s.IsOpen {
			return domainErrors.ErrTillAlreadyOpen
		}
		now := u.now()
		*s = model.TillSession{IsOpen: true, OpenedAt: &now, OpeningFloat: openingFloat}
		return nil
	})
}

// Close reconciles the open session, archives the report, marks the till
// closed and prints the closing summary. Archiving happens under the till
// lock, so a failed archive leaves the till open and only the close that
// wins the lock writes a report.
func (u *TillUseCase) Close(ctx context.Context) (*CloseResult, error) {
	orders, err := u.orders.List(ctx)
	if err != nil {
		return nil, err
	}

	var (
		report model.ReconciliationReport
		ref    string
	)
	session, err := u.till.Update(ctx, func(s *model.TillSession) error {
		if !s.IsOpen {
			return domainErrors.ErrTillNotOpen
		}
		closedAt := u.now()
		closing := *s
		closing.IsOpen = false
		closing.ClosedAt = &closedAt

		report = model.Reconcile(closing, u.scoped(closing, orders), closedAt)
		saved, err := u.archive.Save(ctx, report)
		if err != nil {
			return fmt.Errorf("archive closing report: %w", err)
		}
		ref = saved
		*s = closing
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.metrics.TillClosed()

	result := &CloseResult{Session: session, Report: report, ArchiveRef: ref}
	doc := u.renderer.Closing(report)
	if _, err := u.printer.Print(ctx, doc.Title, doc.Body); err != nil {
		result.PrintWarning = err
	}
	return result, nil
}

// Report reconciles the current or last session without changing it.
func (u *TillUseCase) Report(ctx context.Context) (model.ReconciliationReport, error) {
	session, err := u.till.Get(ctx)
	if err != nil {
		return model.ReconciliationReport{}, err
	}
	orders, err := u.orders.List(ctx)
	if err != nil {
		return model.ReconciliationReport{}, err
	}
	return model.Reconcile(session, u.scoped(session, orders), u.now()), nil
}

// ResetRecords deletes every order and resets the till to a closed default.
func (u *TillUseCase) ResetRecords(ctx context.Context) error {
	if err := u.orders.DeleteAll(ctx); err != nil {
		return err
	}
	_, err := u.till.Update(ctx, func(s *model.TillSession) error {
		*s = model.TillSession{OpeningFloat: decimal.Zero}
		return nil
	})
	return err
}

func (u *TillUseCase) scoped(session model.TillSession, orders []model.Order) []model.Order {
	if u.scope != model.ScopeSession || session.OpenedAt == nil {
		return orders
	}
	out := make([]model.Order, 0, len(orders))
	for _, o := range orders {
		if !o.CreatedAt.Before(*session.OpenedAt) {
			out = append(out, o)
		}
	}
	return out
}

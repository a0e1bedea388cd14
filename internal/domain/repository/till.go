package repository

import (
	"context"

	"github.com/polkiloo/pos80/internal/domain/model"
)

// TillRepository stores the single till session.
type TillRepository interface {
	Get(ctx context.Context) (model.TillSession, error)
	// Update applies fn to the session under lock and persists it unless fn fails.
	Update(ctx context.Context, fn func(*model.TillSession) error) (model.TillSession, error)
}

// ReportArchive keeps closing reports as durable artifacts.
type ReportArchive interface {
	Save(ctx context.Context, report model.ReconciliationReport) (string, error)
}

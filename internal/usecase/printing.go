package usecase

import (
	"context"

	"github.com/polkiloo/pos80/internal/domain/model"
)

// PrintDispatcher sends rendered documents to printers. Errors are
// *errors.PrintError and are reported to callers as warnings.
type PrintDispatcher interface {
	Print(ctx context.Context, title, body string) (model.PrintAck, error)
	PrintTo(ctx context.Context, p model.Printer, title, body string) (model.PrintAck, error)
}

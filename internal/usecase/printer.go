package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/polkiloo/pos80/internal/domain/model"
	"github.com/polkiloo/pos80/internal/domain/repository"
	"github.com/polkiloo/pos80/internal/receipt"
)

// PrinterUseCase manages printer configuration. The first printer is the default.
type PrinterUseCase struct {
	printers repository.PrinterRepository
	printer  PrintDispatcher
	renderer *receipt.Renderer
	now      func() time.Time
}

// NewPrinterUseCase constructs PrinterUseCase.
func NewPrinterUseCase(printers repository.PrinterRepository, printer PrintDispatcher, renderer *receipt.Renderer) *PrinterUseCase {
	return &PrinterUseCase{printers: printers, printer: printer, renderer: renderer, now: time.Now}
}

func (u *PrinterUseCase) List(ctx context.Context) ([]model.Printer, error) {
	return u.printers.List(ctx)
}

func (u *PrinterUseCase) Create(ctx context.Context, p model.Printer) (*model.Printer, error) {
	p = normalizePrinter(p)
	if err := validatePrinter(p); err != nil {
		return nil, err
	}
	return u.printers.Create(ctx, p)
}

func (u *PrinterUseCase) Update(ctx context.Context, p model.Printer) (*model.Printer, error) {
	p = normalizePrinter(p)
	if err := validatePrinter(p); err != nil {
		return nil, err
	}
	if err := u.printers.Update(ctx, p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (u *PrinterUseCase) Delete(ctx context.Context, id int64) error {
	return u.printers.Delete(ctx, id)
}

// Test prints a test page on the printer with id.
func (u *PrinterUseCase) Test(ctx context.Context, id int64) (model.PrintAck, error) {
	p, err := u.printers.Get(ctx, id)
	if err != nil {
		return model.PrintAck{}, err
	}
	doc := u.renderer.TestPage(p.Name, u.now())
	return u.printer.PrintTo(ctx, *p, doc.Title, doc.Body)
}

func normalizePrinter(p model.Printer) model.Printer {
	p.Name = strings.TrimSpace(p.Name)
	p.Address = strings.TrimSpace(p.Address)
	if p.ConnectionType == "" {
		p.ConnectionType = model.ConnectionLocal
	}
	return p
}

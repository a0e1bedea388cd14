package usecase

import (
	"go.uber.org/fx"

	"github.com/polkiloo/pos80/internal/adapter/printer"
	"github.com/polkiloo/pos80/internal/config"
	"github.com/polkiloo/pos80/internal/domain/repository"
	"github.com/polkiloo/pos80/internal/metrics"
	"github.com/polkiloo/pos80/internal/receipt"
)

// Module provides core business use cases to the fx container.
var Module = fx.Options(
	fx.Provide(
		func(d *printer.Dispatcher) PrintDispatcher { return d },
		NewAuthUseCase,
		NewOrderUseCase,
		newTillUseCase,
		NewCatalogUseCase,
		NewPrinterUseCase,
		NewReportUseCase,
	),
)

type tillParams struct {
	fx.In

	Till     repository.TillRepository
	Orders   repository.OrderRepository
	Archive  repository.ReportArchive
	Printer  PrintDispatcher
	Renderer *receipt.Renderer
	Metrics  *metrics.Metrics
	Config   *config.Config
}

func newTillUseCase(p tillParams) *TillUseCase {
	return NewTillUseCase(p.Till, p.Orders, p.Archive, p.Printer, p.Renderer, p.Metrics, p.Config.TillReportScope)
}

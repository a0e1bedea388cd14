package printer

import (
	"context"
	"log/slog"
	"time"

	domainErrors "github.com/polkiloo/pos80/internal/domain/errors"
	"github.com/polkiloo/pos80/internal/domain/model"
	"github.com/polkiloo/pos80/internal/domain/repository"
	"github.com/polkiloo/pos80/internal/metrics"
)

// fallbackPrinter is used when no printer is configured.
var fallbackPrinter = model.Printer{Name: "spool", ConnectionType: model.ConnectionLocal}

// Dispatcher resolves printers to sinks and sends jobs without retrying.
// Failures come back as *errors.PrintError.
type Dispatcher struct {
	printers repository.PrinterRepository
	broker   *Broker
	spoolDir string
	timeout  time.Duration
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(printers repository.PrinterRepository, broker *Broker, spoolDir string, timeout time.Duration, m *metrics.Metrics, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		printers: printers,
		broker:   broker,
		spoolDir: spoolDir,
		timeout:  timeout,
		metrics:  m,
		logger:   logger,
	}
}

// SinkFor builds the sink matching the printer connection type.
func (d *Dispatcher) SinkFor(p model.Printer) (Sink, error) {
	switch p.ConnectionType {
	case model.ConnectionNetwork:
		return NewTCPSink(p.Name, p.Address, d.timeout), nil
	case model.ConnectionHTTP:
		return NewHTTPSink(p.Name, p.Address, d.timeout, d.logger)
	case model.ConnectionQueue:
		if d.broker == nil {
			return nil, ErrNoBroker
		}
		pub, err := d.broker.publisher()
		if err != nil {
			return nil, err
		}
		return &QueueSink{name: p.Name, exchange: d.broker.exchange, routingKey: p.Address, pub: pub}, nil
	default:
		return NewSpoolSink(p.Name, d.spoolDir, p.Address), nil
	}
}

// DefaultPrinter returns the first configured printer or the spool fallback.
func (d *Dispatcher) DefaultPrinter(ctx context.Context) model.Printer {
	printers, err := d.printers.List(ctx)
	if err != nil {
		d.logger.Warn("printer list unavailable, using spool", slog.String("error", err.Error()))
		return fallbackPrinter
	}
	if len(printers) == 0 {
		return fallbackPrinter
	}
	return printers[0]
}

// Print sends a document to the default printer.
func (d *Dispatcher) Print(ctx context.Context, title, body string) (model.PrintAck, error) {
	return d.PrintTo(ctx, d.DefaultPrinter(ctx), title, body)
}

// PrintTo sends a document to p.
func (d *Dispatcher) PrintTo(ctx context.Context, p model.Printer, title, body string) (model.PrintAck, error) {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	sink, err := d.SinkFor(p)
	var ack model.PrintAck
	if err == nil {
		ack, err = sink.Send(ctx, title, body)
	}
	d.metrics.PrintDispatched(string(p.ConnectionType), err)
	if err != nil {
		d.logger.Warn("print failed", slog.String("printer", p.Name), slog.String("title", title), slog.String("error", err.Error()))
		return model.PrintAck{}, &domainErrors.PrintError{Printer: p.Name, Err: err}
	}
	d.logger.Info("print job sent", slog.String("printer", p.Name), slog.String("title", title), slog.String("reference", ack.Reference))
	return ack, nil
}

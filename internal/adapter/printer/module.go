package printer

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/pos80/internal/config"
	"github.com/polkiloo/pos80/internal/domain/repository"
	"github.com/polkiloo/pos80/internal/metrics"
)

// Module exposes the print dispatcher to the fx graph.
var Module = fx.Options(
	fx.Provide(newBroker, newDispatcher),
)

type brokerParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

func newBroker(p brokerParams) *Broker {
	b := NewBroker(p.Config.AMQPURL, p.Config.AMQPExchange, p.Logger)
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return b.Close()
		},
	})
	return b
}

type dispatcherParams struct {
	fx.In

	Printers repository.PrinterRepository
	Broker   *Broker
	Config   *config.Config
	Metrics  *metrics.Metrics `optional:"true"`
	Logger   *slog.Logger
}

func newDispatcher(p dispatcherParams) *Dispatcher {
	return NewDispatcher(p.Printers, p.Broker, p.Config.SpoolDir, p.Config.PrintTimeout, p.Metrics, p.Logger)
}

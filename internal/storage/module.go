package storage

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/pos80/internal/config"
	"github.com/polkiloo/pos80/internal/domain/repository"
	"github.com/polkiloo/pos80/internal/storage/jsonfile"
	"github.com/polkiloo/pos80/internal/storage/postgres"
)

// Module wires the configured storage driver and its repository adapters.
var Module = fx.Options(
	fx.Provide(newFactory),
	fx.Provide(
		func(f repository.Factory) repository.OrderRepository { return f.Orders() },
		func(f repository.Factory) repository.TillRepository { return f.Till() },
		func(f repository.Factory) repository.ReportArchive { return f.Reports() },
		func(f repository.Factory) repository.ProductRepository { return f.Products() },
		func(f repository.Factory) repository.PrinterRepository { return f.Printers() },
		func(f repository.Factory) repository.UserRepository { return f.Users() },
	),
)

type factoryParams struct {
	fx.In

	Ctx       context.Context
	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

func newFactory(p factoryParams) (repository.Factory, error) {
	if p.Config.StoreDriver == config.DriverPostgres {
		st, err := postgres.New(p.Ctx, p.Config.DatabaseURI, p.Logger)
		if err != nil {
			return nil, err
		}
		p.Lifecycle.Append(fx.Hook{
			OnStop: func(context.Context) error {
				st.Close()
				return nil
			},
		})
		p.Logger.Info("using postgres storage")
		return st, nil
	}

	st, err := jsonfile.New(p.Config.DataDir, p.Logger)
	if err != nil {
		return nil, err
	}
	p.Logger.Info("using json file storage", slog.String("dir", st.Dir()))
	return st, nil
}

package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/pos80/internal/config"
	"github.com/polkiloo/pos80/internal/worker"
)

// Worker is a background component started and stopped with the application.
type Worker interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// StaffSeeder creates the default staff accounts.
type StaffSeeder interface {
	SeedStaff(ctx context.Context, password string) error
}

// Module wires the API facade, the HTTP server and its lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		NewPOSFacade,
		func(f *POSFacade) StaffSeeder { return f },
		newHTTPServer,
	),
	fx.Invoke(registerServerLifecycle),
)

// WatcherModule wires the print watcher and its lifecycle hooks.
var WatcherModule = fx.Options(
	fx.Provide(
		NewTicketFacade,
		fx.Annotate(newPrintWatcher, fx.As(new(Worker))),
	),
	fx.Invoke(registerWatcherLifecycle),
)

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type watcherParams struct {
	fx.In

	Facade *TicketFacade
	Config *config.Config
	Logger *slog.Logger
}

func newPrintWatcher(p watcherParams) *worker.PrintWatcher {
	return worker.NewPrintWatcher(
		p.Facade,
		p.Config.WatchInterval,
		p.Config.BatchSize,
		p.Config.WorkerPoolSize,
		p.Logger,
	)
}

type serverLifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Staff      StaffSeeder
	Config     *config.Config
}

func registerServerLifecycle(p serverLifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := p.Staff.SeedStaff(ctx, p.Config.DefaultStaffPassword); err != nil {
				return fmt.Errorf("seed staff accounts: %w", err)
			}
			p.Logger.Info("starting pos80", slog.String("addr", p.Server.Addr))
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("pos80 stopped")
			return nil
		},
	})
}

type watcherLifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Logger    *slog.Logger
	Worker    Worker
}

func registerWatcherLifecycle(p watcherLifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return p.Worker.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			if err := p.Worker.Stop(ctx); err != nil {
				return err
			}
			p.Logger.Info("printwatcher stopped")
			return nil
		},
	})
}

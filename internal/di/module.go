package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/pos80/internal/adapter/printer"
	"github.com/polkiloo/pos80/internal/app"
	"github.com/polkiloo/pos80/internal/config"
	"github.com/polkiloo/pos80/internal/logger"
	"github.com/polkiloo/pos80/internal/metrics"
	"github.com/polkiloo/pos80/internal/pkg/auth"
	"github.com/polkiloo/pos80/internal/receipt"
	"github.com/polkiloo/pos80/internal/server/http/router"
	"github.com/polkiloo/pos80/internal/storage"
	"github.com/polkiloo/pos80/internal/usecase"
)

func core() []fx.Option {
	return []fx.Option{
		config.Module,
		logger.Module,
		metrics.Module,
		storage.Module,
		printer.Module,
		receipt.Module,
		auth.Module,
		usecase.Module,
	}
}

// ServerModule composes the API server graph.
func ServerModule(opts ...fx.Option) fx.Option {
	modules := append(core(), router.Module, app.Module)
	modules = append(modules, opts...)
	return fx.Options(modules...)
}

// WatcherModule composes the standalone print watcher graph.
func WatcherModule(opts ...fx.Option) fx.Option {
	modules := append(core(), app.WatcherModule)
	modules = append(modules, opts...)
	return fx.Options(modules...)
}

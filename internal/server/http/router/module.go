package router

import (
	"go.uber.org/fx"

	"github.com/polkiloo/pos80/internal/app"
	"github.com/polkiloo/pos80/internal/domain/repository"
	"github.com/polkiloo/pos80/internal/server/http/handlers"
)

// Module registers HTTP router construction for fx runtime.
var Module = fx.Options(
	fx.Provide(func(f *app.POSFacade) handlers.POSFacade { return f }),
	fx.Provide(func(f repository.Factory) handlers.HealthChecker { return f }),
	fx.Provide(Setup),
)

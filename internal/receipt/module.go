package receipt

import (
	"go.uber.org/fx"

	"github.com/polkiloo/pos80/internal/config"
)

// Module provides the renderer configured with the receipt header.
var Module = fx.Provide(func(cfg *config.Config) *Renderer {
	return NewRenderer(cfg.ReceiptHeader)
})

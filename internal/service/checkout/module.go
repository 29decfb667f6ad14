package checkout

import (
	"go.uber.org/fx"

	"github.com/brightwealth/summit/internal/gateway"
	orderrepo "github.com/brightwealth/summit/internal/repository/order"
)

// Module provides the checkout service and its narrowed dependencies.
var Module = fx.Options(
	fx.Provide(func(c *gateway.Client) Gateway { return c }),
	fx.Provide(func(r *orderrepo.Repository) OrderWriter { return r }),
	fx.Provide(NewService),
)

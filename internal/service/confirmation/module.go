package confirmation

import (
	"go.uber.org/fx"

	orderrepo "github.com/brightwealth/summit/internal/repository/order"
)

// Module provides the confirmation service to Fx.
var Module = fx.Options(
	fx.Provide(func(r *orderrepo.Repository) OrderReader { return r }),
	fx.Provide(NewService),
)

package reporting

import (
	"go.uber.org/fx"

	analyticsrepo "github.com/brightwealth/summit/internal/repository/analytics"
	orderrepo "github.com/brightwealth/summit/internal/repository/order"
)

// Module provides the reporting service and its narrowed dependencies.
var Module = fx.Options(
	fx.Provide(func(r *orderrepo.Repository) OrderAdmin { return r }),
	fx.Provide(func(r *analyticsrepo.Repository) AnalyticsReader { return r }),
	fx.Provide(func(r *analyticsrepo.Repository) AnalyticsWriter { return r }),
	fx.Provide(NewService),
)

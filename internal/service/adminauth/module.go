package adminauth

import (
	"go.uber.org/fx"

	adminrepo "github.com/brightwealth/summit/internal/repository/admin"
)

// Module provides the admin auth service to Fx.
var Module = fx.Options(
	fx.Provide(func(r *adminrepo.Repository) AccountReader { return r }),
	fx.Provide(NewService),
)

package admin

import "go.uber.org/fx"

// Module provides the admin account repository to Fx.
var Module = fx.Provide(NewRepository)

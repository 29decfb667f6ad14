package gateway

import "go.uber.org/fx"

// Module provides the hosted checkout client to Fx.
var Module = fx.Provide(NewClient)

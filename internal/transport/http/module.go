package http

import (
	"go.uber.org/fx"

	admintransport "github.com/brightwealth/summit/internal/transport/http/admin"
	analyticstransport "github.com/brightwealth/summit/internal/transport/http/analytics"
	checkouttransport "github.com/brightwealth/summit/internal/transport/http/checkout"
	confirmationtransport "github.com/brightwealth/summit/internal/transport/http/confirmation"
)

// Module aggregates all HTTP transport handlers.
var Module = fx.Options(
	checkouttransport.Module,
	confirmationtransport.Module,
	admintransport.Module,
	analyticstransport.Module,
)

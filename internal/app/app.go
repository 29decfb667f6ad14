package app

import (
	"go.uber.org/fx"

	"github.com/brightwealth/summit/internal/cache"
	"github.com/brightwealth/summit/internal/config"
	"github.com/brightwealth/summit/internal/database"
	"github.com/brightwealth/summit/internal/gateway"
	"github.com/brightwealth/summit/internal/logger"
	"github.com/brightwealth/summit/internal/messaging"
	"github.com/brightwealth/summit/internal/observability"
	repositoryadmin "github.com/brightwealth/summit/internal/repository/admin"
	repositoryanalytics "github.com/brightwealth/summit/internal/repository/analytics"
	repositoryorder "github.com/brightwealth/summit/internal/repository/order"
	httpserver "github.com/brightwealth/summit/internal/server/http"
	serviceadminauth "github.com/brightwealth/summit/internal/service/adminauth"
	servicecheckout "github.com/brightwealth/summit/internal/service/checkout"
	serviceconfirmation "github.com/brightwealth/summit/internal/service/confirmation"
	servicereporting "github.com/brightwealth/summit/internal/service/reporting"
	transporthttp "github.com/brightwealth/summit/internal/transport/http"
	"github.com/brightwealth/summit/internal/worker"
	workerpayment "github.com/brightwealth/summit/internal/worker/payment"
)

// Core provides the foundational modules shared across executables.
var Core = fx.Options(
	config.Module,
	cache.Module,
	database.Module,
	logger.Module,
	messaging.Module,
	observability.Module,
	gateway.Module,
	repositoryorder.Module,
	repositoryadmin.Module,
	repositoryanalytics.Module,
	servicecheckout.Module,
	serviceconfirmation.Module,
	serviceadminauth.Module,
	servicereporting.Module,
)

// HTTP wires the HTTP transport on top of the core modules.
var HTTP = fx.Options(
	Core,
	httpserver.Module,
	transporthttp.Module,
)

// Worker exposes background payment-event processing.
var Worker = fx.Options(
	Core,
	worker.Module,
	workerpayment.Module,
)

// Module is the default application wiring (HTTP only).
var Module = HTTP

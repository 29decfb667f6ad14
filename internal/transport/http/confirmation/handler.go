package confirmation

import (
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/brightwealth/summit/internal/presentation/http/response"
	service "github.com/brightwealth/summit/internal/service/confirmation"
	"github.com/brightwealth/summit/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/brightwealth/summit/transport/http/confirmation")

// Handler exposes the payment confirmation endpoints over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs a confirmation Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with the provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	g := e.Group("/api")
	g.GET("/orders/confirmation", h.confirm)
	g.GET("/orders/cancelled", h.cancelled)
	g.GET("/verify-session/:sessionID", h.verifySession)
}

// referenceParam accepts the aliases the payment provider redirect has
// been observed to use.
func referenceParam(c echo.Context) string {
	for _, key := range []string{"ref", "order_ref", "orderRef"} {
		if v := c.QueryParam(key); v != "" {
			return v
		}
	}
	return ""
}

func (h *Handler) confirm(c echo.Context) error {
	b := response.New(c)

	reference := referenceParam(c)
	if reference == "" {
		return b.WithError(errorbank.BadRequest("order reference is required")).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "confirmation.confirm",
		trace.WithAttributes(attribute.String("order.reference", reference)))
	defer span.End()

	return b.WithData(h.svc.Confirm(ctx, reference)).Build()
}

func (h *Handler) cancelled(c echo.Context) error {
	_, span := httpTracer.Start(c.Request().Context(), "confirmation.cancelled")
	defer span.End()

	return response.New(c).WithData(h.svc.Cancelled(referenceParam(c))).Build()
}

func (h *Handler) verifySession(c echo.Context) error {
	b := response.New(c)

	sessionID := c.Param("sessionID")
	if sessionID == "" {
		return b.WithError(errorbank.BadRequest("session id is required")).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "confirmation.verifySession")
	defer span.End()

	order, err := h.svc.VerifySession(ctx, sessionID)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(order).Build()
}

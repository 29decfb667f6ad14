package checkout

import (
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/brightwealth/summit/internal/dto"
	"github.com/brightwealth/summit/internal/presentation/http/response"
	service "github.com/brightwealth/summit/internal/service/checkout"
	"github.com/brightwealth/summit/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/brightwealth/summit/transport/http/checkout")

// Handler exposes the checkout endpoints over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs a checkout Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with the provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	g := e.Group("/api")
	g.POST("/create-checkout-session", h.createTicketSession)
	g.POST("/create-book-checkout-session", h.createBookSession)
}

func (h *Handler) createTicketSession(c echo.Context) error {
	b := response.New(c)

	var payload dto.TicketCheckoutRequest
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "checkout.createTicketSession")
	span.SetAttributes(attribute.Int("checkout.quantity", payload.Quantity))
	defer span.End()

	resp, err := h.svc.Ticket(ctx, payload)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(resp).Build()
}

func (h *Handler) createBookSession(c echo.Context) error {
	b := response.New(c)

	var payload dto.BookCheckoutRequest
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "checkout.createBookSession")
	span.SetAttributes(attribute.Int("checkout.quantity", payload.Quantity))
	defer span.End()

	resp, err := h.svc.Book(ctx, payload)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(resp).Build()
}

package analytics

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"

	"github.com/brightwealth/summit/internal/dto"
	"github.com/brightwealth/summit/internal/presentation/http/response"
	"github.com/brightwealth/summit/internal/service/reporting"
	"github.com/brightwealth/summit/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/brightwealth/summit/transport/http/analytics")

// Handler accepts visit metrics reported by the site. Capture is best
// effort, so both endpoints acknowledge as soon as the payload parses.
type Handler struct {
	svc *reporting.Service
}

// NewHandler constructs an analytics Handler.
func NewHandler(svc *reporting.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with the provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	g := e.Group("/api/analytics")
	g.POST("/page-views", h.pageView)
	g.POST("/events", h.event)
}

func (h *Handler) pageView(c echo.Context) error {
	b := response.New(c)

	var payload dto.PageViewRequest
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "analytics.pageView")
	defer span.End()

	h.svc.RecordPageView(ctx, payload)
	return b.WithStatus(http.StatusAccepted).Build()
}

func (h *Handler) event(c echo.Context) error {
	b := response.New(c)

	var payload dto.EventRequest
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "analytics.event")
	defer span.End()

	h.svc.RecordEvent(ctx, payload)
	return b.WithStatus(http.StatusAccepted).Build()
}

package admin

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/brightwealth/summit/internal/dto"
	"github.com/brightwealth/summit/internal/entity"
	"github.com/brightwealth/summit/internal/presentation/http/response"
	orderrepo "github.com/brightwealth/summit/internal/repository/order"
	"github.com/brightwealth/summit/internal/service/adminauth"
	"github.com/brightwealth/summit/internal/service/reporting"
	"github.com/brightwealth/summit/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/brightwealth/summit/transport/http/admin")

// defaultMetricsWindow is used when the metrics request carries no
// explicit date range.
const defaultMetricsWindow = 30 * 24 * time.Hour

// Handler exposes the admin dashboard endpoints over HTTP.
type Handler struct {
	svc       *adminauth.Service
	reporting *reporting.Service
}

// NewHandler constructs an admin Handler.
func NewHandler(svc *adminauth.Service, reportingSvc *reporting.Service) *Handler {
	return &Handler{svc: svc, reporting: reportingSvc}
}

// Register routes with the provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	g := e.Group("/api/admin")
	g.POST("/login", h.login)

	authed := g.Group("", h.requireSession)
	authed.POST("/logout", h.logout)
	authed.GET("/session", h.session)
	authed.GET("/orders", h.listOrders)
	authed.PATCH("/orders/:reference/status", h.updateStatus)
	authed.GET("/orders/export", h.exportOrders)
	authed.GET("/metrics", h.metrics)
}

func (h *Handler) login(c echo.Context) error {
	b := response.New(c)

	// A caller holding a live session keeps it; no new token is minted.
	if token := bearerToken(c); token != "" {
		if session, err := h.svc.Authenticate(c.Request().Context(), token); err == nil {
			return b.WithData(h.toSessionDTO(session, true)).Build()
		}
	}

	var payload dto.LoginRequest
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}
	if payload.Username == "" || payload.Password == "" {
		return b.WithError(errorbank.BadRequest("username and password are required")).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "admin.login",
		trace.WithAttributes(attribute.String("admin.username", payload.Username)))
	defer span.End()

	session, err := h.svc.Login(ctx, payload.Username, payload.Password)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(h.toSessionDTO(session, true)).Build()
}

func (h *Handler) logout(c echo.Context) error {
	ctx, span := httpTracer.Start(c.Request().Context(), "admin.logout")
	defer span.End()

	h.svc.Logout(ctx, bearerToken(c))
	return response.New(c).Build()
}

func (h *Handler) session(c echo.Context) error {
	_, span := httpTracer.Start(c.Request().Context(), "admin.session")
	defer span.End()

	return response.New(c).WithData(h.toSessionDTO(sessionFrom(c), false)).Build()
}

func orderFilter(c echo.Context) orderrepo.Filter {
	return orderrepo.Filter{
		ProductType: c.QueryParam("product_type"),
		Status:      c.QueryParam("status"),
		Query:       c.QueryParam("q"),
	}
}

func (h *Handler) listOrders(c echo.Context) error {
	b := response.New(c)

	ctx, span := httpTracer.Start(c.Request().Context(), "admin.listOrders")
	defer span.End()

	orders, err := h.reporting.ListOrders(ctx, orderFilter(c))
	if err != nil {
		return b.WithError(err).Build()
	}

	views := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		views = append(views, toOrderDTO(&orders[i]))
	}
	return b.WithData(views).WithMeta("count", len(views)).Build()
}

func (h *Handler) updateStatus(c echo.Context) error {
	b := response.New(c)

	reference := c.Param("reference")
	var payload dto.StatusUpdateRequest
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "admin.updateStatus",
		trace.WithAttributes(
			attribute.String("order.reference", reference),
			attribute.String("order.status", payload.Status),
		))
	defer span.End()

	order, err := h.reporting.UpdateStatus(ctx, reference, payload.Status)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(toOrderDTO(order)).Build()
}

func (h *Handler) exportOrders(c echo.Context) error {
	ctx, span := httpTracer.Start(c.Request().Context(), "admin.exportOrders")
	defer span.End()

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	res.Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+h.reporting.ExportFilename()+`"`)
	res.WriteHeader(http.StatusOK)

	return h.reporting.ExportCSV(ctx, res, orderFilter(c))
}

func (h *Handler) metrics(c echo.Context) error {
	b := response.New(c)

	ctx, span := httpTracer.Start(c.Request().Context(), "admin.metrics")
	defer span.End()

	from, to, err := metricsRange(c, time.Now())
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(h.reporting.Metrics(ctx, from, to)).Build()
}

// metricsRange parses the optional from/to query dates. The range is
// half-open: to names the first excluded day.
func metricsRange(c echo.Context, now time.Time) (time.Time, time.Time, error) {
	from := now.UTC().Add(-defaultMetricsWindow)
	to := now.UTC()

	if raw := c.QueryParam("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return time.Time{}, time.Time{}, errorbank.BadRequest("invalid from date", errorbank.WithCause(err))
		}
		from = parsed
	}
	if raw := c.QueryParam("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return time.Time{}, time.Time{}, errorbank.BadRequest("invalid to date", errorbank.WithCause(err))
		}
		to = parsed
	}
	if !to.After(from) {
		return time.Time{}, time.Time{}, errorbank.BadRequest("to must be after from")
	}
	return from, to, nil
}

func (h *Handler) toSessionDTO(session *adminauth.Session, includeToken bool) dto.SessionResponse {
	resp := dto.SessionResponse{
		Username:  session.Username,
		Email:     session.Email,
		Role:      session.Role,
		LoginTime: session.LoginTime,
		ExpiresAt: h.svc.ExpiresAt(session),
	}
	if includeToken {
		resp.Token = session.Token
	}
	return resp
}

func toOrderDTO(order *entity.Order) dto.OrderResponse {
	view := dto.OrderResponse{
		Reference:        order.Reference,
		CustomerName:     order.CustomerName,
		CustomerEmail:    order.CustomerEmail,
		CustomerPhone:    order.CustomerPhone,
		Quantity:         order.Quantity,
		AmountTotal:      order.AmountTotal,
		ProductType:      order.ProductType,
		Status:           order.Status,
		ShippingAddress:  order.ShippingAddress,
		ShippingCity:     order.ShippingCity,
		ShippingPostcode: order.ShippingPostcode,
		EmailStatus:      order.EmailStatus,
		CreatedAt:        order.CreatedAt,
	}
	if !order.UpdatedAt.IsZero() {
		updated := order.UpdatedAt
		view.UpdatedAt = &updated
	}
	return view
}

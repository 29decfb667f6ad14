package reporting

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/brightwealth/summit/internal/dto"
	"github.com/brightwealth/summit/internal/entity"
	orderrepo "github.com/brightwealth/summit/internal/repository/order"
	"github.com/brightwealth/summit/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/brightwealth/summit/service/reporting")

// OrderAdmin is the slice of the order repository the dashboard needs.
type OrderAdmin interface {
	List(ctx context.Context, filter orderrepo.Filter) ([]entity.Order, error)
	GetByReference(ctx context.Context, reference string) (*entity.Order, error)
	UpdateStatus(ctx context.Context, reference, from, to string) error
}

// AnalyticsReader reads the raw visit and event records.
type AnalyticsReader interface {
	ListPageViews(ctx context.Context, from, to time.Time) ([]entity.PageView, error)
	ListEvents(ctx context.Context, from, to time.Time) ([]entity.AnalyticsEvent, error)
	ListVisitors(ctx context.Context) ([]entity.Visitor, error)
}

// AnalyticsWriter stores incoming visit and event records.
type AnalyticsWriter interface {
	InsertPageView(ctx context.Context, view *entity.PageView) error
	InsertEvent(ctx context.Context, event *entity.AnalyticsEvent) error
	UpsertVisitor(ctx context.Context, visitorID, lastPage, country, city, region string, at time.Time) error
}

// Service backs the admin dashboard: order listing and status
// transitions, CSV export, analytics capture, and metrics aggregation.
type Service struct {
	orders OrderAdmin
	reads  AnalyticsReader
	writes AnalyticsWriter
	logger *zap.Logger

	// now is swappable in tests.
	now func() time.Time
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Orders OrderAdmin
	Reads  AnalyticsReader
	Writes AnalyticsWriter
	Logger *zap.Logger
}

// NewService wires a new reporting Service.
func NewService(p Params) *Service {
	return &Service{
		orders: p.Orders,
		reads:  p.Reads,
		writes: p.Writes,
		logger: p.Logger,
		now:    time.Now,
	}
}

// ListOrders returns orders matching the dashboard filter, newest first.
func (s *Service) ListOrders(ctx context.Context, filter orderrepo.Filter) ([]entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "ReportingService.ListOrders")
	defer span.End()

	orders, err := s.orders.List(ctx, filter)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load orders", errorbank.WithCause(err))
	}
	return orders, nil
}

// UpdateStatus transitions an order. Only pending orders may move, and
// only to completed or failed; the write is conditional on the current
// status so concurrent dashboard sessions cannot overwrite each other.
func (s *Service) UpdateStatus(ctx context.Context, reference, to string) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "ReportingService.UpdateStatus", trace.WithAttributes(
		attribute.String("order.reference", reference),
		attribute.String("order.status.to", to),
	))
	defer span.End()

	switch to {
	case entity.OrderStatusCompleted, entity.OrderStatusFailed, entity.OrderStatusPending:
	default:
		return nil, errorbank.BadRequest("unknown status: " + to)
	}

	order, err := s.orders.GetByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, orderrepo.ErrNotFound) {
			return nil, errorbank.NotFound("order not found")
		}
		return nil, errorbank.Internal("failed to load order", errorbank.WithCause(err))
	}

	if order.Status == to {
		return order, nil
	}
	if order.Status != entity.OrderStatusPending {
		return nil, errorbank.Conflict("only pending orders can change status")
	}

	if err := s.orders.UpdateStatus(ctx, reference, entity.OrderStatusPending, to); err != nil {
		switch {
		case errors.Is(err, orderrepo.ErrStaleStatus):
			return nil, errorbank.Conflict("order status changed concurrently; refresh and retry")
		case errors.Is(err, orderrepo.ErrNotFound):
			return nil, errorbank.NotFound("order not found")
		default:
			return nil, errorbank.Internal("failed to update order", errorbank.WithCause(err))
		}
	}

	order.Status = to
	order.UpdatedAt = s.now().UTC()
	return order, nil
}

// RecordPageView stores one page impression and bumps the visitor
// aggregate. Failures are logged and swallowed: analytics capture must
// never fail the caller.
func (s *Service) RecordPageView(ctx context.Context, req dto.PageViewRequest) {
	ctx, span := serviceTracer.Start(ctx, "ReportingService.RecordPageView")
	defer span.End()

	if req.VisitorID == "" || req.PagePath == "" {
		return
	}

	now := s.now().UTC()
	view := &entity.PageView{
		PageName:  req.PageName,
		PagePath:  req.PagePath,
		VisitorID: req.VisitorID,
		Date:      now.Format("2006-01-02"),
		Hour:      now.Hour(),
		Referrer:  referrerOrDirect(req.Referrer),
		UserAgent: req.UserAgent,
		Country:   req.Country,
		City:      req.City,
		Region:    req.Region,
		CreatedAt: now,
	}

	if err := s.writes.InsertPageView(ctx, view); err != nil {
		s.logger.Warn("failed to store page view", zap.Error(err))
		return
	}
	if err := s.writes.UpsertVisitor(ctx, req.VisitorID, req.PagePath, req.Country, req.City, req.Region, now); err != nil {
		s.logger.Warn("failed to update visitor record", zap.Error(err))
	}
}

// RecordEvent stores one named custom event. Same soft-failure contract
// as RecordPageView.
func (s *Service) RecordEvent(ctx context.Context, req dto.EventRequest) {
	ctx, span := serviceTracer.Start(ctx, "ReportingService.RecordEvent")
	defer span.End()

	if req.EventName == "" || req.VisitorID == "" {
		return
	}

	now := s.now().UTC()
	event := &entity.AnalyticsEvent{
		EventName: req.EventName,
		Params:    req.Params,
		VisitorID: req.VisitorID,
		Date:      now.Format("2006-01-02"),
		Hour:      now.Hour(),
		CreatedAt: now,
	}
	if err := s.writes.InsertEvent(ctx, event); err != nil {
		s.logger.Warn("failed to store event", zap.Error(err))
	}
}

func referrerOrDirect(referrer string) string {
	if referrer == "" {
		return "direct"
	}
	return referrer
}

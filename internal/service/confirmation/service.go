package confirmation

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/brightwealth/summit/internal/cache"
	"github.com/brightwealth/summit/internal/config"
	"github.com/brightwealth/summit/internal/dto"
	"github.com/brightwealth/summit/internal/entity"
	orderrepo "github.com/brightwealth/summit/internal/repository/order"
	"github.com/brightwealth/summit/internal/service/checkout"
)

var serviceTracer = otel.Tracer("github.com/brightwealth/summit/service/confirmation")

const placeholderNotice = "Your payment was received but the order is not yet confirmed. " +
	"You will receive a confirmation email shortly."

const cancelledNotice = "Your payment was cancelled. No charge has been made; " +
	"you can start a new checkout at any time."

// OrderReader is the read slice of the order store this service needs.
type OrderReader interface {
	GetByReference(ctx context.Context, reference string) (*entity.Order, error)
	GetBySessionID(ctx context.Context, sessionID string) (*entity.Order, error)
}

// Service resolves the post-payment return into an order view. A fixed
// settle delay is waited before the first lookup to absorb the race
// against the asynchronous payment notification; a miss degrades to a
// placeholder view rather than an error.
type Service struct {
	orders   OrderReader
	cache    cache.Store
	cacheTTL time.Duration
	logger   *zap.Logger
	cfg      config.Confirmation

	// wait is swappable in tests; the default honours ctx cancellation.
	wait func(ctx context.Context, d time.Duration)
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Orders OrderReader
	Cache  cache.Store
	Config config.Config
	Logger *zap.Logger
}

// NewService wires a new confirmation Service.
func NewService(p Params) *Service {
	return &Service{
		orders:   p.Orders,
		cache:    p.Cache,
		cacheTTL: p.Config.Cache.DefaultTTL,
		logger:   p.Logger,
		cfg:      p.Config.Confirmation,
		wait: func(ctx context.Context, d time.Duration) {
			if d <= 0 {
				return
			}
			t := time.NewTimer(d)
			defer t.Stop()
			select {
			case <-t.C:
			case <-ctx.Done():
			}
		},
	}
}

// Confirm resolves an order reference into the success view. It never
// returns not-found: a missing record yields placeholder order data with
// Confirmed=false so the page can render a soft caveat instead of an
// error.
func (s *Service) Confirm(ctx context.Context, reference string) *dto.ConfirmationResponse {
	ctx, span := serviceTracer.Start(ctx, "ConfirmationService.Confirm", trace.WithAttributes(attribute.String("order.reference", reference)))
	defer span.End()

	if cached := s.fromCache(ctx, reference); cached != nil {
		return confirmed(cached)
	}

	s.wait(ctx, s.cfg.SettleDelay)

	order, err := s.orders.GetByReference(ctx, reference)
	if err != nil {
		if !errors.Is(err, orderrepo.ErrNotFound) {
			s.logger.Warn("confirmation lookup failed", zap.String("reference", reference), zap.Error(err))
		}
		return s.placeholder(reference)
	}

	s.storeInCache(ctx, order)
	return confirmed(order)
}

// Cancelled resolves the cancel-return redirect. No settle delay and no
// lookup happen here: the provider abandoned the session, so all that is
// known is the reference the redirect carried (possibly empty).
func (s *Service) Cancelled(reference string) *dto.ConfirmationResponse {
	view := &dto.ConfirmationResponse{
		Confirmed: false,
		Notice:    cancelledNotice,
	}
	if reference != "" {
		view.Order = dto.OrderResponse{
			Reference:   reference,
			ProductType: checkout.KindFromReference(reference),
			Status:      entity.OrderStatusPending,
		}
	}
	return view
}

// VerifySession looks an order up by the provider checkout session id.
// Unlike Confirm it reports the miss, since callers hold a provider
// identifier rather than a user-facing reference.
func (s *Service) VerifySession(ctx context.Context, sessionID string) (*dto.OrderResponse, error) {
	ctx, span := serviceTracer.Start(ctx, "ConfirmationService.VerifySession")
	defer span.End()

	order, err := s.orders.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	view := toView(order)
	return &view, nil
}

// placeholder builds best-effort order data for a record that is not yet
// visible: assumed quantity 1 and the configured fallback amount for the
// product kind inferred from the reference prefix.
func (s *Service) placeholder(reference string) *dto.ConfirmationResponse {
	kind := checkout.KindFromReference(reference)
	amount := s.cfg.FallbackTicketAmount
	if kind == entity.ProductBook {
		amount = s.cfg.FallbackBookAmount
	}
	return &dto.ConfirmationResponse{
		Confirmed: false,
		Notice:    placeholderNotice,
		Order: dto.OrderResponse{
			Reference:   reference,
			Quantity:    1,
			AmountTotal: amount,
			ProductType: kind,
			Status:      entity.OrderStatusPending,
		},
	}
}

func confirmed(order *entity.Order) *dto.ConfirmationResponse {
	return &dto.ConfirmationResponse{
		Confirmed: true,
		Order:     toView(order),
	}
}

func toView(order *entity.Order) dto.OrderResponse {
	view := dto.OrderResponse{
		Reference:     order.Reference,
		CustomerName:  order.CustomerName,
		CustomerEmail: order.CustomerEmail,
		CustomerPhone: order.CustomerPhone,
		Quantity:      order.Quantity,
		AmountTotal:   order.AmountTotal,
		ProductType:   order.ProductType,
		Status:        order.Status,
		EmailStatus:   order.EmailStatus,
		CreatedAt:     order.CreatedAt,
	}
	if order.IsBook() {
		view.ShippingAddress = order.ShippingAddress
		view.ShippingCity = order.ShippingCity
		view.ShippingPostcode = order.ShippingPostcode
	}
	if !order.UpdatedAt.IsZero() {
		updated := order.UpdatedAt
		view.UpdatedAt = &updated
	}
	return view
}

func (s *Service) cacheKey(reference string) string {
	return "orders:" + reference
}

func (s *Service) fromCache(ctx context.Context, reference string) *entity.Order {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, s.cacheKey(reference))
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("confirmation cache read failed", zap.String("reference", reference), zap.Error(err))
		}
		return nil
	}
	var order entity.Order
	if err := json.Unmarshal(raw, &order); err != nil {
		return nil
	}
	return &order
}

func (s *Service) storeInCache(ctx context.Context, order *entity.Order) {
	if s.cache == nil || order == nil {
		return
	}
	// Only terminal-success views are cacheable. A pending row served
	// from cache would keep reporting pending for the full TTL after
	// the payment notification completes it.
	if order.Status != entity.OrderStatusCompleted {
		return
	}
	raw, err := json.Marshal(order)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.cacheKey(order.Reference), raw, s.cacheTTL); err != nil {
		s.logger.Warn("confirmation cache write failed", zap.String("reference", order.Reference), zap.Error(err))
	}
}

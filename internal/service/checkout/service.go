package checkout

import (
	"context"
	"encoding/json"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/brightwealth/summit/internal/config"
	"github.com/brightwealth/summit/internal/dto"
	"github.com/brightwealth/summit/internal/entity"
	"github.com/brightwealth/summit/internal/gateway"
	"github.com/brightwealth/summit/internal/messaging"
	"github.com/brightwealth/summit/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/brightwealth/summit/service/checkout")

// Gateway is the slice of the hosted checkout client this service needs.
type Gateway interface {
	CreateTicketCheckout(ctx context.Context, intent gateway.TicketIntent) (*gateway.Session, *gateway.Error)
	CreateBookCheckout(ctx context.Context, intent gateway.BookIntent) (*gateway.Session, *gateway.Error)
}

// OrderWriter persists the optimistic pending order and back-fills the
// provider session id once the gateway mints one.
type OrderWriter interface {
	Create(ctx context.Context, order *entity.Order) error
	SetProviderSession(ctx context.Context, reference, sessionID string) error
}

// Service turns validated buyer input into a hosted checkout redirect.
type Service struct {
	gateway   Gateway
	orders    OrderWriter
	publisher messaging.Client
	logger    *zap.Logger
	pricing   config.Checkout
	messaging messagingConfig
}

type messagingConfig struct {
	enabled bool
	topic   string
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Gateway   Gateway
	Orders    OrderWriter
	Publisher messaging.Client
	Config    config.Config
	Logger    *zap.Logger
}

// NewService wires a new checkout Service.
func NewService(p Params) *Service {
	return &Service{
		gateway:   p.Gateway,
		orders:    p.Orders,
		publisher: p.Publisher,
		logger:    p.Logger,
		pricing:   p.Config.Checkout,
		messaging: messagingConfig{
			enabled: p.Config.Messaging.Enabled,
			topic:   p.Config.Messaging.Kafka.Topic,
		},
	}
}

// Ticket validates the request, freezes quantity and total, and asks the
// gateway for a redirect URL. Validation failures return the first
// failing rule's message; no gateway call is made in that case.
func (s *Service) Ticket(ctx context.Context, req dto.TicketCheckoutRequest) (*dto.CheckoutResponse, error) {
	ctx, span := serviceTracer.Start(ctx, "CheckoutService.Ticket", trace.WithAttributes(attribute.Int("checkout.quantity", req.Quantity)))
	defer span.End()

	if err := validateBuyer(req.Name, req.Email); err != nil {
		return nil, err
	}
	if err := validateQuantity(req.Quantity, s.pricing.MaxTickets); err != nil {
		return nil, err
	}

	reference := NewReference(entity.ProductTicket)
	total := int64(req.Quantity) * s.pricing.TicketPrice

	order := &entity.Order{
		Reference:     reference,
		CustomerName:  req.Name,
		CustomerEmail: req.Email,
		CustomerPhone: req.Phone,
		Quantity:      req.Quantity,
		AmountTotal:   total,
		ProductType:   entity.ProductTicket,
		Status:        entity.OrderStatusPending,
		EmailStatus:   entity.EmailStatusPending,
	}

	session, gwErr := s.createSession(ctx, span, order, func() (*gateway.Session, *gateway.Error) {
		return s.gateway.CreateTicketCheckout(ctx, gateway.TicketIntent{
			Name:      req.Name,
			Email:     req.Email,
			Phone:     req.Phone,
			Quantity:  req.Quantity,
			UnitPrice: s.pricing.TicketPrice,
		})
	})
	if gwErr != nil {
		return nil, gwErr
	}

	return s.response(reference, session, total), nil
}

// Book is the book-purchase variant: same contract plus shipping fields.
// The serviceable region is not validated here; the gateway remains the
// trust boundary for the charge itself.
func (s *Service) Book(ctx context.Context, req dto.BookCheckoutRequest) (*dto.CheckoutResponse, error) {
	ctx, span := serviceTracer.Start(ctx, "CheckoutService.Book", trace.WithAttributes(attribute.Int("checkout.quantity", req.Quantity)))
	defer span.End()

	if err := validateBuyer(req.Name, req.Email); err != nil {
		return nil, err
	}
	if err := validateQuantity(req.Quantity, s.pricing.MaxBooks); err != nil {
		return nil, err
	}
	if err := validateShipping(req.Address, req.City, req.Postcode); err != nil {
		return nil, err
	}

	reference := NewReference(entity.ProductBook)
	total := int64(req.Quantity)*s.pricing.BookPrice + s.pricing.ShippingPrice

	order := &entity.Order{
		Reference:        reference,
		CustomerName:     req.Name,
		CustomerEmail:    req.Email,
		CustomerPhone:    req.Phone,
		Quantity:         req.Quantity,
		AmountTotal:      total,
		ProductType:      entity.ProductBook,
		Status:           entity.OrderStatusPending,
		ShippingAddress:  req.Address,
		ShippingCity:     req.City,
		ShippingPostcode: req.Postcode,
		EmailStatus:      entity.EmailStatusPending,
	}

	session, gwErr := s.createSession(ctx, span, order, func() (*gateway.Session, *gateway.Error) {
		return s.gateway.CreateBookCheckout(ctx, gateway.BookIntent{
			Name:          req.Name,
			Email:         req.Email,
			Phone:         req.Phone,
			Quantity:      req.Quantity,
			UnitPrice:     s.pricing.BookPrice,
			ShippingPrice: s.pricing.ShippingPrice,
			Address:       req.Address,
			City:          req.City,
			Postcode:      req.Postcode,
		})
	})
	if gwErr != nil {
		return nil, gwErr
	}

	return s.response(reference, session, total), nil
}

// createSession inserts the optimistic pending order, calls the gateway
// exactly once, and back-fills the provider session id. The pending row
// is written first so the payment notification always has something to
// complete; a failed gateway call simply leaves it pending.
func (s *Service) createSession(ctx context.Context, span trace.Span, order *entity.Order, call func() (*gateway.Session, *gateway.Error)) (*gateway.Session, error) {
	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now

	if err := s.orders.Create(ctx, order); err != nil {
		// The gateway still computes the authoritative charge, so a
		// failed optimistic insert is logged, not fatal.
		s.logger.Warn("optimistic order insert failed",
			zap.String("reference", order.Reference), zap.Error(err))
	}

	session, gwErr := call()
	if gwErr != nil {
		span.SetStatus(codes.Error, "gateway error")
		return nil, errorbank.BadGatewayErr(gwErr.Message)
	}

	if err := s.orders.SetProviderSession(ctx, order.Reference, session.SessionID); err != nil {
		// Session verification degrades until the payment notification
		// writes the id; the redirect itself is unaffected.
		s.logger.Warn("provider session back-fill failed",
			zap.String("reference", order.Reference), zap.Error(err))
	} else {
		order.ProviderSessionID = session.SessionID
	}

	s.publishInitiated(ctx, order, session.SessionID)
	return session, nil
}

func (s *Service) response(reference string, session *gateway.Session, total int64) *dto.CheckoutResponse {
	return &dto.CheckoutResponse{
		Reference:   reference,
		URL:         session.URL,
		SessionID:   session.SessionID,
		AmountTotal: total,
		Display:     FormatAmount(total),
		Currency:    s.pricing.Currency,
	}
}

// InitiatedEvent is emitted when a checkout session is handed to the
// payment provider.
type InitiatedEvent struct {
	Type        string    `json:"type"`
	Reference   string    `json:"reference"`
	ProductType string    `json:"product_type"`
	Quantity    int       `json:"quantity"`
	AmountTotal int64     `json:"amount_total"`
	SessionID   string    `json:"session_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (s *Service) publishInitiated(ctx context.Context, order *entity.Order, sessionID string) {
	if !s.messaging.enabled || s.publisher == nil {
		return
	}
	event := InitiatedEvent{
		Type:        "checkout.initiated",
		Reference:   order.Reference,
		ProductType: order.ProductType,
		Quantity:    order.Quantity,
		AmountTotal: order.AmountTotal,
		SessionID:   sessionID,
		CreatedAt:   order.CreatedAt,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal checkout initiated", zap.Error(err))
		return
	}
	if err := s.publisher.Publish(ctx, []byte(order.Reference), payload); err != nil {
		s.logger.Error("publish checkout initiated", zap.Error(err))
	}
}

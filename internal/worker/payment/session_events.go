package payment

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/brightwealth/summit/internal/config"
	"github.com/brightwealth/summit/internal/entity"
	"github.com/brightwealth/summit/internal/messaging"
	orderrepo "github.com/brightwealth/summit/internal/repository/order"
	"github.com/brightwealth/summit/internal/service/checkout"
	"github.com/brightwealth/summit/internal/worker"
)

var workerTracer = otel.Tracer("github.com/brightwealth/summit/worker/payment")

// Event types delivered on the payments topic.
const (
	EventSessionCompleted = "checkout.session.completed"
	EventSessionExpired   = "checkout.session.expired"
)

// SessionEvent is the payment provider notification relayed onto the
// payments topic.
type SessionEvent struct {
	Type            string    `json:"type"`
	Reference       string    `json:"reference"`
	SessionID       string    `json:"session_id"`
	PaymentIntentID string    `json:"payment_intent_id,omitempty"`
	AmountTotal     int64     `json:"amount_total"`
	CustomerName    string    `json:"customer_name,omitempty"`
	CustomerEmail   string    `json:"customer_email,omitempty"`
	CustomerPhone   string    `json:"customer_phone,omitempty"`
	Quantity        int       `json:"quantity,omitempty"`
	EmailSent       bool      `json:"email_sent"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// OrderStore is the slice of the order repository the worker needs.
type OrderStore interface {
	Create(ctx context.Context, order *entity.Order) error
	Complete(ctx context.Context, reference, sessionID, paymentIntentID string, amount int64) error
	UpdateStatus(ctx context.Context, reference, from, to string) error
	RecordEmailAttempt(ctx context.Context, reference string, sent bool) error
}

// Module registers payment-related worker handlers.
var Module = fx.Module("worker_payment",
	fx.Provide(func(r *orderrepo.Repository) OrderStore { return r }),
	fx.Provide(
		fx.Annotate(
			NewSessionEventHandler,
			fx.ResultTags(`group:"worker.handlers"`),
		),
	),
)

// NewSessionEventHandler sets up a worker handler that applies payment
// session outcomes to stored orders.
func NewSessionEventHandler(logger *zap.Logger, cfg config.Config, store OrderStore) worker.HandlerRegistration {
	handler := func(ctx context.Context, msg messaging.Message) error {
		ctx, span := workerTracer.Start(ctx, "worker.payments.process", trace.WithAttributes(
			attribute.String("messaging.topic", msg.Topic),
		))
		defer span.End()

		var event SessionEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logger.Error("failed to decode session event", zap.Error(err))

			span.RecordError(err)
			span.SetStatus(codes.Error, "decode error")
			return err
		}
		span.SetAttributes(
			attribute.String("event.type", event.Type),
			attribute.String("order.reference", event.Reference),
		)

		switch event.Type {
		case EventSessionCompleted:
			return applyCompleted(ctx, logger, store, event)
		case EventSessionExpired:
			return applyExpired(ctx, logger, store, event)
		default:
			// Other event types on the topic are not ours to handle.
			logger.Debug("ignoring session event", zap.String("type", event.Type))
			return nil
		}
	}

	return worker.HandlerRegistration{
		Topic:   cfg.Messaging.Kafka.Topic,
		Handler: handler,
	}
}

func applyCompleted(ctx context.Context, logger *zap.Logger, store OrderStore, event SessionEvent) error {
	if err := store.Complete(ctx, event.Reference, event.SessionID, event.PaymentIntentID, event.AmountTotal); err != nil {
		if errors.Is(err, orderrepo.ErrStaleStatus) {
			// Duplicate delivery; the order already left pending.
			logger.Debug("order already resolved", zap.String("reference", event.Reference))
			return nil
		}
		if errors.Is(err, orderrepo.ErrNotFound) {
			// The pending insert failed at checkout time; the provider
			// notification is now the only record of the sale.
			return recoverCompleted(ctx, logger, store, event)
		}
		logger.Error("failed to complete order",
			zap.String("reference", event.Reference), zap.Error(err))
		return err
	}

	if err := store.RecordEmailAttempt(ctx, event.Reference, event.EmailSent); err != nil {
		// Delivery tracking is advisory and never fails the message.
		logger.Warn("failed to record email attempt",
			zap.String("reference", event.Reference), zap.Error(err))
	}

	logger.Info("order completed",
		zap.String("reference", event.Reference),
		zap.Int64("amount_total", event.AmountTotal),
	)
	return nil
}

// recoverCompleted writes the order the optimistic checkout insert never
// produced, straight into completed state, from the notification payload.
func recoverCompleted(ctx context.Context, logger *zap.Logger, store OrderStore, event SessionEvent) error {
	if event.CustomerEmail == "" {
		// Not enough detail to reconstruct the sale; the confirmation
		// page degrades to placeholder details on its own.
		logger.Warn("completed session without a stored order",
			zap.String("reference", event.Reference))
		return nil
	}

	quantity := event.Quantity
	if quantity < 1 {
		quantity = 1
	}
	now := time.Now().UTC()
	order := &entity.Order{
		Reference:               event.Reference,
		CustomerName:            event.CustomerName,
		CustomerEmail:           event.CustomerEmail,
		CustomerPhone:           event.CustomerPhone,
		Quantity:                quantity,
		AmountTotal:             event.AmountTotal,
		ProductType:             checkout.KindFromReference(event.Reference),
		Status:                  entity.OrderStatusCompleted,
		ProviderSessionID:       event.SessionID,
		ProviderPaymentIntentID: event.PaymentIntentID,
		EmailStatus:             entity.EmailStatusPending,
		CreatedAt:               now,
		UpdatedAt:               now,
	}
	if err := store.Create(ctx, order); err != nil {
		logger.Error("failed to recover completed order",
			zap.String("reference", event.Reference), zap.Error(err))
		return err
	}

	logger.Info("order recovered from session notification",
		zap.String("reference", event.Reference),
		zap.Int64("amount_total", event.AmountTotal),
	)
	return nil
}

func applyExpired(ctx context.Context, logger *zap.Logger, store OrderStore, event SessionEvent) error {
	err := store.UpdateStatus(ctx, event.Reference, entity.OrderStatusPending, entity.OrderStatusFailed)
	switch {
	case errors.Is(err, orderrepo.ErrNotFound), errors.Is(err, orderrepo.ErrStaleStatus):
		// Already resolved, most likely completed before the session
		// expiry notice arrived.
		logger.Debug("expired session left order untouched",
			zap.String("reference", event.Reference))
		return nil
	case err != nil:
		logger.Error("failed to fail order",
			zap.String("reference", event.Reference), zap.Error(err))
		return err
	}

	logger.Info("order marked failed after session expiry",
		zap.String("reference", event.Reference))
	return nil
}

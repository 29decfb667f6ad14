package order

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/brightwealth/summit/internal/database"
	"github.com/brightwealth/summit/internal/entity"
)

var repoTracer = otel.Tracer("github.com/brightwealth/summit/repository/order")

// ErrNotFound is returned when no order matches the lookup.
var ErrNotFound = errors.New("order not found")

// ErrStaleStatus is returned when a conditional status update matched no
// row, either because the transition is illegal or the row changed
// underneath the caller.
var ErrStaleStatus = errors.New("order status changed concurrently")

// Filter narrows admin order listings. Zero time bounds mean unbounded.
type Filter struct {
	ProductType string // "ticket", "book", or "" for all
	Status      string // "pending", "completed", "failed", or ""
	Query       string // free text over reference, name, email
	CreatedFrom time.Time
	CreatedTo   time.Time // exclusive
}

// Repository encapsulates read/write access for orders.
type Repository struct {
	writer *bun.DB
	reader *bun.DB
}

// NewRepository wires a repository backed by configured database connections.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{
		writer: conns.Writer,
		reader: conns.Reader,
	}
}

// Create persists a new order using the write connection.
func (r *Repository) Create(ctx context.Context, order *entity.Order) error {
	if order == nil {
		return errors.New("nil order")
	}
	ctx, span := repoTracer.Start(ctx, "OrderRepository.Create", trace.WithAttributes(attribute.String("order.reference", order.Reference)))
	defer span.End()

	_, err := r.writer.NewInsert().Model(order).Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
	}
	return err
}

// GetByReference fetches an order by its order reference.
func (r *Repository) GetByReference(ctx context.Context, reference string) (*entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.GetByReference", trace.WithAttributes(attribute.String("order.reference", reference)))
	defer span.End()

	order := new(entity.Order)
	err := r.reader.NewSelect().Model(order).Where("reference = ?", reference).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return order, nil
}

// GetBySessionID fetches an order by the provider checkout session id.
func (r *Repository) GetBySessionID(ctx context.Context, sessionID string) (*entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.GetBySessionID")
	defer span.End()

	order := new(entity.Order)
	err := r.reader.NewSelect().Model(order).Where("provider_session_id = ?", sessionID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return order, nil
}

// List returns orders matching the filter, newest first.
func (r *Repository) List(ctx context.Context, filter Filter) ([]entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.List")
	defer span.End()

	q := r.reader.NewSelect().Model((*entity.Order)(nil)).Order("created_at DESC")

	if filter.ProductType != "" {
		q = q.Where("product_type = ?", filter.ProductType)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if !filter.CreatedFrom.IsZero() {
		q = q.Where("created_at >= ?", filter.CreatedFrom)
	}
	if !filter.CreatedTo.IsZero() {
		q = q.Where("created_at < ?", filter.CreatedTo)
	}
	if term := strings.TrimSpace(filter.Query); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				WhereOr("LOWER(reference) LIKE ?", like).
				WhereOr("LOWER(customer_name) LIKE ?", like).
				WhereOr("LOWER(customer_email) LIKE ?", like)
		})
	}

	var orders []entity.Order
	if err := q.Scan(ctx, &orders); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return orders, nil
}

// UpdateStatus transitions an order from one status to another. The
// previous status is part of the WHERE clause so concurrent updates and
// illegal transitions surface as ErrStaleStatus instead of silently
// overwriting.
func (r *Repository) UpdateStatus(ctx context.Context, reference, from, to string) error {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.UpdateStatus", trace.WithAttributes(
		attribute.String("order.reference", reference),
		attribute.String("order.status.to", to),
	))
	defer span.End()

	res, err := r.writer.NewUpdate().
		Model((*entity.Order)(nil)).
		Set("status = ?", to).
		Set("updated_at = ?", time.Now().UTC()).
		Where("reference = ?", reference).
		Where("status = ?", from).
		Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		if _, getErr := r.GetByReference(ctx, reference); errors.Is(getErr, ErrNotFound) {
			return ErrNotFound
		}
		span.SetStatus(codes.Error, "stale status")
		return ErrStaleStatus
	}
	return nil
}

// SetProviderSession back-fills the checkout session id onto an order
// once the gateway has minted it.
func (r *Repository) SetProviderSession(ctx context.Context, reference, sessionID string) error {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.SetProviderSession", trace.WithAttributes(attribute.String("order.reference", reference)))
	defer span.End()

	res, err := r.writer.NewUpdate().
		Model((*entity.Order)(nil)).
		Set("provider_session_id = ?", sessionID).
		Set("updated_at = ?", time.Now().UTC()).
		Where("reference = ?", reference).
		Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Complete marks a pending order completed with the provider identifiers
// and authoritative amount reported by the payment notification.
func (r *Repository) Complete(ctx context.Context, reference, sessionID, paymentIntentID string, amount int64) error {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.Complete", trace.WithAttributes(attribute.String("order.reference", reference)))
	defer span.End()

	q := r.writer.NewUpdate().
		Model((*entity.Order)(nil)).
		Set("status = ?", entity.OrderStatusCompleted).
		Set("provider_session_id = ?", sessionID).
		Set("provider_payment_intent_id = ?", paymentIntentID).
		Set("updated_at = ?", time.Now().UTC()).
		Where("reference = ?", reference).
		Where("status = ?", entity.OrderStatusPending)
	if amount > 0 {
		q = q.Set("amount_total = ?", amount)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		if _, getErr := r.GetByReference(ctx, reference); errors.Is(getErr, ErrNotFound) {
			return ErrNotFound
		}
		return ErrStaleStatus
	}
	return nil
}

// RecordEmailAttempt updates the notification-delivery tracking fields.
func (r *Repository) RecordEmailAttempt(ctx context.Context, reference string, sent bool) error {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.RecordEmailAttempt", trace.WithAttributes(attribute.String("order.reference", reference)))
	defer span.End()

	status := entity.EmailStatusFailed
	if sent {
		status = entity.EmailStatusSent
	}
	now := time.Now().UTC()

	res, err := r.writer.NewUpdate().
		Model((*entity.Order)(nil)).
		Set("email_sent = ?", sent).
		Set("email_sent_count = email_sent_count + 1").
		Set("email_last_attempt = ?", now).
		Set("email_status = ?", status).
		Set("updated_at = ?", now).
		Where("reference = ?", reference).
		Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// Order lifecycle statuses. Transitions only move forward from pending.
const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusFailed    = "failed"
)

// Product kinds sold through checkout.
const (
	ProductTicket = "ticket"
	ProductBook   = "book"
)

// Delivery states for the confirmation email.
const (
	EmailStatusPending = "pending"
	EmailStatusSent    = "sent"
	EmailStatusFailed  = "failed"
)

// Order represents one purchase attempt, keyed by its order reference.
type Order struct {
	bun.BaseModel `bun:"table:orders"`

	ID            int64  `bun:",pk,autoincrement"`
	Reference     string `bun:"reference"`
	CustomerName  string `bun:"customer_name"`
	CustomerEmail string `bun:"customer_email"`
	CustomerPhone string `bun:"customer_phone,nullzero"`
	Quantity      int    `bun:"quantity"`
	AmountTotal   int64  `bun:"amount_total"`
	ProductType   string `bun:"product_type"`
	Status        string `bun:"status"`

	// Book orders only.
	ShippingAddress  string `bun:"shipping_address,nullzero"`
	ShippingCity     string `bun:"shipping_city,nullzero"`
	ShippingPostcode string `bun:"shipping_postcode,nullzero"`

	ProviderSessionID       string `bun:"provider_session_id,nullzero"`
	ProviderPaymentIntentID string `bun:"provider_payment_intent_id,nullzero"`

	EmailSent        bool       `bun:"email_sent"`
	EmailSentCount   int        `bun:"email_sent_count"`
	EmailLastAttempt *time.Time `bun:"email_last_attempt,nullzero"`
	EmailStatus      string     `bun:"email_status,nullzero"`

	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `bun:"updated_at,nullzero"`
}

// IsBook reports whether the order is a book purchase.
func (o *Order) IsBook() bool {
	return o.ProductType == ProductBook
}

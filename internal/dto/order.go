package dto

import "time"

// OrderResponse represents an order as exposed via transport layers.
type OrderResponse struct {
	Reference        string     `json:"reference"`
	CustomerName     string     `json:"customer_name"`
	CustomerEmail    string     `json:"customer_email"`
	CustomerPhone    string     `json:"customer_phone,omitempty"`
	Quantity         int        `json:"quantity"`
	AmountTotal      int64      `json:"amount_total"`
	ProductType      string     `json:"product_type"`
	Status           string     `json:"status"`
	ShippingAddress  string     `json:"shipping_address,omitempty"`
	ShippingCity     string     `json:"shipping_city,omitempty"`
	ShippingPostcode string     `json:"shipping_postcode,omitempty"`
	EmailStatus      string     `json:"email_status,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`
}

// ConfirmationResponse is the payment-success view model. Confirmed is
// false when the order record was not yet visible and placeholder values
// were substituted.
type ConfirmationResponse struct {
	Confirmed bool          `json:"confirmed"`
	Order     OrderResponse `json:"order"`
	Notice    string        `json:"notice,omitempty"`
}

// StatusUpdateRequest asks for an order status transition.
type StatusUpdateRequest struct {
	Status string `json:"status"`
}

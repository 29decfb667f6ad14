package dto

// TicketCheckoutRequest is the payload posted by the booking page.
type TicketCheckoutRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Quantity int    `json:"quantity"`
}

// BookCheckoutRequest is the payload posted by the book purchase page.
type BookCheckoutRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Quantity int    `json:"quantity"`
	Address  string `json:"address"`
	City     string `json:"city"`
	Postcode string `json:"postcode"`
}

// CheckoutResponse carries the hosted checkout redirect.
type CheckoutResponse struct {
	Reference   string `json:"reference"`
	URL         string `json:"url"`
	SessionID   string `json:"sessionId,omitempty"`
	AmountTotal int64  `json:"amount_total"`
	// Display is the total formatted in whole currency units with two
	// decimals, e.g. "20.00".
	Display  string `json:"display_total"`
	Currency string `json:"currency"`
}

package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/brightwealth/summit/internal/config"
)

var gatewayTracer = otel.Tracer("github.com/brightwealth/summit/gateway")

// TicketIntent describes a ticket purchase to be turned into a hosted
// checkout session.
type TicketIntent struct {
	Name      string
	Email     string
	Phone     string
	Quantity  int
	UnitPrice int64 // minor currency units
}

// BookIntent describes a book purchase, additionally carrying shipping.
type BookIntent struct {
	Name          string
	Email         string
	Phone         string
	Quantity      int
	UnitPrice     int64
	ShippingPrice int64
	Address       string
	City          string
	Postcode      string
}

// Session is the provider's answer: where to send the buyer.
type Session struct {
	URL       string `json:"url"`
	SessionID string `json:"sessionId"`
}

// Error is the only error type this client returns. Every failure mode
// (transport, non-2xx, non-JSON, missing URL) collapses into a message
// the caller can show inline, so nothing provider-shaped leaks upward.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

// Client creates hosted checkout sessions against the provider endpoint.
type Client struct {
	base       string
	key        string
	successURL string
	cancelURL  string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient builds the checkout client from configuration. The
// publishable key is validated at startup by config, but guard anyway so
// a hand-constructed client fails loudly.
func NewClient(cfg config.Config, logger *zap.Logger) (*Client, error) {
	if cfg.Gateway.PublishableKey == "" {
		return nil, fmt.Errorf("gateway publishable key is not configured")
	}
	return &Client{
		base:       strings.TrimRight(cfg.Gateway.APIBase, "/"),
		key:        cfg.Gateway.PublishableKey,
		successURL: cfg.Checkout.SuccessURL,
		cancelURL:  cfg.Checkout.CancelURL,
		httpClient: &http.Client{Timeout: cfg.Gateway.Timeout},
		logger:     logger,
	}, nil
}

// CreateTicketCheckout requests a hosted checkout session for tickets.
func (c *Client) CreateTicketCheckout(ctx context.Context, intent TicketIntent) (*Session, *Error) {
	payload := map[string]any{
		"name":        intent.Name,
		"email":       intent.Email,
		"phone":       intent.Phone,
		"quantity":    intent.Quantity,
		"ticketPrice": intent.UnitPrice,
		"successUrl":  c.successURL,
		"cancelUrl":   c.cancelURL,
	}
	return c.createSession(ctx, "/api/create-checkout-session", payload)
}

// CreateBookCheckout requests a hosted checkout session for a book order.
func (c *Client) CreateBookCheckout(ctx context.Context, intent BookIntent) (*Session, *Error) {
	payload := map[string]any{
		"name":          intent.Name,
		"email":         intent.Email,
		"phone":         intent.Phone,
		"quantity":      intent.Quantity,
		"bookPrice":     intent.UnitPrice,
		"shippingPrice": intent.ShippingPrice,
		"address":       intent.Address,
		"city":          intent.City,
		"postcode":      intent.Postcode,
		"successUrl":    c.successURL,
		"cancelUrl":     c.cancelURL,
	}
	return c.createSession(ctx, "/api/create-book-checkout-session", payload)
}

func (c *Client) createSession(ctx context.Context, path string, payload map[string]any) (*Session, *Error) {
	ctx, span := gatewayTracer.Start(ctx, "Gateway.CreateSession", trace.WithAttributes(attribute.String("gateway.path", path)))
	defer span.End()

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, c.fail(span, "failed to encode checkout request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(body))
	if err != nil {
		return nil, c.fail(span, "failed to build checkout request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.key)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.fail(span, "checkout service is unreachable", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, c.fail(span, "failed to read checkout response", err)
	}

	contentType := resp.Header.Get("Content-Type")
	isJSON := strings.Contains(contentType, "application/json")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := fmt.Sprintf("checkout request failed with status %d", resp.StatusCode)
		if isJSON {
			var errBody struct {
				Error string `json:"error"`
			}
			if json.Unmarshal(raw, &errBody) == nil && errBody.Error != "" {
				message = errBody.Error
			}
		} else if text := strings.TrimSpace(string(raw)); text != "" {
			message = text
		}
		return nil, c.fail(span, message, nil)
	}

	if !isJSON {
		return nil, c.fail(span, "checkout service returned an unexpected response", nil)
	}

	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, c.fail(span, "checkout service returned an unexpected response", err)
	}
	if session.URL == "" {
		return nil, c.fail(span, "checkout service returned no redirect URL", nil)
	}

	return &session, nil
}

func (c *Client) fail(span trace.Span, message string, cause error) *Error {
	if cause != nil {
		span.RecordError(cause)
	}
	span.SetStatus(codes.Error, message)
	if c.logger != nil {
		c.logger.Warn("gateway checkout failed", zap.String("reason", message), zap.Error(cause))
	}
	return &Error{Message: message}
}

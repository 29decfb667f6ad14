package checkout

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/brightwealth/summit/internal/config"
	"github.com/brightwealth/summit/internal/dto"
	"github.com/brightwealth/summit/internal/entity"
	"github.com/brightwealth/summit/internal/gateway"
	"github.com/brightwealth/summit/pkg/errorbank"
)

type fakeGateway struct {
	ticketCalls int
	bookCalls   int
	session     *gateway.Session
	err         *gateway.Error
}

func (g *fakeGateway) CreateTicketCheckout(ctx context.Context, intent gateway.TicketIntent) (*gateway.Session, *gateway.Error) {
	g.ticketCalls++
	return g.session, g.err
}

func (g *fakeGateway) CreateBookCheckout(ctx context.Context, intent gateway.BookIntent) (*gateway.Session, *gateway.Error) {
	g.bookCalls++
	return g.session, g.err
}

type fakeOrderWriter struct {
	created  []entity.Order
	sessions map[string]string
	err      error
}

func (w *fakeOrderWriter) Create(ctx context.Context, order *entity.Order) error {
	w.created = append(w.created, *order)
	return w.err
}

func (w *fakeOrderWriter) SetProviderSession(ctx context.Context, reference, sessionID string) error {
	if w.err != nil {
		return w.err
	}
	if w.sessions == nil {
		w.sessions = map[string]string{}
	}
	w.sessions[reference] = sessionID
	return nil
}

func testConfig() config.Config {
	cfg := config.Config{}
	cfg.Checkout = config.Checkout{
		Currency:      "gbp",
		TicketPrice:   1000,
		BookPrice:     1999,
		ShippingPrice: 399,
		MaxTickets:    10,
		MaxBooks:      99,
	}
	return cfg
}

func newTestService(gw Gateway, orders OrderWriter) *Service {
	return NewService(Params{
		Gateway: gw,
		Orders:  orders,
		Config:  testConfig(),
		Logger:  zap.NewNop(),
	})
}

func okSession() *gateway.Session {
	return &gateway.Session{URL: "https://pay.example.com/cs_1", SessionID: "cs_1"}
}

func TestTicketCheckout(t *testing.T) {
	gw := &fakeGateway{session: okSession()}
	orders := &fakeOrderWriter{}
	svc := newTestService(gw, orders)

	resp, err := svc.Ticket(context.Background(), dto.TicketCheckoutRequest{
		Name:     "Jane Example",
		Email:    "jane@example.com",
		Quantity: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, gw.ticketCalls)
	assert.Equal(t, int64(3000), resp.AmountTotal)
	assert.Equal(t, "30.00", resp.Display)
	assert.Equal(t, "gbp", resp.Currency)
	assert.Equal(t, "https://pay.example.com/cs_1", resp.URL)
	assert.True(t, strings.HasPrefix(resp.Reference, TicketReferencePrefix))

	require.Len(t, orders.created, 1)
	created := orders.created[0]
	assert.Equal(t, resp.Reference, created.Reference)
	assert.Equal(t, entity.OrderStatusPending, created.Status)
	assert.Equal(t, entity.ProductTicket, created.ProductType)
	assert.Equal(t, int64(3000), created.AmountTotal)
	assert.Equal(t, "cs_1", orders.sessions[resp.Reference],
		"session id must be written back once the gateway mints it")
}

func TestTicketCheckoutValidation(t *testing.T) {
	cases := []struct {
		name    string
		req     dto.TicketCheckoutRequest
		message string
	}{
		{"missing name", dto.TicketCheckoutRequest{Email: "a@b.co", Quantity: 1}, "please enter your name"},
		{"missing email", dto.TicketCheckoutRequest{Name: "Jane", Quantity: 1}, "please enter your email address"},
		{"bad email", dto.TicketCheckoutRequest{Name: "Jane", Email: "not-an-email", Quantity: 1}, "please enter a valid email address"},
		{"zero quantity", dto.TicketCheckoutRequest{Name: "Jane", Email: "a@b.co", Quantity: 0}, "quantity must be between 1 and 10"},
		{"over max", dto.TicketCheckoutRequest{Name: "Jane", Email: "a@b.co", Quantity: 11}, "quantity must be between 1 and 10"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gw := &fakeGateway{session: okSession()}
			orders := &fakeOrderWriter{}
			svc := newTestService(gw, orders)

			_, err := svc.Ticket(context.Background(), tc.req)
			require.Error(t, err)
			appErr := errorbank.From(err)
			assert.Equal(t, errorbank.KindBadRequest, appErr.Kind())
			assert.Equal(t, tc.message, appErr.Message())
			assert.Zero(t, gw.ticketCalls, "gateway must not be called for invalid input")
			assert.Empty(t, orders.created)
		})
	}
}

func TestBookCheckoutTotalIncludesShipping(t *testing.T) {
	gw := &fakeGateway{session: okSession()}
	orders := &fakeOrderWriter{}
	svc := newTestService(gw, orders)

	resp, err := svc.Book(context.Background(), dto.BookCheckoutRequest{
		Name:     "Sam Example",
		Email:    "sam@example.com",
		Quantity: 2,
		Address:  "1 Sample Street",
		City:     "London",
		Postcode: "SW1A 1AA",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, gw.bookCalls)
	assert.Equal(t, int64(2*1999+399), resp.AmountTotal)
	assert.Equal(t, "43.97", resp.Display)
	assert.True(t, strings.HasPrefix(resp.Reference, BookReferencePrefix))

	require.Len(t, orders.created, 1)
	assert.Equal(t, "SW1A 1AA", orders.created[0].ShippingPostcode)
	assert.Equal(t, entity.ProductBook, orders.created[0].ProductType)
}

func TestBookCheckoutRequiresShipping(t *testing.T) {
	gw := &fakeGateway{session: okSession()}
	svc := newTestService(gw, &fakeOrderWriter{})

	_, err := svc.Book(context.Background(), dto.BookCheckoutRequest{
		Name:     "Sam Example",
		Email:    "sam@example.com",
		Quantity: 1,
	})
	require.Error(t, err)
	assert.Equal(t, "please enter your delivery address", errorbank.From(err).Message())
	assert.Zero(t, gw.bookCalls)
}

func TestCheckoutGatewayFailureLeavesPendingOrder(t *testing.T) {
	gw := &fakeGateway{err: &gateway.Error{Message: "card declined"}}
	orders := &fakeOrderWriter{}
	svc := newTestService(gw, orders)

	_, err := svc.Ticket(context.Background(), dto.TicketCheckoutRequest{
		Name:     "Jane Example",
		Email:    "jane@example.com",
		Quantity: 1,
	})
	require.Error(t, err)
	appErr := errorbank.From(err)
	assert.Equal(t, errorbank.KindBadGateway, appErr.Kind())
	assert.Equal(t, "card declined", appErr.Message())
	assert.Equal(t, 1, gw.ticketCalls)

	// The optimistic pending row is written before the gateway call and
	// stays behind when the charge fails.
	require.Len(t, orders.created, 1)
	assert.Equal(t, entity.OrderStatusPending, orders.created[0].Status)
	assert.Empty(t, orders.sessions, "no session id exists to back-fill")
}

func TestCheckoutSurvivesOrderInsertFailure(t *testing.T) {
	gw := &fakeGateway{session: okSession()}
	orders := &fakeOrderWriter{err: errors.New("db down")}
	svc := newTestService(gw, orders)

	resp, err := svc.Ticket(context.Background(), dto.TicketCheckoutRequest{
		Name:     "Jane Example",
		Email:    "jane@example.com",
		Quantity: 1,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.URL)
	assert.Equal(t, 1, gw.ticketCalls)
}

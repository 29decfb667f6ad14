package confirmation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/brightwealth/summit/internal/cache"
	"github.com/brightwealth/summit/internal/config"
	"github.com/brightwealth/summit/internal/entity"
	orderrepo "github.com/brightwealth/summit/internal/repository/order"
)

type fakeOrderReader struct {
	byReference map[string]*entity.Order
	bySession   map[string]*entity.Order
	lookups     int
}

func (f *fakeOrderReader) GetByReference(ctx context.Context, reference string) (*entity.Order, error) {
	f.lookups++
	if order, ok := f.byReference[reference]; ok {
		copied := *order
		return &copied, nil
	}
	return nil, orderrepo.ErrNotFound
}

func (f *fakeOrderReader) GetBySessionID(ctx context.Context, sessionID string) (*entity.Order, error) {
	if order, ok := f.bySession[sessionID]; ok {
		copied := *order
		return &copied, nil
	}
	return nil, orderrepo.ErrNotFound
}

func newTestService(orders *fakeOrderReader) (*Service, *int) {
	cfg := config.Config{}
	cfg.Cache.DefaultTTL = time.Minute
	cfg.Confirmation = config.Confirmation{
		SettleDelay:          2 * time.Second,
		FallbackTicketAmount: 2500,
		FallbackBookAmount:   2999,
	}

	svc := NewService(Params{
		Orders: orders,
		Cache:  cache.NewMemoryStore(),
		Config: cfg,
		Logger: zap.NewNop(),
	})

	waits := 0
	svc.wait = func(ctx context.Context, d time.Duration) {
		waits++
	}
	return svc, &waits
}

func sampleOrder() *entity.Order {
	return &entity.Order{
		Reference:     "BWP-4F21A9C3",
		CustomerName:  "Jane Example",
		CustomerEmail: "jane@example.com",
		Quantity:      2,
		AmountTotal:   2000,
		ProductType:   entity.ProductTicket,
		Status:        entity.OrderStatusCompleted,
		CreatedAt:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestConfirmFound(t *testing.T) {
	order := sampleOrder()
	orders := &fakeOrderReader{byReference: map[string]*entity.Order{order.Reference: order}}
	svc, waits := newTestService(orders)

	resp := svc.Confirm(context.Background(), order.Reference)
	assert.True(t, resp.Confirmed)
	assert.Empty(t, resp.Notice)
	assert.Equal(t, order.Reference, resp.Order.Reference)
	assert.Equal(t, 2, resp.Order.Quantity)
	assert.Equal(t, int64(2000), resp.Order.AmountTotal)
	assert.Equal(t, 1, *waits, "settle delay precedes the first lookup")
}

func TestConfirmMissYieldsPlaceholder(t *testing.T) {
	svc, _ := newTestService(&fakeOrderReader{})

	resp := svc.Confirm(context.Background(), "BWP-DEADBEEF")
	assert.False(t, resp.Confirmed)
	assert.NotEmpty(t, resp.Notice)
	assert.Equal(t, "BWP-DEADBEEF", resp.Order.Reference)
	assert.Equal(t, 1, resp.Order.Quantity)
	assert.Equal(t, int64(2500), resp.Order.AmountTotal)
	assert.Equal(t, entity.ProductTicket, resp.Order.ProductType)
	assert.Equal(t, entity.OrderStatusPending, resp.Order.Status)
}

func TestConfirmMissBookFallbackAmount(t *testing.T) {
	svc, _ := newTestService(&fakeOrderReader{})

	resp := svc.Confirm(context.Background(), "BOOK-DEADBEEF")
	assert.False(t, resp.Confirmed)
	assert.Equal(t, int64(2999), resp.Order.AmountTotal)
	assert.Equal(t, entity.ProductBook, resp.Order.ProductType)
}

func TestConfirmUsesCacheOnRepeat(t *testing.T) {
	order := sampleOrder()
	orders := &fakeOrderReader{byReference: map[string]*entity.Order{order.Reference: order}}
	svc, waits := newTestService(orders)

	first := svc.Confirm(context.Background(), order.Reference)
	second := svc.Confirm(context.Background(), order.Reference)

	assert.True(t, second.Confirmed)
	assert.Equal(t, first.Order.Reference, second.Order.Reference)
	assert.Equal(t, 1, orders.lookups, "second confirm is served from cache")
	assert.Equal(t, 1, *waits, "cached confirm skips the settle delay")
}

func TestVerifySession(t *testing.T) {
	order := sampleOrder()
	order.ProviderSessionID = "cs_123"
	orders := &fakeOrderReader{bySession: map[string]*entity.Order{"cs_123": order}}
	svc, _ := newTestService(orders)

	view, err := svc.VerifySession(context.Background(), "cs_123")
	require.NoError(t, err)
	assert.Equal(t, order.Reference, view.Reference)

	_, err = svc.VerifySession(context.Background(), "cs_missing")
	require.Error(t, err)
}

func TestCancelledSkipsDelayAndLookup(t *testing.T) {
	orders := &fakeOrderReader{}
	svc, waits := newTestService(orders)

	view := svc.Cancelled("BOOK-0A1B2C3D")
	assert.False(t, view.Confirmed)
	assert.NotEmpty(t, view.Notice)
	assert.Equal(t, "BOOK-0A1B2C3D", view.Order.Reference)
	assert.Equal(t, entity.ProductBook, view.Order.ProductType)
	assert.Equal(t, 0, *waits)
	assert.Equal(t, 0, orders.lookups)
}

func TestCancelledWithoutReference(t *testing.T) {
	svc, _ := newTestService(&fakeOrderReader{})

	view := svc.Cancelled("")
	assert.False(t, view.Confirmed)
	assert.Empty(t, view.Order.Reference)
}

func TestConfirmDoesNotCachePendingOrders(t *testing.T) {
	order := sampleOrder()
	order.Status = entity.OrderStatusPending
	orders := &fakeOrderReader{byReference: map[string]*entity.Order{order.Reference: order}}
	svc, _ := newTestService(orders)

	first := svc.Confirm(context.Background(), order.Reference)
	assert.Equal(t, entity.OrderStatusPending, first.Order.Status)

	// The order completes between the two page loads; the second view
	// must reflect that instead of a cached pending snapshot.
	orders.byReference[order.Reference].Status = entity.OrderStatusCompleted

	second := svc.Confirm(context.Background(), order.Reference)
	assert.Equal(t, entity.OrderStatusCompleted, second.Order.Status)
	assert.Equal(t, 2, orders.lookups)
}

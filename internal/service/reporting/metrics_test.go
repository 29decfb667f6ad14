package reporting

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/brightwealth/summit/internal/entity"
)

func view(visitorID, path, date, country string, hour int) entity.PageView {
	return entity.PageView{VisitorID: visitorID, PagePath: path, Date: date, Country: country, Hour: hour}
}

func TestMetricsAggregation(t *testing.T) {
	analytics := &fakeAnalytics{
		views: []entity.PageView{
			view("v-1", "/", "2026-03-01", "GB", 9),
			view("v-1", "/booking", "2026-03-01", "GB", 10),
			view("v-2", "/", "2026-03-02", "US", 9),
		},
		events: []entity.AnalyticsEvent{
			{EventName: "hero_cta_click", VisitorID: "v-1"},
			{EventName: "faq_open", VisitorID: "v-2"},
			{EventName: "buy_button_click", VisitorID: "v-2"},
		},
		visitors: []entity.Visitor{
			{VisitorID: "v-1", VisitCount: 3},
			{VisitorID: "v-2", VisitCount: 1},
		},
	}
	orders := &fakeOrderAdmin{listed: []entity.Order{
		{ProductType: entity.ProductTicket, Quantity: 2, AmountTotal: 2000, Status: entity.OrderStatusCompleted},
		{ProductType: entity.ProductTicket, Quantity: 1, AmountTotal: 1000, Status: entity.OrderStatusPending},
		{ProductType: entity.ProductBook, Quantity: 1, AmountTotal: 2398, Status: entity.OrderStatusCompleted},
		{ProductType: entity.ProductBook, Quantity: 1, AmountTotal: 2398, Status: entity.OrderStatusFailed},
	}}

	svc := newTestService(orders, analytics)
	m := svc.Metrics(context.Background(), time.Time{}, time.Now())

	assert.Equal(t, 3, m.TotalPageViews)
	assert.Equal(t, 2, m.TotalVisitors)
	assert.Equal(t, 1, m.ReturningVisitors)
	assert.InDelta(t, 1.5, m.ViewsPerVisitor, 0.001)
	assert.Equal(t, map[string]int{"/": 2, "/booking": 1}, m.ViewsByPage)
	assert.Equal(t, map[string]int{"2026-03-01": 2, "2026-03-02": 1}, m.ViewsByDate)
	assert.Equal(t, map[int]int{9: 2, 10: 1}, m.ViewsByHour)
	assert.Equal(t, map[string]int{"GB": 2, "US": 1}, m.TopCountries)

	// Both the explicit cta event and the *_click suffix count.
	assert.Equal(t, 2, m.CTAClicks)
	assert.Equal(t, map[string]int{"hero_cta_click": 1, "faq_open": 1, "buy_button_click": 1}, m.EventCounts)

	assert.Equal(t, 4, m.Orders.TotalOrders)
	assert.Equal(t, 2, m.Orders.TicketOrders)
	assert.Equal(t, 2, m.Orders.BookOrders)
	assert.Equal(t, 3, m.Orders.TicketsSold)
	assert.Equal(t, 2, m.Orders.BooksSold)
	assert.Equal(t, 1, m.Orders.PendingOrders)
	assert.Equal(t, 2, m.Orders.CompletedOrders)
	assert.Equal(t, 1, m.Orders.FailedOrders)
	// Revenue counts completed orders only.
	assert.Equal(t, int64(2000+2398), m.Orders.Revenue)
}

func TestMetricsEmptyRange(t *testing.T) {
	svc := newTestService(&fakeOrderAdmin{}, &fakeAnalytics{})
	m := svc.Metrics(context.Background(), time.Time{}, time.Now())

	assert.Zero(t, m.TotalPageViews)
	assert.Zero(t, m.TotalVisitors)
	assert.Zero(t, m.ViewsPerVisitor)
	assert.Zero(t, m.Orders.TotalOrders)
	assert.Empty(t, m.ViewsByPage)
}

func TestMetricsVisitorFallback(t *testing.T) {
	// No views in range: the visitor table supplies the total.
	analytics := &fakeAnalytics{visitors: []entity.Visitor{
		{VisitorID: "v-1", VisitCount: 1},
		{VisitorID: "v-2", VisitCount: 2},
	}}
	svc := newTestService(&fakeOrderAdmin{}, analytics)

	m := svc.Metrics(context.Background(), time.Time{}, time.Now())
	assert.Equal(t, 2, m.TotalVisitors)
	assert.Equal(t, 1, m.ReturningVisitors)
}

func TestMetricsScopesOrdersToWindow(t *testing.T) {
	orders := &fakeOrderAdmin{}
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	svc := newTestService(orders, &fakeAnalytics{})
	svc.Metrics(context.Background(), from, to)

	assert.Equal(t, from, orders.lastFilter.CreatedFrom)
	assert.Equal(t, to, orders.lastFilter.CreatedTo)
}

package reporting

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/brightwealth/summit/internal/dto"
	"github.com/brightwealth/summit/internal/entity"
	orderrepo "github.com/brightwealth/summit/internal/repository/order"
)

// Metrics aggregates visit and order metrics over [from, to). Read
// failures degrade the affected section to empty data rather than
// failing the whole report.
func (s *Service) Metrics(ctx context.Context, from, to time.Time) *dto.MetricsResponse {
	ctx, span := serviceTracer.Start(ctx, "ReportingService.Metrics")
	defer span.End()

	views, err := s.reads.ListPageViews(ctx, from, to)
	if err != nil {
		s.logger.Warn("failed to load page views", zap.Error(err))
		views = nil
	}
	events, err := s.reads.ListEvents(ctx, from, to)
	if err != nil {
		s.logger.Warn("failed to load events", zap.Error(err))
		events = nil
	}
	visitors, err := s.reads.ListVisitors(ctx)
	if err != nil {
		s.logger.Warn("failed to load visitors", zap.Error(err))
		visitors = nil
	}
	orders, err := s.orders.List(ctx, orderrepo.Filter{CreatedFrom: from, CreatedTo: to})
	if err != nil {
		s.logger.Warn("failed to load orders for metrics", zap.Error(err))
		orders = nil
	}

	return &dto.MetricsResponse{
		TotalPageViews:    len(views),
		TotalVisitors:     uniqueVisitors(views, visitors),
		ReturningVisitors: returningVisitors(visitors),
		ViewsPerVisitor:   viewsPerVisitor(views, visitors),
		ViewsByPage:       countBy(views, func(v entity.PageView) string { return v.PagePath }),
		ViewsByDate:       countBy(views, func(v entity.PageView) string { return v.Date }),
		ViewsByHour:       countByHour(views),
		TopCountries:      topCountries(views),
		CTAClicks:         ctaClicks(events),
		EventCounts:       eventCounts(events),
		Orders:            orderMetrics(orders),
	}
}

// uniqueVisitors prefers distinct ids seen in the raw views; the visitor
// table is the fallback when no views are in range.
func uniqueVisitors(views []entity.PageView, visitors []entity.Visitor) int {
	ids := make(map[string]struct{}, len(views))
	for _, v := range views {
		ids[v.VisitorID] = struct{}{}
	}
	if len(ids) > 0 {
		return len(ids)
	}
	return len(visitors)
}

func returningVisitors(visitors []entity.Visitor) int {
	count := 0
	for _, v := range visitors {
		if v.VisitCount > 1 {
			count++
		}
	}
	return count
}

func viewsPerVisitor(views []entity.PageView, visitors []entity.Visitor) float64 {
	total := uniqueVisitors(views, visitors)
	if total == 0 {
		return 0
	}
	// One decimal, matching what the dashboard displays.
	return float64(int(float64(len(views))/float64(total)*10+0.5)) / 10
}

func countBy(views []entity.PageView, key func(entity.PageView) string) map[string]int {
	counts := make(map[string]int)
	for _, v := range views {
		counts[key(v)]++
	}
	return counts
}

func countByHour(views []entity.PageView) map[int]int {
	counts := make(map[int]int)
	for _, v := range views {
		counts[v.Hour]++
	}
	return counts
}

func topCountries(views []entity.PageView) map[string]int {
	counts := make(map[string]int)
	for _, v := range views {
		if v.Country != "" {
			counts[v.Country]++
		}
	}
	return counts
}

func ctaClicks(events []entity.AnalyticsEvent) int {
	count := 0
	for _, e := range events {
		name := strings.ToLower(e.EventName)
		if strings.Contains(name, "cta") || strings.HasSuffix(name, "_click") {
			count++
		}
	}
	return count
}

func eventCounts(events []entity.AnalyticsEvent) map[string]int {
	counts := make(map[string]int)
	for _, e := range events {
		counts[e.EventName]++
	}
	return counts
}

func orderMetrics(orders []entity.Order) dto.OrderMetrics {
	m := dto.OrderMetrics{TotalOrders: len(orders)}
	for _, o := range orders {
		if o.IsBook() {
			m.BookOrders++
			m.BooksSold += o.Quantity
		} else {
			m.TicketOrders++
			m.TicketsSold += o.Quantity
		}
		switch o.Status {
		case entity.OrderStatusPending:
			m.PendingOrders++
		case entity.OrderStatusCompleted:
			m.CompletedOrders++
			m.Revenue += o.AmountTotal
		case entity.OrderStatusFailed:
			m.FailedOrders++
		}
	}
	return m
}

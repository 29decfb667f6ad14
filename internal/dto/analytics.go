package dto

// PageViewRequest is one page impression reported by the site.
type PageViewRequest struct {
	PageName  string `json:"page_name"`
	PagePath  string `json:"page_path"`
	VisitorID string `json:"visitor_id"`
	Referrer  string `json:"referrer,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
	Country   string `json:"country,omitempty"`
	City      string `json:"city,omitempty"`
	Region    string `json:"region,omitempty"`
}

// EventRequest is a named custom event reported by the site.
type EventRequest struct {
	EventName string            `json:"event_name"`
	VisitorID string            `json:"visitor_id"`
	Params    map[string]string `json:"params,omitempty"`
}

// MetricsResponse aggregates visit and order metrics for the dashboard.
type MetricsResponse struct {
	TotalPageViews    int            `json:"total_page_views"`
	TotalVisitors     int            `json:"total_visitors"`
	ReturningVisitors int            `json:"returning_visitors"`
	ViewsPerVisitor   float64        `json:"views_per_visitor"`
	ViewsByPage       map[string]int `json:"views_by_page"`
	ViewsByDate       map[string]int `json:"views_by_date"`
	ViewsByHour       map[int]int    `json:"views_by_hour"`
	TopCountries      map[string]int `json:"top_countries"`
	CTAClicks         int            `json:"cta_clicks"`
	Orders            OrderMetrics   `json:"orders"`
	EventCounts       map[string]int `json:"event_counts"`
}

// OrderMetrics summarises order volume and revenue.
type OrderMetrics struct {
	TotalOrders     int   `json:"total_orders"`
	TicketOrders    int   `json:"ticket_orders"`
	BookOrders      int   `json:"book_orders"`
	TicketsSold     int   `json:"tickets_sold"`
	BooksSold       int   `json:"books_sold"`
	PendingOrders   int   `json:"pending_orders"`
	CompletedOrders int   `json:"completed_orders"`
	FailedOrders    int   `json:"failed_orders"`
	Revenue         int64 `json:"revenue"`
}

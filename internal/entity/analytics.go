package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// PageView is one raw page impression captured from the marketing site.
type PageView struct {
	bun.BaseModel `bun:"table:page_views"`

	ID        int64     `bun:",pk,autoincrement"`
	PageName  string    `bun:"page_name"`
	PagePath  string    `bun:"page_path"`
	VisitorID string    `bun:"visitor_id"`
	Date      string    `bun:"date"` // YYYY-MM-DD, kept denormalised for grouping
	Hour      int       `bun:"hour"`
	Referrer  string    `bun:"referrer,nullzero"`
	UserAgent string    `bun:"user_agent,nullzero"`
	Country   string    `bun:"country,nullzero"`
	City      string    `bun:"city,nullzero"`
	Region    string    `bun:"region,nullzero"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
}

// Visitor aggregates repeat visits for one anonymous visitor identifier.
type Visitor struct {
	bun.BaseModel `bun:"table:visitors"`

	VisitorID  string    `bun:"visitor_id,pk"`
	FirstSeen  time.Time `bun:"first_seen"`
	LastVisit  time.Time `bun:"last_visit"`
	LastPage   string    `bun:"last_page,nullzero"`
	VisitCount int       `bun:"visit_count"`
	Country    string    `bun:"country,nullzero"`
	City       string    `bun:"city,nullzero"`
	Region     string    `bun:"region,nullzero"`
	UpdatedAt  time.Time `bun:"updated_at,nullzero"`
}

// AnalyticsEvent is a named custom event (CTA clicks and the like).
type AnalyticsEvent struct {
	bun.BaseModel `bun:"table:analytics_events"`

	ID        int64             `bun:",pk,autoincrement"`
	EventName string            `bun:"event_name"`
	Params    map[string]string `bun:"params,type:jsonb,nullzero"`
	VisitorID string            `bun:"visitor_id"`
	Date      string            `bun:"date"`
	Hour      int               `bun:"hour"`
	CreatedAt time.Time         `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
}

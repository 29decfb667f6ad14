package analytics

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/brightwealth/summit/internal/database"
	"github.com/brightwealth/summit/internal/entity"
)

var repoTracer = otel.Tracer("github.com/brightwealth/summit/repository/analytics")

// Repository stores raw page views, custom events, and the per-visitor
// aggregate rows derived from them.
type Repository struct {
	writer *bun.DB
	reader *bun.DB
}

// NewRepository wires the analytics repository.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{writer: conns.Writer, reader: conns.Reader}
}

// InsertPageView persists one raw impression.
func (r *Repository) InsertPageView(ctx context.Context, view *entity.PageView) error {
	if view == nil {
		return errors.New("nil page view")
	}
	ctx, span := repoTracer.Start(ctx, "AnalyticsRepository.InsertPageView")
	defer span.End()

	_, err := r.writer.NewInsert().Model(view).Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
	}
	return err
}

// InsertEvent persists one custom event.
func (r *Repository) InsertEvent(ctx context.Context, event *entity.AnalyticsEvent) error {
	if event == nil {
		return errors.New("nil event")
	}
	ctx, span := repoTracer.Start(ctx, "AnalyticsRepository.InsertEvent")
	defer span.End()

	_, err := r.writer.NewInsert().Model(event).Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
	}
	return err
}

// UpsertVisitor bumps the visitor aggregate: first_seen is preserved,
// visit_count incremented, location filled in only when newly known.
func (r *Repository) UpsertVisitor(ctx context.Context, visitorID, lastPage, country, city, region string, at time.Time) error {
	ctx, span := repoTracer.Start(ctx, "AnalyticsRepository.UpsertVisitor")
	defer span.End()

	visitor := &entity.Visitor{
		VisitorID:  visitorID,
		FirstSeen:  at,
		LastVisit:  at,
		LastPage:   lastPage,
		VisitCount: 1,
		Country:    country,
		City:       city,
		Region:     region,
		UpdatedAt:  at,
	}

	_, err := r.writer.NewInsert().Model(visitor).
		On("CONFLICT (visitor_id) DO UPDATE").
		Set("last_visit = EXCLUDED.last_visit").
		Set("last_page = EXCLUDED.last_page").
		Set("visit_count = visitor.visit_count + 1").
		Set("country = COALESCE(NULLIF(EXCLUDED.country, ''), visitor.country)").
		Set("city = COALESCE(NULLIF(EXCLUDED.city, ''), visitor.city)").
		Set("region = COALESCE(NULLIF(EXCLUDED.region, ''), visitor.region)").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "upsert failed")
	}
	return err
}

// ListPageViews returns raw impressions within the half-open range
// [from, to). Zero bounds are ignored.
func (r *Repository) ListPageViews(ctx context.Context, from, to time.Time) ([]entity.PageView, error) {
	ctx, span := repoTracer.Start(ctx, "AnalyticsRepository.ListPageViews")
	defer span.End()

	q := r.reader.NewSelect().Model((*entity.PageView)(nil)).Order("created_at DESC")
	if !from.IsZero() {
		q = q.Where("created_at >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("created_at < ?", to)
	}

	var views []entity.PageView
	if err := q.Scan(ctx, &views); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return views, nil
}

// ListEvents returns custom events within the half-open range [from, to).
func (r *Repository) ListEvents(ctx context.Context, from, to time.Time) ([]entity.AnalyticsEvent, error) {
	ctx, span := repoTracer.Start(ctx, "AnalyticsRepository.ListEvents")
	defer span.End()

	q := r.reader.NewSelect().Model((*entity.AnalyticsEvent)(nil)).Order("created_at DESC")
	if !from.IsZero() {
		q = q.Where("created_at >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("created_at < ?", to)
	}

	var events []entity.AnalyticsEvent
	if err := q.Scan(ctx, &events); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return events, nil
}

// ListVisitors returns every visitor aggregate row.
func (r *Repository) ListVisitors(ctx context.Context) ([]entity.Visitor, error) {
	ctx, span := repoTracer.Start(ctx, "AnalyticsRepository.ListVisitors")
	defer span.End()

	var visitors []entity.Visitor
	err := r.reader.NewSelect().Model((*entity.Visitor)(nil)).Scan(ctx, &visitors)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return visitors, nil
}

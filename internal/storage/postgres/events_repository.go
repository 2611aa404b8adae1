package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/Togather-Foundation/citymap/internal/domain/events"
	"github.com/Togather-Foundation/citymap/internal/metrics"
)

var _ events.Repository = (*EventRepository)(nil)

const tracerName = "github.com/Togather-Foundation/citymap/internal/storage/postgres"

type eventRow struct {
	ID          int64
	Title       *string
	Category    *string
	EventDate   pgtype.Date
	EventTime   pgtype.Time
	Location    *string
	Price       any
	ImageURL    *string
	Description *string
	Lat         pgtype.Float8
	Lng         pgtype.Float8
}

type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type EventRepository struct {
	conn queryer
}

func NewEventRepository(conn queryer) *EventRepository {
	return &EventRepository{conn: conn}
}

func (r *EventRepository) ListUpcoming(ctx context.Context, filters events.Filters) (items []events.Event, err error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "events.ListUpcoming")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.Bool("filter.category", filters.Category != ""),
		attribute.Bool("filter.search", filters.Search != ""),
	)

	start := time.Now()
	defer func() {
		metrics.RecordQuery("list_upcoming_events", start, err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "list upcoming events failed")
		}
	}()

	sql, args, err := BuildListQuery(filters)
	if err != nil {
		return nil, fmt.Errorf("build events query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	items = make([]events.Event, 0)
	for rows.Next() {
		var row eventRow
		if err := rows.Scan(
			&row.ID,
			&row.Title,
			&row.Category,
			&row.EventDate,
			&row.EventTime,
			&row.Location,
			&row.Price,
			&row.ImageURL,
			&row.Description,
			&row.Lat,
			&row.Lng,
		); err != nil {
			return nil, fmt.Errorf("scan events: %w", err)
		}
		items = append(items, row.toEvent())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	span.SetAttributes(attribute.Int("events.count", len(items)))
	return items, nil
}

func (row eventRow) toEvent() events.Event {
	event := events.Event{
		ID:          row.ID,
		Title:       derefString(row.Title),
		Category:    derefString(row.Category),
		Time:        -1,
		Location:    derefString(row.Location),
		Price:       row.Price,
		ImageURL:    derefString(row.ImageURL),
		Description: derefString(row.Description),
		Lat:         row.Lat.Float64,
		Lng:         row.Lng.Float64,
	}
	if row.EventDate.Valid {
		event.Date = row.EventDate.Time
	}
	if row.EventTime.Valid {
		event.Time = time.Duration(row.EventTime.Microseconds) * time.Microsecond
	}
	return event
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

package repository

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/TheFriendRequest/Event-Service/internal/domain"
)

// EventListFilters holds all supported filters for event listing.
type EventListFilters struct {
	Location  *string    // Optional: case-insensitive substring on location
	CreatorID *string    // Optional: exact creator match
	StartFrom *time.Time // Optional: start_at >= StartFrom
	StartTo   *time.Time // Optional: start_at <= StartTo
	Limit     int        // Required: page size
	Skip      int        // Required: page offset
}

// applyEventFilters adds the filter predicates shared by the page query and
// the count query. Soft-deleted rows are always excluded.
func applyEventFilters(qb sq.SelectBuilder, filters EventListFilters) sq.SelectBuilder {
	qb = qb.Where(sq.Eq{"deleted": false})

	if filters.Location != nil {
		qb = qb.Where(sq.ILike{"location": "%" + *filters.Location + "%"})
	}
	if filters.CreatorID != nil {
		qb = qb.Where(sq.Eq{"creator_id": *filters.CreatorID})
	}
	if filters.StartFrom != nil {
		qb = qb.Where(sq.GtOrEq{"start_at": *filters.StartFrom})
	}
	if filters.StartTo != nil {
		qb = qb.Where(sq.LtOrEq{"start_at": *filters.StartTo})
	}

	return qb
}

// List retrieves events matching the filters, ordered by start time, plus
// the total match count ignoring pagination.
func (r *EventRepository) List(ctx context.Context, filters EventListFilters) ([]*domain.Event, int, error) {
	qb := applyEventFilters(psql.Select(eventColumns...).From("events"), filters).
		OrderBy("start_at ASC", "id ASC").
		Limit(uint64(filters.Limit)).
		Offset(uint64(filters.Skip))

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build List query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query events: %w", err)
	}

	events, err := scanEvents(rows)
	if err != nil {
		return nil, 0, err
	}

	countQuery, countArgs, err := applyEventFilters(psql.Select("COUNT(*)").From("events"), filters).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build List count query: %w", err)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}

	return events, total, nil
}

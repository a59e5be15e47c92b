package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/TheFriendRequest/Event-Service/internal/domain"
)

// eventColumns is the shared list of columns for event queries.
var eventColumns = []string{
	"id", "title", "description", "location", "start_at", "end_at",
	"capacity", "creator_id", "created_at", "updated_at", "deleted",
}

// EventRepository handles database operations for events.
type EventRepository struct {
	pool *pgxpool.Pool
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

// scanEvent scans a single row into an Event struct.
func scanEvent(row pgx.Row) (*domain.Event, error) {
	var event domain.Event
	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.Location,
		&event.StartAt,
		&event.EndAt,
		&event.Capacity,
		&event.CreatorID,
		&event.CreatedAt,
		&event.UpdatedAt,
		&event.Deleted,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("scan event: %w", err)
	}
	return &event, nil
}

// scanEvents scans multiple rows into a slice of Event structs.
func scanEvents(rows pgx.Rows) ([]*domain.Event, error) {
	defer rows.Close()

	var events []*domain.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return events, nil
}

// GetByID retrieves an event by ID. Soft-deleted events are not found.
func (r *EventRepository) GetByID(ctx context.Context, eventID string) (*domain.Event, error) {
	query, args, err := psql.
		Select(eventColumns...).
		From("events").
		Where(sq.Eq{"id": eventID, "deleted": false}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for event: %w", err)
	}

	return scanEvent(r.pool.QueryRow(ctx, query, args...))
}

// GetByIDForUpdate retrieves an event by ID with a FOR UPDATE lock so the
// revalidation read and the subsequent write share one transaction.
func (r *EventRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, eventID string) (*domain.Event, error) {
	query, args, err := psql.
		Select(eventColumns...).
		From("events").
		Where(sq.Eq{"id": eventID, "deleted": false}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByIDForUpdate query for event %s: %w", eventID, err)
	}

	return scanEvent(tx.QueryRow(ctx, query, args...))
}

// Create inserts a new event. ID, CreatedAt, and UpdatedAt are populated
// from the returned row.
func (r *EventRepository) Create(ctx context.Context, event *domain.Event) (*domain.Event, error) {
	query, args, err := psql.
		Insert("events").
		Columns(
			"title", "description", "location", "start_at", "end_at",
			"capacity", "creator_id",
		).
		Values(
			event.Title,
			event.Description,
			event.Location,
			event.StartAt,
			event.EndAt,
			event.Capacity,
			event.CreatorID,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Create query for event: %w", err)
	}

	err = r.pool.QueryRow(ctx, query, args...).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	return event, nil
}

// Update applies a partial update within a transaction. The row must have
// been read with GetByIDForUpdate in the same transaction.
func (r *EventRepository) Update(ctx context.Context, tx pgx.Tx, eventID string, patch *domain.EventPatch) error {
	qb := psql.Update("events").
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": eventID, "deleted": false})

	if patch.Title != nil {
		qb = qb.Set("title", *patch.Title)
	}
	if patch.Description != nil {
		qb = qb.Set("description", *patch.Description)
	}
	if patch.Location != nil {
		qb = qb.Set("location", *patch.Location)
	}
	if patch.StartAt != nil {
		qb = qb.Set("start_at", *patch.StartAt)
	}
	if patch.EndAt != nil {
		qb = qb.Set("end_at", *patch.EndAt)
	}
	if patch.Capacity != nil {
		qb = qb.Set("capacity", *patch.Capacity)
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return fmt.Errorf("build Update query for event %s: %w", eventID, err)
	}

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}

	return nil
}

// SoftDelete marks an event deleted without removing the row.
func (r *EventRepository) SoftDelete(ctx context.Context, eventID string) error {
	query, args, err := psql.
		Update("events").
		Set("deleted", true).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": eventID, "deleted": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build SoftDelete query for event %s: %w", eventID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}

	return nil
}

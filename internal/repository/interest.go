package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/TheFriendRequest/Event-Service/internal/domain"
)

// rowQuerier is satisfied by both the pool and an open transaction.
type rowQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// InterestRepository handles the event-interest association table.
type InterestRepository struct {
	pool *pgxpool.Pool
}

// NewInterestRepository creates a new InterestRepository.
func NewInterestRepository(pool *pgxpool.Pool) *InterestRepository {
	return &InterestRepository{pool: pool}
}

// Add registers a user's interest in an event. Idempotent.
func (r *InterestRepository) Add(ctx context.Context, interest domain.Interest) error {
	query, args, err := psql.
		Insert("interests").
		Columns("event_id", "user_id").
		Values(interest.EventID, interest.UserID).
		Suffix("ON CONFLICT (event_id, user_id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build Add query for interest: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("add interest: %w", err)
	}

	return nil
}

// Remove withdraws a user's interest in an event. Idempotent.
func (r *InterestRepository) Remove(ctx context.Context, eventID, userID string) error {
	query, args, err := psql.
		Delete("interests").
		Where(sq.Eq{"event_id": eventID, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build Remove query for interest: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("remove interest: %w", err)
	}

	return nil
}

// ListUserIDs returns the ids of all users interested in an event.
func (r *InterestRepository) ListUserIDs(ctx context.Context, eventID string) ([]string, error) {
	return listUserIDs(ctx, r.pool, eventID)
}

// ListUserIDsTx is ListUserIDs running inside an open transaction, so the
// read sees the same snapshot as the other statements in that transaction.
func (r *InterestRepository) ListUserIDsTx(ctx context.Context, tx pgx.Tx, eventID string) ([]string, error) {
	return listUserIDs(ctx, tx, eventID)
}

func listUserIDs(ctx context.Context, q rowQuerier, eventID string) ([]string, error) {
	query, args, err := psql.
		Select("user_id").
		From("interests").
		Where(sq.Eq{"event_id": eventID}).
		OrderBy("user_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListUserIDs query for interest: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query interests: %w", err)
	}
	defer rows.Close()

	var userIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan interest: %w", err)
		}
		userIDs = append(userIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return userIDs, nil
}

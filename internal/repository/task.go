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

// taskColumns is the shared list of columns for task queries.
var taskColumns = []string{
	"id", "type", "status", "request_payload", "result_payload", "error",
	"creator_id", "created_at", "started_at", "completed_at",
}

// TaskRepository is the persisted ledger for asynchronous tasks. Every
// status transition is a single conditional UPDATE keyed on the expected
// prior status, so a violated transition affects zero rows and the
// lifecycle stays monotonic without explicit locking.
type TaskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

// scanTask scans a single row into a Task struct.
func scanTask(row pgx.Row) (*domain.Task, error) {
	var task domain.Task
	err := row.Scan(
		&task.ID,
		&task.Type,
		&task.Status,
		&task.RequestPayload,
		&task.ResultPayload,
		&task.Error,
		&task.CreatorID,
		&task.CreatedAt,
		&task.StartedAt,
		&task.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}
	return &task, nil
}

// Create persists a new task in the pending state with its request payload.
func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	query, args, err := psql.
		Insert("tasks").
		Columns("id", "type", "status", "request_payload", "creator_id").
		Values(task.ID, task.Type, domain.TaskStatusPending, task.RequestPayload, task.CreatorID).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build Create query for task: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&task.CreatedAt); err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	task.Status = domain.TaskStatusPending

	return nil
}

// GetByID retrieves a task snapshot by ID.
func (r *TaskRepository) GetByID(ctx context.Context, taskID string) (*domain.Task, error) {
	query, args, err := psql.
		Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"id": taskID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for task: %w", err)
	}

	return scanTask(r.pool.QueryRow(ctx, query, args...))
}

// transition performs one conditional status write. Returns
// ErrInvalidTaskTransition when the row is no longer in the expected state.
func (r *TaskRepository) transition(
	ctx context.Context,
	taskID string,
	from, to domain.TaskStatus,
	sets map[string]interface{},
) error {
	if !from.CanTransitionTo(to) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTaskTransition, from, to)
	}

	qb := psql.Update("tasks").
		Set("status", to).
		Where(sq.Eq{"id": taskID, "status": from})
	for column, value := range sets {
		qb = qb.Set(column, value)
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return fmt.Errorf("build transition query for task %s: %w", taskID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("transition task %s to %s: %w", taskID, to, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: task %s is not %s", domain.ErrInvalidTaskTransition, taskID, from)
	}

	return nil
}

// MarkProcessing transitions pending -> processing, recording the start time.
// Issued before the deferred work begins so an in-flight poll can observe
// the processing state.
func (r *TaskRepository) MarkProcessing(ctx context.Context, taskID string) error {
	return r.transition(ctx, taskID, domain.TaskStatusPending, domain.TaskStatusProcessing,
		map[string]interface{}{"started_at": sq.Expr("NOW()")})
}

// MarkCompleted transitions processing -> completed with the result payload.
// Write-once: a task already terminal is left untouched.
func (r *TaskRepository) MarkCompleted(ctx context.Context, taskID string, result []byte) error {
	return r.transition(ctx, taskID, domain.TaskStatusProcessing, domain.TaskStatusCompleted,
		map[string]interface{}{
			"result_payload": result,
			"completed_at":   sq.Expr("NOW()"),
		})
}

// MarkFailed transitions processing -> failed with the causing message.
func (r *TaskRepository) MarkFailed(ctx context.Context, taskID string, message string) error {
	return r.transition(ctx, taskID, domain.TaskStatusProcessing, domain.TaskStatusFailed,
		map[string]interface{}{
			"error":        message,
			"completed_at": sq.Expr("NOW()"),
		})
}

// DeletePending removes a still-pending task row. Used to compensate when
// the executor pool refuses a submission: the handle was never returned to
// the client, so the ledger must not keep a pending task nobody will run.
func (r *TaskRepository) DeletePending(ctx context.Context, taskID string) error {
	query, args, err := psql.
		Delete("tasks").
		Where(sq.Eq{"id": taskID, "status": domain.TaskStatusPending}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build DeletePending query for task %s: %w", taskID, err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("delete pending task %s: %w", taskID, err)
	}

	return nil
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/TheFriendRequest/Event-Service/internal/domain"
	"github.com/TheFriendRequest/Event-Service/internal/repository"
	"github.com/TheFriendRequest/Event-Service/internal/worker"
)

// taskRequestPayload is the persisted form of an async create request.
type taskRequestPayload struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Location    *string `json:"location,omitempty"`
	StartAt     string  `json:"start_at"`
	EndAt       string  `json:"end_at"`
	Capacity    *int    `json:"capacity,omitempty"`
	CreatorID   string  `json:"creator_id"`
}

// taskResultPayload is the persisted outcome of a completed create task.
type taskResultPayload struct {
	EventID   string `json:"event_id"`
	CreatedAt string `json:"created_at"`
}

// TaskService owns the task ledger: it accepts async create submissions,
// hands them to the bounded executor pool, and serves status polls. The
// ledger is the only state shared between the foreground poller and the
// background executor; exactly one executor ever writes a given task id.
type TaskService struct {
	taskRepo  *repository.TaskRepository
	eventRepo *repository.EventRepository
	pool      *worker.Pool
}

// NewTaskService creates a new TaskService.
func NewTaskService(
	taskRepo *repository.TaskRepository,
	eventRepo *repository.EventRepository,
	pool *worker.Pool,
) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		eventRepo: eventRepo,
		pool:      pool,
	}
}

// SubmitCreate validates the request, persists a pending task with its
// request payload, and dispatches the deferred create to the executor pool.
// When the pool is saturated the pending row is removed again and
// ErrQueueFull is returned, so a handle is never issued for work that will
// not run.
func (s *TaskService) SubmitCreate(ctx context.Context, params CreateEventParams) (*domain.Task, error) {
	// Input errors abort before any mutating statement.
	if !domain.ValidTimeRange(params.StartAt, params.EndAt) {
		return nil, domain.ErrInvalidTimeRange
	}

	payload, err := json.Marshal(taskRequestPayload{
		Title:       params.Title,
		Description: params.Description,
		Location:    params.Location,
		StartAt:     params.StartAt.UTC().Format(time.RFC3339Nano),
		EndAt:       params.EndAt.UTC().Format(time.RFC3339Nano),
		Capacity:    params.Capacity,
		CreatorID:   params.CreatorID,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal task request: %w", err)
	}

	task := &domain.Task{
		ID:             uuid.NewString(),
		Type:           domain.TaskTypeCreateEvent,
		RequestPayload: payload,
		CreatorID:      params.CreatorID,
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}

	taskID := task.ID
	if err := s.pool.Submit(func(jobCtx context.Context) {
		s.execute(jobCtx, taskID, params)
	}); err != nil {
		if errors.Is(err, domain.ErrQueueFull) {
			if delErr := s.taskRepo.DeletePending(ctx, taskID); delErr != nil {
				slog.Error("failed to remove rejected task", "task_id", taskID, "error", delErr)
			}
		}
		return nil, err
	}

	slog.Info("task submitted", "task_id", taskID, "creator_id", params.CreatorID)
	return task, nil
}

// execute performs the deferred event creation for one task. The processing
// transition is made durable before the event insert so an in-flight poll
// can observe "processing". The event insert and the terminal task write
// are deliberately separate statements; a crash between them leaves the
// event created with its task stuck in processing. That inconsistency is
// documented and not reconciled.
func (s *TaskService) execute(ctx context.Context, taskID string, params CreateEventParams) {
	if err := s.taskRepo.MarkProcessing(ctx, taskID); err != nil {
		slog.Error("failed to mark task processing", "task_id", taskID, "error", err)
		return
	}

	event, err := s.eventRepo.Create(ctx, &domain.Event{
		Title:       params.Title,
		Description: params.Description,
		Location:    params.Location,
		StartAt:     params.StartAt,
		EndAt:       params.EndAt,
		Capacity:    params.Capacity,
		CreatorID:   params.CreatorID,
	})
	if err != nil {
		if failErr := s.taskRepo.MarkFailed(ctx, taskID, err.Error()); failErr != nil {
			slog.Error("failed to mark task failed", "task_id", taskID, "error", failErr)
		}
		slog.Warn("async event creation failed", "task_id", taskID, "error", err)
		return
	}

	result, err := json.Marshal(taskResultPayload{
		EventID:   event.ID,
		CreatedAt: event.CreatedAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		if failErr := s.taskRepo.MarkFailed(ctx, taskID, err.Error()); failErr != nil {
			slog.Error("failed to mark task failed", "task_id", taskID, "error", failErr)
		}
		return
	}

	if err := s.taskRepo.MarkCompleted(ctx, taskID, result); err != nil {
		// The event exists but the ledger write failed; the task stays
		// in processing permanently. Pollers must re-read to learn true state.
		slog.Error("failed to mark task completed",
			"task_id", taskID,
			"event_id", event.ID,
			"error", err,
		)
		return
	}

	slog.Info("task completed", "task_id", taskID, "event_id", event.ID)
}

// GetStatus returns the ledger snapshot for a task. Tasks are visible only
// to their submitter; anyone else sees NotFound.
func (s *TaskService) GetStatus(ctx context.Context, taskID, caller string) (*domain.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !task.IsOwnedBy(caller) {
		return nil, domain.ErrTaskNotFound
	}
	return task, nil
}

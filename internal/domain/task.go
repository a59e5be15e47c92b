package domain

import "time"

// TaskStatus represents the lifecycle state of an asynchronous task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// IsTerminal returns true if the status is terminal (no transitions allowed).
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusFailed
}

// CanTransitionTo reports whether the lifecycle permits moving to next.
// Transitions are monotonic: pending -> processing -> (completed | failed).
func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	switch s {
	case TaskStatusPending:
		return next == TaskStatusProcessing
	case TaskStatusProcessing:
		return next == TaskStatusCompleted || next == TaskStatusFailed
	default:
		return false
	}
}

// TaskType identifies the kind of deferred work a task performs.
type TaskType string

const (
	TaskTypeCreateEvent TaskType = "create_event"
)

// Task is a unit of deferred work with a persisted lifecycle, polled by id.
// ResultPayload is set only in the completed state; Error only in failed.
type Task struct {
	ID             string
	Type           TaskType
	Status         TaskStatus
	RequestPayload []byte
	ResultPayload  []byte
	Error          *string
	CreatorID      string
	CreatedAt      time.Time
	StartedAt      *time.Time
	CompletedAt    *time.Time
}

// IsOwnedBy checks if the task was submitted by the given subject.
func (t *Task) IsOwnedBy(subject string) bool {
	return t.CreatorID == subject
}

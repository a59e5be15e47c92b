package domain

import "time"

// Event represents a user-organized event.
type Event struct {
	ID          string
	Title       string
	Description *string
	Location    *string
	StartAt     time.Time
	EndAt       time.Time
	Capacity    *int
	CreatorID   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Deleted     bool
}

// IsCreatedBy checks if the event was created by the given subject.
func (e *Event) IsCreatedBy(subject string) bool {
	return e.CreatorID == subject
}

// ValidTimeRange reports whether start strictly precedes end.
func ValidTimeRange(start, end time.Time) bool {
	return start.Before(end)
}

// EventPatch holds the fields of a partial event update. Nil pointers mean
// "leave unchanged"; id and creator are immutable and never patched.
type EventPatch struct {
	Title       *string
	Description *string
	Location    *string
	StartAt     *time.Time
	EndAt       *time.Time
	Capacity    *int
}

// IsEmpty reports whether the patch changes nothing.
func (p *EventPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Location == nil &&
		p.StartAt == nil && p.EndAt == nil && p.Capacity == nil
}

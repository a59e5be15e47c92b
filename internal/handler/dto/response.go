package dto

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/TheFriendRequest/Event-Service/internal/domain"
	"github.com/TheFriendRequest/Event-Service/internal/service"
)

// wireTime is the single text representation every timestamp is normalized
// to before leaving the service: RFC 3339 in UTC.
func wireTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func wireTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := wireTime(*t)
	return &s
}

// EventResponse represents a single event on the wire.
type EventResponse struct {
	ID                string   `json:"id"`
	Title             string   `json:"title"`
	Description       *string  `json:"description"`
	Location          *string  `json:"location"`
	StartAt           string   `json:"start_at"`
	EndAt             string   `json:"end_at"`
	Capacity          *int     `json:"capacity"`
	CreatorID         string   `json:"creator_id"`
	InterestedUserIDs []string `json:"interested_user_ids"`
	CreatedAt         string   `json:"created_at"`
	UpdatedAt         string   `json:"updated_at"`
}

// ToEventResponse converts an event snapshot to its wire form.
func ToEventResponse(snap service.EventSnapshot) EventResponse {
	interested := snap.Interested
	if interested == nil {
		interested = []string{}
	}
	return EventResponse{
		ID:                snap.Event.ID,
		Title:             snap.Event.Title,
		Description:       snap.Event.Description,
		Location:          snap.Event.Location,
		StartAt:           wireTime(snap.Event.StartAt),
		EndAt:             wireTime(snap.Event.EndAt),
		Capacity:          snap.Event.Capacity,
		CreatorID:         snap.Event.CreatorID,
		InterestedUserIDs: interested,
		CreatedAt:         wireTime(snap.Event.CreatedAt),
		UpdatedAt:         wireTime(snap.Event.UpdatedAt),
	}
}

// PageLinks holds the navigation links of a collection page. Next is absent
// on the last page, prev on the first.
type PageLinks struct {
	Self  string  `json:"self"`
	First string  `json:"first"`
	Last  string  `json:"last"`
	Next  *string `json:"next,omitempty"`
	Prev  *string `json:"prev,omitempty"`
}

// BuildPageLinks derives the page links purely from skip, limit, and total.
func BuildPageLinks(basePath string, skip, limit, total int) PageLinks {
	link := func(skip int) string {
		return fmt.Sprintf("%s?skip=%d&limit=%d", basePath, skip, limit)
	}

	lastSkip := 0
	if total > 0 {
		lastSkip = ((total - 1) / limit) * limit
	}

	links := PageLinks{
		Self:  link(skip),
		First: link(0),
		Last:  link(lastSkip),
	}

	if skip+limit < total {
		next := link(skip + limit)
		links.Next = &next
	}
	if skip > 0 {
		prevSkip := skip - limit
		if prevSkip < 0 {
			prevSkip = 0
		}
		prev := link(prevSkip)
		links.Prev = &prev
	}

	return links
}

// EventsListResponse represents the response for GET /events.
type EventsListResponse struct {
	Events  []EventResponse `json:"events"`
	Total   int             `json:"total"`
	Skip    int             `json:"skip"`
	Limit   int             `json:"limit"`
	HasMore bool            `json:"has_more"`
	Links   PageLinks       `json:"links"`
}

// TaskResponse represents a task ledger snapshot on the wire. Result is
// present only for completed tasks, Error only for failed ones.
type TaskResponse struct {
	TaskID      string          `json:"task_id"`
	Type        string          `json:"type"`
	Status      string          `json:"status"`
	CreatedAt   string          `json:"created_at"`
	StartedAt   *string         `json:"started_at,omitempty"`
	CompletedAt *string         `json:"completed_at,omitempty"`
	Result      json.RawMessage `json:"result,omitempty"`
	Error       *string         `json:"error,omitempty"`
}

// ToTaskResponse converts a domain task to its wire form.
func ToTaskResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		TaskID:      task.ID,
		Type:        string(task.Type),
		Status:      string(task.Status),
		CreatedAt:   wireTime(task.CreatedAt),
		StartedAt:   wireTimePtr(task.StartedAt),
		CompletedAt: wireTimePtr(task.CompletedAt),
		Result:      task.ResultPayload,
		Error:       task.Error,
	}
}

// TaskAcceptedResponse is the handle returned for an accepted async create.
type TaskAcceptedResponse struct {
	TaskID string `json:"task_id"`
	Status string `json:"status"`
	Href   string `json:"href"`
}

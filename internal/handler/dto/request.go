package dto

import "time"

// CreateEventRequest represents the request body for POST /events and
// POST /events/async.
type CreateEventRequest struct {
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Location    *string   `json:"location,omitempty"`
	StartAt     time.Time `json:"start_at"`
	EndAt       time.Time `json:"end_at"`
	Capacity    *int      `json:"capacity,omitempty"`
}

// UpdateEventRequest represents the request body for PATCH /events/:id.
// Absent fields are left unchanged.
type UpdateEventRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Location    *string    `json:"location,omitempty"`
	StartAt     *time.Time `json:"start_at,omitempty"`
	EndAt       *time.Time `json:"end_at,omitempty"`
	Capacity    *int       `json:"capacity,omitempty"`
}

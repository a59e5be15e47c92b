package domain

import "time"

// Interest links a user to an event they want to attend.
type Interest struct {
	EventID   string
	UserID    string
	CreatedAt time.Time
}

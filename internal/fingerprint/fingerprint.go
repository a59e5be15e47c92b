// Package fingerprint derives deterministic validators for resources.
// A fingerprint is a SHA-256 digest of a canonical serialization of the
// resource's current representation, exposed to clients as a strong ETag
// and compared on conditional requests.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/TheFriendRequest/Event-Service/internal/domain"
)

// canonicalEvent is the field set hashed for a single event. Field order is
// fixed by the struct; times are normalized to UTC RFC 3339 with nanoseconds
// so equal instants always serialize identically.
type canonicalEvent struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	Location    *string  `json:"location"`
	StartAt     string   `json:"start_at"`
	EndAt       string   `json:"end_at"`
	Capacity    *int     `json:"capacity"`
	CreatorID   string   `json:"creator_id"`
	CreatedAt   string   `json:"created_at"`
	Interested  []string `json:"interested"`
}

func canonicalTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func digest(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		// Only reachable for unmarshalable values, which canonical structs
		// never contain.
		panic(fmt.Sprintf("fingerprint: marshal canonical form: %v", err))
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ForEvent computes the validator for an event with its resolved interest
// association. The interested slice is sorted here, so callers may pass it
// in any order.
func ForEvent(event *domain.Event, interested []string) string {
	ids := make([]string, len(interested))
	copy(ids, interested)
	sort.Strings(ids)

	return digest(canonicalEvent{
		ID:          event.ID,
		Title:       event.Title,
		Description: event.Description,
		Location:    event.Location,
		StartAt:     canonicalTime(event.StartAt),
		EndAt:       canonicalTime(event.EndAt),
		Capacity:    event.Capacity,
		CreatorID:   event.CreatorID,
		CreatedAt:   canonicalTime(event.CreatedAt),
		Interested:  ids,
	})
}

// ForCollection computes the validator for a page of events: a digest over
// the ordered member validators plus the collection total, so any member
// change, reorder, or count change produces a new tag.
func ForCollection(memberTags []string, total int) string {
	return digest(struct {
		Members []string `json:"members"`
		Total   int      `json:"total"`
	}{Members: memberTags, Total: total})
}

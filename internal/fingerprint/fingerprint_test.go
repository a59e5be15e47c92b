package fingerprint_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/TheFriendRequest/Event-Service/internal/domain"
	"github.com/TheFriendRequest/Event-Service/internal/fingerprint"
)

func sampleEvent() *domain.Event {
	loc := "Montreal"
	capacity := 50
	return &domain.Event{
		ID:        "11111111-1111-1111-1111-111111111111",
		Title:     "Go Meetup",
		Location:  &loc,
		StartAt:   time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC),
		EndAt:     time.Date(2026, 9, 1, 21, 0, 0, 0, time.UTC),
		Capacity:  &capacity,
		CreatorID: "user-1",
		CreatedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestForEvent_Deterministic(t *testing.T) {
	a := fingerprint.ForEvent(sampleEvent(), []string{"user-2", "user-3"})
	b := fingerprint.ForEvent(sampleEvent(), []string{"user-2", "user-3"})
	assert.Equal(t, a, b)
}

func TestForEvent_InterestOrderInsensitive(t *testing.T) {
	a := fingerprint.ForEvent(sampleEvent(), []string{"user-3", "user-2"})
	b := fingerprint.ForEvent(sampleEvent(), []string{"user-2", "user-3"})
	assert.Equal(t, a, b)
}

func TestForEvent_TimezoneInsensitive(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)
	shifted := sampleEvent()
	shifted.StartAt = shifted.StartAt.In(est)
	shifted.EndAt = shifted.EndAt.In(est)
	assert.Equal(t, fingerprint.ForEvent(sampleEvent(), nil), fingerprint.ForEvent(shifted, nil))
}

func TestForEvent_ChangesWithFields(t *testing.T) {
	base := fingerprint.ForEvent(sampleEvent(), nil)

	retitled := sampleEvent()
	retitled.Title = "Go Meetup (moved)"
	assert.NotEqual(t, base, fingerprint.ForEvent(retitled, nil))

	rescheduled := sampleEvent()
	rescheduled.StartAt = rescheduled.StartAt.Add(time.Hour)
	assert.NotEqual(t, base, fingerprint.ForEvent(rescheduled, nil))

	assert.NotEqual(t, base, fingerprint.ForEvent(sampleEvent(), []string{"user-9"}))
}

func TestForCollection(t *testing.T) {
	tags := []string{"aaa", "bbb"}

	assert.Equal(t, fingerprint.ForCollection(tags, 2), fingerprint.ForCollection([]string{"aaa", "bbb"}, 2))
	assert.NotEqual(t, fingerprint.ForCollection(tags, 2), fingerprint.ForCollection(tags, 3))
	assert.NotEqual(t, fingerprint.ForCollection(tags, 2), fingerprint.ForCollection([]string{"bbb", "aaa"}, 2))
}

package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/TheFriendRequest/Event-Service/internal/domain"
	"github.com/TheFriendRequest/Event-Service/internal/fingerprint"
	"github.com/TheFriendRequest/Event-Service/internal/repository"
)

// CreateEventParams holds the input for creating an event, shared by the
// synchronous path and the async executor.
type CreateEventParams struct {
	Title       string
	Description *string
	Location    *string
	StartAt     time.Time
	EndAt       time.Time
	Capacity    *int
	CreatorID   string
}

// EventSnapshot pairs an event with its resolved interest association and
// the validator computed over both.
type EventSnapshot struct {
	Event       *domain.Event
	Interested  []string
	Fingerprint string
}

// EventListPage is one page of events with per-member and collection
// validators and the unpaginated total.
type EventListPage struct {
	Snapshots   []EventSnapshot
	Total       int
	Fingerprint string
}

// EventService coordinates event CRUD and the optimistic-concurrency
// protocol guarding updates.
type EventService struct {
	pool         *pgxpool.Pool
	eventRepo    *repository.EventRepository
	interestRepo *repository.InterestRepository
}

// NewEventService creates a new EventService.
func NewEventService(
	pool *pgxpool.Pool,
	eventRepo *repository.EventRepository,
	interestRepo *repository.InterestRepository,
) *EventService {
	return &EventService{
		pool:         pool,
		eventRepo:    eventRepo,
		interestRepo: interestRepo,
	}
}

// snapshot resolves the interest association and computes the validator.
func (s *EventService) snapshot(ctx context.Context, event *domain.Event) (EventSnapshot, error) {
	interested, err := s.interestRepo.ListUserIDs(ctx, event.ID)
	if err != nil {
		return EventSnapshot{}, err
	}
	return EventSnapshot{
		Event:       event,
		Interested:  interested,
		Fingerprint: fingerprint.ForEvent(event, interested),
	}, nil
}

// Create validates and persists a new event synchronously.
func (s *EventService) Create(ctx context.Context, params CreateEventParams) (EventSnapshot, error) {
	if !domain.ValidTimeRange(params.StartAt, params.EndAt) {
		return EventSnapshot{}, domain.ErrInvalidTimeRange
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
		return EventSnapshot{}, err
	}

	slog.Info("event created", "event_id", event.ID, "creator_id", event.CreatorID)

	// A freshly created event has no interests yet.
	return EventSnapshot{
		Event:       event,
		Interested:  nil,
		Fingerprint: fingerprint.ForEvent(event, nil),
	}, nil
}

// Get retrieves an event with its current validator.
func (s *EventService) Get(ctx context.Context, eventID string) (EventSnapshot, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return EventSnapshot{}, err
	}
	return s.snapshot(ctx, event)
}

// Update applies a partial update guarded by the optimistic-concurrency
// protocol: the current row is re-read under FOR UPDATE, its fingerprint
// recomputed and compared against the supplied validator, and the write
// issued in the same transaction so no concurrent writer can interleave.
func (s *EventService) Update(
	ctx context.Context,
	eventID string,
	caller string,
	validator string,
	patch *domain.EventPatch,
) (EventSnapshot, error) {
	if patch.IsEmpty() {
		return EventSnapshot{}, domain.ErrNoFieldsToUpdate
	}
	if validator == "" {
		return EventSnapshot{}, domain.ErrMissingValidator
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return EventSnapshot{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && err.Error() != "tx is closed" {
			slog.Error("failed to rollback transaction", "error", err)
		}
	}()

	event, err := s.eventRepo.GetByIDForUpdate(ctx, tx, eventID)
	if err != nil {
		return EventSnapshot{}, err
	}

	if !event.IsCreatedBy(caller) {
		return EventSnapshot{}, domain.ErrNotCreator
	}

	// Reading interests through the same transaction keeps the revalidation
	// snapshot consistent with the locked event row.
	interested, err := s.interestRepo.ListUserIDsTx(ctx, tx, event.ID)
	if err != nil {
		return EventSnapshot{}, err
	}

	current := fingerprint.ForEvent(event, interested)
	if current != validator {
		return EventSnapshot{}, domain.ErrPreconditionFailed
	}

	// A single supplied boundary is checked against the other one fetched
	// fresh, before any write is issued.
	newStart := event.StartAt
	if patch.StartAt != nil {
		newStart = *patch.StartAt
	}
	newEnd := event.EndAt
	if patch.EndAt != nil {
		newEnd = *patch.EndAt
	}
	if !domain.ValidTimeRange(newStart, newEnd) {
		return EventSnapshot{}, domain.ErrInvalidTimeRange
	}

	if err := s.eventRepo.Update(ctx, tx, eventID, patch); err != nil {
		return EventSnapshot{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return EventSnapshot{}, fmt.Errorf("commit transaction: %w", err)
	}

	// Read back the committed row. A failure here is surfaced as internal;
	// the update itself already committed.
	updated, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return EventSnapshot{}, fmt.Errorf("read back updated event %s: %w", eventID, err)
	}

	slog.Info("event updated", "event_id", eventID, "caller", caller)

	return s.snapshot(ctx, updated)
}

// Delete soft-deletes an event. Only the creator may delete.
func (s *EventService) Delete(ctx context.Context, eventID, caller string) error {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if !event.IsCreatedBy(caller) {
		return domain.ErrNotCreator
	}

	if err := s.eventRepo.SoftDelete(ctx, eventID); err != nil {
		return err
	}

	slog.Info("event deleted", "event_id", eventID, "caller", caller)
	return nil
}

// List retrieves a page of events with member and collection validators.
func (s *EventService) List(ctx context.Context, filters repository.EventListFilters) (EventListPage, error) {
	events, total, err := s.eventRepo.List(ctx, filters)
	if err != nil {
		return EventListPage{}, err
	}

	page := EventListPage{
		Snapshots: make([]EventSnapshot, 0, len(events)),
		Total:     total,
	}
	memberTags := make([]string, 0, len(events))
	for _, event := range events {
		snap, err := s.snapshot(ctx, event)
		if err != nil {
			return EventListPage{}, err
		}
		page.Snapshots = append(page.Snapshots, snap)
		memberTags = append(memberTags, snap.Fingerprint)
	}
	page.Fingerprint = fingerprint.ForCollection(memberTags, total)

	return page, nil
}

// RegisterInterest records the caller's interest in an event. Idempotent.
func (s *EventService) RegisterInterest(ctx context.Context, eventID, userID string) error {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return err
	}
	return s.interestRepo.Add(ctx, domain.Interest{EventID: eventID, UserID: userID})
}

// WithdrawInterest removes the caller's interest in an event. Idempotent.
func (s *EventService) WithdrawInterest(ctx context.Context, eventID, userID string) error {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return err
	}
	return s.interestRepo.Remove(ctx, eventID, userID)
}

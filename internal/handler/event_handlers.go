package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/TheFriendRequest/Event-Service/internal/config"
	"github.com/TheFriendRequest/Event-Service/internal/domain"
	"github.com/TheFriendRequest/Event-Service/internal/handler/dto"
	"github.com/TheFriendRequest/Event-Service/internal/middleware"
	"github.com/TheFriendRequest/Event-Service/internal/repository"
	"github.com/TheFriendRequest/Event-Service/internal/service"
)

const eventsBasePath = "/api/v1/events"

// handleListEvents lists events with filters and pagination.
// @Summary List events
// @Description Lists events filtered by location substring, creator, and start-date range, with skip/limit pagination and navigation links.
// @Tags events
// @Produce json
// @Param location query string false "Location substring (case-insensitive)"
// @Param creator query string false "Creator subject"
// @Param start_from query string false "Earliest start time (RFC 3339)"
// @Param start_to query string false "Latest start time (RFC 3339)"
// @Param skip query int false "Rows to skip" default(0)
// @Param limit query int false "Page size (1-100)" default(20)
// @Success 200 {object} dto.EventsListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /events [get]
func (h *Handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, err := middleware.GetSubjectFromContext(ctx); err != nil {
		respondError(w, http.StatusUnauthorized, "MISSING_IDENTITY", "Caller identity required")
		return
	}

	filters, err := parseListFilters(r)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	page, err := h.eventService.List(ctx, filters)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	etag := quoteETag(page.Fingerprint)
	w.Header().Set("ETag", etag)
	if match := r.Header.Get("If-None-Match"); match != "" && matchesValidator(match, page.Fingerprint) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	events := make([]dto.EventResponse, 0, len(page.Snapshots))
	for _, snap := range page.Snapshots {
		events = append(events, dto.ToEventResponse(snap))
	}

	respondJSON(w, http.StatusOK, dto.EventsListResponse{
		Events:  events,
		Total:   page.Total,
		Skip:    filters.Skip,
		Limit:   filters.Limit,
		HasMore: filters.Skip+filters.Limit < page.Total,
		Links:   dto.BuildPageLinks(eventsBasePath, filters.Skip, filters.Limit, page.Total),
	})
}

// parseListFilters validates query parameters for the list endpoint.
func parseListFilters(r *http.Request) (repository.EventListFilters, error) {
	filters := repository.EventListFilters{
		Skip:  0,
		Limit: config.DefaultPageLimit,
	}

	q := r.URL.Query()

	if raw := q.Get("skip"); raw != "" {
		skip, err := strconv.Atoi(raw)
		if err != nil || skip < 0 {
			return filters, fmt.Errorf("%w: skip must be a non-negative integer", domain.ErrInvalidFilter)
		}
		filters.Skip = skip
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > config.MaxPageLimit {
			return filters, fmt.Errorf("%w: limit must be between 1 and %d", domain.ErrInvalidFilter, config.MaxPageLimit)
		}
		filters.Limit = limit
	}

	if location := q.Get("location"); location != "" {
		filters.Location = &location
	}
	if creator := q.Get("creator"); creator != "" {
		filters.CreatorID = &creator
	}

	if raw := q.Get("start_from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filters, fmt.Errorf("%w: start_from must be RFC 3339", domain.ErrInvalidFilter)
		}
		filters.StartFrom = &t
	}
	if raw := q.Get("start_to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filters, fmt.Errorf("%w: start_to must be RFC 3339", domain.ErrInvalidFilter)
		}
		filters.StartTo = &t
	}

	return filters, nil
}

// handleGetEvent retrieves a single event.
// @Summary Get event
// @Description Get an event with its interest list. Supports conditional GET via If-None-Match.
// @Tags events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} dto.EventResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /events/{id} [get]
func (h *Handler) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	eventID, ok := extractID(w, r, "event")
	if !ok {
		return
	}

	snap, err := h.eventService.Get(ctx, eventID)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	w.Header().Set("ETag", quoteETag(snap.Fingerprint))
	if match := r.Header.Get("If-None-Match"); match != "" && matchesValidator(match, snap.Fingerprint) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToEventResponse(snap))
}

// decodeCreateRequest parses and validates a create body for both the sync
// and async create endpoints.
func decodeCreateRequest(w http.ResponseWriter, r *http.Request, subject string) (service.CreateEventParams, bool) {
	var req dto.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return service.CreateEventParams{}, false
	}

	if req.Title == "" {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "title is required")
		return service.CreateEventParams{}, false
	}
	if req.StartAt.IsZero() || req.EndAt.IsZero() {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "start_at and end_at are required")
		return service.CreateEventParams{}, false
	}
	if req.Capacity != nil && *req.Capacity < 1 {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "capacity must be positive")
		return service.CreateEventParams{}, false
	}

	return service.CreateEventParams{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
		Capacity:    req.Capacity,
		CreatorID:   subject,
	}, true
}

// handleCreateEvent creates a new event synchronously.
// @Summary Create event
// @Description Creates an event. start_at must precede end_at.
// @Tags events
// @Accept json
// @Produce json
// @Param request body dto.CreateEventRequest true "Event creation request"
// @Success 201 {object} dto.EventResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /events [post]
func (h *Handler) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	subject, err := middleware.GetSubjectFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "MISSING_IDENTITY", "Caller identity required")
		return
	}

	params, ok := decodeCreateRequest(w, r, subject)
	if !ok {
		return
	}

	snap, err := h.eventService.Create(ctx, params)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	w.Header().Set("Location", eventsBasePath+"/"+snap.Event.ID)
	w.Header().Set("ETag", quoteETag(snap.Fingerprint))
	respondJSON(w, http.StatusCreated, dto.ToEventResponse(snap))
}

// handleUpdateEvent applies a concurrency-guarded partial update.
// @Summary Update event
// @Description Partially updates an event. Requires the If-Match validator from a prior read; a stale validator is rejected with 412.
// @Tags events
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param If-Match header string true "Validator from a prior read"
// @Param request body dto.UpdateEventRequest true "Fields to update"
// @Success 200 {object} dto.EventResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 412 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /events/{id} [patch]
func (h *Handler) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	subject, err := middleware.GetSubjectFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "MISSING_IDENTITY", "Caller identity required")
		return
	}

	eventID, ok := extractID(w, r, "event")
	if !ok {
		return
	}

	var req dto.UpdateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	validator := strings.Trim(strings.TrimSpace(r.Header.Get("If-Match")), `"`)

	snap, err := h.eventService.Update(ctx, eventID, subject, validator, &domain.EventPatch{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
		Capacity:    req.Capacity,
	})
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	w.Header().Set("ETag", quoteETag(snap.Fingerprint))
	respondJSON(w, http.StatusOK, dto.ToEventResponse(snap))
}

// handleDeleteEvent deletes an event.
// @Summary Delete event
// @Description Deletes an event. Only the creator may delete.
// @Tags events
// @Param id path string true "Event ID"
// @Success 204
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /events/{id} [delete]
func (h *Handler) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	subject, err := middleware.GetSubjectFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "MISSING_IDENTITY", "Caller identity required")
		return
	}

	eventID, ok := extractID(w, r, "event")
	if !ok {
		return
	}

	if err := h.eventService.Delete(ctx, eventID, subject); err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleRegisterInterest records the caller's interest in an event.
// @Summary Register interest
// @Tags events
// @Param id path string true "Event ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /events/{id}/interest [put]
func (h *Handler) handleRegisterInterest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	subject, err := middleware.GetSubjectFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "MISSING_IDENTITY", "Caller identity required")
		return
	}

	eventID, ok := extractID(w, r, "event")
	if !ok {
		return
	}

	if err := h.eventService.RegisterInterest(ctx, eventID, subject); err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleWithdrawInterest removes the caller's interest in an event.
// @Summary Withdraw interest
// @Tags events
// @Param id path string true "Event ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /events/{id}/interest [delete]
func (h *Handler) handleWithdrawInterest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	subject, err := middleware.GetSubjectFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "MISSING_IDENTITY", "Caller identity required")
		return
	}

	eventID, ok := extractID(w, r, "event")
	if !ok {
		return
	}

	if err := h.eventService.WithdrawInterest(ctx, eventID, subject); err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

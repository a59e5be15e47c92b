package handler

import (
	"net/http"

	"github.com/TheFriendRequest/Event-Service/internal/domain"
	"github.com/TheFriendRequest/Event-Service/internal/handler/dto"
	"github.com/TheFriendRequest/Event-Service/internal/middleware"
)

const tasksBasePath = "/api/v1/tasks"

// handleCreateEventAsync submits an event creation task for deferred
// execution and returns a pollable task handle.
// @Summary Create event asynchronously
// @Description Accepts the request, persists a pending task, and returns a handle for polling. Returns 503 when the executor queue is full.
// @Tags tasks
// @Accept json
// @Produce json
// @Param request body dto.CreateEventRequest true "Event creation request"
// @Success 202 {object} dto.TaskAcceptedResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /events/async [post]
func (h *Handler) handleCreateEventAsync(w http.ResponseWriter, r *http.Request) {
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

	task, err := h.taskService.SubmitCreate(ctx, params)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	href := tasksBasePath + "/" + task.ID
	w.Header().Set("Location", href)
	respondJSON(w, http.StatusAccepted, dto.TaskAcceptedResponse{
		TaskID: task.ID,
		Status: string(domain.TaskStatusPending),
		Href:   href,
	})
}

// handleGetTaskStatus returns the ledger snapshot for a task.
// @Summary Get task status
// @Description Poll an async task by id: status, timestamps, and the result or error once terminal.
// @Tags tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} dto.TaskResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /tasks/{id} [get]
func (h *Handler) handleGetTaskStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	subject, err := middleware.GetSubjectFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "MISSING_IDENTITY", "Caller identity required")
		return
	}

	taskID, ok := extractID(w, r, "task")
	if !ok {
		return
	}

	task, err := h.taskService.GetStatus(ctx, taskID, subject)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTaskResponse(task))
}

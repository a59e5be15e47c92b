package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/TheFriendRequest/Event-Service/docs" // Import generated docs
	"github.com/TheFriendRequest/Event-Service/internal/handler/dto"
	"github.com/TheFriendRequest/Event-Service/internal/middleware"
	"github.com/TheFriendRequest/Event-Service/internal/repository"
	"github.com/TheFriendRequest/Event-Service/internal/service"
	"github.com/TheFriendRequest/Event-Service/internal/static"
	"github.com/TheFriendRequest/Event-Service/internal/worker"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	pool               *pgxpool.Pool
	eventService       *service.EventService
	taskService        *service.TaskService
	identityMiddleware *middleware.IdentityMiddleware
}

// New creates a new Handler instance with all dependencies.
func New(pool *pgxpool.Pool, workers *worker.Pool) *Handler {
	// Create repositories
	eventRepo := repository.NewEventRepository(pool)
	taskRepo := repository.NewTaskRepository(pool)
	interestRepo := repository.NewInterestRepository(pool)

	// Create services
	eventService := service.NewEventService(pool, eventRepo, interestRepo)
	taskService := service.NewTaskService(taskRepo, eventRepo, workers)

	// Create middleware
	identityMiddleware := middleware.NewIdentityMiddleware()

	return &Handler{
		pool:               pool,
		eventService:       eventService,
		taskService:        taskService,
		identityMiddleware: identityMiddleware,
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /healthz", h.handleHealthz)

	// Landing page
	mux.HandleFunc("GET /{$}", h.handleIndex)

	// Swagger UI
	mux.HandleFunc("GET /swagger/", httpSwagger.Handler())

	// API v1 routes behind the gateway identity
	mux.Handle("GET /api/v1/events", h.identityMiddleware.Resolve(http.HandlerFunc(h.handleListEvents)))
	mux.Handle("POST /api/v1/events", h.identityMiddleware.Resolve(http.HandlerFunc(h.handleCreateEvent)))
	mux.Handle("POST /api/v1/events/async", h.identityMiddleware.Resolve(http.HandlerFunc(h.handleCreateEventAsync)))
	mux.Handle("GET /api/v1/events/{id}", h.identityMiddleware.Resolve(http.HandlerFunc(h.handleGetEvent)))
	mux.Handle("PATCH /api/v1/events/{id}", h.identityMiddleware.Resolve(http.HandlerFunc(h.handleUpdateEvent)))
	mux.Handle("DELETE /api/v1/events/{id}", h.identityMiddleware.Resolve(http.HandlerFunc(h.handleDeleteEvent)))
	mux.Handle("PUT /api/v1/events/{id}/interest", h.identityMiddleware.Resolve(http.HandlerFunc(h.handleRegisterInterest)))
	mux.Handle("DELETE /api/v1/events/{id}/interest", h.identityMiddleware.Resolve(http.HandlerFunc(h.handleWithdrawInterest)))
	mux.Handle("GET /api/v1/tasks/{id}", h.identityMiddleware.Resolve(http.HandlerFunc(h.handleGetTaskStatus)))
}

// handleHealthz returns 200 OK if the database is reachable.
func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.pool.Ping(ctx); err != nil {
		slog.Error("database health check failed", "error", err)
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// handleIndex serves the embedded landing page.
func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(static.IndexHTML))
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// respondError writes a standard error response.
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, dto.NewErrorResponse(code, message))
}

// extractID extracts and validates a UUID path parameter.
// Returns (id, true) if valid, ("", false) if invalid (error already sent to client).
func extractID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	id := r.PathValue("id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", name+" id is required")
		return "", false
	}

	if _, err := uuid.Parse(id); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", name+"_id must be a valid UUID")
		return "", false
	}

	return id, true
}

// quoteETag wraps a fingerprint as a strong entity tag.
func quoteETag(tag string) string {
	return `"` + tag + `"`
}

// matchesValidator compares a conditional header value against the current
// fingerprint. The header may carry a comma-separated list of entity tags,
// quoted or bare, with an optional weak prefix, or the * wildcard.
func matchesValidator(header, tag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" {
			return true
		}
		candidate = strings.TrimPrefix(candidate, "W/")
		if strings.Trim(candidate, `"`) == tag {
			return true
		}
	}
	return false
}

package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/taskline/taskline/internal/event"
	"github.com/taskline/taskline/internal/handler/dto"
	"github.com/taskline/taskline/internal/middleware"
	"github.com/taskline/taskline/internal/repository"
	"github.com/taskline/taskline/internal/service"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	pool            *pgxpool.Pool
	taskService     *service.TaskService
	activityService *service.ActivityService
	commentService  *service.CommentService
	taskRepo        *repository.TaskRepository
	authMiddleware  *middleware.AuthMiddleware
}

// New creates a new Handler instance with all dependencies. The dispatcher is
// constructed by the caller at process start so handler registration stays in
// one place.
func New(pool *pgxpool.Pool, dispatcher *event.Dispatcher) *Handler {
	taskRepo := repository.NewTaskRepository(pool)
	activityRepo := repository.NewActivityRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	tagRepo := repository.NewTagRepository(pool)

	taskService := service.NewTaskService(pool, taskRepo, activityRepo, tagRepo, dispatcher)
	activityService := service.NewActivityService(pool, activityRepo, taskRepo, tagRepo, dispatcher)
	commentService := service.NewCommentService(pool, commentRepo, taskRepo, activityRepo, tagRepo, dispatcher)

	authMiddleware := middleware.NewAuthMiddleware(userRepo)

	return &Handler{
		pool:            pool,
		taskService:     taskService,
		activityService: activityService,
		commentService:  commentService,
		taskRepo:        taskRepo,
		authMiddleware:  authMiddleware,
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /healthz", h.handleHealthz)

	// Tasks
	mux.Handle("GET /api/v1/tasks", h.auth(h.handleListTasks))
	mux.Handle("POST /api/v1/tasks", h.auth(h.handleCreateTask))
	mux.Handle("GET /api/v1/tasks/{id}", h.auth(h.handleGetTask))
	mux.Handle("PATCH /api/v1/tasks/{id}", h.auth(h.handleUpdateTask))
	mux.Handle("DELETE /api/v1/tasks/{id}", h.auth(h.handleDeleteTask))
	mux.Handle("POST /api/v1/tasks/{id}/complete", h.auth(h.handleSetCompletion))

	// Comments
	mux.Handle("POST /api/v1/tasks/{id}/comments", h.auth(h.handleCreateComment))
	mux.Handle("GET /api/v1/tasks/{id}/comments", h.auth(h.handleListComments))
	mux.Handle("PATCH /api/v1/comments/{id}", h.auth(h.handleUpdateComment))
	mux.Handle("DELETE /api/v1/comments/{id}", h.auth(h.handleDeleteComment))

	// Activity
	mux.Handle("GET /api/v1/tasks/{id}/activity", h.auth(h.handleGetActivity))
	mux.Handle("GET /api/v1/activity/{id}", h.auth(h.handleGetActivityEntry))

	// Summary
	mux.Handle("GET /api/v1/summary", h.auth(h.handleGetSummary))
}

// auth wraps a handler func with bearer authentication.
func (h *Handler) auth(fn http.HandlerFunc) http.Handler {
	return h.authMiddleware.Authenticate(fn)
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

// Ping checks if the database is reachable (used for testing).
func (h *Handler) Ping(ctx context.Context) error {
	return h.pool.Ping(ctx)
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

// respondDomainError maps a domain error and writes it.
func respondDomainError(w http.ResponseWriter, err error) {
	status, code, message := dto.MapDomainError(err)
	respondError(w, status, code, message)
}

// extractUUID extracts and validates a UUID path parameter. Returns
// (value, true) if valid, ("", false) if invalid (error already sent).
func extractUUID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	value := r.PathValue(name)
	if value == "" {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", name+" is required")
		return "", false
	}

	if _, err := uuid.Parse(value); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", name+" must be a valid UUID")
		return "", false
	}

	return value, true
}

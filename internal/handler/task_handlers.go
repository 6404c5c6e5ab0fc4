package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/taskline/taskline/internal/domain"
	"github.com/taskline/taskline/internal/handler/dto"
	"github.com/taskline/taskline/internal/middleware"
	"github.com/taskline/taskline/internal/repository"
	"github.com/taskline/taskline/internal/service"
)

// handleCreateTask creates a new task with its creation audit entry.
func (h *Handler) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := middleware.GetUserFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	var req dto.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	priority := domain.PriorityMedium
	if req.Priority != "" {
		priority, err = domain.ParsePriority(req.Priority)
		if err != nil {
			respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "priority must be 'low', 'medium', or 'high'")
			return
		}
	}

	dueDate, ok := parseDueDate(w, req.DueDate)
	if !ok {
		return
	}

	task, err := h.taskService.Create(ctx, service.CreateTaskParams{
		Title:       req.Title,
		Description: req.Description,
		Priority:    priority,
		DueDate:     dueDate,
		AssigneeID:  req.AssigneeID,
		TagIDs:      req.TagIDs,
		ActorID:     &user.ID,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToTaskResponse(task))
}

// handleGetTask retrieves a single task.
func (h *Handler) handleGetTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	taskID, ok := extractUUID(w, r, "id")
	if !ok {
		return
	}

	task, err := h.taskService.Get(ctx, taskID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTaskResponse(task))
}

// handleListTasks lists tasks with optional filters.
func (h *Handler) handleListTasks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	filters := repository.ListFilters{
		Limit:  50,
		Offset: 0,
	}

	if v := query.Get("is_complete"); v != "" {
		isComplete, err := strconv.ParseBool(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "is_complete must be a boolean")
			return
		}
		filters.IsComplete = &isComplete
	}

	if v := query.Get("assignee"); v != "" {
		if v == "none" {
			filters.Unassigned = true
		} else {
			filters.AssigneeID = &v
		}
	}

	if v := query.Get("priority"); v != "" {
		priority, err := domain.ParsePriority(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "priority must be 'low', 'medium', or 'high'")
			return
		}
		filters.Priority = &priority
	}

	if v := query.Get("overdue"); v == "true" {
		filters.Overdue = true
	}

	if v := query.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 || limit > 200 {
			respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "limit must be between 1 and 200")
			return
		}
		filters.Limit = limit
	}

	if v := query.Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "offset must be non-negative")
			return
		}
		filters.Offset = offset
	}

	tasks, total, err := h.taskService.List(ctx, filters)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	responses := make([]dto.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, dto.ToTaskResponse(task))
	}

	respondJSON(w, http.StatusOK, dto.TasksListResponse{
		Tasks:  responses,
		Total:  total,
		Limit:  filters.Limit,
		Offset: filters.Offset,
	})
}

// handleUpdateTask applies a partial update and returns the task plus the
// audit entries the update produced.
func (h *Handler) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := middleware.GetUserFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	taskID, ok := extractUUID(w, r, "id")
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	params := service.UpdateTaskParams{
		Title:         req.Title,
		Description:   req.Description,
		ClearDueDate:  req.ClearDueDate,
		AssigneeID:    req.AssigneeID,
		ClearAssignee: req.ClearAssignee,
		TagIDs:        req.TagIDs,
		IsComplete:    req.IsComplete,
	}

	if req.Priority != nil {
		priority, err := domain.ParsePriority(*req.Priority)
		if err != nil {
			respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "priority must be 'low', 'medium', or 'high'")
			return
		}
		params.Priority = &priority
	}

	dueDate, ok := parseDueDate(w, req.DueDate)
	if !ok {
		return
	}
	params.DueDate = dueDate

	task, entries, err := h.taskService.Update(ctx, taskID, &user.ID, params)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, struct {
		Task    dto.TaskResponse            `json:"task"`
		Entries []dto.ActivityEntryResponse `json:"entries"`
	}{
		Task:    dto.ToTaskResponse(task),
		Entries: dto.ToActivityEntryResponses(entries),
	})
}

// handleSetCompletion completes or reopens a task.
func (h *Handler) handleSetCompletion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := middleware.GetUserFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	taskID, ok := extractUUID(w, r, "id")
	if !ok {
		return
	}

	var req dto.SetCompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	task, entry, err := h.taskService.SetCompletion(ctx, taskID, &user.ID, req.IsComplete)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	response := struct {
		Task  dto.TaskResponse           `json:"task"`
		Entry *dto.ActivityEntryResponse `json:"entry"`
	}{
		Task: dto.ToTaskResponse(task),
	}
	if entry != nil {
		entryResponse := dto.ToActivityEntryResponse(entry)
		response.Entry = &entryResponse
	}

	respondJSON(w, http.StatusOK, response)
}

// handleDeleteTask removes a task and everything that cascades with it.
func (h *Handler) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	taskID, ok := extractUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.taskService.Delete(ctx, taskID); err != nil {
		respondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseDueDate parses an optional RFC 3339 due date. Returns (nil, true) when
// absent, (nil, false) after writing a validation error.
func parseDueDate(w http.ResponseWriter, raw *string) (*time.Time, bool) {
	if raw == nil {
		return nil, true
	}
	dueDate, err := time.Parse(time.RFC3339, *raw)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "due_date must be RFC 3339")
		return nil, false
	}
	return &dueDate, true
}

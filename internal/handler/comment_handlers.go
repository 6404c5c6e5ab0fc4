package handler

import (
	"encoding/json"
	"net/http"

	"github.com/taskline/taskline/internal/handler/dto"
	"github.com/taskline/taskline/internal/middleware"
	"github.com/taskline/taskline/internal/service"
)

// handleCreateComment creates a comment and its correlated activity entry.
func (h *Handler) handleCreateComment(w http.ResponseWriter, r *http.Request) {
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

	var req dto.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	result, err := h.commentService.Create(ctx, service.CreateCommentParams{
		TaskID:           taskID,
		AuthorID:         &user.ID,
		Content:          req.Content,
		DisplayName:      req.DisplayName,
		Metadata:         req.Metadata,
		SuppressActivity: req.SuppressActivity,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToCommentResultResponse(result))
}

// handleListComments lists all comments for a task.
func (h *Handler) handleListComments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	taskID, ok := extractUUID(w, r, "id")
	if !ok {
		return
	}

	comments, err := h.commentService.ListByTask(ctx, taskID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	responses := make([]dto.CommentResponse, 0, len(comments))
	for _, comment := range comments {
		responses = append(responses, dto.ToCommentResponse(comment))
	}

	respondJSON(w, http.StatusOK, dto.CommentsListResponse{Comments: responses})
}

// handleUpdateComment replaces a comment's content.
func (h *Handler) handleUpdateComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := middleware.GetUserFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	commentID, ok := extractUUID(w, r, "id")
	if !ok {
		return
	}

	var req dto.UpdateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	comment, err := h.commentService.Update(ctx, commentID, &user.ID, req.Content, req.Metadata)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToCommentResponse(comment))
}

// handleDeleteComment removes a comment, leaving its audit trail in place.
func (h *Handler) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := middleware.GetUserFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	commentID, ok := extractUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.commentService.Delete(ctx, commentID, &user.ID); err != nil {
		respondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

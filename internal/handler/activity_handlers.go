package handler

import (
	"net/http"
	"strconv"

	"github.com/taskline/taskline/internal/handler/dto"
)

// handleGetActivity returns the ordered activity timeline for a task. With
// page/size query parameters it returns one page plus total-count metadata.
func (h *Handler) handleGetActivity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	taskID, ok := extractUUID(w, r, "id")
	if !ok {
		return
	}

	query := r.URL.Query()
	if query.Get("page") != "" || query.Get("size") != "" {
		page, err := strconv.Atoi(query.Get("page"))
		if err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "page must be an integer")
			return
		}
		size, err := strconv.Atoi(query.Get("size"))
		if err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "size must be an integer")
			return
		}

		activityPage, err := h.activityService.GetActivityPage(ctx, taskID, page, size)
		if err != nil {
			respondDomainError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, dto.ActivityPageResponse{
			TaskID:     taskID,
			Entries:    dto.ToActivityEntryResponses(activityPage.Entries),
			TotalCount: activityPage.TotalCount,
			Page:       activityPage.Page,
			Size:       activityPage.Size,
			TotalPages: activityPage.TotalPages(),
		})
		return
	}

	entries, err := h.activityService.GetActivity(ctx, taskID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ActivityTimelineResponse{
		TaskID:  taskID,
		Entries: dto.ToActivityEntryResponses(entries),
	})
}

// handleGetActivityEntry returns a single activity entry by ID.
func (h *Handler) handleGetActivityEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	raw := r.PathValue("id")
	entryID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "id must be an integer")
		return
	}

	entry, err := h.activityService.GetEntry(ctx, entryID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToActivityEntryResponse(entry))
}

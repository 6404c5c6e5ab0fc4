package handler

import (
	"net/http"

	"github.com/taskline/taskline/internal/handler/dto"
)

// handleGetSummary returns workspace-level task and activity counters.
func (h *Handler) handleGetSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	summary, err := h.taskRepo.GetSummary(ctx)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToSummaryResponse(summary))
}

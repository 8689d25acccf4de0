package handler

import (
	"log/slog"
	"net/http"

	"github.com/macrolog/macrolog/internal/service"
)

type HistoryHandler struct {
	history *service.HistoryService
}

func NewHistoryHandler(history *service.HistoryService) *HistoryHandler {
	return &HistoryHandler{history: history}
}

func (h *HistoryHandler) Range(w http.ResponseWriter, r *http.Request) {
	days := intQuery(r, "days", 30)

	points, err := h.history.Range(r.Context(), days)
	if err != nil {
		slog.Error("failed to load history", "error", err, "days", days)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"points": points})
}

package handler

import (
	"net/http"

	"github.com/macrolog/macrolog/internal/alert"
)

type AlertsHandler struct {
	center *alert.Center
}

func NewAlertsHandler(center *alert.Center) *AlertsHandler {
	return &AlertsHandler{center: center}
}

func (h *AlertsHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"alerts": h.center.List()})
}

func (h *AlertsHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	h.center.Dismiss(r.PathValue("id"))
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

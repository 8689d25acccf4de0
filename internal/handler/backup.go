package handler

import (
	"log/slog"
	"net/http"

	"github.com/macrolog/macrolog/internal/backup"
)

type BackupHandler struct {
	backup *backup.Service
}

func NewBackupHandler(b *backup.Service) *BackupHandler {
	return &BackupHandler{backup: b}
}

func (h *BackupHandler) Run(w http.ResponseWriter, r *http.Request) {
	if h.backup == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"error": "backup storage is not configured"})
		return
	}

	days := intQuery(r, "days", 366)

	url, err := h.backup.Run(r.Context(), days)
	if err != nil {
		slog.Error("backup failed", "error", err)
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"url": url})
}

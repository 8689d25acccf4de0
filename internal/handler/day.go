package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/macrolog/macrolog/internal/service"
)

type DayHandler struct {
	logService *service.LogService
}

func NewDayHandler(logService *service.LogService) *DayHandler {
	return &DayHandler{logService: logService}
}

// Today answers with the view for the current date in the canonical
// timezone.
func (h *DayHandler) Today(w http.ResponseWriter, r *http.Request) {
	view, err := h.logService.Day(r.Context(), h.logService.Today())
	if err != nil {
		slog.Error("failed to open today", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Day opens (and reconciles) the requested date and returns its view.
func (h *DayHandler) Day(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")

	view, err := h.logService.OpenDay(r.Context(), date)
	if errors.Is(err, service.ErrInvalidDate) {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		slog.Error("failed to open day", "error", err, "date", date)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// AddEntry validates and appends one entry; the sync layer picks the
// mutation up on its own.
func (h *DayHandler) AddEntry(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")

	var in service.AddEntryInput
	if err := parseJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	entry, err := h.logService.AddEntry(r.Context(), date, in)
	switch {
	case errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidDate),
		errors.Is(err, service.ErrFoodNameEmpty):
		writeError(w, http.StatusBadRequest, err)
		return
	case errors.Is(err, service.ErrFoodNotFound):
		writeError(w, http.StatusNotFound, err)
		return
	case err != nil:
		slog.Error("failed to add entry", "error", err, "date", date)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	view, err := h.logService.Day(r.Context(), date)
	if err != nil {
		slog.Error("failed to reload day after add", "error", err, "date", date)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"entry": entry, "day": view})
}

// DeleteEntry removes one entry. Unknown ids are fine; deletes can race
// a reconciliation reload.
func (h *DayHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")
	id := r.PathValue("id")

	if err := h.logService.DeleteEntry(r.Context(), date, id); err != nil {
		if errors.Is(err, service.ErrInvalidDate) {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		slog.Error("failed to delete entry", "error", err, "date", date, "entry_id", id)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	view, err := h.logService.Day(r.Context(), date)
	if err != nil {
		slog.Error("failed to reload day after delete", "error", err, "date", date)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

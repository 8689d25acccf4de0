package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/macrolog/macrolog/internal/model"
	"github.com/macrolog/macrolog/internal/service"
)

type GoalsHandler struct {
	goals *service.GoalsService
}

func NewGoalsHandler(goals *service.GoalsService) *GoalsHandler {
	return &GoalsHandler{goals: goals}
}

func (h *GoalsHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.goals.Goals())
}

func (h *GoalsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in model.MacroGoals
	if err := parseJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	err := h.goals.Update(r.Context(), in)
	if errors.Is(err, service.ErrInvalidGoal) {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		// The local value is already updated; the push failure is
		// surfaced but nothing is rolled back.
		slog.Error("failed to push goals", "error", err)
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, h.goals.Goals())
}

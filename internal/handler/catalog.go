package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/macrolog/macrolog/internal/model"
	"github.com/macrolog/macrolog/internal/service"
)

type CatalogHandler struct {
	catalog *service.CatalogService
}

func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"items": h.catalog.Foods()})
}

func (h *CatalogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in model.FoodItem
	if err := parseJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	item, err := h.catalog.Create(r.Context(), in.Name, in.Calories, in.Protein, in.Carbs, in.Fat)
	if errors.Is(err, service.ErrFoodNameEmpty) {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		slog.Error("failed to create food", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *CatalogHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in model.FoodItem
	if err := parseJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	in.ID = r.PathValue("id")

	err := h.catalog.Update(r.Context(), in)
	switch {
	case errors.Is(err, service.ErrFoodNameEmpty):
		writeError(w, http.StatusBadRequest, err)
		return
	case errors.Is(err, service.ErrFoodNotFound):
		writeError(w, http.StatusNotFound, err)
		return
	case err != nil:
		slog.Error("failed to update food", "error", err, "food_id", in.ID)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, in)
}

func (h *CatalogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	err := h.catalog.Delete(r.Context(), id)
	if errors.Is(err, service.ErrFoodNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		slog.Error("failed to delete food", "error", err, "food_id", id)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

// Replace swaps the whole catalog in one request, the same full-replace
// shape the store persists.
func (h *CatalogHandler) Replace(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Items []model.FoodItem `json:"items"`
	}
	if err := parseJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.catalog.ReplaceAll(r.Context(), in.Items); err != nil {
		if errors.Is(err, service.ErrFoodNameEmpty) {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		slog.Error("failed to replace catalog", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": h.catalog.Foods()})
}

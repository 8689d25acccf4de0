package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/macrolog/macrolog/internal/service"
	"github.com/macrolog/macrolog/internal/store/memory"
	daysync "github.com/macrolog/macrolog/internal/sync"
)

// newTestMux wires all handlers over an in-memory store with the same
// route patterns the server registers.
func newTestMux(t *testing.T) (*http.ServeMux, *memory.Store) {
	t.Helper()

	mem := memory.New()
	catalog := service.NewCatalogService(mem)
	goals := service.NewGoalsService(mem)
	disp := daysync.NewDispatcher(mem, 10*time.Millisecond, nil)
	loader := daysync.NewLoader(mem)
	logService := service.NewLogService(catalog, goals, disp, loader, time.UTC, nil)
	history := service.NewHistoryService(mem, time.UTC)

	day := NewDayHandler(logService)
	foods := NewCatalogHandler(catalog)
	goalsHandler := NewGoalsHandler(goals)
	historyHandler := NewHistoryHandler(history)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/today", day.Today)
	mux.HandleFunc("GET /api/day/{date}", day.Day)
	mux.HandleFunc("POST /api/day/{date}/entries", day.AddEntry)
	mux.HandleFunc("DELETE /api/day/{date}/entries/{id}", day.DeleteEntry)
	mux.HandleFunc("GET /api/foods", foods.List)
	mux.HandleFunc("POST /api/foods", foods.Create)
	mux.HandleFunc("PUT /api/foods", foods.Replace)
	mux.HandleFunc("PUT /api/foods/{id}", foods.Update)
	mux.HandleFunc("DELETE /api/foods/{id}", foods.Delete)
	mux.HandleFunc("GET /api/goals", goalsHandler.Get)
	mux.HandleFunc("PUT /api/goals", goalsHandler.Update)
	mux.HandleFunc("GET /api/history", historyHandler.Range)

	t.Cleanup(disp.Wait)
	return mux, mem
}

package routes

import (
	"net/http"
	"os"
	"path"

	"github.com/macrolog/macrolog/internal/app"
	"github.com/macrolog/macrolog/internal/handler"
	"github.com/macrolog/macrolog/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	day := handler.NewDayHandler(app.LogService)
	catalog := handler.NewCatalogHandler(app.CatalogService)
	goals := handler.NewGoalsHandler(app.GoalsService)
	history := handler.NewHistoryHandler(app.HistoryService)
	alerts := handler.NewAlertsHandler(app.Alerts)
	backup := handler.NewBackupHandler(app.BackupService)

	mux := http.NewServeMux()

	// Health
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	// Day log
	mux.HandleFunc("GET /api/today", day.Today)
	mux.HandleFunc("GET /api/day/{date}", day.Day)
	mux.HandleFunc("POST /api/day/{date}/entries", day.AddEntry)
	mux.HandleFunc("DELETE /api/day/{date}/entries/{id}", day.DeleteEntry)

	// Food catalog
	mux.HandleFunc("GET /api/foods", catalog.List)
	mux.HandleFunc("POST /api/foods", catalog.Create)
	mux.HandleFunc("PUT /api/foods", catalog.Replace)
	mux.HandleFunc("PUT /api/foods/{id}", catalog.Update)
	mux.HandleFunc("DELETE /api/foods/{id}", catalog.Delete)

	// Goals
	mux.HandleFunc("GET /api/goals", goals.Get)
	mux.HandleFunc("PUT /api/goals", goals.Update)

	// Trends
	mux.HandleFunc("GET /api/history", history.Range)

	// Alerts
	mux.HandleFunc("GET /api/alerts", alerts.List)
	mux.HandleFunc("DELETE /api/alerts/{id}", alerts.Dismiss)

	// Backup
	mux.HandleFunc("POST /api/backup", backup.Run)

	// Static UI
	mux.Handle("/", spaFromDisk(app.Cfg.StaticDir))

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.Recover, // fatal boundary must wrap everything
		middleware.RequestLogging,
	)
}

// spaFromDisk serves the static UI, falling back to index.html for
// client-side routes.
func spaFromDisk(dir string) http.Handler {
	fileServer := http.FileServer(http.Dir(dir))
	indexPath := path.Join(dir, "index.html")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqPath := path.Clean(r.URL.Path)
		if reqPath == "/" {
			http.ServeFile(w, r, indexPath)
			return
		}

		staticPath := path.Join(dir, reqPath)
		if _, err := os.Stat(staticPath); err == nil {
			fileServer.ServeHTTP(w, r)
			return
		}

		http.ServeFile(w, r, indexPath)
	})
}

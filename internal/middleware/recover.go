package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
)

// Recover is the application's single fatal-error boundary. Any panic
// escaping a handler is captured and answered with a JSON 500 telling
// the client to reload; there is no per-component recovery.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			slog.Error("panic recovered", "path", r.URL.Path, "panic", rec)
			sentry.CurrentHub().Recover(rec)
			sentry.Flush(2 * time.Second)

			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error":  "internal error",
				"reload": true,
			})
		}()

		next.ServeHTTP(w, r)
	})
}

package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"money-drop-service/internal/app"
)

// NewRouter mounts every game route on a chi router.
func NewRouter(service *app.GameService, checks map[string]Checker, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(newStructuredLogger(logger))
	r.Use(middleware.Recoverer)

	games := NewGamesHandler(service, logger)
	ws := NewWSHandler(service, logger)

	r.Get("/healthz", NewHealthHandler(checks, logger).ServeHTTP)
	r.Route("/games", func(r chi.Router) {
		r.Post("/", games.Create)
		r.Get("/{id}", games.Get)
		r.Delete("/{id}", games.Delete)
		r.Get("/{id}/ws", ws.ServeWS)
	})
	return r
}

func newStructuredLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				logger.Info("http request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration_ms", time.Since(start).Milliseconds(),
					"request_id", middleware.GetReqID(r.Context()),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

package web

import (
	"log/slog"
	"net/http"
	"time"

	"spatial-notepad/internal/logging"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(status int) {
	sr.status = status
	sr.ResponseWriter.WriteHeader(status)
}

func requestLogger(log *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		reqLog := log.With("method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(sr, r.WithContext(logging.WithLogger(r.Context(), reqLog)))
		reqLog.Info("request", "status", sr.status, "dur", time.Since(start))
	})
}

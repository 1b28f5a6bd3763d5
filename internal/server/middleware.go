package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/meowafisha/meowmap/internal/logger"
)

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withRequestLogging tags every request with an id and logs its
// outcome with timing.
func (s *Server) withRequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-Id", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		elapsed := time.Since(start)

		logger.Info("http request", logger.Fields{
			"request_id":  requestID,
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rec.status,
			"duration_ms": elapsed.Milliseconds(),
		})
		logger.IncrCounter("http.requests")
		if rec.status >= 500 {
			logger.IncrCounter("http.errors")
		}
		logger.RecordTiming("http.request", elapsed)
	})
}

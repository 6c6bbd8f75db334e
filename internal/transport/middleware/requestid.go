package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/rbenavente/cargas-api/pkg/logger"
)

// RequestID assigns a trace id to every request and threads it through the
// context-scoped logger so all log lines of one request correlate.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get("X-Trace-ID")
		if traceID == "" {
			traceID = uuid.NewString()
		}

		ctx := logger.With(r.Context(), "traceID", traceID)
		w.Header().Set("X-Trace-ID", traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

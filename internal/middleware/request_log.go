package middleware

import (
	"net/http"
	"time"

	"dog-adoption-search/internal/platform/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const TraceHeader = "X-Trace-ID"

// RequestLog loguea inicio y fin de cada request con un trace_id
// (el del header X-Trace-ID o uno nuevo, que se devuelve en la respuesta).
func RequestLog(log logger.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.Nop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			traceID := r.Header.Get(TraceHeader)
			if traceID == "" {
				traceID = uuid.New().String()
			}
			w.Header().Set(TraceHeader, traceID)

			reqLog := log.With(map[string]any{
				"trace_id":    traceID,
				"request_id":  chimw.GetReqID(r.Context()),
				"http_method": r.Method,
				"http_path":   r.URL.Path,
				"remote_addr": r.RemoteAddr,
			})
			reqLog.Debug("request started", nil)

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			fields := map[string]any{
				"status_code":   status,
				"bytes_written": ww.BytesWritten(),
				"duration_ms":   time.Since(start).Milliseconds(),
			}
			if status >= http.StatusInternalServerError {
				reqLog.Warn("request finished", fields)
				return
			}
			reqLog.Info("request finished", fields)
		})
	}
}

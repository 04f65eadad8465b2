package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/haguru/jiraiya/internal/interfaces"
	apimetrics "github.com/haguru/jiraiya/internal/metrics"
)

const (
	loggerKey contextKey = "logger"

	RequestIDHeader = "X-Request-ID"
)

type responseWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (rw *responseWriter) WriteHeader(status int) {
	if rw.status == 0 {
		rw.status = status
	}
	rw.ResponseWriter.WriteHeader(status)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if rw.status == 0 {
		rw.status = http.StatusOK
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += n
	return n, err
}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger interfaces.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext returns the request logger stored by LoggingMiddleware, or fallback.
func LoggerFromContext(ctx context.Context, fallback interfaces.Logger) interfaces.Logger {
	if logger, ok := ctx.Value(loggerKey).(interfaces.Logger); ok && logger != nil {
		return logger
	}
	return fallback
}

// LoggingMiddleware logs one line per request with its status and latency.
// Handlers find a logger tagged with the request id through LoggerFromContext.
// m may be nil; otherwise it tracks the number of requests in flight.
func LoggingMiddleware(logger interfaces.Logger, m interfaces.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			if m != nil {
				m.IncGauge(apimetrics.HTTPRequestsInFlight)
				defer m.DecGauge(apimetrics.HTTPRequestsInFlight)
			}

			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, requestID)
			reqLogger := logger.WithContext(map[string]interface{}{"request_id": requestID})

			rw := &responseWriter{ResponseWriter: w}
			next.ServeHTTP(rw, r.WithContext(WithLogger(r.Context(), reqLogger)))

			status := rw.status
			if status == 0 {
				status = http.StatusOK
			}
			fields := []interface{}{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", rw.bytes,
				"duration", time.Since(start).String(),
				"remote", r.RemoteAddr,
			}
			if status >= http.StatusInternalServerError {
				reqLogger.Error("request completed", fields...)
				return
			}
			reqLogger.Info("request completed", fields...)
		})
	}
}

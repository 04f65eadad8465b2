package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haguru/jiraiya/internal/interfaces"
	apimetrics "github.com/haguru/jiraiya/internal/metrics"
	pkgmetrics "github.com/haguru/jiraiya/pkg/metrics"
	"github.com/haguru/jiraiya/pkg/zerolog"
)

func TestLoggingMiddleware(t *testing.T) {
	tests := []struct {
		name      string
		handler   http.HandlerFunc
		wantCode  float64
		wantLevel string
	}{
		{
			name: "implicit 200",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("ok"))
			},
			wantCode:  200,
			wantLevel: "info",
		},
		{
			name: "explicit 404",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			wantCode:  404,
			wantLevel: "info",
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantCode:  500,
			wantLevel: "error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := zerolog.NewWithWriter("test", &buf)
			logger.SetLevel("debug")

			rr := httptest.NewRecorder()
			LoggingMiddleware(logger, nil)(tt.handler).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/posts/", nil))

			var entry map[string]interface{}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, "GET", entry["method"])
			assert.Equal(t, "/api/posts/", entry["path"])
			assert.Equal(t, tt.wantCode, entry["status"])
			assert.NotEmpty(t, entry["request_id"])
			assert.Equal(t, entry["request_id"], rr.Header().Get(RequestIDHeader))
		})
	}
}

func TestLoggingMiddleware_RequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.NewWithWriter("test", &buf)
	logger.SetLevel("debug")

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		LoggerFromContext(r.Context(), zerolog.NewNopLogger()).Info("inside handler")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	LoggingMiddleware(logger, nil)(handler).ServeHTTP(httptest.NewRecorder(), req)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	for _, line := range lines {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(line, &entry))
		assert.Equal(t, "req-42", entry["request_id"])
	}
}

func TestLoggerFromContext_Fallback(t *testing.T) {
	fallback := zerolog.NewNopLogger()
	assert.Same(t, fallback, LoggerFromContext(context.Background(), fallback))
}

func TestLoggingMiddleware_InFlightGauge(t *testing.T) {
	m := pkgmetrics.NewMetrics("test_service")
	apimetrics.RegisterAPIMetrics(m)

	var during float64
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		during = gaugeValue(t, m, apimetrics.HTTPRequestsInFlight)
	})

	LoggingMiddleware(zerolog.NewNopLogger(), m)(handler).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, float64(1), during)
	assert.Equal(t, float64(0), gaugeValue(t, m, apimetrics.HTTPRequestsInFlight))
}

func gaugeValue(t *testing.T, m interfaces.Metrics, name string) float64 {
	t.Helper()
	families, err := m.GetRegistry().Gather()
	require.NoError(t, err)
	for _, f := range families {
		if strings.HasSuffix(f.GetName(), "_"+name) {
			return f.GetMetric()[0].GetGauge().GetValue()
		}
	}
	t.Fatalf("gauge %s not registered", name)
	return 0
}

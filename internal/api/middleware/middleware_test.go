package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anstrom/sortbench/internal/logging"
	"github.com/anstrom/sortbench/internal/metrics"
)

func createTestLogger(buf *bytes.Buffer) *logging.Logger {
	return logging.NewWithWriter(logging.DefaultConfig(), buf, slog.LevelDebug)
}

func TestLoggingMiddleware(t *testing.T) {
	tests := []struct {
		name      string
		method    string
		path      string
		requestID string
	}{
		{name: "GET request", method: "GET", path: "/api/v1/health"},
		{name: "results request", method: "GET", path: "/api/v1/results"},
		{name: "propagated request ID", method: "GET", path: "/metrics", requestID: "req_upstream"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				requestID := GetRequestID(r)
				assert.True(t, strings.HasPrefix(requestID, "req_"))

				startTime, ok := r.Context().Value(StartTimeKey).(time.Time)
				assert.True(t, ok)
				assert.Less(t, time.Since(startTime), time.Second)

				w.WriteHeader(http.StatusTeapot)
				_, _ = w.Write([]byte("test response"))
			})

			handler := Logging(createTestLogger(&buf))(testHandler)

			req := httptest.NewRequest(tt.method, tt.path, http.NoBody)
			if tt.requestID != "" {
				req.Header.Set(requestIDHeader, tt.requestID)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, http.StatusTeapot, w.Code)
			assert.Equal(t, "test response", w.Body.String())

			header := w.Header().Get(requestIDHeader)
			if tt.requestID != "" {
				assert.Equal(t, tt.requestID, header)
			} else {
				assert.True(t, strings.HasPrefix(header, "req_"))
			}

			logged := buf.String()
			assert.Contains(t, logged, "HTTP request")
			assert.Contains(t, logged, "status_code=418")
			assert.Contains(t, logged, tt.path)
		})
	}
}

func TestMetricsMiddleware(t *testing.T) {
	pm := metrics.NewPrometheusMetrics()

	router := mux.NewRouter()
	router.Use(Metrics(pm))
	router.HandleFunc("/api/v1/results/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	router.HandleFunc("/api/v1/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, path := range []string{"/api/v1/results/a", "/api/v1/results/b", "/api/v1/health"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", path, http.NoBody))
	}

	count, err := testutil.GatherAndCount(pm.GetRegistry(), "sortbench_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "one series per route template and status")

	expected := `
# HELP sortbench_http_requests_total Total number of HTTP requests served
# TYPE sortbench_http_requests_total counter
sortbench_http_requests_total{method="GET",route="/api/v1/health",status="200"} 1
sortbench_http_requests_total{method="GET",route="/api/v1/results/{id}",status="404"} 2
`
	assert.NoError(t, testutil.GatherAndCompare(pm.GetRegistry(), strings.NewReader(expected),
		"sortbench_http_requests_total"))
}

func TestMetricsMiddleware_NilMetrics(t *testing.T) {
	handler := Metrics(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/", http.NoBody))
	assert.Equal(t, http.StatusAccepted, w.Code)
}

func TestRecoveryMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := createTestLogger(&buf)

	handler := Logging(nil)(Recovery(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/results", http.NoBody))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Internal server error", body["error"])
	assert.Equal(t, w.Header().Get(requestIDHeader), body["request_id"])
	assert.Contains(t, buf.String(), "panic recovered")
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	handler := SecurityHeaders()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/", http.NoBody))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, w.Header().Get("Referrer-Policy"))
}

func TestGetRequestID(t *testing.T) {
	assert.Equal(t, "unknown", GetRequestID(httptest.NewRequest("GET", "/", http.NoBody)))
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{"forwarded for", map[string]string{"X-Forwarded-For": "10.0.0.1, 10.0.0.2"}, "192.0.2.1:1234", "10.0.0.1"},
		{"real ip", map[string]string{"X-Real-IP": "10.0.0.9"}, "192.0.2.1:1234", "10.0.0.9"},
		{"remote addr", nil, "192.0.2.1:1234", "192.0.2.1"},
		{"ipv6 remote addr", nil, "[::1]:1234", "[::1]"},
		{"bare remote addr", nil, "192.0.2.7", "192.0.2.7"},
		{"nothing", nil, "", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", http.NoBody)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, getClientIP(req))
		})
	}
}

func TestResponseWriter(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rec, statusCode: http.StatusOK}

	rw.WriteHeader(http.StatusCreated)
	n, err := rw.Write([]byte("hello"))
	require.NoError(t, err)

	assert.Equal(t, 5, n)
	assert.Equal(t, http.StatusCreated, rw.statusCode)
	assert.Equal(t, 5, rw.size)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trogers1052/trading-position-modeler/internal/models"
)

func TestRateLimit(t *testing.T) {
	h := SetupRoutes(NewHandler(newStubService(), nil, zerolog.Nop()), RateLimit(0.001, 2))

	for i := 0; i < 2; i++ {
		rec := doRequest(t, h, http.MethodGet, "/health", nil)
		assert.Equal(t, http.StatusOK, rec.Code, "request %d within burst", i)
	}

	rec := doRequest(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	var body errorResponse
	decodeBody(t, rec, &body)
	assert.Equal(t, "rate limit exceeded", body.Error)
}

func TestRateLimit_Disabled(t *testing.T) {
	h := SetupRoutes(NewHandler(newStubService(), nil, zerolog.Nop()), RateLimit(0, 0))

	for i := 0; i < 50; i++ {
		rec := doRequest(t, h, http.MethodGet, "/health", nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	h := SetupRoutes(NewHandler(newStubService(), nil, zerolog.Nop()), RequestLogger(logger))

	rec := doRequest(t, h, http.MethodGet, "/api/v1/positions/missing", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "HTTP request", entry["message"])
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/api/v1/positions/missing", entry["path"])
	assert.Equal(t, float64(http.StatusNotFound), entry["status"])
	assert.NotEmpty(t, entry["request_id"])
}

func TestRateLimit_CoversUnmatchedRoutes(t *testing.T) {
	h := SetupRoutes(NewHandler(newStubService(), nil, zerolog.Nop()), RateLimit(0.001, 1))

	rec := doRequest(t, h, http.MethodGet, "/api/v1/stocks", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, h, http.MethodGet, "/api/v1/stocks", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRequestLogger_CoversUnmatchedRoutes(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{"unknown path", http.MethodGet, "/api/v1/stocks", http.StatusNotFound},
		{"wrong method", http.MethodPost, "/health", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := SetupRoutes(NewHandler(newStubService(), nil, zerolog.Nop()), RequestLogger(zerolog.New(&buf)))

			rec := doRequest(t, h, tt.method, tt.path, nil)
			require.Equal(t, tt.status, rec.Code)

			var entry map[string]interface{}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.path, entry["path"])
			assert.Equal(t, float64(tt.status), entry["status"])
			assert.NotEmpty(t, entry["request_id"])
		})
	}
}

func TestWithCORS(t *testing.T) {
	h := WithCORS(SetupRoutes(NewHandler(newStubService(), nil, zerolog.Nop())), []string{"http://localhost:4200"})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/positions", nil)
		req.Header.Set("Origin", "http://localhost:4200")
		req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, "http://localhost:4200", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPatch)
	})

	t.Run("disallowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "http://evil.example")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRecoverer(t *testing.T) {
	svc := &panickingService{stubService: newStubService()}
	h := SetupRoutes(NewHandler(svc, nil, zerolog.Nop()))

	rec := doRequest(t, h, http.MethodGet, "/api/v1/positions", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

type panickingService struct {
	*stubService
}

func (s *panickingService) List(_ context.Context, _ string) ([]*models.PositionInput, error) {
	panic("boom")
}

package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AchilleasB/assignx/access-gate-service/internal/adapters/handler"
	"github.com/AchilleasB/assignx/access-gate-service/internal/mocks"
)

type stubDB struct{ err error }

func (s stubDB) PingContext(ctx context.Context) error { return s.err }

func TestHealthHandler_Health_ProcessCheck(t *testing.T) {
	h := handler.NewHealthHandler(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	h.Health(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var response handler.HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Status != "UP" {
		t.Errorf("expected status 'UP', got %q", response.Status)
	}
	if _, ok := response.Checks["process"]; !ok {
		t.Error("expected 'process' check in response")
	}
}

func TestHealthHandler_Live(t *testing.T) {
	h := handler.NewHealthHandler(nil, nil)

	rec := httptest.NewRecorder()
	h.Live(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestHealthHandler_Ready(t *testing.T) {
	tests := []struct {
		name       string
		db         handler.Pinger
		redisErr   error
		wantStatus int
		wantDown   string
	}{
		{name: "all up", db: stubDB{}, wantStatus: http.StatusOK},
		{name: "database down", db: stubDB{err: errors.New("refused")}, wantStatus: http.StatusServiceUnavailable, wantDown: "database"},
		{name: "redis down", db: stubDB{}, redisErr: errors.New("refused"), wantStatus: http.StatusServiceUnavailable, wantDown: "redis"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			redis := mocks.NewMockRedisClient()
			redis.PingError = tt.redisErr
			h := handler.NewHealthHandler(tt.db, redis)

			rec := httptest.NewRecorder()
			h.Ready(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			var response handler.HealthResponse
			if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if tt.wantDown != "" && response.Checks[tt.wantDown].Status != "DOWN" {
				t.Errorf("expected %s check DOWN, got %+v", tt.wantDown, response.Checks)
			}
		})
	}
}

func TestHealthHandler_Ready_NoDependencies(t *testing.T) {
	h := handler.NewHealthHandler(nil, nil)

	rec := httptest.NewRecorder()
	h.Ready(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status %d, got %d", http.StatusServiceUnavailable, rec.Code)
	}
}

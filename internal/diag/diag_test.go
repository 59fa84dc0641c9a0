package diag

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func TestGetHealth_NoStorePing(t *testing.T) {
	h := NewHandler(zap.NewNop(), nil)
	router := NewRouter(h, nil)

	req := httptest.NewRequest("GET", "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var status HealthStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if status.Status != "ok" {
		t.Errorf("status = %q, want ok", status.Status)
	}
	if status.Store != "" {
		t.Errorf("store = %q, want empty without a probe", status.Store)
	}
}

func TestGetHealth_StorePingFailureIsDegradedNotFatal(t *testing.T) {
	h := NewHandler(zap.NewNop(), func() error { return errors.New("connection refused") })
	router := NewRouter(h, nil)

	req := httptest.NewRequest("GET", "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (app works from empty state)", rec.Code)
	}
	var status HealthStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if status.Store != "unreachable" {
		t.Errorf("store = %q, want unreachable", status.Store)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := NewHandler(zap.NewNop(), nil)
	router := NewRouter(h, nil)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.Len() == 0 {
		t.Error("expected metrics exposition output")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	h := NewHandler(zap.NewNop(), nil)
	limiter := rate.NewLimiter(rate.Limit(1), 1)
	router := NewRouter(h, limiter)

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest("GET", "/healthz", nil))
	if first.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", first.Code)
	}

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest("GET", "/healthz", nil))
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", second.Code)
	}
}

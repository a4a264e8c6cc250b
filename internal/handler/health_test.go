package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/repocat/repocat/internal/handler"
)

type fakeChecker struct {
	err error
}

func (f *fakeChecker) Ping(ctx context.Context) error {
	return f.err
}

func TestHealthz(t *testing.T) {
	h := handler.NewHealthHandler(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.Healthz(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	resp := decodeBody[handler.HealthResponse](t, rec)
	if resp.Status != "ok" {
		t.Errorf("status = %q, want %q", resp.Status, "ok")
	}
}

func TestReadyz(t *testing.T) {
	cases := []struct {
		name       string
		db, cache  *fakeChecker
		wantCode   int
		wantStatus string
	}{
		{"all healthy", &fakeChecker{}, &fakeChecker{}, http.StatusOK, "ok"},
		{"db down", &fakeChecker{err: errors.New("connection refused")}, &fakeChecker{}, http.StatusServiceUnavailable, "unhealthy"},
		{"cache down", &fakeChecker{}, &fakeChecker{err: errors.New("dial timeout")}, http.StatusServiceUnavailable, "unhealthy"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := handler.NewHealthHandler(tc.db, tc.cache)

			req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
			rec := httptest.NewRecorder()
			h.Readyz(rec, req)

			if rec.Code != tc.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantCode)
			}
			resp := decodeBody[handler.HealthResponse](t, rec)
			if resp.Status != tc.wantStatus {
				t.Errorf("status = %q, want %q", resp.Status, tc.wantStatus)
			}
		})
	}
}

func TestReadyz_NotConfigured(t *testing.T) {
	h := handler.NewHealthHandler(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	h.Readyz(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	resp := decodeBody[handler.HealthResponse](t, rec)
	if resp.Checks["postgres"] != "not configured" {
		t.Errorf("postgres check = %q, want %q", resp.Checks["postgres"], "not configured")
	}
}

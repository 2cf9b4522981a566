package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func serveReady(t *testing.T, h *ReadinessHandler) (*httptest.ResponseRecorder, readinessResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()
	if err := h.Readiness(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Readiness: %v", err)
	}
	var body readinessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return rec, body
}

func TestReadiness_AllHealthy(t *testing.T) {
	ok := pingFunc(func(context.Context) error { return nil })
	rec, body := serveReady(t, NewReadinessHandler(Check{"mongodb", ok}, Check{"cache", ok}))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body.Status != "ok" || len(body.Dependencies) != 2 {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestReadiness_Degraded(t *testing.T) {
	ok := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("connection refused") })
	rec, body := serveReady(t, NewReadinessHandler(Check{"mongodb", ok}, Check{"cache", down}))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if body.Status != "degraded" {
		t.Errorf("status field = %q, want degraded", body.Status)
	}
	if got := body.Dependencies["cache"]; got.Status != "unhealthy" || got.Error == "" {
		t.Errorf("cache dependency = %+v", got)
	}
	if got := body.Dependencies["mongodb"]; got.Status != "ok" {
		t.Errorf("mongodb dependency = %+v", got)
	}
}

func TestLiveness(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	if err := NewHealthHandler().Liveness(e.NewContext(req, rec)); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

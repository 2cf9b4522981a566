package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func TestRequestLogger_LevelsByStatus(t *testing.T) {
	tests := []struct {
		status    int
		wantLevel string
	}{
		{http.StatusOK, "info"},
		{http.StatusNotFound, "warn"},
		{http.StatusInternalServerError, "error"},
	}

	for _, tc := range tests {
		var buf bytes.Buffer
		e := echo.New()
		e.Use(RequestID())
		e.Use(RequestLogger(zerolog.New(&buf)))
		e.GET("/x", func(c echo.Context) error {
			if tc.status >= 400 {
				return echo.NewHTTPError(tc.status, "boom")
			}
			return c.NoContent(tc.status)
		})

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

		if rec.Code != tc.status {
			t.Fatalf("status = %d, want %d", rec.Code, tc.status)
		}

		var line map[string]any
		if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
			t.Fatalf("decode %q: %v", buf.String(), err)
		}
		if line["level"] != tc.wantLevel {
			t.Errorf("status %d: level = %v, want %s", tc.status, line["level"], tc.wantLevel)
		}
		if line["status"] != float64(tc.status) || line["path"] != "/x" {
			t.Errorf("unexpected line: %v", line)
		}
		if id, _ := line["request_id"].(string); id == "" || id != rec.Header().Get(echo.HeaderXRequestID) {
			t.Errorf("request_id = %v, header = %q", line["request_id"], rec.Header().Get(echo.HeaderXRequestID))
		}
	}
}

func TestRequestID_KeepsIncomingHeader(t *testing.T) {
	e := echo.New()
	e.Use(RequestID())
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderXRequestID, "abc-123")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if got := rec.Header().Get(echo.HeaderXRequestID); got != "abc-123" {
		t.Errorf("X-Request-ID = %q, want abc-123", got)
	}
}

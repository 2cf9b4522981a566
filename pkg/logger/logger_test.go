package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNew_ServiceField(t *testing.T) {
	var buf bytes.Buffer

	log := New(Options{Level: "debug", Output: &buf, Service: "auth-service"})
	log.Debug().Str("user_id", "u1").Msg("hello")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	if line["service"] != "auth-service" {
		t.Errorf("service = %v", line["service"])
	}
	if line["message"] != "hello" || line["user_id"] != "u1" {
		t.Errorf("unexpected line: %v", line)
	}
	if _, ok := line["time"]; !ok {
		t.Error("missing time field")
	}
}

func TestNew_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer

	log := New(Options{Level: "warn", Output: &buf})
	log.Info().Msg("dropped")
	log.Warn().Msg("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") || !strings.Contains(out, "kept") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestNew_IndependentLoggers(t *testing.T) {
	var a, b bytes.Buffer

	la := New(Options{Output: &a, Service: "a"})
	la.Info().Msg("x")
	lb := New(Options{Output: &b, Service: "b"})
	lb.Info().Msg("y")

	if !strings.Contains(a.String(), `"service":"a"`) || !strings.Contains(b.String(), `"service":"b"`) {
		t.Errorf("a=%q b=%q", a.String(), b.String())
	}
}

func TestNew_Pretty(t *testing.T) {
	var buf bytes.Buffer

	log := New(Options{Output: &buf, Pretty: true})
	log.Info().Msg("readable")

	out := buf.String()
	if !strings.Contains(out, "readable") || strings.HasPrefix(out, "{") {
		t.Errorf("expected console output, got %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		" warn ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"bogus":   zerolog.InfoLevel,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

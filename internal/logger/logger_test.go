package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func captureDefault(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := GetDefault()
	SetDefaultLogger(New(&Config{Level: "debug", Format: "json", Output: &buf, ServiceName: "test"}))
	t.Cleanup(func() { SetDefaultLogger(prev) })
	return &buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	line := strings.TrimSpace(buf.String())
	var out map[string]interface{}
	if err := json.Unmarshal([]byte(line), &out); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, line)
	}
	return out
}

func TestContextFieldsPropagate(t *testing.T) {
	buf := captureDefault(t)

	ctx := SetRequestID(context.Background(), "req-1")
	ctx = SetQuoteID(ctx, "q-1")
	CtxInfo(ctx, "hello %s", "world")

	entry := decodeLine(t, buf)
	if entry["message"] != "hello world" {
		t.Errorf("unexpected message: %v", entry["message"])
	}
	if entry[FieldRequestID] != "req-1" {
		t.Errorf("expected request_id req-1, got %v", entry[FieldRequestID])
	}
	if entry[FieldQuoteID] != "q-1" {
		t.Errorf("expected quote_id q-1, got %v", entry[FieldQuoteID])
	}
	if entry["service"] != "test" {
		t.Errorf("expected service test, got %v", entry["service"])
	}

	if got := GetRequestID(ctx); got != "req-1" {
		t.Errorf("GetRequestID() = %q", got)
	}
	if got := GetContainerID(ctx); got != "" {
		t.Errorf("GetContainerID() = %q, want empty", got)
	}
}

func TestEntryMetricFields(t *testing.T) {
	buf := captureDefault(t)

	With(Fields{FieldTheme: "money"}).WithStatus("ok").Since(time.Now().Add(-12 * time.Millisecond)).WithCount(3).Info(nil, "done")

	entry := decodeLine(t, buf)
	if entry[FieldStatus] != "ok" {
		t.Errorf("expected status ok, got %v", entry[FieldStatus])
	}
	if ms, _ := entry[FieldDurationMs].(float64); ms < 12 {
		t.Errorf("expected duration_ms >= 12, got %v", entry[FieldDurationMs])
	}
	if entry[FieldTheme] != "money" {
		t.Errorf("expected theme money, got %v", entry[FieldTheme])
	}
	if entry[FieldCount] != float64(3) {
		t.Errorf("expected count 3, got %v", entry[FieldCount])
	}
}

func TestEntryWithDoesNotMutateParent(t *testing.T) {
	parent := With(Fields{"a": 1})
	child := parent.With(Fields{"b": 2})

	if _, ok := parent.fields["b"]; ok {
		t.Error("parent entry was mutated")
	}
	if len(child.fields) != 2 {
		t.Errorf("expected 2 fields on child, got %d", len(child.fields))
	}
}

func TestNewFromEnv_ExplicitOutput(t *testing.T) {
	var buf bytes.Buffer
	l := NewFromEnv(&EnvConfig{Level: "warn", Format: "text", Output: &buf, ServiceName: "svc"})

	l.Info("hidden")
	l.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info line should be filtered at warn level")
	}
	if !strings.Contains(out, "shown") {
		t.Error("warn line missing")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FILE_ONLY", "true")
	t.Setenv("LOG_MAX_SIZE", "5")
	t.Setenv("APP_ENV", "prod")

	cfg := LoadFromEnv()
	if cfg.Level != "debug" || !cfg.LogFileOnly || cfg.MaxSize != 5 || cfg.Environment != "prod" {
		t.Errorf("env not applied: %+v", cfg)
	}
	if cfg.Format != "json" || cfg.ServiceName != "reelquote" || cfg.MaxBackups != 7 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestSetContainerID(t *testing.T) {
	buf := captureDefault(t)

	ctx := SetContainerID(context.Background(), "17900000001")
	if got := GetContainerID(ctx); got != "17900000001" {
		t.Errorf("GetContainerID() = %q", got)
	}
	CtxInfo(ctx, "polled")

	if entry := decodeLine(t, buf); entry[FieldContainerID] != "17900000001" {
		t.Errorf("container_id missing from log line: %v", entry)
	}
}

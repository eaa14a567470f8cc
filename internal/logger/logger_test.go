package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/jwebster45206/musilife/internal/config"
)

func TestNew_Format(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	var buf bytes.Buffer
	log := New(&config.Config{Environment: "production", LogLevel: slog.LevelInfo}, &buf)
	WithRequestID(log, "req-1").Info("hello", "age", 15)

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("production output is not JSON: %v (%q)", err, buf.String())
	}
	if line["request_id"] != "req-1" {
		t.Errorf("request_id = %v, want req-1", line["request_id"])
	}

	buf.Reset()
	log = New(&config.Config{Environment: "development", LogLevel: slog.LevelWarn}, &buf)
	log.Info("dropped")
	WithError(log, errors.New("boom")).Warn("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Errorf("info line written at warn level: %q", out)
	}
	if !strings.Contains(out, "error=boom") {
		t.Errorf("text output missing error attr: %q", out)
	}
}

package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestRunIDHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := WithRunID(slog.New(slog.NewJSONHandler(&buf, nil)), "run-123")
	logger.With("extra", "value").Info("test message")

	output := buf.String()
	if !strings.Contains(output, `"run_id":"run-123"`) {
		t.Errorf("expected run_id in output, got: %s", output)
	}
	if !strings.Contains(output, `"extra":"value"`) {
		t.Errorf("expected extra attr in output, got: %s", output)
	}
}

func TestRunIDHandlerNilBase(t *testing.T) {
	if _, ok := newRunIDHandler(nil, "run").(NoopHandler); !ok {
		t.Error("expected NoopHandler when base is nil")
	}
	if WithRunID(nil, "run") == nil {
		t.Error("expected a usable logger for nil input")
	}
}

func TestNewRunIDIsUnique(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	if a == "" || a == b {
		t.Fatalf("expected distinct run ids, got %q and %q", a, b)
	}
}

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestDefaultIsSilent(t *testing.T) {
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("default logger should be disabled at every level")
	}
}

func TestSetLogger(t *testing.T) {
	defer SetLogger(nil)

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	Logger().Debug("applied", "op", "sharpen")
	if !strings.Contains(buf.String(), "op=sharpen") {
		t.Errorf("log output missing attribute: %q", buf.String())
	}

	SetLogger(nil)
	Logger().Error("dropped")
	if strings.Contains(buf.String(), "dropped") {
		t.Error("SetLogger(nil) should restore the silent logger")
	}
}

func TestNopHandlerDerivations(t *testing.T) {
	l := Logger().With("k", "v").WithGroup("g")
	if l.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("derived nop logger should stay disabled")
	}
}

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestDefaultLoggerDiscards(t *testing.T) {
	SetLogger(nil)
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Fatal("default logger should be disabled")
	}
}

func TestForTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	defer SetLogger(nil)

	For("Camera").Info("moved")

	out := buf.String()
	if !strings.Contains(out, "component=Camera") || !strings.Contains(out, "msg=moved") {
		t.Errorf("unexpected log output %q", out)
	}
}

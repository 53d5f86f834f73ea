package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestHandleWritesFormattedLineToFile(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}, false)

	r := slog.NewRecord(time.Now(), slog.LevelInfo, "cpu started", 0)
	if err := h.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, "cpu started") {
		t.Fatalf("output %q missing message", got)
	}
	if !strings.Contains(got, "INFO:") {
		t.Fatalf("output %q missing level", got)
	}
}

func TestSetDebugControlsStderrMirroring(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}, false)
	h.SetDebug(true)
	if !h.debug {
		t.Fatal("SetDebug(true) did not set debug flag")
	}
}

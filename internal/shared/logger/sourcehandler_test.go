package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestSourceHandler(t *testing.T) {
	tests := []struct {
		name             string
		level            slog.Level
		from             slog.Level
		shouldHaveSource bool
	}{
		{name: "INFO below warn threshold", level: slog.LevelInfo, from: slog.LevelWarn, shouldHaveSource: false},
		{name: "WARN at threshold", level: slog.LevelWarn, from: slog.LevelWarn, shouldHaveSource: true},
		{name: "ERROR above threshold", level: slog.LevelError, from: slog.LevelWarn, shouldHaveSource: true},
		{name: "DEBUG with debug threshold", level: slog.LevelDebug, from: slog.LevelDebug, shouldHaveSource: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			base := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
			l := slog.New(NewSourceHandler(base, tt.from))

			l.Log(context.Background(), tt.level, "test message")

			output := buf.String()
			hasSource := strings.Contains(output, "source=")
			if hasSource != tt.shouldHaveSource {
				t.Errorf("expected source=%v, got %v. Output: %s", tt.shouldHaveSource, hasSource, output)
			}
			if hasSource && !strings.Contains(output, "sourcehandler_test.go") {
				t.Errorf("expected source to point at the caller. Output: %s", output)
			}
		})
	}
}

func TestSourceHandlerKeepsAttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	base := slog.NewTextHandler(&buf, nil)
	l := slog.New(NewSourceHandler(base, slog.LevelError)).With("deposit_id", 42).WithGroup("request")

	l.Info("test message", "path", "/api/deposits")

	output := buf.String()
	if strings.Contains(output, "source=") {
		t.Errorf("expected no source for INFO level. Output: %s", output)
	}
	if !strings.Contains(output, "deposit_id=42") || !strings.Contains(output, "request.path=/api/deposits") {
		t.Errorf("expected attrs and group to survive wrapping. Output: %s", output)
	}
}

func TestSourceHandlerEnabled(t *testing.T) {
	base := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelInfo})
	handler := NewSourceHandler(base, slog.LevelError)

	if !handler.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("expected INFO level to be enabled")
	}
	if handler.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("expected DEBUG level to be disabled")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARNING": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

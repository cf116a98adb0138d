package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"DEBUG": slog.LevelDebug,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"info":  slog.LevelInfo,
		"":      slog.LevelInfo,
		"loud":  slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestJSONOutputRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, "warn", true)
	t.Cleanup(func() { defaultLogger = nil })

	Info("hidden")
	With("component", "test").Warn("shown", "side", "top")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line written at warn level: %s", out)
	}
	if !strings.Contains(out, `"component":"test"`) || !strings.Contains(out, `"side":"top"`) {
		t.Fatalf("missing attributes in %s", out)
	}
}

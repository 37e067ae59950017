package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_Formats(t *testing.T) {
	tests := []struct {
		name     string
		format   Format
		wantJSON bool
	}{
		{"json", FormatJSON, true},
		{"text", FormatText, false},
		{"unknown falls back to text", Format("logfmt"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(Config{Level: slog.LevelInfo, Format: tt.format, Output: &buf})

			logger.Info("resolving", "schema", "confpipe.yaml", "keys", 3)

			out := buf.String()
			var parsed map[string]any
			isJSON := json.Unmarshal([]byte(out), &parsed) == nil
			if isJSON != tt.wantJSON {
				t.Fatalf("JSON output = %v, want %v: %q", isJSON, tt.wantJSON, out)
			}
			if tt.wantJSON {
				if parsed["msg"] != "resolving" || parsed["schema"] != "confpipe.yaml" || parsed["keys"] != float64(3) {
					t.Errorf("unexpected record: %v", parsed)
				}
				return
			}
			for _, want := range []string{"INFO", "resolving", "schema=confpipe.yaml", "keys=3"} {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q: %q", want, out)
				}
			}
		})
	}
}

func TestNew_DefaultsToStderr(t *testing.T) {
	if New(Config{Level: slog.LevelInfo}) == nil {
		t.Fatal("expected non-nil logger")
	}
	if Default() == nil {
		t.Fatal("expected non-nil default logger")
	}
}

func TestNewDiscard(t *testing.T) {
	logger := NewDiscard()
	logger.Warn("namespace for key orphan not defined", "key", "orphan")

	// Discarded loggers still report Info as enabled; output goes nowhere.
	if !logger.Enabled(t.Context(), slog.LevelInfo) {
		t.Error("discard logger should accept records")
	}
}

func TestLevelFiltering(t *testing.T) {
	levels := []slog.Level{LevelTrace, slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError}

	for verbosity := range 4 {
		configured := LevelFromVerbosity(verbosity)
		var buf bytes.Buffer
		logger := New(Config{Level: configured, Format: FormatText, Output: &buf})

		for _, level := range levels {
			buf.Reset()
			logger.Log(t.Context(), level, "stage complete")

			want := level >= configured
			if got := buf.Len() > 0; got != want {
				t.Errorf("-v x%d, level %v: output=%v, want %v", verbosity, level, got, want)
			}
		}
	}
}

func TestLevelFromVerbosity(t *testing.T) {
	tests := []struct {
		verbosity int
		want      slog.Level
	}{
		{-1, slog.LevelWarn},
		{0, slog.LevelWarn},
		{1, slog.LevelInfo},
		{2, slog.LevelDebug},
		{3, LevelTrace},
		{7, LevelTrace},
	}

	for _, tt := range tests {
		if got := LevelFromVerbosity(tt.verbosity); got != tt.want {
			t.Errorf("LevelFromVerbosity(%d) = %v, want %v", tt.verbosity, got, tt.want)
		}
	}

	if LevelTrace >= slog.LevelDebug {
		t.Error("LevelTrace should be lower than LevelDebug")
	}
}

func TestForTest(t *testing.T) {
	logger := ForTest(t)
	if !logger.Enabled(t.Context(), slog.LevelDebug) {
		t.Error("test logger should capture debug records")
	}
	logger.Debug("stage complete", "stage", "flatten")
}

func TestTestWriter(t *testing.T) {
	tw := &testWriter{t: t}

	for _, in := range []string{"line\n", "no newline", ""} {
		n, err := tw.Write([]byte(in))
		if err != nil {
			t.Fatalf("Write(%q): %v", in, err)
		}
		if n != len(in) {
			t.Errorf("Write(%q) = %d, want %d", in, n, len(in))
		}
	}
}

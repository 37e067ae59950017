package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestHandler_Line(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	now := time.Now()
	logger.Warn("namespace for key orphan not defined", "key", "orphan", "stage", "namespace")

	out := buf.String()
	if !strings.HasSuffix(out, "\n") || strings.Count(out, "\n") != 1 {
		t.Errorf("want exactly one newline-terminated line, got %q", out)
	}
	for _, want := range []string{
		now.Format(time.Kitchen),
		"WARN  namespace for key orphan not defined",
		" key=orphan stage=namespace",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestHandler_Levels(t *testing.T) {
	tests := []struct {
		level slog.Level
		label string
	}{
		{LevelTrace, "TRACE"},
		{slog.LevelDebug, "DEBUG"},
		{slog.LevelInfo, "INFO"},
		{slog.LevelError, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			var buf bytes.Buffer
			h := NewHandler(&buf, &slog.HandlerOptions{Level: LevelTrace})
			if err := h.Handle(t.Context(), slog.NewRecord(time.Time{}, tt.level, "stage complete", 0)); err != nil {
				t.Fatalf("Handle() error = %v", err)
			}
			if !strings.HasPrefix(buf.String(), tt.label) {
				t.Errorf("got %q, want prefix %q", buf.String(), tt.label)
			}
		})
	}
}

func TestHandler_Enabled(t *testing.T) {
	ctx := t.Context()
	h := NewHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn})

	if h.Enabled(ctx, slog.LevelInfo) {
		t.Error("Info should be disabled at Warn")
	}
	if !h.Enabled(ctx, slog.LevelWarn) || !h.Enabled(ctx, slog.LevelError) {
		t.Error("Warn and Error should be enabled at Warn")
	}

	// nil options default to Info
	def := NewHandler(&bytes.Buffer{}, nil)
	if def.Enabled(ctx, slog.LevelDebug) || !def.Enabled(ctx, slog.LevelInfo) {
		t.Error("nil options should enable Info and above")
	}
}

func TestHandler_NoTime(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, nil)

	if err := h.Handle(t.Context(), slog.NewRecord(time.Time{}, slog.LevelInfo, "no time", 0)); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if got := buf.String(); got != "INFO  no time\n" {
		t.Errorf("got %q", got)
	}
}

func TestHandler_Redaction(t *testing.T) {
	tests := []struct {
		name    string
		args    []any
		want    string
		leaking string
	}{
		{"sensitive key", []any{"api_key", "secret12345"}, "api_key=****2345", "secret12345"},
		{"key match ignores case", []any{"Token", "abcdefgh"}, "Token=****efgh", "abcdefgh"},
		{"token prefix under safe key", []any{"value", "ghp_secrettoken"}, "value=****oken", "ghp_secrettoken"},
		{"short secret", []any{"password", "abc"}, "password=********", "=abc"},
		{"non-string secret", []any{"db_password", 123456}, "db_password=****3456", "123456"},
		{"key names are not secret", []any{"key", "db_password"}, "key=db_password", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			slog.New(NewHandler(&buf, nil)).Info("cannot coerce", tt.args...)

			out := buf.String()
			if !strings.Contains(out, tt.want) {
				t.Errorf("output %q missing %q", out, tt.want)
			}
			if tt.leaking != "" && strings.Contains(out, tt.leaking) {
				t.Errorf("output %q leaks %q", out, tt.leaking)
			}
		})
	}
}

func TestHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(NewHandler(&buf, nil))
	logger := base.With("schema", "confpipe.yaml")

	logger.Info("resolving", "keys", 6)
	if !strings.Contains(buf.String(), "schema=confpipe.yaml keys=6") {
		t.Errorf("got %q", buf.String())
	}

	// The parent logger is unaffected.
	buf.Reset()
	base.Info("resolving")
	if strings.Contains(buf.String(), "schema=") {
		t.Errorf("parent logger picked up attrs: %q", buf.String())
	}
}

func TestHandler_Groups(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, nil)
	logger := slog.New(h).WithGroup("run").With("schema", "confpipe.yaml")

	logger.Info("resolved", slog.Group("stage", slog.String("name", "flatten")), "keys", 3)

	out := buf.String()
	for _, want := range []string{"run.schema=confpipe.yaml", "run.stage.name=flatten", "run.keys=3"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
	if h.WithGroup("") != slog.Handler(h) {
		t.Error("empty group should return the handler itself")
	}
}

func TestHandler_Concurrent(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, nil))

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Go(func() {
			logger.Info("stage complete", "run", i)
		})
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 20 {
		t.Fatalf("got %d lines, want 20", len(lines))
	}
	for _, line := range lines {
		if !strings.Contains(line, "INFO  stage complete run=") {
			t.Errorf("interleaved line %q", line)
		}
	}
}

package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/thoreinstein/confpipe/internal/diag"
)

// palette holds the colors used on a terminal. A nil palette writes plain text.
type palette struct {
	time  *color.Color
	key   *color.Color
	trace *color.Color
	debug *color.Color
	info  *color.Color
	warn  *color.Color
	error *color.Color
}

func newPalette() *palette {
	return &palette{
		time:  color.New(color.FgHiBlack),
		key:   color.New(color.FgCyan),
		trace: color.New(color.FgHiBlack),
		debug: color.New(color.FgMagenta),
		info:  color.New(color.FgGreen),
		warn:  color.New(color.FgYellow),
		error: color.New(color.FgRed, color.Bold),
	}
}

func (p *palette) level(l slog.Level) *color.Color {
	switch {
	case l >= slog.LevelError:
		return p.error
	case l >= slog.LevelWarn:
		return p.warn
	case l >= slog.LevelInfo:
		return p.info
	case l >= slog.LevelDebug:
		return p.debug
	default:
		return p.trace
	}
}

// Handler is a slog.Handler for people reading a terminal: one line per
// record as "3:04PM WARN  message key=value", colored when the writer
// supports it. Secret-looking values are masked.
type Handler struct {
	opts   slog.HandlerOptions
	out    io.Writer
	mu     *sync.Mutex
	colors *palette
	attrs  []slog.Attr // from WithAttrs, already group-qualified
	groups []string
}

// NewHandler creates a Handler writing to out.
func NewHandler(out io.Writer, opts *slog.HandlerOptions) *Handler {
	h := &Handler{out: out, mu: &sync.Mutex{}}
	if opts != nil {
		h.opts = *opts
	}
	if SupportsColor(out) {
		h.colors = newPalette()
	}
	return h
}

// Enabled reports whether the handler handles records at the given level.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

// Handle writes r as a single line.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	if !r.Time.IsZero() {
		buf.WriteString(h.paint(h.timeColor(), r.Time.Format(time.Kitchen)))
		buf.WriteByte(' ')
	}

	label := levelLabel(r.Level)
	if h.colors != nil {
		label = h.colors.level(r.Level).Sprint(label)
	}
	fmt.Fprintf(&buf, "%-5s %s", label, r.Message)

	for _, a := range h.attrs {
		h.writeAttr(&buf, "", a)
	}
	prefix := h.prefix()
	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(&buf, prefix, a)
		return true
	})
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(buf.Bytes())
	return err
}

// levelLabel names LevelTrace, which slog would print as "DEBUG-4".
func levelLabel(l slog.Level) string {
	if l == LevelTrace {
		return "TRACE"
	}
	return l.String()
}

func (h *Handler) timeColor() *color.Color {
	if h.colors == nil {
		return nil
	}
	return h.colors.time
}

func (h *Handler) paint(c *color.Color, s string) string {
	if c == nil {
		return s
	}
	return c.Sprint(s)
}

// prefix joins the open groups into a dotted key prefix.
func (h *Handler) prefix() string {
	if len(h.groups) == 0 {
		return ""
	}
	return strings.Join(h.groups, ".") + "."
}

func (h *Handler) writeAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			h.writeAttr(buf, prefix, ga)
		}
		return
	}

	key := prefix + a.Key
	if h.colors != nil {
		key = h.colors.key.Sprint(key)
	}
	fmt.Fprintf(buf, " %s=%v", key, redact(a.Key, a.Value.Any()))
}

// redact masks values under sensitive keys and strings carrying a known
// token prefix.
func redact(key string, value any) any {
	if diag.ShouldMask(key) {
		return diag.MaskValue(fmt.Sprint(value))
	}
	if s, ok := value.(string); ok && diag.ContainsTokenPrefix(s) {
		return diag.MaskValue(s)
	}
	return value
}

// WithAttrs returns a Handler that writes attrs on every record. Attrs added
// inside a group keep that group's prefix.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	next := *h
	next.attrs = make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(next.attrs, h.attrs)

	group := strings.Join(h.groups, ".")
	for _, a := range attrs {
		if group != "" {
			a = slog.Group(group, a)
		}
		next.attrs = append(next.attrs, a)
	}
	return &next
}

// WithGroup returns a Handler that qualifies later keys with name,
// e.g. "stage.key=value".
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.groups = append(append(make([]string, 0, len(h.groups)+1), h.groups...), name)
	return &next
}

package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestSupportsColor(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		isTTY bool
		want  bool
	}{
		{"terminal", map[string]string{"TERM": "xterm-256color"}, true, true},
		{"terminal without TERM", nil, true, true},
		{"NO_COLOR set", map[string]string{"NO_COLOR": "1"}, true, false},
		{"NO_COLOR empty still counts", map[string]string{"NO_COLOR": ""}, true, false},
		{"dumb terminal", map[string]string{"TERM": "dumb"}, true, false},
		{"pipe", nil, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookup := func(k string) (string, bool) {
				v, ok := tt.env[k]
				return v, ok
			}
			if got := supportsColor(lookup, tt.isTTY); got != tt.want {
				t.Errorf("supportsColor() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsTTY_NonFile(t *testing.T) {
	if IsTTY(&bytes.Buffer{}) {
		t.Error("a buffer is not a terminal")
	}
	if IsTTY(strings.NewReader("port\n")) {
		t.Error("a string reader is not a terminal")
	}
	if IsTTY(nil) {
		t.Error("nil is not a terminal")
	}
	if IsInteractive(strings.NewReader(""), &bytes.Buffer{}) {
		t.Error("piped prompt is not interactive")
	}
}

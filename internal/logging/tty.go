package logging

import (
	"io"
	"os"

	"golang.org/x/term"
)

// fder is satisfied by *os.File and wrappers that expose a descriptor.
type fder interface {
	Fd() uintptr
}

// IsTTY reports whether v is a terminal. v may be a reader or a writer;
// anything without an Fd method is not a terminal.
func IsTTY(v any) bool {
	f, ok := v.(fder)
	return ok && term.IsTerminal(int(f.Fd()))
}

// IsInteractive reports whether both ends of a prompt are terminals.
func IsInteractive(in io.Reader, out io.Writer) bool {
	return IsTTY(in) && IsTTY(out)
}

// SupportsColor reports whether ANSI colors should be written to w.
// NO_COLOR (https://no-color.org) and TERM=dumb turn colors off.
func SupportsColor(w io.Writer) bool {
	return supportsColor(os.LookupEnv, IsTTY(w))
}

func supportsColor(lookup func(string) (string, bool), isTTY bool) bool {
	if _, ok := lookup("NO_COLOR"); ok {
		return false
	}
	if v, _ := lookup("TERM"); v == "dumb" {
		return false
	}
	return isTTY
}

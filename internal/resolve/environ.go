package resolve

import "strings"

// Environment maps variable names to raw values. The core never reads the
// process environment itself; callers build an Environment and pass it in.
type Environment map[string]string

// EnvironmentFromList converts an environ slice (["KEY=VALUE", ...]) into an
// Environment. Values may contain "="; entries without "=" are skipped.
func EnvironmentFromList(environ []string) Environment {
	env := make(Environment, len(environ))
	for _, entry := range environ {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			continue
		}
		env[key] = value
	}
	return env
}

// Lookup returns the value of name when it is set to a non-empty string.
func (e Environment) Lookup(name string) (string, bool) {
	v, ok := e[name]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Merge layers envs left to right; later layers win.
func Merge(envs ...Environment) Environment {
	n := 0
	for _, e := range envs {
		n += len(e)
	}
	out := make(Environment, n)
	for _, e := range envs {
		for k, v := range e {
			out[k] = v
		}
	}
	return out
}

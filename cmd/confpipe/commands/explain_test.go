package commands

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/thoreinstein/confpipe/internal/errors"
)

// nonInteractive forces the numbered prompt instead of the fuzzy finder.
func nonInteractive(t *testing.T) {
	t.Helper()
	orig := interactive
	interactive = func() bool { return false }
	t.Cleanup(func() { interactive = orig })
}

func TestExplain_Trace(t *testing.T) {
	dir := workspace(t)
	writeFile(t, filepath.Join(dir, "prod.yaml"), "port: 443\n")
	stubEnviron(t, "PORT=9090")

	res := execute(t, "", "explain", "port", "--profile", "prod")
	if res.err != nil {
		t.Fatalf("explain failed: %v", res.err)
	}

	want := []string{
		"key:         port",
		"type:        number",
		"env:         PORT",
		"namespaces:  net",
		"default      8080",
		"profile      443  (profile prod)",
		"environment  9090  ($PORT)",
		"namespace    kept",
		"validate     ok",
		"value: 9090 (from env)",
	}
	for _, s := range want {
		if !strings.Contains(res.stdout, s) {
			t.Errorf("output missing %q:\n%s", s, res.stdout)
		}
	}
}

func TestExplain_UnsetEnv(t *testing.T) {
	workspace(t)
	stubEnviron(t)

	res := execute(t, "", "explain", "host")
	if res.err != nil {
		t.Fatalf("explain failed: %v", res.err)
	}
	if !strings.Contains(res.stdout, `($HOST unset)`) {
		t.Errorf("expected unset env note:\n%s", res.stdout)
	}
	if !strings.Contains(res.stdout, `value: "localhost" (from default)`) {
		t.Errorf("expected default value:\n%s", res.stdout)
	}
}

func TestExplain_Dropped(t *testing.T) {
	workspace(t)
	stubEnviron(t)

	res := execute(t, "", "explain", "orphan")
	if res.err != nil {
		t.Fatalf("explain failed: %v", res.err)
	}
	for _, s := range []string{
		"namespaces:  (none)",
		"namespace    dropped",
		"namespace for key orphan not defined",
		"value: (not in result)",
	} {
		if !strings.Contains(res.stdout, s) {
			t.Errorf("output missing %q:\n%s", s, res.stdout)
		}
	}
}

func TestExplain_Required(t *testing.T) {
	workspace(t)
	stubEnviron(t)

	res := execute(t, "", "explain", "name")
	if res.err != nil {
		t.Fatalf("explain failed: %v", res.err)
	}
	if !strings.Contains(res.stdout, "value for key name must be defined (required)") {
		t.Errorf("expected required diagnostic:\n%s", res.stdout)
	}
	if !strings.Contains(res.stdout, "value: undefined") {
		t.Errorf("expected undefined value:\n%s", res.stdout)
	}
}

func TestExplain_NullFromEnvironment(t *testing.T) {
	dir := workspace(t)
	writeFile(t, filepath.Join(dir, "obj.yaml"), "limits:\n  type: object\n  env: LIMITS\n  namespace: [app]\n")
	stubEnviron(t, "LIMITS=null")

	res := execute(t, "", "explain", "limits", "--schema", "obj.yaml")
	if res.err != nil {
		t.Fatalf("explain failed: %v", res.err)
	}
	for _, want := range []string{
		"default      undefined",
		"environment  null  ($LIMITS)",
		"must be object, got null",
		"value: null (from env)",
	} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("output missing %q:\n%s", want, res.stdout)
		}
	}
}

func TestExplain_MasksSecrets(t *testing.T) {
	workspace(t)
	stubEnviron(t, "API_TOKEN=s3cr3t-value-9876")

	res := execute(t, "", "explain", "api_token")
	if res.err != nil {
		t.Fatalf("explain failed: %v", res.err)
	}
	if strings.Contains(res.stdout, "s3cr3t") {
		t.Errorf("secret leaked into output:\n%s", res.stdout)
	}
	if !strings.Contains(res.stdout, "value: ****9876") {
		t.Errorf("expected masked value:\n%s", res.stdout)
	}
	if !strings.Contains(res.stdout, "secret:      true") {
		t.Errorf("expected secret attribute:\n%s", res.stdout)
	}
}

func TestExplain_UnknownKey(t *testing.T) {
	workspace(t)
	stubEnviron(t)

	res := execute(t, "", "explain", "nope")
	if !errors.Is(res.err, errors.ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey, got %v", res.err)
	}
	if got := errors.ExitCode(res.err); got != errors.ExitUser {
		t.Errorf("ExitCode = %d, want %d", got, errors.ExitUser)
	}
}

func TestExplain_Prompt(t *testing.T) {
	nonInteractive(t)

	tests := []struct {
		name    string
		stdin   string
		wantKey string
	}{
		{"by number", "2\n", "port"},
		{"by name", "debug\n", "debug"},
		{"default first", "\n", "host"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			workspace(t)
			stubEnviron(t)

			res := execute(t, tt.stdin, "explain")
			if res.err != nil {
				t.Fatalf("explain failed: %v", res.err)
			}
			if !strings.Contains(res.stdout, "[2] port (number)") {
				t.Errorf("expected numbered list:\n%s", res.stdout)
			}
			if !strings.Contains(res.stdout, "key:         "+tt.wantKey+"\n") {
				t.Errorf("expected %s to be explained:\n%s", tt.wantKey, res.stdout)
			}
		})
	}
}

func TestExplain_PromptCancelled(t *testing.T) {
	nonInteractive(t)
	workspace(t)
	stubEnviron(t)

	res := execute(t, "", "explain")
	if res.err != nil {
		t.Fatalf("cancelled selection should not fail: %v", res.err)
	}
	if strings.Contains(res.stdout, "stages:") {
		t.Errorf("nothing should be explained:\n%s", res.stdout)
	}
}

func TestExplain_PromptInvalid(t *testing.T) {
	nonInteractive(t)
	workspace(t)
	stubEnviron(t)

	res := execute(t, "42\n", "explain")
	if got := errors.ExitCode(res.err); got != errors.ExitUser {
		t.Errorf("ExitCode = %d, want %d (err: %v)", got, errors.ExitUser, res.err)
	}
}

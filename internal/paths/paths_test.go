package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/thoreinstein/confpipe/internal/errors"
)

func TestResolveHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ResolveHome()
	if err != nil {
		t.Fatalf("ResolveHome() error = %v", err)
	}
	if got != home {
		t.Errorf("ResolveHome() = %q, want %q", got, home)
	}
}

func TestConfigHome(t *testing.T) {
	got := ConfigHome()
	if got == "" {
		t.Error("ConfigHome() returned empty string")
	}
	if !filepath.IsAbs(got) {
		t.Errorf("ConfigHome() = %q, want absolute path", got)
	}
}

func TestAppConfigDir(t *testing.T) {
	t.Run("default under config home", func(t *testing.T) {
		t.Setenv(ConfigDirEnv, "")
		want := filepath.Join(ConfigHome(), AppName)
		if got := AppConfigDir(); got != want {
			t.Errorf("AppConfigDir() = %q, want %q", got, want)
		}
	})

	t.Run("env override", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv(ConfigDirEnv, dir)
		if got := AppConfigDir(); got != dir {
			t.Errorf("AppConfigDir() = %q, want %q", got, dir)
		}
	})
}

func TestResolve(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		name    string
		path    string
		base    string
		want    string
		wantErr bool
	}{
		{name: "relative joined to base", path: "profiles", base: "/srv/app", want: "/srv/app/profiles"},
		{name: "absolute kept", path: "/etc/app/schema.yaml", base: "/srv", want: "/etc/app/schema.yaml"},
		{name: "absolute cleaned", path: "/etc/app/../app/x", base: "", want: "/etc/app/x"},
		{name: "tilde expanded", path: "~/conf", base: "/srv", want: filepath.Join(home, "conf")},
		{name: "empty rejected", path: "", wantErr: true},
		{name: "null byte rejected", path: "a\x00b", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.path, tt.base)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPath) {
					t.Errorf("Resolve() error = %v, want ErrInvalidPath", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	if err := EnsureDir(dir, 0); err != nil {
		t.Fatalf("EnsureDir() error = %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if !info.IsDir() {
		t.Error("expected directory")
	}
	// idempotent
	if err := EnsureDir(dir, 0); err != nil {
		t.Errorf("second EnsureDir() error = %v", err)
	}
}

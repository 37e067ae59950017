package profile

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/thoreinstein/confpipe/internal/errors"
)

func writeFiles(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, content := range files {
		if err := afero.WriteFile(fs, path, []byte(content), 0o644); err != nil {
			t.Fatalf("writing %s: %v", path, err)
		}
	}
	return fs
}

func TestNamed_Load(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  Data
	}{
		{
			name:  "json",
			files: map[string]string{"/p/dev.json": `{"port": 8080, "debug": false, "name": ""}`},
			want:  Data{"port": float64(8080), "debug": false, "name": ""},
		},
		{
			name:  "yaml",
			files: map[string]string{"/p/dev.yaml": "port: 8080\nhosts: [a, b]\n"},
			want:  Data{"port": 8080, "hosts": []any{"a", "b"}},
		},
		{
			name:  "yml",
			files: map[string]string{"/p/dev.yml": "port: 1\n"},
			want:  Data{"port": 1},
		},
		{
			name:  "toml",
			files: map[string]string{"/p/dev.toml": "port = 8080\n"},
			want:  Data{"port": int64(8080)},
		},
		{
			name: "yaml preferred over json",
			files: map[string]string{
				"/p/dev.yaml": "port: 1\n",
				"/p/dev.json": `{"port": 2}`,
			},
			want: Data{"port": 1},
		},
		{
			name:  "json null is empty",
			files: map[string]string{"/p/dev.json": `null`},
			want:  Data{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := Named{Name: "dev", Dir: "/p", Fs: writeFiles(t, tt.files)}
			got, err := src.Load(context.Background())
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Load() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestNamed_Load_Faults(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		profile string
		wantIs  error
	}{
		{
			name:    "not found",
			files:   map[string]string{"/p/other.json": `{}`},
			profile: "dev",
			wantIs:  ErrProfileNotFound,
		},
		{
			name:    "empty name",
			profile: "",
			wantIs:  ErrProfileNotFound,
		},
		{
			name: "script module wins and is rejected",
			files: map[string]string{
				"/p/dev.js":   "module.exports = {port: 1}",
				"/p/dev.json": `{"port": 2}`,
			},
			profile: "dev",
			wantIs:  ErrScriptProfile,
		},
		{
			name:    "array document",
			files:   map[string]string{"/p/dev.json": `[1, 2]`},
			profile: "dev",
			wantIs:  ErrInvalidProfile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := Named{Name: tt.profile, Dir: "/p", Fs: writeFiles(t, tt.files)}
			_, err := src.Load(context.Background())
			if !errors.Is(err, tt.wantIs) {
				t.Errorf("Load() error = %v, want %v", err, tt.wantIs)
			}
		})
	}
}

func TestNamed_Load_MalformedJSON(t *testing.T) {
	src := Named{Name: "dev", Dir: "/p", Fs: writeFiles(t, map[string]string{"/p/dev.json": `{"port": `})}
	_, err := src.Load(context.Background())
	if err == nil || !strings.Contains(err.Error(), "parsing profile") {
		t.Errorf("Load() error = %v, want a parsing error", err)
	}
}

func TestNamed_Load_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := Named{Name: "dev", Dir: "/p", Fs: writeFiles(t, map[string]string{"/p/dev.json": `{}`})}
	if _, err := src.Load(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestNewNamed(t *testing.T) {
	dir := t.TempDir()
	if err := afero.WriteFile(afero.NewOsFs(), dir+"/dev.yaml", []byte("port: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := NewNamed("dev", dir).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got["port"] != 1 {
		t.Errorf("port = %#v, want 1", got["port"])
	}
}

func TestData_Lookup(t *testing.T) {
	d := Data{"zero": 0, "off": false, "empty": "", "null": nil}

	for _, key := range []string{"zero", "off", "empty"} {
		if _, ok := d.Lookup(key); !ok {
			t.Errorf("Lookup(%q) should count as present", key)
		}
	}
	for _, key := range []string{"null", "missing"} {
		if _, ok := d.Lookup(key); ok {
			t.Errorf("Lookup(%q) should count as absent", key)
		}
	}
}

func TestNone(t *testing.T) {
	if !IsNone(None) || !IsNone(nil) {
		t.Error("IsNone should hold for None and nil")
	}
	if IsNone(Data{}) {
		t.Error("IsNone(Data{}) = true, want false")
	}

	d, err := None.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if d != nil {
		t.Errorf("Load() = %v, want nil", d)
	}
}

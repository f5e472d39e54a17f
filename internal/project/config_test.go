package project

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"white/internal/format"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestParseLineLength(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr error
	}{
		{in: "80", want: 80},
		{in: " 120 ", want: 120},
		{in: "100", wantErr: ErrInvalidLineLength},
		{in: "0", wantErr: ErrInvalidLineLength},
		{in: "-80", wantErr: ErrInvalidLineLength},
		{in: "eighty", wantErr: ErrNonNumericLineLength},
		{in: "", wantErr: ErrNonNumericLineLength},
	}
	for _, tt := range tests {
		got, err := ParseLineLength(tt.in)
		if tt.wantErr != nil {
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseLineLength(%q) err = %v, want %v", tt.in, err, tt.wantErr)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseLineLength(%q) = %d, %v; want %d", tt.in, got, err, tt.want)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `
line_length = 120
extensions = ["py", ".PYI"]
exclude = ["build"]
jobs = 3
output = "suffix"
cache = false
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	want := Config{
		Path:       path,
		LineLength: 120,
		Extensions: []string{".py", ".pyi"},
		Exclude:    []string{"build"},
		Jobs:       3,
		Output:     format.OutputSuffix,
		Cache:      false,
	}
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("LoadConfig = %+v, want %+v", cfg, want)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeManifest(t, t.TempDir(), "line_length = 80\n")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.LineLength != 80 || !cfg.Cache || cfg.Output != format.OutputInPlace {
		t.Errorf("cfg = %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.Extensions, DefaultExtensions) {
		t.Errorf("Extensions = %v", cfg.Extensions)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{name: "bad length", body: "line_length = 100\n", want: ErrInvalidLineLength},
		{name: "string length", body: "line_length = \"wide\"\n", want: ErrNonNumericLineLength},
		{name: "float length", body: "line_length = 80.5\n", want: ErrNonNumericLineLength},
		{name: "unknown key", body: "line_lenght = 80\n", want: ErrBadManifest},
		{name: "bad output", body: "output = \"copy\"\n", want: ErrBadManifest},
		{name: "negative jobs", body: "jobs = -1\n", want: ErrBadManifest},
		{name: "syntax", body: "line_length = \n", want: ErrBadManifest},
		{name: "empty extension", body: "extensions = [\"\"]\n", want: ErrBadManifest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, t.TempDir(), tt.body)
			_, err := LoadConfig(path)
			if !errors.Is(err, tt.want) {
				t.Errorf("LoadConfig err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "line_length = 80\n")
	nested := filepath.Join(root, "pkg", "sub")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	file := filepath.Join(nested, "mod.py")
	if err := os.WriteFile(file, []byte("x\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, start := range []string{nested, file} {
		cfg, err := Discover(start)
		if err != nil {
			t.Fatalf("Discover(%s): %v", start, err)
		}
		if cfg.LineLength != 80 {
			t.Errorf("Discover(%s).LineLength = %d", start, cfg.LineLength)
		}
		gotRoot, ok, err := FindProjectRoot(start)
		if err != nil || !ok {
			t.Fatalf("FindProjectRoot(%s) = %v, %v", start, ok, err)
		}
		wantRoot, _ := filepath.Abs(root)
		if gotRoot != wantRoot {
			t.Errorf("FindProjectRoot = %q, want %q", gotRoot, wantRoot)
		}
	}
}

func TestDiscoverWithoutManifest(t *testing.T) {
	cfg, err := Discover(t.TempDir())
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if cfg.Path != "" {
		t.Skipf("manifest found above temp dir: %s", cfg.Path)
	}
	if cfg.LineLength != 0 || !cfg.Cache {
		t.Errorf("Defaults = %+v", cfg)
	}
}

func TestRequireLineLength(t *testing.T) {
	if err := Defaults().RequireLineLength(); !errors.Is(err, ErrMissingLineLength) {
		t.Errorf("err = %v, want ErrMissingLineLength", err)
	}
	cfg := Defaults()
	cfg.LineLength = 120
	if err := cfg.RequireLineLength(); err != nil {
		t.Errorf("err = %v", err)
	}
	cfg.LineLength = 99
	if err := cfg.RequireLineLength(); !errors.Is(err, ErrInvalidLineLength) {
		t.Errorf("err = %v, want ErrInvalidLineLength", err)
	}
}

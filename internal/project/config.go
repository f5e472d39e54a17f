package project

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"

	"white/internal/format"
)

var (
	// ErrInvalidLineLength is returned for a line length other than 80 or 120.
	ErrInvalidLineLength = errors.New("line length must be 80 or 120")
	// ErrNonNumericLineLength is returned when the line length is not an integer.
	ErrNonNumericLineLength = errors.New("line length must be an integer")
	// ErrMissingLineLength is returned when neither flags nor white.toml set it.
	ErrMissingLineLength = errors.New("line length is required (80 or 120)")
	// ErrBadManifest wraps every other white.toml problem.
	ErrBadManifest = errors.New("invalid white.toml")
)

// Supported line lengths.
const (
	ShortLineLength = 80
	LongLineLength  = 120
)

var (
	DefaultExtensions = []string{".py"}
	DefaultExclude    = []string{".git", "__pycache__", ".venv", "venv"}
)

// Config is the resolved formatter configuration.
type Config struct {
	Path       string // manifest path, empty when defaults only
	LineLength int    // 0 when not configured
	Extensions []string
	Exclude    []string
	Jobs       int
	Output     format.OutputMode
	Cache      bool
}

// Defaults returns the configuration used without a manifest.
func Defaults() Config {
	return Config{
		Extensions: append([]string(nil), DefaultExtensions...),
		Exclude:    append([]string(nil), DefaultExclude...),
		Output:     format.OutputInPlace,
		Cache:      true,
	}
}

type manifest struct {
	LineLength any      `toml:"line_length"`
	Extensions []string `toml:"extensions"`
	Exclude    []string `toml:"exclude"`
	Jobs       int64    `toml:"jobs"`
	Output     string   `toml:"output"`
	Cache      bool     `toml:"cache"`
}

// LoadConfig reads the manifest at path on top of Defaults.
func LoadConfig(path string) (Config, error) {
	var m manifest
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w: %w", path, ErrBadManifest, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: %w: unknown keys %s", path, ErrBadManifest, strings.Join(keys, ", "))
	}

	cfg := Defaults()
	cfg.Path = path
	if meta.IsDefined("line_length") {
		n, err := lineLengthValue(m.LineLength)
		if err != nil {
			return Config{}, fmt.Errorf("%s: line_length: %w", path, err)
		}
		cfg.LineLength = n
	}
	if meta.IsDefined("extensions") {
		exts, err := NormalizeExtensions(m.Extensions)
		if err != nil {
			return Config{}, fmt.Errorf("%s: extensions: %w", path, err)
		}
		cfg.Extensions = exts
	}
	if meta.IsDefined("exclude") {
		cfg.Exclude = append([]string(nil), m.Exclude...)
	}
	if meta.IsDefined("jobs") {
		jobs, err := safecast.Conv[int](m.Jobs)
		if err != nil || jobs < 0 {
			return Config{}, fmt.Errorf("%s: %w: jobs must be a non-negative integer", path, ErrBadManifest)
		}
		cfg.Jobs = jobs
	}
	if meta.IsDefined("output") {
		mode, err := format.ParseOutputMode(m.Output)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w: %w", path, ErrBadManifest, err)
		}
		cfg.Output = mode
	}
	if meta.IsDefined("cache") {
		cfg.Cache = m.Cache
	}
	return cfg, nil
}

// Discover finds white.toml above startDir and loads it. Without a
// manifest it returns Defaults.
func Discover(startDir string) (Config, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Defaults(), nil
	}
	return LoadConfig(path)
}

// RequireLineLength reports ErrMissingLineLength for an unset line length.
func (c Config) RequireLineLength() error {
	if c.LineLength == 0 {
		return ErrMissingLineLength
	}
	return ValidateLineLength(c.LineLength)
}

// ParseLineLength parses a user supplied line length.
func ParseLineLength(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%q: %w", s, ErrNonNumericLineLength)
	}
	if err := ValidateLineLength(n); err != nil {
		return 0, err
	}
	return n, nil
}

// ValidateLineLength accepts only the supported line lengths.
func ValidateLineLength(n int) error {
	if n != ShortLineLength && n != LongLineLength {
		return fmt.Errorf("%d: %w", n, ErrInvalidLineLength)
	}
	return nil
}

func lineLengthValue(v any) (int, error) {
	switch x := v.(type) {
	case int64:
		n, err := safecast.Conv[int](x)
		if err != nil {
			return 0, fmt.Errorf("%d: %w", x, ErrInvalidLineLength)
		}
		return n, ValidateLineLength(n)
	case string:
		return ParseLineLength(x)
	default:
		return 0, fmt.Errorf("%v: %w", v, ErrNonNumericLineLength)
	}
}

// NormalizeExtensions lower-cases extensions and adds the leading dot.
func NormalizeExtensions(exts []string) ([]string, error) {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" || ext == "." {
			return nil, fmt.Errorf("%w: empty extension", ErrBadManifest)
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out, nil
}

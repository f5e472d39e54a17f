package format

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"white/internal/source"
	"white/internal/trace"
)

// OutputMode selects where a repaired buffer is written.
type OutputMode uint8

const (
	// OutputInPlace rewrites the original path.
	OutputInPlace OutputMode = iota
	// OutputSuffix writes a sibling file named <stem>_formatted<ext>.
	OutputSuffix
)

func (m OutputMode) String() string {
	switch m {
	case OutputInPlace:
		return "inplace"
	case OutputSuffix:
		return "suffix"
	default:
		return "unknown"
	}
}

// ErrInvalidOutputMode is returned by ParseOutputMode for unknown names.
var ErrInvalidOutputMode = errors.New("invalid output mode")

// ParseOutputMode converts inplace|suffix into an OutputMode.
func ParseOutputMode(s string) (OutputMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "inplace", "in-place":
		return OutputInPlace, nil
	case "suffix":
		return OutputSuffix, nil
	default:
		return OutputInPlace, fmt.Errorf("%w %q (expected inplace|suffix)", ErrInvalidOutputMode, s)
	}
}

// FormattedSuffix is inserted before the extension in OutputSuffix mode.
const FormattedSuffix = "_formatted"

// SuffixPath returns path with FormattedSuffix inserted before its extension.
func SuffixPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + FormattedSuffix + ext
}

// PassObserver receives the duration of every formatter pass.
// Implementations must be safe for concurrent use.
type PassObserver interface {
	ObservePass(name string, elapsed time.Duration)
}

// Pipeline applies an ordered list of formatters. It is immutable and safe
// for concurrent use when its formatters are.
type Pipeline struct {
	formatters []Formatter
	limit      int
	observer   PassObserver
}

// NewPipeline builds the standard pipeline: trailing whitespace, tabs,
// imports, line length.
func NewPipeline(opt Options) *Pipeline {
	opt = opt.withDefaults()
	fs := []Formatter{
		TrailingWhitespace{},
		Tabs{Width: opt.IndentWidth},
	}
	if !opt.SkipImports {
		fs = append(fs, Imports{})
	}
	fs = append(fs, LineLength{Limit: opt.LineLength, Indent: opt.IndentWidth})
	return &Pipeline{formatters: fs, limit: opt.LineLength}
}

// NewPipelineOf builds a pipeline from explicit formatters. limit is only
// used to report overlong lines; 0 disables the report.
func NewPipelineOf(limit int, fs ...Formatter) *Pipeline {
	return &Pipeline{formatters: append([]Formatter(nil), fs...), limit: limit}
}

// WithObserver returns a copy of p reporting pass timings to obs.
func (p *Pipeline) WithObserver(obs PassObserver) *Pipeline {
	cp := *p
	cp.observer = obs
	return &cp
}

// Names lists the formatter names in order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.formatters))
	for i, f := range p.formatters {
		names[i] = f.Name()
	}
	return names
}

// Fingerprint identifies the pipeline configuration, e.g. for caches.
func (p *Pipeline) Fingerprint() string {
	return strings.Join(p.Names(), ",") + ";limit=" + strconv.Itoa(p.limit)
}

// Limit returns the configured line length.
func (p *Pipeline) Limit() int {
	return p.limit
}

// Apply feeds lines through every formatter in order.
func (p *Pipeline) Apply(lines source.Lines) source.Lines {
	return p.Run(context.Background(), lines)
}

// Run is Apply with a pass span per formatter on the tracer in ctx.
func (p *Pipeline) Run(ctx context.Context, lines source.Lines) source.Lines {
	tracer := trace.FromContext(ctx)
	parent := trace.CurrentSpan(ctx).SpanID
	cur := lines
	for _, f := range p.formatters {
		span := trace.Begin(tracer, trace.ScopePass, f.Name(), parent)
		start := time.Now()
		next := f.Format(cur)
		if p.observer != nil {
			p.observer.ObservePass(f.Name(), time.Since(start))
		}
		if tracer.Enabled() {
			span.WithExtra("changed", strconv.FormatBool(!next.Equal(cur)))
			span.WithExtra("lines", strconv.Itoa(len(next)))
		}
		span.End("")
		cur = next
	}
	return cur
}

// Result is the outcome of repairing one buffer.
type Result struct {
	Lines      source.Lines
	Changed    bool
	OutputPath string
	Overlong   []int // 1-based lines still at or above the limit
}

// Repair runs the pipeline over buf without modifying it.
func (p *Pipeline) Repair(ctx context.Context, buf *source.Buffer, mode OutputMode) (Result, error) {
	lines, err := buf.Lines()
	if err != nil {
		return Result{}, fmt.Errorf("repair %s: %w", buf.Path(), err)
	}
	out := p.Run(ctx, lines)
	res := Result{
		Lines:      out,
		Changed:    !out.Equal(lines),
		OutputPath: buf.Path(),
		Overlong:   Overlong(out, p.limit),
	}
	if mode == OutputSuffix {
		res.OutputPath = SuffixPath(buf.Path())
	}
	return res, nil
}

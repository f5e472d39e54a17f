package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"fortio.org/safecast"
	"golang.org/x/sync/errgroup"

	"white/internal/diag"
	"white/internal/format"
	"white/internal/source"
	"white/internal/trace"
)

// ErrNoSourceFiles is returned when the inputs hold no recognized files.
var ErrNoSourceFiles = errors.New("format: no source files found")

// FormatOptions configures code formatting.
type FormatOptions struct {
	Pipeline       *format.Pipeline
	Check          bool
	Stdout         bool
	Output         format.OutputMode
	Jobs           int
	Collect        CollectOptions
	MaxDiagnostics int
	Cache          *DiskCache
	CacheSalt      string
	Progress       ProgressSink
}

// FormatResult captures the result of formatting a single file.
type FormatResult struct {
	Path       string
	OutputPath string
	Changed    bool
	Cached     bool
	Err        error
	Formatted  []byte
	Overlong   []int
	Bag        *diag.Bag
}

// FormatStats summarizes a run.
type FormatStats struct {
	Files   int
	Changed int
	Cached  int
	Failed  int
}

// Summarize counts results by outcome.
func Summarize(results []FormatResult) FormatStats {
	st := FormatStats{Files: len(results)}
	for _, r := range results {
		switch {
		case r.Err != nil:
			st.Failed++
		case r.Cached:
			st.Cached++
		case r.Changed:
			st.Changed++
		}
	}
	return st
}

// FormatPaths formats provided files or directories (recursively collecting
// files with the configured extensions).
//
// When opts.Check is true, files are not modified; Changed indicates whether
// formatting would update the file contents. When opts.Stdout is true,
// formatted content is returned in the results without touching files on
// disk. A failure in one file is recorded in its result and the remaining
// files are still processed.
func FormatPaths(ctx context.Context, paths []string, opts FormatOptions) ([]FormatResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.Pipeline == nil {
		return nil, errors.New("format: no pipeline configured")
	}

	tracer := trace.FromContext(ctx)
	runSpan := trace.Begin(tracer, trace.ScopeDriver, "format_paths", trace.CurrentSpan(ctx).SpanID)
	ctx = trace.WithSpan(ctx, runSpan)

	emit(opts.Progress, Event{Stage: StageCollect, Status: StatusWorking})
	files, err := CollectSourceFiles(ctx, paths, opts.Collect)
	if err != nil {
		runSpan.End("collect failed")
		return nil, err
	}
	if len(files) == 0 {
		runSpan.End("no files")
		return nil, ErrNoSourceFiles
	}
	for _, f := range files {
		emit(opts.Progress, Event{File: f, Stage: StageCollect, Status: StatusQueued})
	}
	emit(opts.Progress, Event{Stage: StageFormat, Status: StatusWorking})

	results, err := formatFiles(ctx, files, opts)
	st := Summarize(results)
	runSpan.WithExtra("files", strconv.Itoa(st.Files)).
		WithExtra("changed", strconv.Itoa(st.Changed)).
		WithExtra("failed", strconv.Itoa(st.Failed))
	runSpan.End("")
	return results, err
}

// CollectFiles exposes file discovery with the same options, e.g. to
// pre-populate a progress view.
func CollectFiles(ctx context.Context, paths []string, opts FormatOptions) ([]string, error) {
	return CollectSourceFiles(ctx, paths, opts.Collect)
}

func formatFiles(ctx context.Context, files []string, opts FormatOptions) ([]FormatResult, error) {
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]FormatResult, len(files))
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = FormatResult{Path: path, Err: err}
				return err
			}
			results[i] = formatSingleFile(gctx, path, opts)
			done.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, fmt.Errorf("format: cancelled after %d of %d files: %w", done.Load(), len(files), err)
	}
	return results, nil
}

func formatSingleFile(ctx context.Context, path string, opts FormatOptions) (result FormatResult) {
	start := time.Now()
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeFile, "format_file", trace.CurrentSpan(ctx).SpanID)
	span.WithExtra("path", path)
	ctx = trace.WithSpan(ctx, span)

	maxDiag := opts.MaxDiagnostics
	if maxDiag <= 0 {
		maxDiag = 256
	}
	bag := diag.NewBag(maxDiag)
	reporter := &diag.BagReporter{Bag: bag}
	result = FormatResult{Path: path, OutputPath: path, Bag: bag}

	defer func() {
		status := StatusDone
		switch {
		case result.Err != nil:
			status = StatusError
			span.WithExtra("error", result.Err.Error())
		case result.Cached:
			status = StatusCached
		}
		span.End(string(status))
		emit(opts.Progress, Event{File: path, Stage: StageWrite, Status: status, Err: result.Err, Elapsed: time.Since(start)})
	}()

	emit(opts.Progress, Event{File: path, Stage: StageRead, Status: StatusWorking})
	raw, err := os.ReadFile(path)
	if err != nil {
		result.Err = fmt.Errorf("load %s: %w", path, err)
		diag.ReportError(reporter, diag.IOLoadFileError, diag.Span{Path: path}, result.Err.Error()).Emit()
		return result
	}

	var key CacheKey
	useCache := opts.Cache != nil && !opts.Stdout
	if useCache {
		key = NewCacheKey(opts.Pipeline.Fingerprint(), opts.CacheSalt, raw)
		var payload CachePayload
		hit, cacheErr := opts.Cache.Get(key, &payload)
		if cacheErr != nil {
			diag.ReportInfo(reporter, diag.IOCacheError, diag.Span{Path: path}, cacheErr.Error()).Emit()
		}
		if hit {
			trace.Point(tracer, trace.ScopeFile, "cache_hit", key.String(), span.ID())
			result.Cached = true
			diag.ReportInfo(reporter, diag.FmtCacheHit, diag.Span{Path: path}, "already formatted").Emit()
			result.Overlong = payload.Overlong
			reportOverlong(reporter, path, payload.Overlong, opts.Pipeline.Limit())
			return result
		}
	}

	buf := source.NewBuffer(path)
	buf.Load(raw)

	emit(opts.Progress, Event{File: path, Stage: StageFormat, Status: StatusWorking})
	res, err := opts.Pipeline.Repair(ctx, buf, opts.Output)
	if err != nil {
		result.Err = err
		code := diag.IOLoadFileError
		if errors.Is(err, source.ErrNotLoaded) {
			code = diag.FmtNotLoaded
		}
		diag.ReportError(reporter, code, diag.Span{Path: path}, err.Error()).Emit()
		return result
	}
	result.Changed = res.Changed
	result.OutputPath = res.OutputPath
	result.Overlong = res.Overlong
	reportOverlong(reporter, path, res.Overlong, opts.Pipeline.Limit())

	buf.SetLines(res.Lines)
	formatted, err := buf.Bytes()
	if err != nil {
		result.Err = err
		return result
	}

	switch {
	case opts.Check:
		// report only
	case opts.Stdout:
		result.Formatted = formatted
	case res.Changed:
		emit(opts.Progress, Event{File: path, Stage: StageWrite, Status: StatusWorking})
		if err := writeFormatted(path, res.OutputPath, formatted); err != nil {
			result.Err = err
			diag.ReportError(reporter, diag.IOWriteFileError, diag.Span{Path: res.OutputPath}, err.Error()).Emit()
			return result
		}
		diag.ReportInfo(reporter, diag.FmtReformatted, diag.Span{Path: res.OutputPath}, "reformatted").Emit()
	}

	if useCache {
		clean := raw
		if res.Changed {
			clean = nil
			// the rewritten file is clean from now on
			if !opts.Check && opts.Output == format.OutputInPlace {
				clean = formatted
				key = NewCacheKey(opts.Pipeline.Fingerprint(), opts.CacheSalt, formatted)
			}
		}
		if clean != nil {
			payload := CachePayload{Path: path, Size: int64(len(clean)), Overlong: res.Overlong}
			if err := opts.Cache.Put(key, &payload); err != nil {
				diag.ReportInfo(reporter, diag.IOCacheError, diag.Span{Path: path}, err.Error()).Emit()
			}
		}
	}
	return result
}

// FormatReader formats content read from r under the display name name,
// e.g. standard input. Nothing is written: Formatted always holds the
// result and Changed tells whether it differs from the input.
func FormatReader(ctx context.Context, name string, r io.Reader, opts FormatOptions) FormatResult {
	if opts.Pipeline == nil {
		return FormatResult{Path: name, Err: errors.New("format: no pipeline configured")}
	}
	maxDiag := opts.MaxDiagnostics
	if maxDiag <= 0 {
		maxDiag = 256
	}
	bag := diag.NewBag(maxDiag)
	reporter := &diag.BagReporter{Bag: bag}
	result := FormatResult{Path: name, OutputPath: name, Bag: bag}

	raw, err := io.ReadAll(r)
	if err != nil {
		result.Err = fmt.Errorf("read %s: %w", name, err)
		diag.ReportError(reporter, diag.IOLoadFileError, diag.Span{Path: name}, result.Err.Error()).Emit()
		return result
	}
	buf := source.NewVirtualBuffer(name, raw)
	res, err := opts.Pipeline.Repair(ctx, buf, format.OutputInPlace)
	if err != nil {
		result.Err = err
		diag.ReportError(reporter, diag.FmtNotLoaded, diag.Span{Path: name}, err.Error()).Emit()
		return result
	}
	buf.SetLines(res.Lines)
	if result.Formatted, err = buf.Bytes(); err != nil {
		result.Err = err
		return result
	}
	result.Changed = res.Changed
	result.Overlong = res.Overlong
	reportOverlong(reporter, name, res.Overlong, opts.Pipeline.Limit())
	return result
}

func reportOverlong(r diag.Reporter, path string, lines []int, limit int) {
	msg := fmt.Sprintf("line is %d columns or longer and could not be wrapped", limit)
	for _, line := range lines {
		ln, err := safecast.Conv[uint32](line)
		if err != nil {
			ln = 0
		}
		diag.ReportWarning(r, diag.FmtLineTooLong, diag.Span{Path: path, Line: ln}, msg).Emit()
	}
}

// writeFormatted writes data to dst, keeping the permissions of src.
func writeFormatted(src, dst string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, statErr := os.Stat(src); statErr == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(dst, data, mode.Perm()); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}
	return nil
}

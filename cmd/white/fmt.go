package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"white/internal/diag"
	"white/internal/diagfmt"
	"white/internal/driver"
	"white/internal/format"
	"white/internal/observ"
	"white/internal/version"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [flags] <path> [path...]",
	Short: "Format source files in place",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFmt,
}

func init() {
	registerFmtFlags(fmtCmd.Flags())
}

func registerFmtFlags(fs *pflag.FlagSet) {
	fs.String("line-length", "", "maximum line length (80|120), overrides white.toml")
	fs.Bool("check", false, "check if files are properly formatted")
	fs.String("format", "text", "output format (text|json)")
	fs.Bool("stdout", false, "print formatted code to stdout instead of rewriting files")
	fs.String("output", "inplace", "where changed files go (inplace|suffix)")
	fs.Int("jobs", 0, "parallel workers (0 = GOMAXPROCS)")
	fs.StringSlice("ext", nil, "file extensions to format (default .py)")
	fs.StringSlice("exclude", nil, "extra directory names to skip")
	fs.Bool("no-cache", false, "ignore the clean-file cache")
	fs.String("config", "", "path to white.toml (default: search upwards)")
	fs.String("ui", "auto", "progress UI (auto|on|off)")
	fs.String("severity", "warning", "lowest diagnostic severity shown in text output (info|warning|error)")
}

func runFmt(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return err
	}

	timer := observ.NewTimer()
	passes := observ.NewPassStats()

	phase := timer.Begin("config")
	settings, err := resolveFmtSettings(cmd.Flags(), args)
	timer.End(phase, "")
	if err != nil {
		bag := diag.NewBag(1)
		bag.Add(configDiagnostic(err))
		diagfmt.Pretty(cmd.ErrOrStderr(), bag, diagfmt.PrettyOpts{Color: !color.NoColor})
		return errReported
	}
	cfg := settings.cfg

	pipeline := format.NewPipeline(format.Options{LineLength: cfg.LineLength})
	if showTimings {
		pipeline = pipeline.WithObserver(passes)
	}
	opts := driver.FormatOptions{
		Pipeline:       pipeline,
		Check:          settings.check,
		Stdout:         settings.stdout,
		Output:         cfg.Output,
		Jobs:           cfg.Jobs,
		MaxDiagnostics: maxDiagnostics,
		Collect: driver.CollectOptions{
			Extensions: cfg.Extensions,
			Exclude:    cfg.Exclude,
		},
		CacheSalt: version.Version,
	}
	if cfg.Cache && !settings.noCache {
		cache, cacheErr := driver.OpenDiskCache("white")
		if cacheErr != nil && !quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "fmt: cache disabled: %v\n", cacheErr)
		}
		opts.Cache = cache
	}

	if len(args) == 1 && args[0] == "-" {
		return runFmtStdin(cmd, opts, settings, quiet)
	}

	useUI := !quiet && !settings.stdout && settings.outputFormat == "text" && shouldUseTUI(settings.ui)

	phase = timer.Begin("format")
	var results []driver.FormatResult
	if useUI {
		files, collectErr := driver.CollectFiles(cmd.Context(), args, opts)
		if collectErr != nil {
			timer.End(phase, "")
			return collectErr
		}
		results, err = runFormatWithUI(cmd.Context(), "white fmt", files, args, opts)
	} else {
		results, err = driver.FormatPaths(cmd.Context(), args, opts)
	}
	stats := driver.Summarize(results)
	timer.End(phase, strconv.Itoa(stats.Files)+" files")
	if err != nil {
		return err
	}

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	var hasErrors, hasChanges bool
	switch {
	case settings.stdout:
		hasErrors = renderFmtStdout(out, errOut, results)
	case settings.outputFormat == "json":
		if err := renderFmtJSON(out, results, settings.check, maxDiagnostics); err != nil {
			return err
		}
		hasErrors = stats.Failed > 0
		hasChanges = stats.Changed > 0
	default:
		hasErrors, hasChanges = renderFmtText(out, errOut, results, settings.check, quiet)
		if !quiet {
			renderFmtDiagnostics(errOut, results, maxDiagnostics, settings.minSeverity, settings.baseDir)
			renderFmtSummary(errOut, stats, settings.check)
		}
	}

	if showTimings {
		printTimings(errOut, timer, passes)
	}

	if hasErrors {
		return fmt.Errorf("fmt: failed to format some files")
	}
	if settings.check && hasChanges {
		return fmt.Errorf("fmt: formatting changes required")
	}
	return nil
}

// runFmtStdin formats standard input to standard output. With --check
// nothing is printed and the exit status tells whether input was clean.
func runFmtStdin(cmd *cobra.Command, opts driver.FormatOptions, settings fmtSettings, quiet bool) error {
	res := driver.FormatReader(cmd.Context(), "<stdin>", cmd.InOrStdin(), opts)
	if res.Err != nil {
		return res.Err
	}
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	results := []driver.FormatResult{res}
	switch {
	case settings.outputFormat == "json":
		if err := renderFmtJSON(out, results, settings.check, opts.MaxDiagnostics); err != nil {
			return err
		}
	case settings.check:
	default:
		if _, err := out.Write(res.Formatted); err != nil {
			return err
		}
	}
	if !quiet && settings.outputFormat == "text" {
		renderFmtDiagnostics(errOut, results, opts.MaxDiagnostics, settings.minSeverity, ".")
	}
	if settings.check && res.Changed {
		return fmt.Errorf("fmt: formatting changes required")
	}
	return nil
}

func renderFmtStdout(out, errOut io.Writer, results []driver.FormatResult) (hasErrors bool) {
	for _, res := range results {
		if res.Err != nil {
			hasErrors = true
			fmt.Fprintf(errOut, "fmt: %s: %v\n", res.Path, res.Err)
			continue
		}
		_, _ = out.Write(res.Formatted)
	}
	return hasErrors
}

func renderFmtText(out, errOut io.Writer, results []driver.FormatResult, check, quiet bool) (hasErrors, hasChanges bool) {
	reformatted := color.New(color.FgGreen)
	for _, res := range results {
		if res.Err != nil {
			hasErrors = true
			fmt.Fprintf(errOut, "fmt: %s: %v\n", res.Path, res.Err)
			continue
		}
		if !res.Changed {
			continue
		}
		hasChanges = true
		if quiet {
			continue
		}
		if check {
			fmt.Fprintln(out, res.Path)
			continue
		}
		target := res.Path
		if res.OutputPath != res.Path {
			target = res.Path + " -> " + res.OutputPath
		}
		fmt.Fprintf(out, "%s %s\n", reformatted.Sprint("reformatted"), target)
	}
	return hasErrors, hasChanges
}

// renderFmtDiagnostics prints the diagnostics of every file at or above
// minSeverity, paths relative to baseDir. JSON output always carries all
// of them.
func renderFmtDiagnostics(w io.Writer, results []driver.FormatResult, maxDiagnostics int, minSeverity diag.Severity, baseDir string) {
	all := diag.NewBag(0)
	for _, res := range results {
		all.Merge(res.Bag)
	}
	all.Dedup()
	all.Sort()

	shown := diag.NewBag(maxDiagnostics)
	for _, d := range all.Items() {
		if d.Severity >= minSeverity {
			shown.Add(d)
		}
	}
	if shown.Len() == 0 {
		return
	}
	diagfmt.Pretty(w, shown, diagfmt.PrettyOpts{
		Color:     !color.NoColor,
		PathMode:  diagfmt.PathModeRelative,
		BaseDir:   baseDir,
		ShowNotes: true,
	})
}

func renderFmtSummary(w io.Writer, st driver.FormatStats, check bool) {
	verb := "reformatted"
	if check {
		verb = "would reformat"
	}
	unchanged := st.Files - st.Changed - st.Failed
	fmt.Fprintf(w, "%d files: %d %s, %d unchanged", st.Files, st.Changed, verb, unchanged)
	if st.Cached > 0 {
		fmt.Fprintf(w, " (%d cached)", st.Cached)
	}
	if st.Failed > 0 {
		fmt.Fprintf(w, ", %s", color.New(color.FgRed).Sprintf("%d failed", st.Failed))
	}
	fmt.Fprintln(w)
}

type fmtJSONResult struct {
	Path        string                   `json:"path"`
	OutputPath  string                   `json:"output_path,omitempty"`
	Changed     bool                     `json:"changed"`
	Cached      bool                     `json:"cached,omitempty"`
	Error       string                   `json:"error,omitempty"`
	CheckRun    bool                     `json:"check"`
	Diagnostics []diagfmt.DiagnosticJSON `json:"diagnostics,omitempty"`
}

type fmtJSONReport struct {
	Files   int             `json:"files"`
	Changed int             `json:"changed"`
	Cached  int             `json:"cached"`
	Failed  int             `json:"failed"`
	Results []fmtJSONResult `json:"results"`
}

func renderFmtJSON(w io.Writer, results []driver.FormatResult, check bool, maxDiagnostics int) error {
	st := driver.Summarize(results)
	report := fmtJSONReport{
		Files:   st.Files,
		Changed: st.Changed,
		Cached:  st.Cached,
		Failed:  st.Failed,
		Results: make([]fmtJSONResult, 0, len(results)),
	}
	for _, res := range results {
		jr := fmtJSONResult{
			Path:     res.Path,
			Changed:  res.Changed,
			Cached:   res.Cached,
			CheckRun: check,
		}
		if res.OutputPath != res.Path {
			jr.OutputPath = res.OutputPath
		}
		if res.Err != nil {
			jr.Error = res.Err.Error()
		}
		if res.Bag != nil && res.Bag.Len() > 0 {
			jr.Diagnostics = diagfmt.BuildDiagnostics(res.Bag, diagfmt.JSONOpts{Max: maxDiagnostics})
		}
		report.Results = append(report.Results, jr)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

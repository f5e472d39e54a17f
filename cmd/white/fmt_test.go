package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"white/internal/diag"
	"white/internal/driver"
	"white/internal/format"
	"white/internal/project"
)

func parseFmtFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("fmt", pflag.ContinueOnError)
	registerFmtFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse %v: %v", args, err)
	}
	return fs
}

func TestResolveFmtSettingsFlags(t *testing.T) {
	dir := t.TempDir()
	fs := parseFmtFlags(t, "--line-length", "120", "--output", "suffix", "--jobs", "3", "--ext", "py,pyi", "--exclude", "build", "--check")

	s, err := resolveFmtSettings(fs, []string{dir})
	if err != nil {
		t.Fatalf("resolveFmtSettings: %v", err)
	}
	if s.cfg.LineLength != 120 || s.cfg.Output != format.OutputSuffix || s.cfg.Jobs != 3 || !s.check {
		t.Errorf("settings = %+v", s)
	}
	if strings.Join(s.cfg.Extensions, ",") != ".py,.pyi" {
		t.Errorf("Extensions = %v", s.cfg.Extensions)
	}
	if s.cfg.Exclude[len(s.cfg.Exclude)-1] != "build" {
		t.Errorf("Exclude = %v", s.cfg.Exclude)
	}
}

func TestResolveFmtSettingsManifest(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, project.ManifestName)
	if err := os.WriteFile(manifest, []byte("line_length = 80\noutput = \"suffix\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := resolveFmtSettings(parseFmtFlags(t), []string{dir})
	if err != nil {
		t.Fatalf("resolveFmtSettings: %v", err)
	}
	if s.cfg.LineLength != 80 || s.cfg.Output != format.OutputSuffix {
		t.Errorf("cfg = %+v", s.cfg)
	}
	if s.baseDir != dir {
		t.Errorf("baseDir = %q, want %q", s.baseDir, dir)
	}

	// flags win over the manifest
	s, err = resolveFmtSettings(parseFmtFlags(t, "--line-length=120", "--output=inplace"), []string{dir})
	if err != nil {
		t.Fatalf("resolveFmtSettings: %v", err)
	}
	if s.cfg.LineLength != 120 || s.cfg.Output != format.OutputInPlace {
		t.Errorf("cfg = %+v", s.cfg)
	}

	s, err = resolveFmtSettings(parseFmtFlags(t, "--config", manifest), []string{t.TempDir()})
	if err != nil || s.cfg.Path != manifest {
		t.Errorf("explicit --config: %+v, %v", s.cfg, err)
	}
}

func TestResolveFmtSettingsErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		args []string
		want error
		code diag.Code
	}{
		{name: "bad length", args: []string{"--line-length", "100"}, want: project.ErrInvalidLineLength, code: diag.CfgInvalidLineLength},
		{name: "non numeric", args: []string{"--line-length", "wide"}, want: project.ErrNonNumericLineLength, code: diag.CfgNonNumericLength},
		{name: "missing", args: nil, want: project.ErrMissingLineLength, code: diag.CfgInvalidLineLength},
		{name: "bad output", args: []string{"--line-length", "80", "--output", "copy"}, want: format.ErrInvalidOutputMode, code: diag.CfgBadOutputMode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolveFmtSettings(parseFmtFlags(t, tt.args...), []string{dir})
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if d := configDiagnostic(err); d.Code != tt.code || d.Severity != diag.SevError {
				t.Errorf("diagnostic = %+v", d)
			}
		})
	}
}

func TestResolveFmtSettingsFlagConflicts(t *testing.T) {
	dir := t.TempDir()
	for _, args := range [][]string{
		{"--line-length=80", "--stdout", "--check"},
		{"--line-length=80", "--stdout", "--format=json"},
		{"--line-length=80", "--format=xml"},
		{"--line-length=80", "--ui=maybe"},
		{"--line-length=80", "--output=copy"},
		{"--line-length=80", "--jobs=-2"},
		{"--line-length=80", "--severity=fatal"},
	} {
		if _, err := resolveFmtSettings(parseFmtFlags(t, args...), []string{dir}); err == nil {
			t.Errorf("%v: expected an error", args)
		}
	}
}

func sampleResults() []driver.FormatResult {
	warnBag := diag.NewBag(10)
	warnBag.Add(diag.New(diag.SevWarning, diag.FmtLineTooLong, diag.Span{Path: "b.py", Line: 3}, "too long"))
	return []driver.FormatResult{
		{Path: "a.py", OutputPath: "a.py", Changed: true},
		{Path: "b.py", OutputPath: "b.py", Bag: warnBag},
		{Path: "c.py", OutputPath: "c.py", Err: errors.New("load c.py: permission denied")},
	}
}

func TestRenderFmtText(t *testing.T) {
	var out, errOut bytes.Buffer
	hasErrors, hasChanges := renderFmtText(&out, &errOut, sampleResults(), false, false)
	if !hasErrors || !hasChanges {
		t.Errorf("hasErrors=%v hasChanges=%v", hasErrors, hasChanges)
	}
	if !strings.Contains(out.String(), "reformatted a.py") {
		t.Errorf("stdout = %q", out.String())
	}
	if !strings.Contains(errOut.String(), "fmt: c.py: load c.py: permission denied") {
		t.Errorf("stderr = %q", errOut.String())
	}

	out.Reset()
	renderFmtText(&out, &errOut, sampleResults(), true, false)
	if out.String() != "a.py\n" {
		t.Errorf("check output = %q", out.String())
	}
}

func TestRenderFmtDiagnosticsAndSummary(t *testing.T) {
	var buf bytes.Buffer
	renderFmtDiagnostics(&buf, sampleResults(), 10, diag.SevWarning, ".")
	if !strings.Contains(buf.String(), "b.py:3: WARNING FMT2001: too long") {
		t.Errorf("diagnostics = %q", buf.String())
	}

	buf.Reset()
	renderFmtDiagnostics(&buf, sampleResults(), 10, diag.SevError, ".")
	if buf.Len() != 0 {
		t.Errorf("warnings shown above the threshold: %q", buf.String())
	}

	buf.Reset()
	renderFmtSummary(&buf, driver.Summarize(sampleResults()), true)
	if !strings.HasPrefix(buf.String(), "3 files: 1 would reformat, 1 unchanged") {
		t.Errorf("summary = %q", buf.String())
	}
}

func TestRenderFmtJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := renderFmtJSON(&buf, sampleResults(), false, 10); err != nil {
		t.Fatalf("renderFmtJSON: %v", err)
	}
	var report fmtJSONReport
	if err := json.Unmarshal(buf.Bytes(), &report); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if report.Files != 3 || report.Changed != 1 || report.Failed != 1 {
		t.Errorf("report = %+v", report)
	}
	if len(report.Results[1].Diagnostics) != 1 || report.Results[1].Diagnostics[0].Code != "FMT2001" {
		t.Errorf("results[1] = %+v", report.Results[1])
	}
	if report.Results[2].Error == "" {
		t.Error("error not rendered")
	}
}

func TestRenderFmtStdout(t *testing.T) {
	var out, errOut bytes.Buffer
	results := []driver.FormatResult{
		{Path: "a.py", Formatted: []byte("x = 1\n")},
		{Path: "b.py", Err: errors.New("boom")},
	}
	if !renderFmtStdout(&out, &errOut, results) {
		t.Error("expected hasErrors")
	}
	if out.String() != "x = 1\n" {
		t.Errorf("stdout = %q", out.String())
	}
}

func TestRunFmtStdin(t *testing.T) {
	opts := driver.FormatOptions{Pipeline: format.NewPipeline(format.Options{LineLength: 80})}
	run := func(input string, settings fmtSettings) (string, error) {
		var out bytes.Buffer
		cmd := &cobra.Command{}
		cmd.SetContext(context.Background())
		cmd.SetIn(strings.NewReader(input))
		cmd.SetOut(&out)
		cmd.SetErr(&bytes.Buffer{})
		err := runFmtStdin(cmd, opts, settings, true)
		return out.String(), err
	}

	text := fmtSettings{outputFormat: "text", minSeverity: diag.SevWarning}
	got, err := run("import os, sys\nx = 1 \n", text)
	if err != nil {
		t.Fatalf("runFmtStdin: %v", err)
	}
	if got != "import os\nimport sys\nx = 1\n" {
		t.Errorf("stdout = %q", got)
	}

	check := text
	check.check = true
	if got, err := run("x = 1 \n", check); err == nil || got != "" {
		t.Errorf("check on dirty input: %q, %v", got, err)
	}
	if _, err := run("x = 1\n", check); err != nil {
		t.Errorf("check on clean input: %v", err)
	}
}

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/pflag"

	"white/internal/diag"
	"white/internal/format"
	"white/internal/project"
)

// fmtSettings is the merged result of white.toml and command-line flags.
type fmtSettings struct {
	cfg          project.Config
	check        bool
	stdout       bool
	outputFormat string
	ui           uiMode
	noCache      bool
	minSeverity  diag.Severity
	baseDir      string // project root, or "." without white.toml
}

// resolveFmtSettings loads white.toml (from --config or discovered above
// the first path) and applies flag overrides on top. Any configuration
// problem is returned before a single file is read.
func resolveFmtSettings(flags *pflag.FlagSet, paths []string) (fmtSettings, error) {
	var s fmtSettings
	var err error

	if s.check, err = flags.GetBool("check"); err != nil {
		return s, err
	}
	if s.stdout, err = flags.GetBool("stdout"); err != nil {
		return s, err
	}
	if s.outputFormat, err = flags.GetString("format"); err != nil {
		return s, err
	}
	if s.noCache, err = flags.GetBool("no-cache"); err != nil {
		return s, err
	}
	uiValue, err := flags.GetString("ui")
	if err != nil {
		return s, err
	}
	if s.ui, err = readUIMode(uiValue); err != nil {
		return s, err
	}
	severity, err := flags.GetString("severity")
	if err != nil {
		return s, err
	}
	if s.minSeverity, err = diag.ParseSeverity(severity); err != nil {
		return s, err
	}

	switch s.outputFormat {
	case "text", "json":
	default:
		return s, fmt.Errorf("fmt: unsupported output format %q", s.outputFormat)
	}
	if s.stdout && s.check {
		return s, fmt.Errorf("fmt: --stdout cannot be used with --check")
	}
	if s.stdout && s.outputFormat != "text" {
		return s, fmt.Errorf("fmt: --stdout is only supported with text output")
	}

	configPath, err := flags.GetString("config")
	if err != nil {
		return s, err
	}
	start := "."
	if len(paths) > 0 {
		start = paths[0]
	}
	if configPath != "" {
		s.cfg, err = project.LoadConfig(configPath)
	} else {
		s.cfg, err = project.Discover(start)
	}
	if err != nil {
		return s, err
	}
	s.baseDir = "."
	if root, ok, rootErr := project.FindProjectRoot(start); rootErr == nil && ok {
		s.baseDir = root
	}

	if flags.Changed("line-length") {
		raw, err := flags.GetString("line-length")
		if err != nil {
			return s, err
		}
		if s.cfg.LineLength, err = project.ParseLineLength(raw); err != nil {
			return s, err
		}
	}
	if err := s.cfg.RequireLineLength(); err != nil {
		return s, err
	}

	if flags.Changed("output") {
		raw, err := flags.GetString("output")
		if err != nil {
			return s, err
		}
		if s.cfg.Output, err = format.ParseOutputMode(raw); err != nil {
			return s, err
		}
	}
	if flags.Changed("jobs") {
		if s.cfg.Jobs, err = flags.GetInt("jobs"); err != nil {
			return s, err
		}
		if s.cfg.Jobs < 0 {
			return s, fmt.Errorf("fmt: --jobs must not be negative")
		}
	}
	if flags.Changed("ext") {
		exts, err := flags.GetStringSlice("ext")
		if err != nil {
			return s, err
		}
		if s.cfg.Extensions, err = project.NormalizeExtensions(exts); err != nil {
			return s, err
		}
	}
	if flags.Changed("exclude") {
		extra, err := flags.GetStringSlice("exclude")
		if err != nil {
			return s, err
		}
		s.cfg.Exclude = append(s.cfg.Exclude, extra...)
	}
	return s, nil
}

// configDiagnostic maps a configuration error onto its diagnostic code.
func configDiagnostic(err error) diag.Diagnostic {
	code := diag.CfgInfo
	switch {
	case errors.Is(err, project.ErrNonNumericLineLength):
		code = diag.CfgNonNumericLength
	case errors.Is(err, project.ErrInvalidLineLength), errors.Is(err, project.ErrMissingLineLength):
		code = diag.CfgInvalidLineLength
	case errors.Is(err, format.ErrInvalidOutputMode):
		code = diag.CfgBadOutputMode
	case errors.Is(err, project.ErrBadManifest):
		code = diag.CfgBadManifest
	}
	return diag.NewError(code, diag.Span{}, err.Error())
}

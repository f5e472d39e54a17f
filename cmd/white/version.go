package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"white/internal/format"
	"white/internal/project"
	"white/internal/version"
)

const versionTagline = "no trailing spaces left behind"

type versionInfo struct {
	Version    string
	GitCommit  string
	GitMessage string
	BuildDate  string
	// порядок проходов и допустимые лимиты зашиты в сборку
	Passes      []string
	LineLengths []int
}

type versionOptions struct {
	format      string
	showHash    bool
	showMessage bool
	showDate    bool
	showPasses  bool
}

type versionPayload struct {
	Tool        string   `json:"tool"`
	Version     string   `json:"version"`
	Tagline     string   `json:"tagline"`
	GitCommit   string   `json:"git_commit,omitempty"`
	GitMessage  string   `json:"git_message,omitempty"`
	BuildDate   string   `json:"build_date,omitempty"`
	Passes      []string `json:"passes,omitempty"`
	LineLengths []int    `json:"line_lengths,omitempty"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show white build fingerprints",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		opts, err := readVersionOptions(cmd.Flags())
		if err != nil {
			return err
		}
		info := collectVersionInfo()
		if opts.format == "json" {
			return renderVersionJSON(cmd.OutOrStdout(), info, opts)
		}
		renderVersionPretty(cmd.OutOrStdout(), version.Colored(), info, opts)
		return nil
	},
}

func init() {
	fs := versionCmd.Flags()
	fs.Bool("hash", false, "include git commit hash")
	fs.Bool("message", false, "include git commit message")
	fs.Bool("date", false, "include build timestamp")
	fs.Bool("passes", false, "list formatter passes and supported line lengths")
	fs.Bool("full", false, "show everything above")
	fs.String("format", "pretty", "output format (pretty|json)")
}

func readVersionOptions(fs *pflag.FlagSet) (versionOptions, error) {
	var opts versionOptions
	raw, err := fs.GetString("format")
	if err != nil {
		return opts, err
	}
	opts.format = strings.ToLower(strings.TrimSpace(raw))
	if opts.format != "pretty" && opts.format != "json" {
		return opts, fmt.Errorf("unsupported format %q (must be pretty or json)", raw)
	}

	full, err := fs.GetBool("full")
	if err != nil {
		return opts, err
	}
	for name, dst := range map[string]*bool{
		"hash":    &opts.showHash,
		"message": &opts.showMessage,
		"date":    &opts.showDate,
		"passes":  &opts.showPasses,
	} {
		v, err := fs.GetBool(name)
		if err != nil {
			return opts, err
		}
		*dst = v || full
	}
	return opts, nil
}

func collectVersionInfo() versionInfo {
	v := strings.TrimSpace(version.Version)
	if v == "" {
		v = "dev"
	}
	return versionInfo{
		Version:     v,
		GitCommit:   strings.TrimSpace(version.GitCommit),
		GitMessage:  strings.TrimSpace(version.GitMessage),
		BuildDate:   strings.TrimSpace(version.BuildDate),
		Passes:      format.NewPipeline(format.Options{LineLength: project.ShortLineLength}).Names(),
		LineLengths: []int{project.ShortLineLength, project.LongLineLength},
	}
}

// renderVersionPretty prints the human form; shown is the possibly
// colored version string.
func renderVersionPretty(out io.Writer, shown string, info versionInfo, opts versionOptions) {
	if shown == "" {
		shown = info.Version
	}
	fmt.Fprintf(out, "white %s: %s\n", shown, versionTagline)
	if opts.showHash {
		fmt.Fprintf(out, "commit:  %s\n", valueOrUnknown(info.GitCommit))
	}
	if opts.showMessage {
		fmt.Fprintf(out, "message: %s\n", valueOrUnknown(info.GitMessage))
	}
	if opts.showDate {
		fmt.Fprintf(out, "built:   %s\n", valueOrUnknown(info.BuildDate))
	}
	if opts.showPasses {
		lengths := make([]string, len(info.LineLengths))
		for i, n := range info.LineLengths {
			lengths[i] = strconv.Itoa(n)
		}
		fmt.Fprintf(out, "passes:  %s\n", strings.Join(info.Passes, " -> "))
		fmt.Fprintf(out, "limits:  %s\n", strings.Join(lengths, ", "))
	}
	if !opts.showHash && !opts.showMessage && !opts.showDate && !opts.showPasses {
		fmt.Fprintln(out, "set --hash, --message, --date, --passes, or --full for more")
	}
}

func renderVersionJSON(out io.Writer, info versionInfo, opts versionOptions) error {
	payload := versionPayload{
		Tool:    "white",
		Version: info.Version,
		Tagline: versionTagline,
	}
	if opts.showHash {
		payload.GitCommit = valueOrUnknown(info.GitCommit)
	}
	if opts.showMessage {
		payload.GitMessage = valueOrUnknown(info.GitMessage)
	}
	if opts.showDate {
		payload.BuildDate = valueOrUnknown(info.BuildDate)
	}
	if opts.showPasses {
		payload.Passes = info.Passes
		payload.LineLengths = info.LineLengths
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func valueOrUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

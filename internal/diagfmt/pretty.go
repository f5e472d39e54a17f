package diagfmt

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"white/internal/diag"
)

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>: <SEV> <CODE>: <Message>
// затем Notes с отступом. Цвет включается опцией.
func Pretty(w io.Writer, bag *diag.Bag, opts PrettyOpts) {
	if bag == nil {
		return
	}
	pal := newPalette(opts.Color)
	items := bag.Items()
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}
	for _, d := range items {
		loc := formatPath(d.Primary.Path, opts.PathMode, opts.BaseDir)
		if d.Primary.Line > 0 {
			loc = fmt.Sprintf("%s:%d", loc, d.Primary.Line)
		}
		msg := d.Message
		if msg == "" {
			msg = d.Code.Title()
		}
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			pal.location.Sprint(loc),
			pal.severity(d.Severity).Sprint(d.Severity.String()),
			pal.code.Sprint(d.Code.ID()),
			msg,
		)
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			noteLoc := formatPath(n.Span.Path, opts.PathMode, opts.BaseDir)
			if n.Span.Line > 0 {
				noteLoc = fmt.Sprintf("%s:%d", noteLoc, n.Span.Line)
			}
			fmt.Fprintf(w, "  %s %s: %s\n", pal.note.Sprint("note:"), noteLoc, n.Msg)
		}
	}
	if dropped := bag.Dropped(); dropped > 0 {
		fmt.Fprintf(w, "... %d more diagnostics dropped\n", dropped)
	}
}

type palette struct {
	location *color.Color
	code     *color.Color
	note     *color.Color
	errorSev *color.Color
	warnSev  *color.Color
	infoSev  *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		location: color.New(color.Bold),
		code:     color.New(color.FgMagenta),
		note:     color.New(color.FgCyan),
		errorSev: color.New(color.FgRed, color.Bold),
		warnSev:  color.New(color.FgYellow, color.Bold),
		infoSev:  color.New(color.FgBlue),
	}
	for _, c := range []*color.Color{p.location, p.code, p.note, p.errorSev, p.warnSev, p.infoSev} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.errorSev
	case diag.SevWarning:
		return p.warnSev
	default:
		return p.infoSev
	}
}

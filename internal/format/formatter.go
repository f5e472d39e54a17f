package format

import (
	"white/internal/source"
)

// Formatter is a single rewrite rule. Format must not modify src; it
// returns src itself when nothing changed.
type Formatter interface {
	Name() string
	Format(src source.Lines) source.Lines
}

// Options configures the standard pipeline.
type Options struct {
	LineLength  int // wrap limit; 0 disables wrapping
	IndentWidth int // spaces per tab and per wrap level
	SkipImports bool // leave import lines in place
}

func (o Options) withDefaults() Options {
	if o.IndentWidth <= 0 {
		o.IndentWidth = 4
	}
	return o
}

// mapLines applies fn to every line and copies src only on the first change.
func mapLines(src source.Lines, fn func(string) string) source.Lines {
	var out source.Lines
	for i, line := range src {
		next := fn(line)
		if next == line {
			continue
		}
		if out == nil {
			out = src.Clone()
		}
		out[i] = next
	}
	if out == nil {
		return src
	}
	return out
}

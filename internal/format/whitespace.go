package format

import (
	"strings"

	"white/internal/source"
)

// TrailingWhitespace removes spaces and tabs before the line terminator.
// Stray carriage returns, form feeds and vertical tabs in that run go too,
// otherwise "x \r \n" would turn into "x \r\n" and keep a trailing space.
type TrailingWhitespace struct{}

// Name implements Formatter.
func (TrailingWhitespace) Name() string { return "trailing-whitespace" }

// Format implements Formatter.
func (TrailingWhitespace) Format(src source.Lines) source.Lines {
	return mapLines(src, trimTrailing)
}

const trailingSpace = " \t\r\f\v"

func trimTrailing(line string) string {
	content, term := source.SplitTerminator(line)
	trimmed := strings.TrimRight(content, trailingSpace)
	if len(trimmed) == len(content) {
		return line
	}
	return trimmed + term
}

package format

import (
	"strings"

	"white/internal/source"
)

// Tabs replaces tab characters outside string literals with spaces.
//
// Whether a tab sits inside a literal is decided by the parity of the quote
// characters before it on the same line. Literals that span lines are not
// tracked.
type Tabs struct {
	Width int
}

// Name implements Formatter.
func (Tabs) Name() string { return "tabs" }

// Format implements Formatter.
func (f Tabs) Format(src source.Lines) source.Lines {
	width := f.Width
	if width <= 0 {
		width = 4
	}
	spaces := strings.Repeat(" ", width)
	return mapLines(src, func(line string) string {
		return expandTabs(line, spaces)
	})
}

// expandTabs walks the line with a search offset. A tab inside a literal
// moves the offset to the next quote; a tab outside is replaced and the
// search resumes from the same offset.
func expandTabs(line, spaces string) string {
	offset := 0
	for offset < len(line) {
		rel := strings.IndexByte(line[offset:], '\t')
		if rel < 0 {
			break
		}
		pos := offset + rel
		if quoteCount(line[:pos])%2 == 1 {
			next := strings.IndexAny(line[pos+1:], `"'`)
			if next < 0 {
				// literal does not close on this line
				break
			}
			offset = pos + 1 + next
			continue
		}
		line = line[:pos] + spaces + line[pos+1:]
	}
	return line
}

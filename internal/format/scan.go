package format

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// scanLine marks every byte of s that is code: outside string literals and
// before a '#' comment. It also returns the index of that '#', or -1.
// Escapes inside literals are honored; triple quotes are seen as three
// single quotes, which is close enough for one line.
func scanLine(s string) (mask []bool, comment int) {
	mask = make([]bool, len(s))
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '#':
			return mask, i
		default:
			mask[i] = true
		}
	}
	return mask, -1
}

func codeMask(s string) []bool {
	mask, _ := scanLine(s)
	return mask
}

// commentStart returns the index of the '#' that starts a comment, or -1.
func commentStart(s string) int {
	_, comment := scanLine(s)
	return comment
}

// matchingClose returns the index of the ')' that closes the '(' at open,
// or -1. Brackets inside string literals and comments are ignored.
func matchingClose(s string, open int) int {
	mask := codeMask(s)
	if open < 0 || open >= len(s) || s[open] != '(' || !mask[open] {
		return -1
	}
	depth := 0
	for i := open; i < len(s); i++ {
		if !mask[i] {
			continue
		}
		switch s[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
			if depth == 0 {
				if s[i] != ')' {
					return -1
				}
				return i
			}
			if depth < 0 {
				return -1
			}
		}
	}
	return -1
}

// splitTopLevel splits s on commas outside brackets and string literals.
func splitTopLevel(s string) []string {
	mask := codeMask(s)
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		if !mask[i] {
			continue
		}
		switch s[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// opensContinuation reports whether the code part of a line leaves a bracket
// open or ends with a backslash continuation.
func opensContinuation(content string) bool {
	mask := codeMask(content)
	depth := 0
	last := -1
	for i := 0; i < len(content); i++ {
		if !mask[i] {
			continue
		}
		switch content[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		}
		if content[i] != ' ' && content[i] != '\t' {
			last = i
		}
	}
	return depth > 0 || (last >= 0 && content[last] == '\\')
}

// quoteCount counts '"' and '\'' characters in s.
func quoteCount(s string) int {
	return strings.Count(s, `"`) + strings.Count(s, `'`)
}

// displayWidth is the column width of s. Tabs count as one column, as do
// other zero-width control characters.
func displayWidth(s string) int {
	width := 0
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 && r < 0x20 {
			w = 1
		}
		width += w
	}
	return width
}

// columnOffset returns the byte offset of the first rune that starts at or
// after column limit, or len(s) when the whole string fits.
func columnOffset(s string, limit int) int {
	col := 0
	for i, r := range s {
		if col >= limit {
			return i
		}
		w := runewidth.RuneWidth(r)
		if w == 0 && r < 0x20 {
			w = 1
		}
		col += w
	}
	return len(s)
}

// isBlank reports whether line holds nothing but whitespace.
func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

package source

import (
	"slices"
	"strings"
)

// Lines is an ordered sequence of physical lines. Every element keeps its
// own terminator; only the last element may lack one.
type Lines []string

// SplitLines splits content after every '\n', keeping terminators.
// Empty content yields an empty (non-nil) Lines.
func SplitLines(content []byte) Lines {
	out := make(Lines, 0, countLines(content))
	start := 0
	for i, b := range content {
		if b == '\n' {
			out = append(out, string(content[start:i+1]))
			start = i + 1
		}
	}
	if start < len(content) {
		out = append(out, string(content[start:]))
	}
	return out
}

// SplitString is SplitLines for string input.
func SplitString(s string) Lines {
	return SplitLines([]byte(s))
}

func countLines(content []byte) int {
	n := 0
	for _, b := range content {
		if b == '\n' {
			n++
		}
	}
	return n + 1
}

// Join concatenates the lines verbatim.
func (l Lines) Join() string {
	var sb strings.Builder
	size := 0
	for _, line := range l {
		size += len(line)
	}
	sb.Grow(size)
	for _, line := range l {
		sb.WriteString(line)
	}
	return sb.String()
}

// Bytes returns the concatenated content.
func (l Lines) Bytes() []byte {
	return []byte(l.Join())
}

// Equal reports structural equality of two line sequences.
func (l Lines) Equal(other Lines) bool {
	return slices.Equal(l, other)
}

// Clone returns an independent copy.
func (l Lines) Clone() Lines {
	if l == nil {
		return nil
	}
	return slices.Clone(l)
}

// Len returns the number of lines.
func (l Lines) Len() int {
	return len(l)
}

// SplitTerminator separates a line into its content and its terminator
// ("\r\n", "\n", "\r" or "").
func SplitTerminator(line string) (content, terminator string) {
	switch {
	case strings.HasSuffix(line, "\r\n"):
		return line[:len(line)-2], "\r\n"
	case strings.HasSuffix(line, "\n"):
		return line[:len(line)-1], "\n"
	case strings.HasSuffix(line, "\r"):
		return line[:len(line)-1], "\r"
	default:
		return line, ""
	}
}

// NewlineStyle returns the most common terminator in lines, "\n" when
// there is none or on a tie.
func NewlineStyle(lines Lines) string {
	var lf, crlf int
	for _, line := range lines {
		_, term := SplitTerminator(line)
		switch term {
		case "\n":
			lf++
		case "\r\n":
			crlf++
		}
	}
	if crlf > lf {
		return "\r\n"
	}
	return "\n"
}

// Indentation returns the leading run of spaces and tabs.
func Indentation(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

package format

import (
	"regexp"
	"strings"

	"white/internal/source"
)

// defHeaderRe matches the start of a function definition up to its '('.
var (
	defHeaderRe = regexp.MustCompile(`^([ \t]*)((?:async\s+)?def\s+[A-Za-z_]\w*\s*)\(`)
	defTailRe   = regexp.MustCompile(`^\s*(->\s*[^:]+?)?\s*:\s*(#.*)?$`)
)

// LineLength wraps lines whose width reaches Limit.
//
// Function definitions are split into header, parameters and closing line.
// Other lines are split at an opening parenthesis within the limit whose
// matching ')' ends the line. Anything else is left as is.
type LineLength struct {
	Limit  int
	Indent int // extra indentation of wrapped lines, 4 when zero
}

// Name implements Formatter.
func (LineLength) Name() string { return "line-length" }

// Format implements Formatter.
func (f LineLength) Format(src source.Lines) source.Lines {
	if f.Limit <= 0 {
		return src
	}
	var out source.Lines
	for i, line := range src {
		wrapped, ok := f.wrap(line)
		if !ok {
			if out != nil {
				out = append(out, line)
			}
			continue
		}
		if out == nil {
			out = make(source.Lines, 0, len(src)+len(wrapped))
			out = append(out, src[:i]...)
		}
		out = append(out, wrapped...)
	}
	if out == nil {
		return src
	}
	return out
}

func (f LineLength) step() string {
	if f.Indent <= 0 {
		return "    "
	}
	return strings.Repeat(" ", f.Indent)
}

// wrap returns the replacement lines for line, or false when the line is
// under the limit or cannot be wrapped.
func (f LineLength) wrap(line string) (source.Lines, bool) {
	content, term := source.SplitTerminator(line)
	if displayWidth(content) < f.Limit {
		return nil, false
	}
	if term == "" {
		term = "\n"
	}
	if out, ok := f.wrapDefinition(content, term); ok {
		return f.keepLastTerminator(out, line), true
	}
	if out, ok := f.wrapCall(content, term); ok {
		return f.keepLastTerminator(out, line), true
	}
	return nil, false
}

// keepLastTerminator drops the terminator of the last produced line when
// the source line had none.
func (f LineLength) keepLastTerminator(out source.Lines, orig string) source.Lines {
	if _, term := source.SplitTerminator(orig); term != "" {
		return out
	}
	last := len(out) - 1
	out[last], _ = source.SplitTerminator(out[last])
	return out
}

// wrapDefinition splits a one-line function header:
//
//	def name(a, b, c) -> T:
//
// becomes
//
//	def name(
//	    a, b, c
//	) -> T:
//
// with one parameter per line (each followed by a comma) when the joined
// parameters still do not fit.
func (f LineLength) wrapDefinition(content, term string) (source.Lines, bool) {
	loc := defHeaderRe.FindStringSubmatchIndex(content)
	if loc == nil {
		return nil, false
	}
	indent := content[loc[2]:loc[3]]
	open := loc[1] - 1
	closeIdx := matchingClose(content, open)
	if closeIdx < 0 {
		return nil, false
	}
	tail := content[closeIdx+1:]
	if !defTailRe.MatchString(tail) {
		return nil, false
	}
	params := strings.TrimSpace(content[open+1 : closeIdx])
	if params == "" {
		return nil, false
	}

	inner := indent + f.step()
	out := source.Lines{content[:open+1] + term}
	if joined := inner + params; displayWidth(joined) < f.Limit {
		out = append(out, joined+term)
	} else {
		for _, p := range splitTopLevel(params) {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			out = append(out, inner+p+","+term)
		}
	}
	out = append(out, indent+")"+strings.TrimRight(tail, " \t")+term)
	return out, true
}

// wrapCall splits a line at an opening parenthesis inside the limit whose
// matching ')' is the last non-blank character:
//
//	result = compute(alpha, beta)
//
// becomes
//
//	result = compute(
//	    alpha, beta
//	)
//
// The '(' is searched right to left within the limit; only the one matched
// by the final ')' qualifies. The inner part must fit under the limit.
func (f LineLength) wrapCall(content, term string) (source.Lines, bool) {
	mask := codeMask(content)
	last := len(strings.TrimRight(content, " \t")) - 1
	if last < 0 || content[last] != ')' || !mask[last] {
		return nil, false
	}
	indent := source.Indentation(content)
	inner := indent + f.step()

	for i := columnOffset(content, f.Limit) - 1; i >= len(indent); i-- {
		if content[i] != '(' || !mask[i] {
			continue
		}
		if matchingClose(content, i) != last {
			continue
		}
		body := strings.TrimSpace(content[i+1 : last])
		if body == "" {
			continue
		}
		if displayWidth(inner+body) >= f.Limit {
			return nil, false
		}
		return source.Lines{
			content[:i+1] + term,
			inner + body + term,
			indent + ")" + term,
		}, true
	}
	return nil, false
}

// Overlong returns the 1-based numbers of lines whose width reaches limit.
func Overlong(lines source.Lines, limit int) []int {
	if limit <= 0 {
		return nil
	}
	var out []int
	for i, line := range lines {
		content, _ := source.SplitTerminator(line)
		if displayWidth(content) >= limit {
			out = append(out, i+1)
		}
	}
	return out
}

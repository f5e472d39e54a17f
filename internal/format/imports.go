package format

import (
	"regexp"
	"strings"

	"white/internal/source"
)

var (
	plainImportRe = regexp.MustCompile(`^import\s+\S`)
	fromImportRe  = regexp.MustCompile(`^from\s+\S+\s+import\s+\S`)
	// prefix and names of an import statement
	importPartsRe = regexp.MustCompile(`^(import|from\s+\S+\s+import)\s+(.*)$`)
)

type importKind uint8

const (
	notImport importKind = iota
	plainImport
	fromImport
)

// Imports moves import statements to the top of the file and splits
// comma-imports into one statement per name.
//
// The moved lines keep their relative order and lose their indentation.
// When a from-import was moved, a blank line separates the block from the
// rest of the file.
type Imports struct{}

// Name implements Formatter.
func (Imports) Name() string { return "imports" }

// Format implements Formatter.
func (Imports) Format(src source.Lines) source.Lines {
	var imports, others source.Lines
	sawFrom := false
	for _, line := range src {
		stripped := strings.TrimLeft(line, " \t")
		kind := classifyImport(stripped)
		if kind == notImport {
			others = append(others, line)
			continue
		}
		if kind == fromImport {
			sawFrom = true
		}
		imports = append(imports, splitImport(stripped)...)
	}
	if len(imports) == 0 {
		return src
	}

	newline := source.NewlineStyle(src)
	out := make(source.Lines, 0, len(imports)+len(others)+1)
	out = append(out, imports...)
	if sawFrom && len(others) > 0 && !isBlank(others[0]) {
		out = append(out, newline)
	}
	out = append(out, others...)

	// a line that used to end the file may now be followed by others
	for i := 0; i < len(out)-1; i++ {
		if _, term := source.SplitTerminator(out[i]); term == "" {
			out[i] += newline
		}
	}

	if out.Equal(src) {
		return src
	}
	return out
}

func classifyImport(stripped string) importKind {
	content, _ := source.SplitTerminator(stripped)
	var kind importKind
	switch {
	case plainImportRe.MatchString(content):
		kind = plainImport
	case fromImportRe.MatchString(content):
		kind = fromImport
	default:
		return notImport
	}
	// moving only the first physical line of a continued statement would
	// break it
	if opensContinuation(content) {
		return notImport
	}
	return kind
}

// splitImport turns "import a, b" into "import a" and "import b". The
// statement prefix is repeated for from-imports; a trailing comment stays
// on the last line.
func splitImport(line string) source.Lines {
	content, term := source.SplitTerminator(line)
	code, comment := splitComment(content)
	if !strings.Contains(code, ",") {
		return source.Lines{line}
	}

	m := importPartsRe.FindStringSubmatch(strings.TrimRight(code, " \t"))
	if m == nil {
		return source.Lines{line}
	}
	prefix := strings.Join(strings.Fields(m[1]), " ") + " "
	body := strings.TrimSpace(m[2])
	if strings.HasPrefix(body, "(") && strings.HasSuffix(body, ")") {
		body = strings.TrimSpace(body[1 : len(body)-1])
	}

	var names []string
	for _, name := range splitTopLevel(body) {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	if len(names) < 2 {
		return source.Lines{line}
	}

	innerTerm := term
	if innerTerm == "" {
		innerTerm = "\n"
	}
	out := make(source.Lines, 0, len(names))
	for i, name := range names {
		if i < len(names)-1 {
			out = append(out, prefix+name+innerTerm)
			continue
		}
		out = append(out, prefix+name+comment+term)
	}
	return out
}

// splitComment separates a trailing '#' comment, keeping the whitespace in
// front of it with the comment.
func splitComment(content string) (code, comment string) {
	cut := commentStart(content)
	if cut < 0 {
		return content, ""
	}
	code = strings.TrimRight(content[:cut], " \t")
	return code, content[len(code):]
}

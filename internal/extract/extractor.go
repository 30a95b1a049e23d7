package extract

import (
	"strings"

	"github.com/deltascope/deltascope/internal/lang"
)

// Function is one extracted function boundary. Lines are 1-indexed and
// inclusive; EndLine is the line before the next signature, or the last
// line of the file for the final function.
type Function struct {
	Name      string `json:"name"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
}

// Extractor locates function boundaries in file content. The default
// is regex-based; an AST-backed implementation can be swapped in per
// language without touching the analyzer.
type Extractor interface {
	Extract(content string) []Function
}

// RegexExtractor finds functions by matching the language's signature
// pattern line by line. Bodies are approximated as the text range up to
// the next signature, so a function may include trailing blank lines.
type RegexExtractor struct {
	language *lang.Language
}

func NewRegexExtractor(l *lang.Language) *RegexExtractor {
	return &RegexExtractor{language: l}
}

func (e *RegexExtractor) Extract(content string) []Function {
	if content == "" {
		return nil
	}

	lines := strings.Split(content, "\n")
	var funcs []Function

	for i, line := range lines {
		m := e.language.Pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := lang.FunctionName(m)
		if name == "" {
			continue
		}
		funcs = append(funcs, Function{Name: name, StartLine: i + 1})
	}

	for i := range funcs {
		if i+1 < len(funcs) {
			funcs[i].EndLine = funcs[i+1].StartLine - 1
		} else {
			funcs[i].EndLine = len(lines)
		}
	}

	return funcs
}

// ForFile returns the default extractor for a path, or nil when the
// file's language is not configured.
func ForFile(path string) Extractor {
	l, ok := lang.ForFile(path)
	if !ok {
		return nil
	}
	return NewRegexExtractor(l)
}

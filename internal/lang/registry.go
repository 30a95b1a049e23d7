package lang

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Language describes one supported source language: a display name, the
// parser identifier used by the complexity tables, and the signature
// pattern used for function boundary detection.
type Language struct {
	Name     string
	ParserID string
	Pattern  *regexp.Regexp
}

// Signature patterns capture the function name in the first non-empty
// submatch. These are deliberate approximations: they match declaration
// lines, not full syntax, so nested or unusually formatted declarations
// may be missed.
var languages = map[string]*Language{
	".go": {
		Name:     "Go",
		ParserID: "go",
		Pattern:  regexp.MustCompile(`^func\s+(?:\([^)]+\)\s+)?(\w+)\s*\(`),
	},
	".py": {
		Name:     "Python",
		ParserID: "python",
		Pattern:  regexp.MustCompile(`^\s*def\s+(\w+)\s*\(`),
	},
	".js": {
		Name:     "JavaScript",
		ParserID: "javascript",
		Pattern:  regexp.MustCompile(`^\s*(?:export\s+)?(?:async\s+)?function\s+(\w+)\s*\(|^\s*(?:export\s+)?const\s+(\w+)\s*=\s*(?:async\s*)?(?:function\b|\()`),
	},
	".jsx": {
		Name:     "JavaScript",
		ParserID: "javascript",
		Pattern:  regexp.MustCompile(`^\s*(?:export\s+)?(?:async\s+)?function\s+(\w+)\s*\(|^\s*(?:export\s+)?const\s+(\w+)\s*=\s*(?:async\s*)?(?:function\b|\()`),
	},
	".ts": {
		Name:     "TypeScript",
		ParserID: "typescript",
		Pattern:  regexp.MustCompile(`^\s*(?:export\s+)?(?:async\s+)?function\s+(\w+)\s*\(|^\s*(?:export\s+)?const\s+(\w+)\s*=\s*(?:async\s*)?(?:function\b|\()`),
	},
	".tsx": {
		Name:     "TypeScript",
		ParserID: "typescript",
		Pattern:  regexp.MustCompile(`^\s*(?:export\s+)?(?:async\s+)?function\s+(\w+)\s*\(|^\s*(?:export\s+)?const\s+(\w+)\s*=\s*(?:async\s*)?(?:function\b|\()`),
	},
	".java": {
		Name:     "Java",
		ParserID: "java",
		Pattern:  regexp.MustCompile(`^\s*(?:public|private|protected)\s+(?:static\s+|final\s+|synchronized\s+)*[\w<>\[\],\s]+?\s(\w+)\s*\([^;]*$`),
	},
	".rb": {
		Name:     "Ruby",
		ParserID: "ruby",
		Pattern:  regexp.MustCompile(`^\s*def\s+(\w+[?!]?)`),
	},
	".rs": {
		Name:     "Rust",
		ParserID: "rust",
		Pattern:  regexp.MustCompile(`^\s*(?:pub(?:\([^)]*\))?\s+)?(?:async\s+)?fn\s+(\w+)`),
	},
	".c": {
		Name:     "C",
		ParserID: "c",
		Pattern:  regexp.MustCompile(`^\w[\w\s\*]*?\s\*?(\w+)\s*\([^;]*\)\s*\{?\s*$`),
	},
	".cpp": {
		Name:     "C++",
		ParserID: "cpp",
		Pattern:  regexp.MustCompile(`^\w[\w\s:<>,\*&]*?\s\*?(\w+)\s*\([^;]*\)\s*\{?\s*$`),
	},
	".cc": {
		Name:     "C++",
		ParserID: "cpp",
		Pattern:  regexp.MustCompile(`^\w[\w\s:<>,\*&]*?\s\*?(\w+)\s*\([^;]*\)\s*\{?\s*$`),
	},
}

// ForFile returns the language for a file path based on its extension.
func ForFile(path string) (*Language, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	l, ok := languages[ext]
	return l, ok
}

// Supported reports whether the file's extension maps to a configured
// source language.
func Supported(path string) bool {
	_, ok := ForFile(path)
	return ok
}

// Extensions returns all configured extensions, for config display.
func Extensions() []string {
	exts := make([]string, 0, len(languages))
	for ext := range languages {
		exts = append(exts, ext)
	}
	return exts
}

// FunctionName extracts the captured name from a signature match.
// Patterns with alternations have multiple capture groups; the first
// non-empty one wins.
func FunctionName(match []string) string {
	for _, group := range match[1:] {
		if group != "" {
			return group
		}
	}
	return ""
}

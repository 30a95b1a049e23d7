package complexity

import (
	"regexp"
	"strings"

	"github.com/deltascope/deltascope/internal/lang"
)

// CognitiveEvaluator computes a nesting-aware complexity score per
// function, following the shape of Sonar's cognitive complexity:
// control flow costs 1 plus its nesting depth, while else-branches and
// boolean operator sequences cost a flat 1. Only a few languages are
// supported; callers treat a missing evaluator as "metric unavailable".
type CognitiveEvaluator struct {
	parserID  string
	signature *regexp.Regexp
}

var cognitiveSupported = map[string]bool{
	"go":         true,
	"python":     true,
	"javascript": true,
	"typescript": true,
}

// ForFile returns a cognitive evaluator for the file's language, or nil
// when the language has no evaluator.
func ForFile(path string) *CognitiveEvaluator {
	l, ok := lang.ForFile(path)
	if !ok || !cognitiveSupported[l.ParserID] {
		return nil
	}
	return &CognitiveEvaluator{parserID: l.ParserID, signature: l.Pattern}
}

// Evaluate scores every function found in the slice and returns a map
// of function name to cognitive complexity.
func (e *CognitiveEvaluator) Evaluate(source string) (map[string]int, error) {
	lines := strings.Split(source, "\n")

	type boundary struct {
		name  string
		start int // index into lines
	}
	var bounds []boundary
	for i, line := range lines {
		m := e.signature.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if name := lang.FunctionName(m); name != "" {
			bounds = append(bounds, boundary{name: name, start: i})
		}
	}

	scores := make(map[string]int, len(bounds))
	for i, b := range bounds {
		end := len(lines)
		if i+1 < len(bounds) {
			end = bounds[i+1].start
		}
		body := lines[b.start:end]
		if e.parserID == "python" {
			scores[b.name] = scoreIndented(body)
		} else {
			scores[b.name] = scoreBraced(body)
		}
	}
	return scores, nil
}

// Lookup resolves a function's score from an evaluation result. When
// the exact name is absent and the map holds exactly one entry, that
// entry is used; otherwise the score degrades to 0.
func Lookup(scores map[string]int, name string) int {
	if v, ok := scores[name]; ok {
		return v
	}
	if len(scores) == 1 {
		for _, v := range scores {
			return v
		}
	}
	return 0
}

var (
	nestingKeywords = regexp.MustCompile(`^\s*(if|for|while|switch|select|except|try|catch|with)\b`)
	elseKeywords    = regexp.MustCompile(`^\s*(\}?\s*else\b|elif\b)`)
	boolOperators   = regexp.MustCompile(`&&|\|\||\b(and|or)\b`)
)

// scoreIndented walks a Python-style body using indentation as the
// nesting measure. The first indented body line sets the indent unit.
func scoreIndented(body []string) int {
	if len(body) == 0 {
		return 0
	}
	defIndent := indentOf(body[0])
	unit := 0
	score := 0

	for _, line := range body[1:] {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		indent := indentOf(line)
		if unit == 0 && indent > defIndent {
			unit = indent - defIndent
		}

		nesting := 0
		if unit > 0 && indent > defIndent+unit {
			nesting = (indent - defIndent - unit) / unit
		}

		switch {
		case elseKeywords.MatchString(line):
			score++
		case nestingKeywords.MatchString(line):
			score += 1 + nesting
		}
		score += len(boolOperators.FindAllString(trimmed, -1))
	}
	return score
}

// scoreBraced walks a brace-delimited body tracking depth from brace
// balance. Keyword cost is assessed at the depth before the line's own
// braces apply.
func scoreBraced(body []string) int {
	score := 0
	depth := 0

	for _, line := range body {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "//") {
			depth += braceDelta(line)
			continue
		}

		nesting := depth - 1 // depth 1 is the function body itself
		if nesting < 0 {
			nesting = 0
		}

		switch {
		case elseKeywords.MatchString(line):
			score++
		case nestingKeywords.MatchString(line):
			score += 1 + nesting
		}
		score += len(boolOperators.FindAllString(trimmed, -1))

		depth += braceDelta(line)
	}
	return score
}

func braceDelta(line string) int {
	return strings.Count(line, "{") - strings.Count(line, "}")
}

func indentOf(line string) int {
	n := 0
	for _, r := range line {
		switch r {
		case ' ':
			n++
		case '\t':
			n += 4
		default:
			return n
		}
	}
	return n
}

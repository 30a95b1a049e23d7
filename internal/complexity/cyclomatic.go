package complexity

import (
	"regexp"
)

// patternTable drives keyword-count cyclomatic complexity for one
// language. Complexity is the sum of function entries, control-flow
// keywords (conditionals, loops, jumps) and logical operators found in
// the slice. This approximates path counting without parsing; keywords
// inside strings or comments are counted too, an accepted inaccuracy.
type patternTable struct {
	function  *regexp.Regexp
	keywords  *regexp.Regexp
	operators *regexp.Regexp
}

var cyclomaticTables = map[string]patternTable{
	"go": {
		function:  regexp.MustCompile(`(?m)^\s*func\b`),
		keywords:  regexp.MustCompile(`\b(if|for|case|return|break|continue|goto)\b`),
		operators: regexp.MustCompile(`&&|\|\|`),
	},
	"python": {
		function:  regexp.MustCompile(`(?m)^\s*def\s`),
		keywords:  regexp.MustCompile(`\b(if|elif|for|while|except|return|break|continue|raise)\b`),
		operators: regexp.MustCompile(`\b(and|or)\b`),
	},
	"javascript": {
		function:  regexp.MustCompile(`\bfunction\b|=>`),
		keywords:  regexp.MustCompile(`\b(if|for|while|case|catch|return|break|continue|throw)\b`),
		operators: regexp.MustCompile(`&&|\|\||\?`),
	},
	"typescript": {
		function:  regexp.MustCompile(`\bfunction\b|=>`),
		keywords:  regexp.MustCompile(`\b(if|for|while|case|catch|return|break|continue|throw)\b`),
		operators: regexp.MustCompile(`&&|\|\|`),
	},
	"java": {
		function:  regexp.MustCompile(`(?m)^\s*(?:public|private|protected)[^;{=]*\([^;]*$`),
		keywords:  regexp.MustCompile(`\b(if|for|while|case|catch|return|break|continue|throw)\b`),
		operators: regexp.MustCompile(`&&|\|\|`),
	},
	"ruby": {
		function:  regexp.MustCompile(`(?m)^\s*def\s`),
		keywords:  regexp.MustCompile(`\b(if|elsif|unless|for|while|until|when|rescue|return|break|next|raise)\b`),
		operators: regexp.MustCompile(`&&|\|\||\b(and|or)\b`),
	},
	"rust": {
		function:  regexp.MustCompile(`\bfn\s`),
		keywords:  regexp.MustCompile(`\b(if|for|while|loop|match|return|break|continue)\b`),
		operators: regexp.MustCompile(`&&|\|\|`),
	},
	"c": {
		function:  regexp.MustCompile(`(?m)^\w[\w\s\*]*\([^;]*\)\s*\{?\s*$`),
		keywords:  regexp.MustCompile(`\b(if|for|while|case|return|break|continue|goto)\b`),
		operators: regexp.MustCompile(`&&|\|\|`),
	},
	"cpp": {
		function:  regexp.MustCompile(`(?m)^\w[\w\s:<>,\*&]*\([^;]*\)\s*\{?\s*$`),
		keywords:  regexp.MustCompile(`\b(if|for|while|case|catch|return|break|continue|goto|throw)\b`),
		operators: regexp.MustCompile(`&&|\|\|`),
	},
}

// Evaluate computes the cyclomatic complexity and function count for a
// source slice using the language's pattern table. Unknown parser IDs
// yield (0, 0); the caller is expected to clamp the complexity of a
// non-empty slice to a minimum of 1.
func Evaluate(source, parserID string) (complexity, functions int) {
	table, ok := cyclomaticTables[parserID]
	if !ok {
		return 0, 0
	}

	functions = len(table.function.FindAllStringIndex(source, -1))
	complexity = functions
	complexity += len(table.keywords.FindAllStringIndex(source, -1))
	complexity += len(table.operators.FindAllStringIndex(source, -1))
	return complexity, functions
}

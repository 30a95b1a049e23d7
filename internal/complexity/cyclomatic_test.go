package complexity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluatePythonSimple(t *testing.T) {
	// One function entry plus one jump.
	complexity, functions := Evaluate("def f(): return 1", "python")
	assert.Equal(t, 2, complexity)
	assert.Equal(t, 1, functions)
}

func TestEvaluatePythonWithBranch(t *testing.T) {
	source := `def f():
    if x > 0:
        return 1
    return 2`

	complexity, functions := Evaluate(source, "python")
	assert.Equal(t, 4, complexity, "def + if + two returns")
	assert.Equal(t, 1, functions)
}

func TestEvaluateGo(t *testing.T) {
	source := `func add(a, b int) int {
	if a > 0 && b > 0 {
		return a + b
	}
	return 0
}`

	complexity, functions := Evaluate(source, "go")
	// func + if + && + two returns
	assert.Equal(t, 5, complexity)
	assert.Equal(t, 1, functions)
}

func TestEvaluateLogicalOperators(t *testing.T) {
	withOps, _ := Evaluate("def f():\n    if a and b or c:\n        return 1", "python")
	withoutOps, _ := Evaluate("def f():\n    if a:\n        return 1", "python")
	assert.Equal(t, 2, withOps-withoutOps, "and/or each add one path")
}

func TestEvaluateUnknownLanguage(t *testing.T) {
	complexity, functions := Evaluate("whatever source", "cobol")
	assert.Zero(t, complexity)
	assert.Zero(t, functions)
}

func TestEvaluateCountsMultipleFunctions(t *testing.T) {
	source := `def a():
    return 1

def b():
    return 2`

	_, functions := Evaluate(source, "python")
	assert.Equal(t, 2, functions)
}

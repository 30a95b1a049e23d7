package complexity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForFileSupport(t *testing.T) {
	assert.NotNil(t, ForFile("app.py"))
	assert.NotNil(t, ForFile("main.go"))
	assert.Nil(t, ForFile("Main.java"), "no cognitive evaluator for Java")
	assert.Nil(t, ForFile("notes.txt"))
}

func TestNestingCostsMoreThanSequence(t *testing.T) {
	nested := `def f(x):
    if x:
        if x > 1:
            return 2
    return 1`

	flat := `def g(x):
    if x:
        return 2
    if x > 1:
        return 3`

	ev := ForFile("app.py")
	require.NotNil(t, ev)

	nestedScores, err := ev.Evaluate(nested)
	require.NoError(t, err)
	flatScores, err := ev.Evaluate(flat)
	require.NoError(t, err)

	assert.Greater(t, nestedScores["f"], flatScores["g"],
		"the nested conditional must score higher than the same branch count in sequence")
}

func TestEvaluateGoNesting(t *testing.T) {
	source := `func process(items []int) int {
	total := 0
	for _, item := range items {
		if item > 0 {
			total += item
		}
	}
	return total
}`

	ev := ForFile("main.go")
	require.NotNil(t, ev)

	scores, err := ev.Evaluate(source)
	require.NoError(t, err)
	// for at depth 0 costs 1, nested if costs 2.
	assert.Equal(t, 3, scores["process"])
}

func TestEvaluateElseBranch(t *testing.T) {
	source := `def f(x):
    if x:
        return 1
    else:
        return 2`

	ev := ForFile("app.py")
	require.NotNil(t, ev)

	scores, err := ev.Evaluate(source)
	require.NoError(t, err)
	assert.Equal(t, 2, scores["f"], "if costs 1, else costs a flat 1")
}

func TestLookup(t *testing.T) {
	scores := map[string]int{"f": 7}

	assert.Equal(t, 7, Lookup(scores, "f"))
	assert.Equal(t, 7, Lookup(scores, "missing"), "single-entry map is the fallback")

	many := map[string]int{"a": 1, "b": 2}
	assert.Equal(t, 0, Lookup(many, "missing"))
	assert.Equal(t, 0, Lookup(nil, "f"))
}

package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func changedSet(lines ...int) map[int]struct{} {
	set := make(map[int]struct{}, len(lines))
	for _, l := range lines {
		set[l] = struct{}{}
	}
	return set
}

func TestMapChangedLines(t *testing.T) {
	funcs := []Function{
		{Name: "a", StartLine: 1, EndLine: 10},
		{Name: "b", StartLine: 11, EndLine: 20},
		{Name: "c", StartLine: 21, EndLine: 30},
	}

	affected := MapChangedLines(funcs, changedSet(5, 25))
	assert.Len(t, affected, 2)
	assert.Equal(t, "a", affected[0].Name)
	assert.Equal(t, "c", affected[1].Name)
}

func TestMapChangedLinesBoundaries(t *testing.T) {
	funcs := []Function{{Name: "f", StartLine: 10, EndLine: 20}}

	assert.Len(t, MapChangedLines(funcs, changedSet(10)), 1, "start line is inclusive")
	assert.Len(t, MapChangedLines(funcs, changedSet(20)), 1, "end line is inclusive")
	assert.Empty(t, MapChangedLines(funcs, changedSet(9)))
	assert.Empty(t, MapChangedLines(funcs, changedSet(21)))
}

func TestMapChangedLinesEmpty(t *testing.T) {
	assert.Empty(t, MapChangedLines(nil, changedSet(1)))
	assert.Empty(t, MapChangedLines([]Function{{Name: "f", StartLine: 1, EndLine: 2}}, nil))
}

func TestCountChangedLines(t *testing.T) {
	fn := Function{Name: "f", StartLine: 10, EndLine: 20}
	assert.Equal(t, 2, CountChangedLines(fn, changedSet(10, 15, 25)))
	assert.Equal(t, 0, CountChangedLines(fn, changedSet(1, 2)))
}

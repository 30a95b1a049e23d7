package extract

// MapChangedLines returns the subset of functions whose line range
// intersects any of the changed line numbers, preserving extraction
// order. Pure and stateless.
func MapChangedLines(funcs []Function, changed map[int]struct{}) []Function {
	if len(funcs) == 0 || len(changed) == 0 {
		return nil
	}

	var affected []Function
	for _, fn := range funcs {
		if intersects(fn, changed) {
			affected = append(affected, fn)
		}
	}
	return affected
}

// CountChangedLines counts how many changed lines fall inside the
// function's range.
func CountChangedLines(fn Function, changed map[int]struct{}) int {
	n := 0
	for line := range changed {
		if line >= fn.StartLine && line <= fn.EndLine {
			n++
		}
	}
	return n
}

func intersects(fn Function, changed map[int]struct{}) bool {
	// Iterate the smaller side: for typical diffs the changed set is
	// far smaller than the function's span.
	if len(changed) <= fn.EndLine-fn.StartLine+1 {
		for line := range changed {
			if line >= fn.StartLine && line <= fn.EndLine {
				return true
			}
		}
		return false
	}
	for line := fn.StartLine; line <= fn.EndLine; line++ {
		if _, ok := changed[line]; ok {
			return true
		}
	}
	return false
}

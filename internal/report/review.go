package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/deltascope/deltascope/internal/delta"
)

// ReviewFormatter renders a DeltaDiff as a prioritized markdown review
// plan. Formatting is pure: the same diff always yields byte-identical
// output.
type ReviewFormatter struct{}

func NewReviewFormatter() *ReviewFormatter {
	return &ReviewFormatter{}
}

// FormatReview renders the review plan to a string.
func FormatReview(d *delta.DeltaDiff) string {
	var b strings.Builder
	_ = (&ReviewFormatter{}).Format(d, &b)
	return b.String()
}

// Format writes the review plan. Section order is fixed: header,
// overview, critical changes, refactorings, added functions, remaining
// modified functions, deleted functions.
func (f *ReviewFormatter) Format(d *delta.DeltaDiff, w io.Writer) error {
	fmt.Fprintf(w, "# Delta Review Strategy - %s\n\n", shortCommit(d.TargetCommit))

	f.writeOverview(d, w)

	if d.Empty() {
		fmt.Fprintf(w, "No changes detected\n")
		return nil
	}

	f.writeCriticalChanges(d, w)
	f.writeRefactorings(d, w)
	f.writeAddedFunctions(d, w)
	f.writeModifiedSummary(d, w)
	f.writeDeletedFunctions(d, w)
	return nil
}

func (f *ReviewFormatter) writeOverview(d *delta.DeltaDiff, w io.Writer) {
	fmt.Fprintf(w, "## Overview\n\n")
	fmt.Fprintf(w, "Comparing %s -> %s\n\n", shortCommit(d.BaseCommit), shortCommit(d.TargetCommit))
	fmt.Fprintf(w, "- Functions added: %d\n", len(d.AddedFunctions))
	fmt.Fprintf(w, "- Functions modified: %d\n", len(d.ModifiedFunctions))
	fmt.Fprintf(w, "- Functions deleted: %d\n", len(d.DeletedFunctions))
	fmt.Fprintf(w, "- Cyclomatic complexity delta: %+d\n", d.TotalComplexityDelta)

	switch {
	case d.TotalComplexityDelta > 20:
		fmt.Fprintf(w, "  - ⚠️ Significant complexity increase - consider splitting this change\n")
	case d.TotalComplexityDelta < -20:
		fmt.Fprintf(w, "  - ✅ Major complexity reduction - verify behavior is preserved\n")
	}

	fmt.Fprintf(w, "- Cognitive complexity delta: %+d\n", d.TotalCognitiveDelta)
	switch {
	case d.TotalCognitiveDelta > 15:
		fmt.Fprintf(w, "  - ⚠️ Code is getting harder to read - review nesting depth\n")
	case d.TotalCognitiveDelta < -15:
		fmt.Fprintf(w, "  - ✅ Readability improved substantially\n")
	}

	fmt.Fprintf(w, "- Estimated review time: %s\n\n", formatMinutes(d.TotalReviewTimeMinutes))
}

func (f *ReviewFormatter) writeCriticalChanges(d *delta.DeltaDiff, w io.Writer) {
	if len(d.CriticalChanges) == 0 {
		return
	}
	fmt.Fprintf(w, "## Critical Changes\n\n")
	fmt.Fprintf(w, "Ranked by hotspot score (complexity × churn).\n\n")
	for i, fc := range d.CriticalChanges {
		fmt.Fprintf(w, "### %d. %s\n\n", i+1, changeTitle(fc))
		writeChangeDetail(w, fc)
		writeChecklist(w, checklistFor(fc))
	}
}

func (f *ReviewFormatter) writeRefactorings(d *delta.DeltaDiff, w io.Writer) {
	if len(d.Refactorings) == 0 {
		return
	}
	fmt.Fprintf(w, "## Refactorings\n\n")
	fmt.Fprintf(w, "Modified functions whose complexity decreased.\n\n")
	for _, fc := range d.Refactorings {
		fmt.Fprintf(w, "### %s\n\n", changeTitle(fc))
		writeChangeDetail(w, fc)
		writeChecklist(w, refactoringChecklist)
	}
}

func (f *ReviewFormatter) writeAddedFunctions(d *delta.DeltaDiff, w io.Writer) {
	if len(d.AddedFunctions) == 0 {
		return
	}
	fmt.Fprintf(w, "## Added Functions\n\n")

	var high, standard []delta.FunctionChange
	for _, fc := range d.AddedFunctions {
		if fc.ComplexityAfter != nil && *fc.ComplexityAfter > 10 {
			high = append(high, fc)
		} else {
			standard = append(standard, fc)
		}
	}

	if len(high) > 0 {
		fmt.Fprintf(w, "### High Complexity (>10)\n\n")
		for _, fc := range high {
			fmt.Fprintf(w, "- %s — complexity %d, est. %s\n",
				changeTitle(fc), derefOr(fc.ComplexityAfter, 0), formatMinutes(fc.ReviewTimeMinutes))
		}
		fmt.Fprintf(w, "\n")
	}
	if len(standard) > 0 {
		fmt.Fprintf(w, "### Standard\n\n")
		for _, fc := range standard {
			fmt.Fprintf(w, "- %s — complexity %d, est. %s\n",
				changeTitle(fc), derefOr(fc.ComplexityAfter, 0), formatMinutes(fc.ReviewTimeMinutes))
		}
		fmt.Fprintf(w, "\n")
	}
}

func (f *ReviewFormatter) writeModifiedSummary(d *delta.DeltaDiff, w io.Writer) {
	critical := make(map[string]bool, len(d.CriticalChanges))
	for _, fc := range d.CriticalChanges {
		critical[changeKey(fc)] = true
	}

	var rest []delta.FunctionChange
	for _, fc := range d.ModifiedFunctions {
		if !critical[changeKey(fc)] {
			rest = append(rest, fc)
		}
	}
	if len(rest) == 0 {
		return
	}

	fmt.Fprintf(w, "## Other Modified Functions\n\n")
	for _, fc := range rest {
		fmt.Fprintf(w, "- %s — cyclomatic %s, %d line(s) changed\n",
			changeTitle(fc), beforeAfter(fc.ComplexityBefore, fc.ComplexityAfter), fc.LinesChanged)
	}
	fmt.Fprintf(w, "\n")
}

func (f *ReviewFormatter) writeDeletedFunctions(d *delta.DeltaDiff, w io.Writer) {
	if len(d.DeletedFunctions) == 0 {
		return
	}
	fmt.Fprintf(w, "## Deleted Functions\n\n")
	for _, fc := range d.DeletedFunctions {
		fmt.Fprintf(w, "- %s — removed complexity %d\n",
			changeTitle(fc), derefOr(fc.ComplexityBefore, 0))
	}
	fmt.Fprintf(w, "\n")
}

func writeChangeDetail(w io.Writer, fc delta.FunctionChange) {
	fmt.Fprintf(w, "- Change: %s\n", fc.ChangeType)
	fmt.Fprintf(w, "- Cyclomatic: %s\n", beforeAfter(fc.ComplexityBefore, fc.ComplexityAfter))
	fmt.Fprintf(w, "- Cognitive: %s\n", beforeAfter(fc.CognitiveBefore, fc.CognitiveAfter))
	fmt.Fprintf(w, "- Hotspot score: %.1f\n", fc.HotspotScore)
	fmt.Fprintf(w, "- Estimated review: %s\n", formatMinutes(fc.ReviewTimeMinutes))
	if fc.LastAuthor != "" {
		fmt.Fprintf(w, "- Last touched by %s (%s)\n", fc.LastAuthor, fc.LastModified)
	}
	fmt.Fprintf(w, "\n")
}

// Checklist selection, in decision order: runaway complexity growth
// first, then moderate growth, then complexity reduction, then brand
// new code, then a short general list.
func checklistFor(fc delta.FunctionChange) []string {
	switch {
	case fc.ComplexityDelta > 20:
		return highComplexityChecklist
	case fc.ComplexityDelta > 5:
		return moderateChecklist
	case fc.ComplexityDelta < 0:
		return refactoringChecklist
	case fc.ChangeType == delta.Added:
		items := newFunctionChecklist
		if fc.ComplexityAfter != nil && *fc.ComplexityAfter > 15 {
			items = append(append([]string{}, items...),
				"Consider whether this function can be simplified or split")
		}
		return items
	default:
		return generalChecklist
	}
}

var highComplexityChecklist = []string{
	"Walk through every branch - complexity grew by more than 20",
	"Check error handling on each new path",
	"Verify test coverage for the new branches",
	"Ask whether this function should be decomposed",
}

var moderateChecklist = []string{
	"Review the new branches and their edge cases",
	"Confirm tests cover the added paths",
	"Watch for duplicated logic that could be extracted",
}

var refactoringChecklist = []string{
	"Verify behavior is preserved - complexity went down",
	"Confirm existing tests still pass and still apply",
	"Check that no edge case handling was dropped",
}

var newFunctionChecklist = []string{
	"Review the function's contract and naming",
	"Check input validation and error paths",
	"Confirm new tests exist for this function",
}

var generalChecklist = []string{
	"Scan the changed lines for correctness",
	"Confirm the change is covered by a test",
}

func writeChecklist(w io.Writer, items []string) {
	fmt.Fprintf(w, "Review checklist:\n\n")
	for _, item := range items {
		fmt.Fprintf(w, "- [ ] %s\n", item)
	}
	fmt.Fprintf(w, "\n")
}

func changeTitle(fc delta.FunctionChange) string {
	return fmt.Sprintf("`%s` in %s (lines %d-%d)",
		fc.FunctionName, fc.FilePath, fc.StartLine, fc.EndLine)
}

func changeKey(fc delta.FunctionChange) string {
	return fc.FilePath + ":" + fc.FunctionName
}

func beforeAfter(before, after *int) string {
	switch {
	case before != nil && after != nil:
		return fmt.Sprintf("%d → %d (%+d)", *before, *after, *after-*before)
	case after != nil:
		return fmt.Sprintf("new → %d", *after)
	case before != nil:
		return fmt.Sprintf("%d → removed", *before)
	}
	return "n/a"
}

func derefOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}

func formatMinutes(minutes int) string {
	if minutes >= 60 {
		return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
	}
	return fmt.Sprintf("%dm", minutes)
}

func shortCommit(ref string) string {
	if len(ref) > 7 {
		return ref[:7]
	}
	return ref
}

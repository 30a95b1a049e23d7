package delta

import "sort"

// ChangeType classifies how a function was touched by a comparison.
// A closed type keeps the classification switches exhaustive.
type ChangeType int

const (
	Added ChangeType = iota
	Modified
	Deleted
)

// String returns the display form of the change type.
func (c ChangeType) String() string {
	switch c {
	case Added:
		return "added"
	case Modified:
		return "modified"
	case Deleted:
		return "deleted"
	}
	return "unknown"
}

// FunctionChange is one record per function touched by the comparison.
// Line numbers are 1-indexed inclusive, in the target snapshot for
// added/modified functions and in the base snapshot for deleted ones.
type FunctionChange struct {
	FilePath     string     `json:"file_path"`
	FunctionName string     `json:"function_name"`
	StartLine    int        `json:"start_line"`
	EndLine      int        `json:"end_line"`
	ChangeType   ChangeType `json:"change_type"`

	ComplexityBefore *int `json:"complexity_before,omitempty"`
	ComplexityAfter  *int `json:"complexity_after,omitempty"`
	ComplexityDelta  int  `json:"complexity_delta"`

	CognitiveBefore *int `json:"cognitive_complexity_before,omitempty"`
	CognitiveAfter  *int `json:"cognitive_complexity_after,omitempty"`
	CognitiveDelta  int  `json:"cognitive_complexity_delta"`

	Churn        int     `json:"churn"`
	HotspotScore float64 `json:"hotspot_score"`

	LastAuthor        string `json:"last_author,omitempty"`
	LastModified      string `json:"last_modified,omitempty"`
	LinesChanged      int    `json:"lines_changed"`
	ReviewTimeMinutes int    `json:"review_time_minutes"`
}

// DeltaDiff aggregates the result of one comparison. It is built fresh
// per run and immutable once finalized; nothing is cached across runs.
type DeltaDiff struct {
	BaseCommit   string `json:"base_commit"`
	TargetCommit string `json:"target_commit"`

	AddedFunctions    []FunctionChange `json:"added_functions"`
	ModifiedFunctions []FunctionChange `json:"modified_functions"`
	DeletedFunctions  []FunctionChange `json:"deleted_functions"`

	TotalComplexityDelta   int `json:"total_complexity_delta"`
	TotalCognitiveDelta    int `json:"total_cognitive_delta"`
	TotalReviewTimeMinutes int `json:"total_review_time_minutes"`

	CriticalChanges []FunctionChange `json:"critical_changes"`
	Refactorings    []FunctionChange `json:"refactorings"`
}

// Empty reports whether the comparison found no touched functions.
func (d *DeltaDiff) Empty() bool {
	return len(d.AddedFunctions) == 0 &&
		len(d.ModifiedFunctions) == 0 &&
		len(d.DeletedFunctions) == 0
}

// finalize computes the aggregate fields from the three change lists.
// candidates holds added and modified records in discovery order so the
// stable top-N sort preserves that order on hotspot ties.
func (d *DeltaDiff) finalize(candidates []FunctionChange, topN int) {
	for _, lists := range [][]FunctionChange{d.AddedFunctions, d.ModifiedFunctions, d.DeletedFunctions} {
		for _, fc := range lists {
			d.TotalComplexityDelta += fc.ComplexityDelta
			d.TotalCognitiveDelta += fc.CognitiveDelta
			d.TotalReviewTimeMinutes += fc.ReviewTimeMinutes
		}
	}

	ranked := make([]FunctionChange, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].HotspotScore > ranked[j].HotspotScore
	})
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	d.CriticalChanges = ranked

	for _, fc := range d.ModifiedFunctions {
		if fc.ComplexityDelta < 0 {
			d.Refactorings = append(d.Refactorings, fc)
		}
	}
}

// EstimateReviewTime maps a function's post-change complexity to review
// minutes via a monotonic step function.
func EstimateReviewTime(complexity int) int {
	switch {
	case complexity <= 5:
		return 5
	case complexity <= 10:
		return 10
	case complexity <= 20:
		return 20
	default:
		return 30 + 2*(complexity-20)
	}
}

func intPtr(v int) *int {
	return &v
}

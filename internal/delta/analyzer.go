package delta

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/deltascope/deltascope/internal/complexity"
	"github.com/deltascope/deltascope/internal/diff"
	"github.com/deltascope/deltascope/internal/extract"
	"github.com/deltascope/deltascope/internal/git"
	"github.com/deltascope/deltascope/internal/lang"
)

const defaultTopN = 10

// ChurnProvider supplies the change count for a function within the
// comparison window. The default is a constant 1; a history-mining
// implementation can be injected without touching the analyzer.
type ChurnProvider interface {
	Churn(filePath, functionName string) int
}

// ConstantChurn returns the same churn for every function.
type ConstantChurn int

func (c ConstantChurn) Churn(string, string) int { return int(c) }

// ExtractorFactory selects the function extractor for a file. The
// default builds the regex extractor from the language registry; an
// AST-backed extractor can be substituted per language.
type ExtractorFactory func(path string) extract.Extractor

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithTopN overrides how many critical changes are kept.
func WithTopN(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.topN = n
		}
	}
}

// WithWorkers bounds the per-file fan-out.
func WithWorkers(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.workers = n
		}
	}
}

// WithChurn injects a churn provider.
func WithChurn(p ChurnProvider) Option {
	return func(a *Analyzer) { a.churn = p }
}

// WithExtractorFactory injects an extractor selection strategy.
func WithExtractorFactory(f ExtractorFactory) Option {
	return func(a *Analyzer) { a.extractorFor = f }
}

// WithExtensions restricts analysis to files with the given extensions
// (including the dot). An empty list means every supported language.
func WithExtensions(exts []string) Option {
	return func(a *Analyzer) {
		if len(exts) == 0 {
			a.extensions = nil
			return
		}
		a.extensions = make(map[string]bool, len(exts))
		for _, ext := range exts {
			a.extensions[strings.ToLower(ext)] = true
		}
	}
}

// Analyzer drives one comparison: it resolves the endpoints, parses the
// diff, extracts and matches functions per file, and aggregates the
// typed change records into a DeltaDiff. All collaborators are injected.
type Analyzer struct {
	provider     git.ContentProvider
	churn        ChurnProvider
	extractorFor ExtractorFactory
	parser       *diff.Parser
	extensions   map[string]bool // nil = all supported languages
	topN         int
	workers      int
	logger       *slog.Logger
}

// NewAnalyzer creates an analyzer backed by the given content provider.
func NewAnalyzer(provider git.ContentProvider, opts ...Option) *Analyzer {
	a := &Analyzer{
		provider:     provider,
		churn:        ConstantChurn(1),
		extractorFor: extract.ForFile,
		parser:       diff.NewParser(),
		topN:         defaultTopN,
		workers:      runtime.NumCPU(),
		logger:       slog.Default().With("component", "delta"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// CompareRefs compares two refs (typically branches) using merge-base
// semantics. Ref resolution errors propagate; no partial result is
// returned.
func (a *Analyzer) CompareRefs(ctx context.Context, baseRef, targetRef string) (*DeltaDiff, error) {
	base, err := a.provider.ResolveRef(ctx, baseRef)
	if err != nil {
		return nil, err
	}
	target, err := a.provider.ResolveRef(ctx, targetRef)
	if err != nil {
		return nil, err
	}
	diffText, err := a.provider.DiffRefs(ctx, base, target)
	if err != nil {
		return nil, err
	}
	return a.run(ctx, base, target, false, diffText)
}

// CompareCommitRange compares a direct two-dot commit range. An empty
// to-commit defaults to HEAD.
func (a *Analyzer) CompareCommitRange(ctx context.Context, fromCommit, toCommit string) (*DeltaDiff, error) {
	if toCommit == "" {
		toCommit = "HEAD"
	}
	from, err := a.provider.ResolveRef(ctx, fromCommit)
	if err != nil {
		return nil, err
	}
	to, err := a.provider.ResolveRef(ctx, toCommit)
	if err != nil {
		return nil, err
	}
	diffText, err := a.provider.DiffRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return a.run(ctx, from, to, false, diffText)
}

// CompareWorkingTree compares HEAD against the uncommitted state,
// covering both staged and unstaged changes.
func (a *Analyzer) CompareWorkingTree(ctx context.Context) (*DeltaDiff, error) {
	head, err := a.provider.ResolveRef(ctx, "HEAD")
	if err != nil {
		return nil, err
	}
	diffText, err := a.provider.DiffWorkingTree(ctx)
	if err != nil {
		return nil, err
	}
	return a.run(ctx, head, git.WorkingTreeRef, true, diffText)
}

// fileResult holds the change records produced for one file.
// candidates repeats the added and modified records in discovery order
// for the stable critical-changes selection.
type fileResult struct {
	added      []FunctionChange
	modified   []FunctionChange
	deleted    []FunctionChange
	candidates []FunctionChange
}

// run executes the shared pipeline over parsed diff text. Per-file
// processing fans out across workers; the merge walks files in diff
// order so the final selection is deterministic regardless of
// scheduling.
func (a *Analyzer) run(ctx context.Context, base, target string, workingTree bool, diffText string) (*DeltaDiff, error) {
	start := time.Now()

	files := a.parser.Parse(diffText)
	inScope := files[:0:0]
	for _, fc := range files {
		if lang.Supported(fc.Path) && a.extensionAllowed(fc.Path) {
			inScope = append(inScope, fc)
		}
	}

	a.logger.Info("starting comparison",
		"base", shortRef(base), "target", shortRef(target),
		"files_changed", len(files), "files_in_scope", len(inScope))

	results := make([]fileResult, len(inScope))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i, fc := range inScope {
		i, fc := i, fc
		g.Go(func() error {
			results[i] = a.processFile(gctx, fc, base, target, workingTree)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("file processing failed: %w", err)
	}

	d := &DeltaDiff{BaseCommit: base, TargetCommit: target}
	var candidates []FunctionChange
	for _, r := range results {
		d.AddedFunctions = append(d.AddedFunctions, r.added...)
		d.ModifiedFunctions = append(d.ModifiedFunctions, r.modified...)
		d.DeletedFunctions = append(d.DeletedFunctions, r.deleted...)
		candidates = append(candidates, r.candidates...)
	}
	d.finalize(candidates, a.topN)

	a.logger.Info("comparison complete",
		"added", len(d.AddedFunctions),
		"modified", len(d.ModifiedFunctions),
		"deleted", len(d.DeletedFunctions),
		"complexity_delta", d.TotalComplexityDelta,
		"duration_ms", time.Since(start).Milliseconds())

	return d, nil
}

// processFile builds the change records for one changed file. Failures
// here never abort the comparison: an unreadable snapshot simply yields
// no records for the file.
func (a *Analyzer) processFile(ctx context.Context, fc diff.FileChange, base, target string, workingTree bool) fileResult {
	var r fileResult

	extractor := a.extractorFor(fc.Path)
	if extractor == nil {
		return r
	}
	language, _ := lang.ForFile(fc.Path)

	baseContent := ""
	if !fc.IsAdded {
		var err error
		baseContent, err = a.provider.FileAt(ctx, base, fc.Path)
		if err != nil {
			a.logger.Warn("skipping unreadable base snapshot", "file", fc.Path, "error", err)
			return r
		}
	}

	targetContent := ""
	if !fc.IsDeleted {
		var err error
		if workingTree {
			targetContent, err = a.provider.FileInWorkingTree(fc.Path)
		} else {
			targetContent, err = a.provider.FileAt(ctx, target, fc.Path)
		}
		if err != nil {
			a.logger.Warn("skipping unreadable target snapshot", "file", fc.Path, "error", err)
			return r
		}
	}

	baseFuncs := extractor.Extract(baseContent)
	targetFuncs := extractor.Extract(targetContent)

	historyRef := target
	if workingTree {
		historyRef = "HEAD"
	}
	lastAuthor, lastModified := a.provider.LastChange(ctx, historyRef, fc.Path)

	if fc.IsDeleted {
		for _, fn := range baseFuncs {
			record := a.deletedChange(fc.Path, fn, baseContent, language.ParserID)
			record.LastAuthor = lastAuthor
			record.LastModified = lastModified
			r.deleted = append(r.deleted, record)
		}
		return r
	}

	affected := extract.MapChangedLines(targetFuncs, fc.ChangedLines)
	for _, fn := range affected {
		targetSlice := sliceLines(targetContent, fn.StartLine, fn.EndLine)
		after := clampComplexity(complexity.Evaluate(targetSlice, language.ParserID))
		cogAfter := a.cognitiveScore(fc.Path, targetSlice, fn.Name)

		record := FunctionChange{
			FilePath:     fc.Path,
			FunctionName: fn.Name,
			StartLine:    fn.StartLine,
			EndLine:      fn.EndLine,
			LastAuthor:   lastAuthor,
			LastModified: lastModified,
			LinesChanged: extract.CountChangedLines(fn, fc.ChangedLines),
		}
		record.ComplexityAfter = intPtr(after)
		record.CognitiveAfter = intPtr(cogAfter)
		record.Churn = a.churn.Churn(fc.Path, fn.Name)
		record.HotspotScore = float64(after) * float64(record.Churn)
		record.ReviewTimeMinutes = EstimateReviewTime(after)

		if prior, ok := findByName(baseFuncs, fn.Name); ok {
			baseSlice := sliceLines(baseContent, prior.StartLine, prior.EndLine)
			before := clampComplexity(complexity.Evaluate(baseSlice, language.ParserID))
			cogBefore := a.cognitiveScore(fc.Path, baseSlice, fn.Name)

			record.ChangeType = Modified
			record.ComplexityBefore = intPtr(before)
			record.ComplexityDelta = after - before
			record.CognitiveBefore = intPtr(cogBefore)
			record.CognitiveDelta = cogAfter - cogBefore
			r.modified = append(r.modified, record)
		} else {
			record.ChangeType = Added
			record.ComplexityDelta = after
			record.CognitiveDelta = cogAfter
			r.added = append(r.added, record)
		}
		r.candidates = append(r.candidates, record)
	}

	return r
}

// deletedChange builds the record for a function that existed only in
// the base snapshot. There is nothing left to review, so hotspot and
// review time are zero.
func (a *Analyzer) deletedChange(path string, fn extract.Function, baseContent, parserID string) FunctionChange {
	baseSlice := sliceLines(baseContent, fn.StartLine, fn.EndLine)
	before := clampComplexity(complexity.Evaluate(baseSlice, parserID))
	cogBefore := a.cognitiveScore(path, baseSlice, fn.Name)

	return FunctionChange{
		FilePath:         path,
		FunctionName:     fn.Name,
		StartLine:        fn.StartLine,
		EndLine:          fn.EndLine,
		ChangeType:       Deleted,
		ComplexityBefore: intPtr(before),
		ComplexityDelta:  -before,
		CognitiveBefore:  intPtr(cogBefore),
		CognitiveDelta:   -cogBefore,
		Churn:            a.churn.Churn(path, fn.Name),
		HotspotScore:     0,
	}
}

// cognitiveScore evaluates best-effort cognitive complexity for one
// function slice. The metric is advisory: unsupported languages and
// evaluator failures of any kind degrade to 0.
func (a *Analyzer) cognitiveScore(path, source, name string) (score int) {
	evaluator := complexity.ForFile(path)
	if evaluator == nil {
		return 0
	}
	defer func() {
		if rec := recover(); rec != nil {
			a.logger.Warn("cognitive evaluation panicked", "file", path, "function", name, "panic", rec)
			score = 0
		}
	}()
	scores, err := evaluator.Evaluate(source)
	if err != nil {
		return 0
	}
	return complexity.Lookup(scores, name)
}

// findByName returns the first base function with the given name. First
// match wins; overloads and duplicate local names are a known
// approximation of name-based matching.
func findByName(funcs []extract.Function, name string) (extract.Function, bool) {
	for _, fn := range funcs {
		if fn.Name == name {
			return fn, true
		}
	}
	return extract.Function{}, false
}

// sliceLines returns the inclusive 1-indexed line range of content.
func sliceLines(content string, start, end int) string {
	lines := strings.Split(content, "\n")
	if start < 1 {
		start = 1
	}
	if end > len(lines) {
		end = len(lines)
	}
	if start > end {
		return ""
	}
	return strings.Join(lines[start-1:end], "\n")
}

// clampComplexity floors an evaluated slice at 1: a slice always holds
// at least a signature.
func clampComplexity(complexity, _ int) int {
	if complexity < 1 {
		return 1
	}
	return complexity
}

func (a *Analyzer) extensionAllowed(path string) bool {
	if a.extensions == nil {
		return true
	}
	return a.extensions[strings.ToLower(filepath.Ext(path))]
}

func shortRef(ref string) string {
	if len(ref) > 7 {
		return ref[:7]
	}
	return ref
}

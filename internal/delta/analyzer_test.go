package delta

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deltascope/deltascope/internal/git"
)

// fakeProvider implements git.ContentProvider with in-memory snapshots.
type fakeProvider struct {
	refs        map[string]string            // ref -> commit SHA
	files       map[string]map[string]string // SHA -> path -> content
	workingTree map[string]string
	diffText    string
}

var _ git.ContentProvider = (*fakeProvider)(nil)

func (p *fakeProvider) ResolveRef(_ context.Context, ref string) (string, error) {
	if sha, ok := p.refs[ref]; ok {
		return sha, nil
	}
	return "", fmt.Errorf("cannot resolve ref %q", ref)
}

func (p *fakeProvider) DiffRefs(context.Context, string, string) (string, error) {
	return p.diffText, nil
}

func (p *fakeProvider) DiffRange(context.Context, string, string) (string, error) {
	return p.diffText, nil
}

func (p *fakeProvider) DiffWorkingTree(context.Context) (string, error) {
	return p.diffText, nil
}

func (p *fakeProvider) FileAt(_ context.Context, ref, path string) (string, error) {
	return p.files[ref][path], nil
}

func (p *fakeProvider) FileInWorkingTree(path string) (string, error) {
	return p.workingTree[path], nil
}

func (p *fakeProvider) LastChange(context.Context, string, string) (string, string) {
	return "alice", "2026-05-01T10:00:00+00:00"
}

const (
	baseSHA   = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	targetSHA = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
)

func newFake() *fakeProvider {
	return &fakeProvider{
		refs: map[string]string{
			"main":    baseSHA,
			"feature": targetSHA,
			"HEAD":    targetSHA,
		},
		files: map[string]map[string]string{
			baseSHA:   {},
			targetSHA: {},
		},
	}
}

func TestCompareRefsModifiedFunction(t *testing.T) {
	p := newFake()
	p.files[baseSHA]["app.py"] = "def f():\n    return 1"
	p.files[targetSHA]["app.py"] = "def f():\n    if x > 0:\n        return 1\n    return 2"
	p.diffText = `diff --git a/app.py b/app.py
--- a/app.py
+++ b/app.py
@@ -1,2 +1,4 @@
 def f():
-    return 1
+    if x > 0:
+        return 1
+    return 2`

	d, err := NewAnalyzer(p).CompareRefs(context.Background(), "main", "feature")
	require.NoError(t, err)

	assert.Equal(t, baseSHA, d.BaseCommit)
	assert.Equal(t, targetSHA, d.TargetCommit)
	require.Len(t, d.ModifiedFunctions, 1)
	assert.Empty(t, d.AddedFunctions)
	assert.Empty(t, d.DeletedFunctions)

	fc := d.ModifiedFunctions[0]
	assert.Equal(t, Modified, fc.ChangeType)
	assert.Equal(t, "f", fc.FunctionName)
	require.NotNil(t, fc.ComplexityBefore)
	require.NotNil(t, fc.ComplexityAfter)
	assert.Equal(t, 2, *fc.ComplexityBefore)
	assert.Equal(t, 4, *fc.ComplexityAfter)
	assert.Equal(t, 2, fc.ComplexityDelta)
	assert.Equal(t, *fc.ComplexityAfter-*fc.ComplexityBefore, fc.ComplexityDelta)
	assert.Equal(t, 3, fc.LinesChanged)
	assert.Equal(t, 1, fc.Churn)
	assert.Equal(t, float64(*fc.ComplexityAfter)*float64(fc.Churn), fc.HotspotScore)
	assert.Equal(t, 5, fc.ReviewTimeMinutes)
	assert.Equal(t, "alice", fc.LastAuthor)
	assert.Equal(t, 2, d.TotalComplexityDelta)
}

func TestCompareRefsAddedFunction(t *testing.T) {
	p := newFake()
	p.files[baseSHA]["app.py"] = "def f():\n    return 1"
	p.files[targetSHA]["app.py"] = "def f():\n    return 1\n\ndef g():\n    return 2"
	p.diffText = `diff --git a/app.py b/app.py
--- a/app.py
+++ b/app.py
@@ -1,2 +1,5 @@
 def f():
     return 1
+
+def g():
+    return 2`

	d, err := NewAnalyzer(p).CompareRefs(context.Background(), "main", "feature")
	require.NoError(t, err)

	require.Len(t, d.AddedFunctions, 1)
	fc := d.AddedFunctions[0]
	assert.Equal(t, Added, fc.ChangeType)
	assert.Equal(t, "g", fc.FunctionName)
	assert.Nil(t, fc.ComplexityBefore)
	require.NotNil(t, fc.ComplexityAfter)
	assert.Equal(t, *fc.ComplexityAfter, fc.ComplexityDelta)
	assert.Nil(t, fc.CognitiveBefore)
}

func TestCompareRefsDeletedFile(t *testing.T) {
	p := newFake()
	p.files[baseSHA]["old.py"] = "def a():\n    return 1\n\ndef b():\n    if x:\n        return 2\n    return 3"
	p.diffText = `diff --git a/old.py b/old.py
deleted file mode 100644
--- a/old.py
+++ /dev/null
@@ -1,7 +0,0 @@
-def a():
-    return 1
-
-def b():
-    if x:
-        return 2
-    return 3`

	d, err := NewAnalyzer(p).CompareRefs(context.Background(), "main", "feature")
	require.NoError(t, err)

	require.Len(t, d.DeletedFunctions, 2)
	for _, fc := range d.DeletedFunctions {
		assert.Equal(t, Deleted, fc.ChangeType)
		require.NotNil(t, fc.ComplexityBefore)
		assert.Nil(t, fc.ComplexityAfter)
		assert.Equal(t, -*fc.ComplexityBefore, fc.ComplexityDelta)
		assert.Zero(t, fc.HotspotScore)
		assert.Zero(t, fc.ReviewTimeMinutes)
		assert.Zero(t, fc.LinesChanged)
	}
	assert.Equal(t, "a", d.DeletedFunctions[0].FunctionName)
	assert.Equal(t, "b", d.DeletedFunctions[1].FunctionName)
	assert.Empty(t, d.CriticalChanges, "deleted functions are never critical")
}

func TestCompareRefsIdenticalEndpoints(t *testing.T) {
	p := newFake()
	p.diffText = ""

	d, err := NewAnalyzer(p).CompareRefs(context.Background(), "main", "main")
	require.NoError(t, err)

	assert.True(t, d.Empty())
	assert.Zero(t, d.TotalComplexityDelta)
	assert.Zero(t, d.TotalReviewTimeMinutes)
	assert.Empty(t, d.CriticalChanges)
}

func TestCompareRefsInvalidRef(t *testing.T) {
	p := newFake()

	_, err := NewAnalyzer(p).CompareRefs(context.Background(), "main", "no-such-branch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no-such-branch")
}

func TestCompareWorkingTreeSentinel(t *testing.T) {
	p := newFake()
	p.workingTree = map[string]string{
		"app.py": "def f():\n    return 1\n    return 2",
	}
	p.files[targetSHA]["app.py"] = "def f():\n    return 1"
	p.diffText = `diff --git a/app.py b/app.py
--- a/app.py
+++ b/app.py
@@ -1,2 +1,3 @@
 def f():
     return 1
+    return 2`

	d, err := NewAnalyzer(p).CompareWorkingTree(context.Background())
	require.NoError(t, err)

	assert.Equal(t, git.WorkingTreeRef, d.TargetCommit)
	assert.Equal(t, targetSHA, d.BaseCommit)
	require.Len(t, d.ModifiedFunctions, 1)
}

func TestUnsupportedFilesSkipped(t *testing.T) {
	p := newFake()
	p.diffText = `diff --git a/README.md b/README.md
--- a/README.md
+++ b/README.md
@@ -1,1 +1,2 @@
 # Title
+More docs`

	d, err := NewAnalyzer(p).CompareRefs(context.Background(), "main", "feature")
	require.NoError(t, err)
	assert.True(t, d.Empty())
}

func TestExtensionAllowList(t *testing.T) {
	p := newFake()
	p.files[targetSHA]["app.py"] = "def f():\n    return 1"
	p.files[targetSHA]["main.go"] = "func f() int {\n\treturn 1\n}"
	p.diffText = `diff --git a/app.py b/app.py
--- /dev/null
+++ b/app.py
@@ -0,0 +1,2 @@
+def f():
+    return 1
diff --git a/main.go b/main.go
--- /dev/null
+++ b/main.go
@@ -0,0 +1,3 @@
+func f() int {
+	return 1
+}`

	d, err := NewAnalyzer(p, WithExtensions([]string{".go"})).
		CompareRefs(context.Background(), "main", "feature")
	require.NoError(t, err)

	require.Len(t, d.AddedFunctions, 1)
	assert.Equal(t, "main.go", d.AddedFunctions[0].FilePath)
}

func TestCriticalChangesStableTopN(t *testing.T) {
	p := newFake()

	// Twelve new functions with identical complexity: the selection
	// must keep discovery order and cap at ten.
	var base, target, diffBody strings.Builder
	for i := 0; i < 12; i++ {
		fmt.Fprintf(&target, "def fn%02d():\n    return %d\n", i, i)
		fmt.Fprintf(&diffBody, "+def fn%02d():\n+    return %d\n", i, i)
	}
	p.files[baseSHA]["many.py"] = base.String()
	p.files[targetSHA]["many.py"] = target.String()
	p.diffText = "diff --git a/many.py b/many.py\n--- /dev/null\n+++ b/many.py\n@@ -0,0 +1,24 @@\n" + diffBody.String()

	d, err := NewAnalyzer(p).CompareRefs(context.Background(), "main", "feature")
	require.NoError(t, err)

	require.Len(t, d.AddedFunctions, 12)
	require.Len(t, d.CriticalChanges, 10)
	for i, fc := range d.CriticalChanges {
		assert.Equal(t, fmt.Sprintf("fn%02d", i), fc.FunctionName,
			"equal hotspot scores must preserve discovery order")
	}
	for i := 1; i < len(d.CriticalChanges); i++ {
		assert.GreaterOrEqual(t,
			d.CriticalChanges[i-1].HotspotScore, d.CriticalChanges[i].HotspotScore)
	}
}

func TestCriticalChangesTopNOverride(t *testing.T) {
	p := newFake()
	p.files[targetSHA]["many.py"] = "def a():\n    return 1\n\ndef b():\n    return 2"
	p.diffText = `diff --git a/many.py b/many.py
--- /dev/null
+++ b/many.py
@@ -0,0 +1,5 @@
+def a():
+    return 1
+
+def b():
+    return 2`

	d, err := NewAnalyzer(p, WithTopN(1)).CompareRefs(context.Background(), "main", "feature")
	require.NoError(t, err)
	assert.Len(t, d.CriticalChanges, 1)
}

func TestRefactoringsSubset(t *testing.T) {
	p := newFake()
	p.files[baseSHA]["app.py"] = "def f():\n    if a:\n        return 1\n    if b:\n        return 2\n    return 3"
	p.files[targetSHA]["app.py"] = "def f():\n    return lookup[key]"
	p.diffText = `diff --git a/app.py b/app.py
--- a/app.py
+++ b/app.py
@@ -1,6 +1,2 @@
 def f():
-    if a:
-        return 1
-    if b:
-        return 2
-    return 3
+    return lookup[key]`

	d, err := NewAnalyzer(p).CompareRefs(context.Background(), "main", "feature")
	require.NoError(t, err)

	require.Len(t, d.ModifiedFunctions, 1)
	require.Len(t, d.Refactorings, 1)
	assert.Negative(t, d.Refactorings[0].ComplexityDelta)
	assert.Equal(t, d.ModifiedFunctions[0].FunctionName, d.Refactorings[0].FunctionName)
}

func TestCognitiveDeltaInvariant(t *testing.T) {
	p := newFake()
	p.files[baseSHA]["app.py"] = "def f():\n    return 1"
	p.files[targetSHA]["app.py"] = "def f():\n    if x:\n        if y:\n            return 2\n    return 1"
	p.diffText = `diff --git a/app.py b/app.py
--- a/app.py
+++ b/app.py
@@ -1,2 +1,5 @@
 def f():
+    if x:
+        if y:
+            return 2
     return 1`

	d, err := NewAnalyzer(p).CompareRefs(context.Background(), "main", "feature")
	require.NoError(t, err)

	require.Len(t, d.ModifiedFunctions, 1)
	fc := d.ModifiedFunctions[0]
	require.NotNil(t, fc.CognitiveBefore)
	require.NotNil(t, fc.CognitiveAfter)
	assert.Equal(t, *fc.CognitiveAfter-*fc.CognitiveBefore, fc.CognitiveDelta)
	assert.Positive(t, fc.CognitiveDelta, "two nested conditionals must raise the cognitive score")
}

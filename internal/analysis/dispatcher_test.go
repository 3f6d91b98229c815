package analysis

import (
	"context"
	"testing"

	"avlint/internal/diag"
	"avlint/internal/source"
	"avlint/internal/symbols"
	"avlint/internal/syntax"
)

// stubRule is a minimal configurable rule for dispatcher tests.
type stubRule struct {
	id      string
	nodes   []syntax.NodeKind
	syms    []symbols.SymbolKind
	inspect func(*Context)
}

func (r *stubRule) ID() string                        { return r.id }
func (r *stubRule) Description() string               { return "stub" }
func (r *stubRule) DefaultSeverity() diag.Severity    { return diag.SevWarning }
func (r *stubRule) NodeKinds() []syntax.NodeKind      { return r.nodes }
func (r *stubRule) SymbolKinds() []symbols.SymbolKind { return r.syms }
func (r *stubRule) Inspect(ctx *Context)              { r.inspect(ctx) }

func reportingStub(id string, kind syntax.NodeKind) *stubRule {
	return &stubRule{
		id:    id,
		nodes: []syntax.NodeKind{kind},
		inspect: func(ctx *Context) {
			ctx.ReportNodef("occurrence of %s", ctx.NodeData().Kind)
		},
	}
}

// testUnit builds a unit with one type declaration containing one method
// and one if-statement.
func testUnit(t *testing.T) *Unit {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.AddVirtual("unit.cs", []byte("class C { void M() { if (x) {} } }\n"))
	strings := source.NewInterner()

	b := syntax.NewBuilder(0, strings)
	unit := b.Add(syntax.NoNodeID, syntax.KindCompilationUnit, source.Span{File: file, Start: 0, End: 34}, "")
	typ := b.Add(unit, syntax.KindTypeDecl, source.Span{File: file, Start: 0, End: 34}, "C")
	method := b.Add(typ, syntax.KindMethodDecl, source.Span{File: file, Start: 10, End: 32}, "M")
	b.Add(method, syntax.KindIfStmt, source.Span{File: file, Start: 21, End: 30}, "")
	tree := b.Finish()

	gb := symbols.NewGraphBuilder("App", 0, strings)
	tsym := gb.Add(gb.Assembly(), symbols.SymbolType, "C", source.Span{File: file, Start: 0, End: 34})
	gb.Add(tsym, symbols.SymbolMethod, "M", source.Span{File: file, Start: 10, End: 32})
	graph := gb.Finish()

	u := &Unit{Name: "unit.cs", Files: fs, Tree: tree, Symbols: graph}
	if err := u.Validate(); err != nil {
		t.Fatalf("unit validate: %v", err)
	}
	return u
}

func runWith(t *testing.T, rules []Rule, unit *Unit, opts Options) ([]diag.Diagnostic, Result) {
	t.Helper()
	reg := NewRegistry()
	for _, r := range rules {
		if err := reg.Register(r); err != nil {
			t.Fatalf("register %s: %v", r.ID(), err)
		}
	}
	sink := diag.NewSink()
	result := NewDispatcher(reg.Freeze(), opts).Run(context.Background(), unit, sink)
	return sink.Drain(), result
}

func TestRunWithNoMatchingKindsReportsNothing(t *testing.T) {
	unit := testUnit(t)
	got, result := runWith(t, []Rule{reportingStub("AVT001", syntax.KindForStmt)}, unit, Options{})
	if len(got) != 0 {
		t.Fatalf("expected no diagnostics, got %d", len(got))
	}
	if result.Incomplete {
		t.Fatalf("expected complete run")
	}
}

func TestEachRuleFiresOncePerOccurrenceRegardlessOfOrder(t *testing.T) {
	ruleA := reportingStub("AVT001", syntax.KindTypeDecl)
	ruleB := reportingStub("AVT002", syntax.KindMethodDecl)
	ruleC := reportingStub("AVT003", syntax.KindIfStmt)

	permutations := [][]Rule{
		{ruleA, ruleB, ruleC},
		{ruleC, ruleA, ruleB},
		{ruleB, ruleC, ruleA},
	}
	for _, perm := range permutations {
		got, _ := runWith(t, perm, testUnit(t), Options{})
		if len(got) != 3 {
			t.Fatalf("expected 3 diagnostics, got %d", len(got))
		}
		seen := map[string]int{}
		for _, d := range got {
			seen[d.Rule]++
		}
		for _, id := range []string{"AVT001", "AVT002", "AVT003"} {
			if seen[id] != 1 {
				t.Fatalf("expected exactly one diagnostic for %s, got %d", id, seen[id])
			}
		}
	}
}

func TestRunIsIdempotent(t *testing.T) {
	unit := testUnit(t)
	rules := []Rule{
		reportingStub("AVT001", syntax.KindTypeDecl),
		reportingStub("AVT002", syntax.KindMethodDecl),
	}
	first, _ := runWith(t, rules, unit, Options{})
	second, _ := runWith(t, rules, unit, Options{})

	if len(first) != len(second) {
		t.Fatalf("run lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Rule != second[i].Rule ||
			first[i].Message != second[i].Message ||
			first[i].Primary != second[i].Primary {
			t.Fatalf("diagnostic %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestCrashingRuleDoesNotAbortOthers(t *testing.T) {
	crashing := &stubRule{
		id:    "AVT666",
		nodes: []syntax.NodeKind{syntax.KindTypeDecl},
		inspect: func(*Context) {
			panic("boom")
		},
	}
	healthy := reportingStub("AVT001", syntax.KindMethodDecl)

	got, result := runWith(t, []Rule{crashing, healthy}, testUnit(t), Options{})
	if result.Faults != 1 {
		t.Fatalf("expected 1 fault, got %d", result.Faults)
	}
	var faults, findings int
	for _, d := range got {
		if d.Fault {
			faults++
			if d.Rule != "AVT666" {
				t.Fatalf("fault attributed to %s", d.Rule)
			}
		} else {
			findings++
			if d.Rule != "AVT001" {
				t.Fatalf("finding attributed to %s", d.Rule)
			}
		}
	}
	if faults != 1 || findings != 1 {
		t.Fatalf("expected 1 fault and 1 finding, got %d and %d", faults, findings)
	}
}

func TestCancellationReturnsPartialResult(t *testing.T) {
	// Three matching nodes; the rule cancels during the first visit, and the
	// dispatcher checks the signal between visits.
	fs := source.NewFileSet()
	file := fs.AddVirtual("unit.cs", []byte("for for for\n"))
	b := syntax.NewBuilder(0, nil)
	root := b.Add(syntax.NoNodeID, syntax.KindCompilationUnit, source.Span{File: file, Start: 0, End: 12}, "")
	b.Add(root, syntax.KindForStmt, source.Span{File: file, Start: 0, End: 3}, "")
	b.Add(root, syntax.KindForStmt, source.Span{File: file, Start: 4, End: 7}, "")
	b.Add(root, syntax.KindForStmt, source.Span{File: file, Start: 8, End: 11}, "")
	tree := b.Finish()
	graph := symbols.NewGraphBuilder("App", 0, nil).Finish()
	unit := &Unit{Name: "unit.cs", Files: fs, Tree: tree, Symbols: graph}

	ctx, cancel := context.WithCancel(context.Background())
	rule := &stubRule{
		id:    "AVT001",
		nodes: []syntax.NodeKind{syntax.KindForStmt},
		inspect: func(c *Context) {
			c.ReportNodef("match")
			cancel()
		},
	}
	reg := NewRegistry()
	if err := reg.Register(rule); err != nil {
		t.Fatalf("register: %v", err)
	}
	sink := diag.NewSink()
	result := NewDispatcher(reg.Freeze(), Options{}).Run(ctx, unit, sink)

	if !result.Incomplete {
		t.Fatalf("expected incomplete result")
	}
	if got := sink.Drain(); len(got) != 1 {
		t.Fatalf("expected exactly 1 diagnostic, got %d", len(got))
	}
}

func TestSeverityOverrideAndDisable(t *testing.T) {
	unit := testUnit(t)
	rules := []Rule{
		reportingStub("AVT001", syntax.KindTypeDecl),
		reportingStub("AVT002", syntax.KindMethodDecl),
	}
	got, _ := runWith(t, rules, unit, Options{
		Severity: map[string]diag.Severity{"AVT001": diag.SevError},
		Disabled: map[string]bool{"AVT002": true},
	})
	if len(got) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(got))
	}
	if got[0].Rule != "AVT001" || got[0].Severity != diag.SevError {
		t.Fatalf("unexpected diagnostic %+v", got[0])
	}
}

func TestSymbolVisitedOncePerRule(t *testing.T) {
	// A symbol with two declaration sites is still dispatched once.
	fs := source.NewFileSet()
	file := fs.AddVirtual("unit.cs", []byte("partial class C {} partial class C {}\n"))
	tree := syntaxTreeWithRoot(t, file)

	gb := symbols.NewGraphBuilder("App", 0, nil)
	gb.Add(gb.Assembly(), symbols.SymbolType, "C",
		source.Span{File: file, Start: 0, End: 18},
		source.Span{File: file, Start: 19, End: 37},
	)
	unit := &Unit{Name: "unit.cs", Files: fs, Tree: tree, Symbols: gb.Finish()}

	visits := 0
	rule := &stubRule{
		id:   "AVT001",
		syms: []symbols.SymbolKind{symbols.SymbolType},
		inspect: func(c *Context) {
			visits++
			c.ReportSymbolf("type %s", c.Unit().Symbols.Name(c.Symbol()))
		},
	}
	got, _ := runWith(t, []Rule{rule}, unit, Options{})
	if visits != 1 {
		t.Fatalf("expected 1 visit, got %d", visits)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(got))
	}
}

func TestReportWithoutLocationBecomesFault(t *testing.T) {
	rule := &stubRule{
		id:    "AVT001",
		nodes: []syntax.NodeKind{syntax.KindTypeDecl},
		inspect: func(c *Context) {
			c.Reportf(source.Span{}, "missing location")
		},
	}
	got, result := runWith(t, []Rule{rule}, testUnit(t), Options{})
	if result.Faults != 1 {
		t.Fatalf("expected 1 fault, got %d", result.Faults)
	}
	if len(got) != 1 || !got[0].Fault {
		t.Fatalf("expected a single fault diagnostic, got %+v", got)
	}
}

func TestRegistryRejectsBadRules(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(reportingStub("AVT001", syntax.KindIfStmt)); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := reg.Register(reportingStub("AVT001", syntax.KindForStmt)); err == nil {
		t.Fatalf("expected duplicate ID error")
	}
	if err := reg.Register(reportingStub("", syntax.KindForStmt)); err == nil {
		t.Fatalf("expected empty ID error")
	}
	if err := reg.Register(&stubRule{id: "AVT002"}); err == nil {
		t.Fatalf("expected no-subscription error")
	}
}

func syntaxTreeWithRoot(t *testing.T, file source.FileID) *syntax.Tree {
	t.Helper()
	b := syntax.NewBuilder(0, nil)
	b.Add(syntax.NoNodeID, syntax.KindCompilationUnit, source.Span{File: file, Start: 0, End: 1}, "")
	return b.Finish()
}

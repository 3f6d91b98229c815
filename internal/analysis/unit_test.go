package analysis

import (
	"context"
	"testing"

	"avlint/internal/diag"
	"avlint/internal/source"
	"avlint/internal/symbols"
	"avlint/internal/syntax"
)

// loopUnit builds `for (i ...) { <body> }` where the body assigns either to
// the loop variable or to an unrelated local, optionally leaving the
// assignment target unbound.
func loopUnit(t *testing.T, assignToLoopVar, bindTarget bool) (*Unit, syntax.NodeID, symbols.SymbolID) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.AddVirtual("loop.cs", []byte("for (int i = 0; i < 10; i++) { i = 5; }\n"))
	strings := source.NewInterner()

	b := syntax.NewBuilder(0, strings)
	root := b.Add(syntax.NoNodeID, syntax.KindCompilationUnit, source.Span{File: file, Start: 0, End: 39}, "")
	loop := b.Add(root, syntax.KindForStmt, source.Span{File: file, Start: 0, End: 39}, "")
	decl := b.Add(loop, syntax.KindLocalDecl, source.Span{File: file, Start: 5, End: 14}, "i")
	body := b.Add(loop, syntax.KindBlock, source.Span{File: file, Start: 29, End: 39}, "")
	assign := b.Add(body, syntax.KindAssignment, source.Span{File: file, Start: 31, End: 36}, "")
	target := b.Add(assign, syntax.KindIdentifier, source.Span{File: file, Start: 31, End: 32}, "i")
	b.Add(assign, syntax.KindLiteral, source.Span{File: file, Start: 35, End: 36}, "5")
	tree := b.Finish()

	gb := symbols.NewGraphBuilder("App", 0, strings)
	loopVar := gb.Add(gb.Assembly(), symbols.SymbolLocal, "i", source.Span{File: file, Start: 9, End: 10})
	other := gb.Add(gb.Assembly(), symbols.SymbolLocal, "j", source.Span{File: file, Start: 0, End: 1})
	gb.BindDeclared(decl, loopVar)
	if bindTarget {
		if assignToLoopVar {
			gb.BindReferenced(target, loopVar)
		} else {
			gb.BindReferenced(target, other)
		}
	}
	graph := gb.Finish()

	unit := &Unit{Name: "loop.cs", Files: fs, Tree: tree, Symbols: graph}
	if err := unit.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	return unit, body, loopVar
}

func TestDataFlowFindsWrite(t *testing.T) {
	unit, body, loopVar := loopUnit(t, true, true)
	flow := unit.DataFlow(body)
	if !flow.Succeeded {
		t.Fatalf("expected successful analysis")
	}
	if !flow.Writes(loopVar) {
		t.Fatalf("expected write to loop variable")
	}
}

func TestDataFlowDistinguishesOtherTargets(t *testing.T) {
	unit, body, loopVar := loopUnit(t, false, true)
	flow := unit.DataFlow(body)
	if !flow.Succeeded {
		t.Fatalf("expected successful analysis")
	}
	if flow.Writes(loopVar) {
		t.Fatalf("loop variable is not written here")
	}
}

func TestDataFlowUnknownTargetIsNotSilentlyEmpty(t *testing.T) {
	unit, body, loopVar := loopUnit(t, true, false)
	flow := unit.DataFlow(body)
	if flow.Succeeded {
		t.Fatalf("expected unknown result for unbound target")
	}
	if flow.Writes(loopVar) {
		t.Fatalf("unknown result must carry no write set")
	}
}

func TestContextCountsSemanticGaps(t *testing.T) {
	unit, body, _ := loopUnit(t, true, false)
	rule := &stubRule{
		id:    "AVT001",
		nodes: []syntax.NodeKind{syntax.KindForStmt},
		inspect: func(c *Context) {
			if flow := c.DataFlow(body); flow.Succeeded {
				c.ReportNodef("unexpected success")
			}
		},
	}
	reg := NewRegistry()
	if err := reg.Register(rule); err != nil {
		t.Fatalf("register: %v", err)
	}
	sink := diag.NewSink()
	result := NewDispatcher(reg.Freeze(), Options{}).Run(context.Background(), unit, sink)

	if result.SemanticGaps != 1 {
		t.Fatalf("expected 1 semantic gap, got %d", result.SemanticGaps)
	}
	if got := sink.Drain(); len(got) != 0 {
		t.Fatalf("expected no diagnostics, got %d", len(got))
	}
}

func TestPartOfConditionalAccess(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.AddVirtual("cond.cs", []byte("a?.B.C(); d.E();\n"))
	b := syntax.NewBuilder(0, nil)
	root := b.Add(syntax.NoNodeID, syntax.KindCompilationUnit, source.Span{File: file, Start: 0, End: 16}, "")
	cond := b.Add(root, syntax.KindConditionalAccess, source.Span{File: file, Start: 0, End: 8}, "")
	access := b.Add(cond, syntax.KindMemberAccess, source.Span{File: file, Start: 3, End: 6}, "B")
	inner := b.Add(access, syntax.KindInvocation, source.Span{File: file, Start: 5, End: 8}, "C")
	plain := b.Add(root, syntax.KindInvocation, source.Span{File: file, Start: 10, End: 15}, "E")
	tree := b.Finish()

	unit := &Unit{
		Name:    "cond.cs",
		Files:   fs,
		Tree:    tree,
		Symbols: symbols.NewGraphBuilder("App", 0, nil).Finish(),
	}
	if !unit.PartOfConditionalAccess(inner) {
		t.Fatalf("nested invocation should be part of conditional access")
	}
	if unit.PartOfConditionalAccess(plain) {
		t.Fatalf("plain invocation is not part of conditional access")
	}
	if unit.PartOfConditionalAccess(cond) {
		t.Fatalf("the conditional access node itself has no such ancestor")
	}
}

func TestDeclaredSymbolFacade(t *testing.T) {
	unit, _, loopVar := loopUnit(t, true, true)

	// The local declaration node is the first child of the for-statement.
	var declNode syntax.NodeID
	unit.Tree.Walk(func(id syntax.NodeID, n *syntax.Node) bool {
		if n.Kind == syntax.KindLocalDecl {
			declNode = id
			return false
		}
		return true
	})
	got, ok := unit.DeclaredSymbol(declNode)
	if !ok || got != loopVar {
		t.Fatalf("expected loop variable symbol, got %v ok=%v", got, ok)
	}
	if _, ok := unit.DeclaredSymbol(syntax.NodeID(999)); ok {
		t.Fatalf("expected miss for unknown node")
	}
}

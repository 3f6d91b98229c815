package syntax

import (
	"testing"

	"avlint/internal/source"
)

func buildSampleTree(t *testing.T) (*Tree, []NodeID) {
	t.Helper()
	file := source.FileID(1)
	b := NewBuilder(0, nil)

	unit := b.Add(NoNodeID, KindCompilationUnit, source.Span{File: file, Start: 0, End: 100}, "")
	typ := b.Add(unit, KindTypeDecl, source.Span{File: file, Start: 0, End: 50}, "Widget")
	method := b.Add(typ, KindMethodDecl, source.Span{File: file, Start: 10, End: 40}, "Render")
	param := b.Add(method, KindParameter, source.Span{File: file, Start: 12, End: 18}, "count")
	body := b.Add(method, KindBlock, source.Span{File: file, Start: 20, End: 40}, "")

	tree := b.Finish()
	if err := tree.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	return tree, []NodeID{unit, typ, method, param, body}
}

func TestWalkIsPreOrder(t *testing.T) {
	tree, want := buildSampleTree(t)

	var got []NodeID
	complete := tree.Walk(func(id NodeID, _ *Node) bool {
		got = append(got, id)
		return true
	})
	if !complete {
		t.Fatalf("expected complete walk")
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d visits, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("visit %d: expected node %v, got %v", i, want[i], got[i])
		}
	}
}

func TestWalkStopsEarly(t *testing.T) {
	tree, _ := buildSampleTree(t)

	visits := 0
	complete := tree.Walk(func(NodeID, *Node) bool {
		visits++
		return visits < 2
	})
	if complete {
		t.Fatalf("expected early stop")
	}
	if visits != 2 {
		t.Fatalf("expected 2 visits, got %d", visits)
	}
}

func TestParentBackReferences(t *testing.T) {
	tree, ids := buildSampleTree(t)
	method := ids[2]

	var chain []NodeKind
	tree.Ancestors(method, func(_ NodeID, n *Node) bool {
		chain = append(chain, n.Kind)
		return true
	})
	if len(chain) != 2 || chain[0] != KindTypeDecl || chain[1] != KindCompilationUnit {
		t.Fatalf("unexpected ancestor chain: %v", chain)
	}
	if tree.Parent(tree.Root()).IsValid() {
		t.Fatalf("root must have no parent")
	}
}

func TestTextLookup(t *testing.T) {
	tree, ids := buildSampleTree(t)
	if got := tree.Text(ids[1]); got != "Widget" {
		t.Fatalf("expected Widget, got %q", got)
	}
	if got := tree.Text(ids[4]); got != "" {
		t.Fatalf("expected empty text for block, got %q", got)
	}
	if tree.Get(NoNodeID) != nil {
		t.Fatalf("expected nil node for sentinel ID")
	}
}

func TestValidateRejectsBrokenParentLink(t *testing.T) {
	b := NewBuilder(0, nil)
	root := b.Add(NoNodeID, KindCompilationUnit, source.Span{File: 1}, "")
	child := b.Add(root, KindTypeDecl, source.Span{File: 1}, "T")
	tree := b.Finish()

	// Corrupt the back-reference the way a broken snapshot would.
	tree.Get(child).Parent = NodeID(99)
	if err := tree.Validate(); err == nil {
		t.Fatalf("expected validation error")
	}
}

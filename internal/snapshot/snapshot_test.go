package snapshot

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"avlint/internal/analysis"
	"avlint/internal/source"
	"avlint/internal/symbols"
	"avlint/internal/syntax"
)

func sampleUnit(t *testing.T) *analysis.Unit {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.AddVirtual("src/widget.cs", []byte("class Widget { void Render() {} }\n"))
	strings := source.NewInterner()

	b := syntax.NewBuilder(0, strings)
	root := b.Add(syntax.NoNodeID, syntax.KindCompilationUnit, source.Span{File: file, Start: 0, End: 33}, "")
	typ := b.Add(root, syntax.KindTypeDecl, source.Span{File: file, Start: 0, End: 33}, "Widget")
	method := b.Add(typ, syntax.KindMethodDecl, source.Span{File: file, Start: 15, End: 31}, "Render")
	tree := b.Finish()

	gb := symbols.NewGraphBuilder("Acme.Widgets", 0, strings)
	tsym := gb.Add(gb.Assembly(), symbols.SymbolType, "Widget", source.Span{File: file, Start: 0, End: 33})
	msym := gb.Add(tsym, symbols.SymbolMethod, "Render", source.Span{File: file, Start: 15, End: 31})
	gb.BindDeclared(typ, tsym)
	gb.BindDeclared(method, msym)
	graph := gb.Finish()

	unit := &analysis.Unit{Name: "widget", Files: fs, Tree: tree, Symbols: graph}
	if err := unit.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	return unit
}

func TestRoundTrip(t *testing.T) {
	unit := sampleUnit(t)

	var buf bytes.Buffer
	if err := Encode(&buf, unit); err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if got.AssemblyName() != "Acme.Widgets" {
		t.Fatalf("assembly: got %q", got.AssemblyName())
	}
	if got.Tree.Len() != unit.Tree.Len() {
		t.Fatalf("node count: got %d, want %d", got.Tree.Len(), unit.Tree.Len())
	}
	if got.Symbols.Len() != unit.Symbols.Len() {
		t.Fatalf("symbol count: got %d, want %d", got.Symbols.Len(), unit.Symbols.Len())
	}

	// Structure survives: same kinds and text in the same pre-order.
	var wantKinds, gotKinds []syntax.NodeKind
	unit.Tree.Walk(func(_ syntax.NodeID, n *syntax.Node) bool {
		wantKinds = append(wantKinds, n.Kind)
		return true
	})
	got.Tree.Walk(func(_ syntax.NodeID, n *syntax.Node) bool {
		gotKinds = append(gotKinds, n.Kind)
		return true
	})
	if len(wantKinds) != len(gotKinds) {
		t.Fatalf("walk lengths differ")
	}
	for i := range wantKinds {
		if wantKinds[i] != gotKinds[i] {
			t.Fatalf("kind %d: got %v, want %v", i, gotKinds[i], wantKinds[i])
		}
	}

	// Bindings survive.
	declared := got.Symbols.DeclaredBindings()
	if len(declared) != 2 {
		t.Fatalf("expected 2 declared bindings, got %d", len(declared))
	}
}

func TestSchemaMismatch(t *testing.T) {
	var buf bytes.Buffer
	bad := payload{Schema: SchemaVersion + 1, Assembly: "X"}
	if err := msgpack.NewEncoder(&buf).Encode(&bad); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := Decode(&buf); !errors.Is(err, ErrSchema) {
		t.Fatalf("expected ErrSchema, got %v", err)
	}
}

func TestCorruptParentReference(t *testing.T) {
	var buf bytes.Buffer
	bad := payload{
		Schema:   SchemaVersion,
		Assembly: "X",
		Files:    []fileRecord{{Path: "a.cs", Content: []byte("x")}},
		Nodes: []nodeRecord{
			{Kind: uint8(syntax.KindCompilationUnit), Span: spanRecord{File: 1, Start: 0, End: 1}, Parent: 7},
		},
	}
	if err := msgpack.NewEncoder(&buf).Encode(&bad); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := Decode(&buf); err == nil {
		t.Fatalf("expected decode error for forward parent reference")
	}
}

func TestCorruptBindingTarget(t *testing.T) {
	var buf bytes.Buffer
	bad := payload{
		Schema:   SchemaVersion,
		Assembly: "X",
		Files:    []fileRecord{{Path: "a.cs", Content: []byte("x")}},
		Nodes: []nodeRecord{
			{Kind: uint8(syntax.KindCompilationUnit), Span: spanRecord{File: 1, Start: 0, End: 1}},
		},
		Declared: map[uint32]uint32{1: 42},
	}
	if err := msgpack.NewEncoder(&buf).Encode(&bad); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := Decode(&buf); err == nil {
		t.Fatalf("expected decode error for dangling binding")
	}
}

func TestSaveAndLoadFile(t *testing.T) {
	unit := sampleUnit(t)
	path := filepath.Join(t.TempDir(), "widget"+Ext)

	if err := SaveFile(path, unit); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Name != path {
		t.Fatalf("expected unit name %q, got %q", path, got.Name)
	}
	if got.Tree.Len() != unit.Tree.Len() {
		t.Fatalf("node count mismatch after reload")
	}
}

// Package snapshot implements the portable on-disk form of a compilation
// unit: the syntax tree, bound symbol graph and embedded file contents an
// external frontend exports for analysis (.avu files). The payload is
// msgpack-encoded and schema-versioned so stale or foreign files fail fast
// instead of decoding into garbage.
package snapshot

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"avlint/internal/analysis"
	"avlint/internal/source"
	"avlint/internal/symbols"
	"avlint/internal/syntax"
)

// SchemaVersion changes whenever the payload layout changes.
const SchemaVersion uint16 = 1

// Ext is the conventional snapshot file extension.
const Ext = ".avu"

// ErrSchema reports a snapshot written with an incompatible schema version.
var ErrSchema = errors.New("snapshot: unsupported schema version")

type fileRecord struct {
	Path    string
	Content []byte
}

type spanRecord struct {
	File  uint32
	Start uint32
	End   uint32
}

// nodeRecord stores one syntax node. Records appear in arena order, which
// is parent-before-child, so children lists are reconstructed from Parent
// references alone.
type nodeRecord struct {
	Kind   uint8
	Span   spanRecord
	Text   string
	Parent uint32
}

// symbolRecord stores one symbol, excluding the implicit assembly root.
type symbolRecord struct {
	Kind       uint8
	Name       string
	Containing uint32
	Decls      []spanRecord
}

type payload struct {
	Schema     uint16
	Assembly   string
	Files      []fileRecord
	Nodes      []nodeRecord
	Symbols    []symbolRecord
	Declared   map[uint32]uint32
	Referenced map[uint32]uint32
	Implements map[uint32]uint32
}

func toSpanRecord(s source.Span) spanRecord {
	return spanRecord{File: uint32(s.File), Start: s.Start, End: s.End}
}

func fromSpanRecord(r spanRecord) source.Span {
	return source.Span{File: source.FileID(r.File), Start: r.Start, End: r.End}
}

// Encode serializes the unit to w.
func Encode(w io.Writer, unit *analysis.Unit) error {
	p := payload{
		Schema:     SchemaVersion,
		Assembly:   unit.AssemblyName(),
		Declared:   make(map[uint32]uint32),
		Referenced: make(map[uint32]uint32),
		Implements: make(map[uint32]uint32),
	}

	for _, f := range unit.Files.All() {
		p.Files = append(p.Files, fileRecord{Path: f.Path, Content: f.Content})
	}

	for i := 1; i <= unit.Tree.Len(); i++ {
		id := syntax.NodeID(i)
		n := unit.Tree.Get(id)
		p.Nodes = append(p.Nodes, nodeRecord{
			Kind:   uint8(n.Kind),
			Span:   toSpanRecord(n.Span),
			Text:   unit.Tree.Text(id),
			Parent: uint32(n.Parent),
		})
	}

	graph := unit.Symbols
	graph.Each(func(id symbols.SymbolID, s *symbols.Symbol) bool {
		if s.Kind == symbols.SymbolAssembly {
			return true
		}
		rec := symbolRecord{
			Kind:       uint8(s.Kind),
			Name:       graph.Name(id),
			Containing: uint32(s.Containing),
		}
		for _, d := range s.Decls {
			rec.Decls = append(rec.Decls, toSpanRecord(d))
		}
		p.Symbols = append(p.Symbols, rec)
		return true
	})

	for node, sym := range graph.DeclaredBindings() {
		p.Declared[uint32(node)] = uint32(sym)
	}
	for node, sym := range graph.ReferencedBindings() {
		p.Referenced[uint32(node)] = uint32(sym)
	}
	for from, to := range graph.ImplementationBindings() {
		p.Implements[uint32(from)] = uint32(to)
	}

	return msgpack.NewEncoder(w).Encode(&p)
}

// Decode reads a unit from r, rebuilding the tree and graph through their
// builders and validating every cross-reference. A corrupt snapshot yields
// an error, never a panic.
func Decode(r io.Reader) (*analysis.Unit, error) {
	var p payload
	if err := msgpack.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("snapshot: decode: %w", err)
	}
	if p.Schema != SchemaVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSchema, p.Schema, SchemaVersion)
	}

	fs := source.NewFileSet()
	for _, f := range p.Files {
		fs.AddVirtual(f.Path, f.Content)
	}
	checkSpan := func(rec spanRecord, what string) error {
		if rec.File == 0 || int(rec.File) > fs.Len() {
			return fmt.Errorf("snapshot: %s span references unknown file %d", what, rec.File)
		}
		return nil
	}

	strings := source.NewInterner()
	tb := syntax.NewBuilder(uint32(len(p.Nodes)), strings)
	for i, rec := range p.Nodes {
		kind := syntax.NodeKind(rec.Kind)
		if !kind.IsValid() {
			return nil, fmt.Errorf("snapshot: node %d has unknown kind %d", i+1, rec.Kind)
		}
		if rec.Parent >= uint32(i+1) && rec.Parent != 0 {
			return nil, fmt.Errorf("snapshot: node %d parent %d not yet defined", i+1, rec.Parent)
		}
		if err := checkSpan(rec.Span, "node"); err != nil {
			return nil, err
		}
		tb.Add(syntax.NodeID(rec.Parent), kind, fromSpanRecord(rec.Span), rec.Text)
	}
	tree := tb.Finish()

	gb := symbols.NewGraphBuilder(p.Assembly, uint32(len(p.Symbols)), strings)
	for i, rec := range p.Symbols {
		kind := symbols.SymbolKind(rec.Kind)
		if !kind.IsValid() || kind == symbols.SymbolAssembly {
			return nil, fmt.Errorf("snapshot: symbol %d has unknown kind %d", i+2, rec.Kind)
		}
		// Record i becomes arena index i+2 (index 1 is the assembly root).
		if rec.Containing == 0 || rec.Containing >= uint32(i+2) {
			return nil, fmt.Errorf("snapshot: symbol %d containing %d not yet defined", i+2, rec.Containing)
		}
		decls := make([]source.Span, 0, len(rec.Decls))
		for _, d := range rec.Decls {
			if err := checkSpan(d, "symbol"); err != nil {
				return nil, err
			}
			decls = append(decls, fromSpanRecord(d))
		}
		gb.Add(symbols.SymbolID(rec.Containing), kind, rec.Name, decls...)
	}
	for node, sym := range p.Declared {
		gb.BindDeclared(syntax.NodeID(node), symbols.SymbolID(sym))
	}
	for node, sym := range p.Referenced {
		gb.BindReferenced(syntax.NodeID(node), symbols.SymbolID(sym))
	}
	for from, to := range p.Implements {
		gb.BindImplementation(symbols.SymbolID(from), symbols.SymbolID(to))
	}
	graph := gb.Finish()

	unit := &analysis.Unit{Files: fs, Tree: tree, Symbols: graph}
	if err := unit.Validate(); err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	return unit, nil
}

// LoadFile reads and decodes a snapshot, naming the unit after the path.
func LoadFile(path string) (*analysis.Unit, error) {
	// #nosec G304 -- path is provided by the caller
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	unit, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	unit.Name = path
	return unit, nil
}

// SaveFile encodes the unit and atomically replaces path.
func SaveFile(path string, unit *analysis.Unit) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "tmp-*"+Ext)
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, unit); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

package symbols

import (
	"avlint/internal/source"
	"avlint/internal/syntax"
)

// GraphBuilder is the only mutation surface for symbol graphs. Finish seals
// the graph.
type GraphBuilder struct {
	graph    *Graph
	finished bool
}

// NewGraphBuilder creates a builder whose graph is rooted at an assembly
// symbol carrying assemblyName. Pass nil for a private interner.
func NewGraphBuilder(assemblyName string, capHint uint32, strings *source.Interner) *GraphBuilder {
	return &GraphBuilder{graph: newGraph(assemblyName, capHint, strings)}
}

// Assembly returns the root assembly symbol of the graph under construction.
func (b *GraphBuilder) Assembly() SymbolID { return b.graph.assembly }

// Add allocates a symbol under containing. Pass the assembly root for
// top-level namespaces and types.
func (b *GraphBuilder) Add(containing SymbolID, kind SymbolKind, name string, decls ...source.Span) SymbolID {
	if b.finished {
		panic("symbols: Add after Finish")
	}
	return b.graph.alloc(Symbol{
		Kind:       kind,
		Name:       b.graph.strings.Intern(name),
		Containing: containing,
		Decls:      decls,
	})
}

// BindDeclared records that node declares sym.
func (b *GraphBuilder) BindDeclared(node syntax.NodeID, sym SymbolID) {
	if b.finished {
		panic("symbols: BindDeclared after Finish")
	}
	b.graph.declared[node] = sym
}

// BindReferenced records that node refers to sym.
func (b *GraphBuilder) BindReferenced(node syntax.NodeID, sym SymbolID) {
	if b.finished {
		panic("symbols: BindReferenced after Finish")
	}
	b.graph.referenced[node] = sym
}

// BindImplementation records that sym implements the interface member iface.
func (b *GraphBuilder) BindImplementation(sym, iface SymbolID) {
	if b.finished {
		panic("symbols: BindImplementation after Finish")
	}
	b.graph.impls[sym] = iface
}

// Finish seals and returns the graph. The builder must not be used after.
func (b *GraphBuilder) Finish() *Graph {
	b.finished = true
	return b.graph
}

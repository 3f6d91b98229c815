package symbols

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"avlint/internal/source"
	"avlint/internal/syntax"
)

// Graph stores the resolved symbols of one compilation unit in a compact
// slice arena, rooted at an assembly symbol, together with the bindings the
// frontend computed between syntax nodes and symbols. A finished graph is
// immutable and safe to share across concurrent rule callbacks.
type Graph struct {
	syms     []Symbol
	assembly SymbolID
	strings  *source.Interner

	declared   map[syntax.NodeID]SymbolID
	referenced map[syntax.NodeID]SymbolID
	impls      map[SymbolID]SymbolID
}

func newGraph(assemblyName string, capHint uint32, strings *source.Interner) *Graph {
	if capHint == 0 {
		capHint = 32
	}
	if strings == nil {
		strings = source.NewInterner()
	}
	g := &Graph{
		syms:       make([]Symbol, 1, capHint+1),
		strings:    strings,
		declared:   make(map[syntax.NodeID]SymbolID),
		referenced: make(map[syntax.NodeID]SymbolID),
		impls:      make(map[SymbolID]SymbolID),
	}
	g.assembly = g.alloc(Symbol{
		Kind: SymbolAssembly,
		Name: strings.Intern(assemblyName),
	})
	return g
}

func (g *Graph) alloc(s Symbol) SymbolID {
	value, err := safecast.Conv[uint32](len(g.syms))
	if err != nil {
		panic(fmt.Errorf("symbol arena overflow: %w", err))
	}
	id := SymbolID(value)
	g.syms = append(g.syms, s)
	return id
}

// Assembly returns the root assembly symbol.
func (g *Graph) Assembly() SymbolID { return g.assembly }

// AssemblyName returns the name of the root assembly symbol.
func (g *Graph) AssemblyName() string {
	return g.Name(g.assembly)
}

// Get returns the symbol for id, or nil for an invalid ID.
func (g *Graph) Get(id SymbolID) *Symbol {
	if !id.IsValid() || int(id) >= len(g.syms) {
		return nil
	}
	return &g.syms[id]
}

// Len reports the number of symbols excluding the sentinel.
func (g *Graph) Len() int { return len(g.syms) - 1 }

// Strings exposes the interner holding symbol names.
func (g *Graph) Strings() *source.Interner { return g.strings }

// Name returns the symbol's name, or "" for an invalid ID.
func (g *Graph) Name(id SymbolID) string {
	s := g.Get(id)
	if s == nil {
		return ""
	}
	name, _ := g.strings.Lookup(s.Name)
	return name
}

// Containing returns the containing symbol, or NoSymbolID at the root.
func (g *Graph) Containing(id SymbolID) SymbolID {
	s := g.Get(id)
	if s == nil {
		return NoSymbolID
	}
	return s.Containing
}

// ContainingOfKind walks the containing chain and returns the nearest
// ancestor of the given kind.
func (g *Graph) ContainingOfKind(id SymbolID, kind SymbolKind) (SymbolID, bool) {
	for cur := g.Containing(id); cur.IsValid(); cur = g.Containing(cur) {
		if g.Get(cur).Kind == kind {
			return cur, true
		}
	}
	return NoSymbolID, false
}

// QualifiedName joins the names on the containing chain with dots, starting
// below the assembly root.
func (g *Graph) QualifiedName(id SymbolID) string {
	var parts []string
	for cur := id; cur.IsValid(); cur = g.Containing(cur) {
		s := g.Get(cur)
		if s == nil || s.Kind == SymbolAssembly {
			break
		}
		name, _ := g.strings.Lookup(s.Name)
		parts = append(parts, name)
	}
	// Reverse into declaration order.
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ".")
}

// Each calls visit exactly once per allocated symbol, in allocation order.
// Traversal stops when visit returns false; the return value reports whether
// the pass ran to completion.
func (g *Graph) Each(visit func(SymbolID, *Symbol) bool) bool {
	for i := 1; i < len(g.syms); i++ {
		if !visit(SymbolID(i), &g.syms[i]) {
			return false
		}
	}
	return true
}

// DeclaredSymbol returns the symbol declared by the given node, if the
// frontend supplied that binding.
func (g *Graph) DeclaredSymbol(node syntax.NodeID) (SymbolID, bool) {
	id, ok := g.declared[node]
	return id, ok
}

// ReferencedSymbol returns the symbol a use-site node refers to, if known.
func (g *Graph) ReferencedSymbol(node syntax.NodeID) (SymbolID, bool) {
	id, ok := g.referenced[node]
	return id, ok
}

// Implementation returns the interface member the given symbol implements,
// if the frontend recorded one.
func (g *Graph) Implementation(id SymbolID) (SymbolID, bool) {
	impl, ok := g.impls[id]
	return impl, ok
}

// DeclaredBindings returns a copy of the node-declares-symbol map.
func (g *Graph) DeclaredBindings() map[syntax.NodeID]SymbolID {
	out := make(map[syntax.NodeID]SymbolID, len(g.declared))
	for k, v := range g.declared {
		out[k] = v
	}
	return out
}

// ReferencedBindings returns a copy of the node-refers-to-symbol map.
func (g *Graph) ReferencedBindings() map[syntax.NodeID]SymbolID {
	out := make(map[syntax.NodeID]SymbolID, len(g.referenced))
	for k, v := range g.referenced {
		out[k] = v
	}
	return out
}

// ImplementationBindings returns a copy of the implements map.
func (g *Graph) ImplementationBindings() map[SymbolID]SymbolID {
	out := make(map[SymbolID]SymbolID, len(g.impls))
	for k, v := range g.impls {
		out[k] = v
	}
	return out
}

// Validate checks arena invariants: valid kinds, in-range containing links,
// and in-range binding targets.
func (g *Graph) Validate() error {
	for i := 1; i < len(g.syms); i++ {
		id := SymbolID(i)
		s := &g.syms[i]
		if !s.Kind.IsValid() {
			return fmt.Errorf("symbols: symbol %d has invalid kind", id)
		}
		if s.Containing.IsValid() && g.Get(s.Containing) == nil {
			return fmt.Errorf("symbols: symbol %d containing %d out of range", id, s.Containing)
		}
	}
	for node, sym := range g.declared {
		if g.Get(sym) == nil {
			return fmt.Errorf("symbols: declared binding for node %d targets unknown symbol %d", node, sym)
		}
	}
	for node, sym := range g.referenced {
		if g.Get(sym) == nil {
			return fmt.Errorf("symbols: referenced binding for node %d targets unknown symbol %d", node, sym)
		}
	}
	for from, to := range g.impls {
		if g.Get(from) == nil || g.Get(to) == nil {
			return fmt.Errorf("symbols: implementation binding %d -> %d out of range", from, to)
		}
	}
	return nil
}

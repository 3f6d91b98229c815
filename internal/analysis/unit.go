package analysis

import (
	"fmt"

	"avlint/internal/source"
	"avlint/internal/symbols"
	"avlint/internal/syntax"
)

// Unit bundles everything the engine analyzes in one pass: the syntax tree
// and bound symbol graph supplied by an external frontend, plus the file set
// their spans point into. All parts are immutable; a Unit is safe to share
// by read-only reference across concurrent callbacks.
type Unit struct {
	Name    string // logical name, usually the snapshot path
	Files   *source.FileSet
	Tree    *syntax.Tree
	Symbols *symbols.Graph
}

// AssemblyName returns the name of the assembly the unit belongs to.
func (u *Unit) AssemblyName() string {
	return u.Symbols.AssemblyName()
}

// DeclaredSymbol resolves the symbol declared by node. ok=false means the
// semantic model has no binding; callers treat that as "skip".
func (u *Unit) DeclaredSymbol(node syntax.NodeID) (symbols.SymbolID, bool) {
	return u.Symbols.DeclaredSymbol(node)
}

// ReferencedSymbol resolves the symbol a use site refers to, if known.
func (u *Unit) ReferencedSymbol(node syntax.NodeID) (symbols.SymbolID, bool) {
	return u.Symbols.ReferencedSymbol(node)
}

// InterfaceImplementation returns the interface member sym implements, if
// the frontend recorded one.
func (u *Unit) InterfaceImplementation(sym symbols.SymbolID) (symbols.SymbolID, bool) {
	return u.Symbols.Implementation(sym)
}

// PartOfConditionalAccess reports whether node sits underneath a
// conditional-access expression.
func (u *Unit) PartOfConditionalAccess(node syntax.NodeID) bool {
	found := false
	u.Tree.Ancestors(node, func(_ syntax.NodeID, n *syntax.Node) bool {
		if n.Kind == syntax.KindConditionalAccess {
			found = true
			return false
		}
		return true
	})
	return found
}

// Validate checks the cross-structure invariants a decoded snapshot must
// satisfy before analysis.
func (u *Unit) Validate() error {
	if err := u.Tree.Validate(); err != nil {
		return err
	}
	if err := u.Symbols.Validate(); err != nil {
		return err
	}
	for node := range u.Symbols.DeclaredBindings() {
		if u.Tree.Get(node) == nil {
			return fmt.Errorf("analysis: declared binding for unknown node %d", node)
		}
	}
	for node := range u.Symbols.ReferencedBindings() {
		if u.Tree.Get(node) == nil {
			return fmt.Errorf("analysis: referenced binding for unknown node %d", node)
		}
	}
	return nil
}

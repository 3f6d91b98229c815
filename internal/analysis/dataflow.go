package analysis

import (
	"slices"

	"avlint/internal/symbols"
	"avlint/internal/syntax"
)

// DataFlowResult describes which symbols a subtree writes to. Succeeded is
// false when the semantic model could not account for every write target;
// callers must then treat the whole result as unknown and skip.
type DataFlowResult struct {
	Written   []symbols.SymbolID
	Succeeded bool
}

// Writes reports whether the analyzed subtree writes to sym.
func (r DataFlowResult) Writes(sym symbols.SymbolID) bool {
	return slices.Contains(r.Written, sym)
}

// DataFlow computes the set of symbols written inside the subtree rooted at
// root. An assignment whose target has no referenced-symbol binding makes
// the result unsuccessful: the write may target anything, so no conclusion
// about individual symbols is safe.
func (u *Unit) DataFlow(root syntax.NodeID) DataFlowResult {
	result := DataFlowResult{Succeeded: true}
	seen := make(map[symbols.SymbolID]bool)

	u.Tree.WalkFrom(root, func(id syntax.NodeID, n *syntax.Node) bool {
		if n.Kind != syntax.KindAssignment || len(n.Children) == 0 {
			return true
		}
		target := n.Children[0]
		sym, ok := u.writeTarget(target)
		if !ok {
			result.Succeeded = false
			return true
		}
		if !seen[sym] {
			seen[sym] = true
			result.Written = append(result.Written, sym)
		}
		return true
	})

	if !result.Succeeded {
		result.Written = nil
	}
	return result
}

// writeTarget resolves the symbol an assignment target refers to. Only
// plain identifier targets resolve; member accesses and anything unbound
// count as unknown.
func (u *Unit) writeTarget(node syntax.NodeID) (symbols.SymbolID, bool) {
	n := u.Tree.Get(node)
	if n == nil || n.Kind != syntax.KindIdentifier {
		return symbols.NoSymbolID, false
	}
	return u.ReferencedSymbol(node)
}

package rules

import (
	"avlint/internal/analysis"
	"avlint/internal/diag"
	"avlint/internal/symbols"
	"avlint/internal/syntax"
)

// loopVariableNotChanged (AV1530) flags for-loops whose body assigns to the
// loop variable.
type loopVariableNotChanged struct{}

func (r *loopVariableNotChanged) ID() string { return "AV1530" }
func (r *loopVariableNotChanged) Description() string {
	return "loop variable should not be changed inside the loop body"
}
func (r *loopVariableNotChanged) DefaultSeverity() diag.Severity { return diag.SevWarning }
func (r *loopVariableNotChanged) NodeKinds() []syntax.NodeKind {
	return []syntax.NodeKind{syntax.KindForStmt}
}
func (r *loopVariableNotChanged) SymbolKinds() []symbols.SymbolKind { return nil }

func (r *loopVariableNotChanged) Inspect(ctx *analysis.Context) {
	tree := ctx.Unit().Tree
	loop := ctx.NodeData()

	var declNode, bodyNode syntax.NodeID
	for _, child := range loop.Children {
		switch tree.Get(child).Kind {
		case syntax.KindLocalDecl:
			if !declNode.IsValid() {
				declNode = child
			}
		case syntax.KindBlock:
			bodyNode = child
		}
	}
	if !declNode.IsValid() || !bodyNode.IsValid() {
		return // no declared loop variable or no body, nothing to check
	}

	loopVar, ok := ctx.DeclaredSymbol(declNode)
	if !ok {
		return // unresolved declaration, skip
	}
	flow := ctx.DataFlow(bodyNode)
	if !flow.Succeeded {
		return // unknown write set, skip (counted as a semantic gap)
	}
	if flow.Writes(loopVar) {
		ctx.Reportf(tree.Get(declNode).Span,
			"loop variable %q should not be modified inside the loop body",
			ctx.Unit().Symbols.Name(loopVar))
	}
}

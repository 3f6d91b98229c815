package rules

import (
	"avlint/internal/analysis"
	"avlint/internal/diag"
	"avlint/internal/symbols"
	"avlint/internal/syntax"
)

// memberRepeatsTypeName (AV1710) flags members whose name repeats the name
// of their containing type. Members that implement an interface member are
// exempt: their name is dictated by the interface.
type memberRepeatsTypeName struct{}

func (r *memberRepeatsTypeName) ID() string { return "AV1710" }
func (r *memberRepeatsTypeName) Description() string {
	return "member name should not repeat the name of its containing type"
}
func (r *memberRepeatsTypeName) DefaultSeverity() diag.Severity { return diag.SevInfo }
func (r *memberRepeatsTypeName) NodeKinds() []syntax.NodeKind   { return nil }
func (r *memberRepeatsTypeName) SymbolKinds() []symbols.SymbolKind {
	return []symbols.SymbolKind{
		symbols.SymbolMethod,
		symbols.SymbolProperty,
		symbols.SymbolField,
	}
}

func (r *memberRepeatsTypeName) Inspect(ctx *analysis.Context) {
	graph := ctx.Unit().Symbols
	member := ctx.Symbol()

	owner, ok := graph.ContainingOfKind(member, symbols.SymbolType)
	if !ok {
		return // free-standing member, skip
	}
	if _, implements := ctx.InterfaceImplementation(member); implements {
		return
	}

	memberName := graph.Name(member)
	typeName := graph.Name(owner)
	if memberName == "" || typeName == "" {
		return
	}
	if nameContains(memberName, typeName) {
		ctx.ReportSymbolf("%s %q repeats the name of its containing type %q",
			ctx.SymbolData().Kind, memberName, typeName)
	}
}

package rules

import (
	"avlint/internal/analysis"
	"avlint/internal/diag"
	"avlint/internal/symbols"
	"avlint/internal/syntax"
)

// nestedConditionalAccess (AV1580) flags conditional-access expressions
// nested inside another conditional access; long `a?.b?.c` chains hide which
// link was null.
type nestedConditionalAccess struct{}

func (r *nestedConditionalAccess) ID() string { return "AV1580" }
func (r *nestedConditionalAccess) Description() string {
	return "conditional-access expressions should not be nested"
}
func (r *nestedConditionalAccess) DefaultSeverity() diag.Severity { return diag.SevInfo }
func (r *nestedConditionalAccess) NodeKinds() []syntax.NodeKind {
	return []syntax.NodeKind{syntax.KindConditionalAccess}
}
func (r *nestedConditionalAccess) SymbolKinds() []symbols.SymbolKind { return nil }

func (r *nestedConditionalAccess) Inspect(ctx *analysis.Context) {
	if ctx.PartOfConditionalAccess(ctx.Node()) {
		ctx.ReportNodef("conditional access is nested inside another conditional access")
	}
}

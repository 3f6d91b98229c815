package rules

import (
	"strings"

	"avlint/internal/analysis"
	"avlint/internal/diag"
	"avlint/internal/symbols"
	"avlint/internal/syntax"
)

// genericTerms are suffixes that say nothing about a type's responsibility.
var genericTerms = []string{"Utility", "Utilities", "Helper", "Helpers", "Common", "Shared"}

// typeNameGenericTerm (AV1708) flags type names built from vague catch-all
// terms.
type typeNameGenericTerm struct{}

func (r *typeNameGenericTerm) ID() string { return "AV1708" }
func (r *typeNameGenericTerm) Description() string {
	return "type name should not use generic terms like Utility or Helper"
}
func (r *typeNameGenericTerm) DefaultSeverity() diag.Severity { return diag.SevWarning }
func (r *typeNameGenericTerm) NodeKinds() []syntax.NodeKind   { return nil }
func (r *typeNameGenericTerm) SymbolKinds() []symbols.SymbolKind {
	return []symbols.SymbolKind{symbols.SymbolType}
}

func (r *typeNameGenericTerm) Inspect(ctx *analysis.Context) {
	name := normName(ctx.Unit().Symbols.Name(ctx.Symbol()))
	for _, term := range genericTerms {
		if strings.HasSuffix(name, term) {
			ctx.ReportSymbolf("type %q uses the generic term %q in its name", name, term)
			return
		}
	}
}

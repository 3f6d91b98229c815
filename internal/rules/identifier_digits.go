package rules

import (
	"avlint/internal/analysis"
	"avlint/internal/diag"
	"avlint/internal/symbols"
	"avlint/internal/syntax"
)

// identifierContainsDigit (AV1704) flags identifiers that embed digits;
// names should spell intent, not enumerate.
type identifierContainsDigit struct{}

func (r *identifierContainsDigit) ID() string { return "AV1704" }
func (r *identifierContainsDigit) Description() string {
	return "identifier should not contain digits"
}
func (r *identifierContainsDigit) DefaultSeverity() diag.Severity { return diag.SevInfo }
func (r *identifierContainsDigit) NodeKinds() []syntax.NodeKind   { return nil }
func (r *identifierContainsDigit) SymbolKinds() []symbols.SymbolKind {
	return []symbols.SymbolKind{
		symbols.SymbolType,
		symbols.SymbolMethod,
		symbols.SymbolProperty,
		symbols.SymbolField,
		symbols.SymbolParameter,
		symbols.SymbolLocal,
	}
}

func (r *identifierContainsDigit) Inspect(ctx *analysis.Context) {
	name := ctx.Unit().Symbols.Name(ctx.Symbol())
	if name == "" {
		return
	}
	if containsDigit(normName(name)) {
		ctx.ReportSymbolf("%s %q contains one or more digits, which should be avoided",
			ctx.SymbolData().Kind, name)
	}
}

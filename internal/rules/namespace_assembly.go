package rules

import (
	"avlint/internal/analysis"
	"avlint/internal/diag"
	"avlint/internal/symbols"
	"avlint/internal/syntax"
)

// namespaceMatchesAssembly (AV1505) checks that every namespace level stays
// within the scope spelled by the assembly name. Levels deeper than the
// assembly name are allowed; once a level deviates, that level and every
// level below it are reported.
type namespaceMatchesAssembly struct{}

func (r *namespaceMatchesAssembly) ID() string { return "AV1505" }
func (r *namespaceMatchesAssembly) Description() string {
	return "namespace should match the assembly name"
}
func (r *namespaceMatchesAssembly) DefaultSeverity() diag.Severity { return diag.SevWarning }
func (r *namespaceMatchesAssembly) NodeKinds() []syntax.NodeKind   { return nil }
func (r *namespaceMatchesAssembly) SymbolKinds() []symbols.SymbolKind {
	return []symbols.SymbolKind{symbols.SymbolNamespace}
}

func (r *namespaceMatchesAssembly) Inspect(ctx *analysis.Context) {
	graph := ctx.Unit().Symbols
	sym := ctx.Symbol()

	assembly := splitSegments(ctx.Unit().AssemblyName())
	if len(assembly) == 0 {
		return // unknown assembly, skip
	}

	// Full chain of namespace levels from the root down to this symbol.
	// Frontends may emit one symbol per level or a single dotted name; both
	// shapes flatten to the same segment list.
	var ancestors []string
	for cur := graph.Containing(sym); cur.IsValid(); cur = graph.Containing(cur) {
		s := graph.Get(cur)
		if s.Kind != symbols.SymbolNamespace {
			break
		}
		segs := splitSegments(graph.Name(cur))
		ancestors = append(segs, ancestors...)
	}
	own := splitSegments(graph.Name(sym))
	chain := append(append([]string{}, ancestors...), own...)

	mismatch := len(chain)
	for i, seg := range chain {
		if i < len(assembly) && seg != assembly[i] {
			mismatch = i
			break
		}
	}

	// Report only the levels owned by this symbol, so nested namespace
	// symbols each account for their own segment.
	for i := len(ancestors); i < len(chain); i++ {
		if i < mismatch {
			continue
		}
		ctx.ReportSymbolf("namespace level %q does not match assembly name %q",
			chain[i], ctx.Unit().AssemblyName())
	}
}

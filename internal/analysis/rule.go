package analysis

import (
	"avlint/internal/diag"
	"avlint/internal/symbols"
	"avlint/internal/syntax"
)

// Rule is one independent checker. It declares the node and symbol kinds it
// wants to observe; the dispatcher invokes Inspect once per matching
// occurrence with a fresh Context.
//
// Contract: Inspect must be a pure function of the Context whose only side
// effect is zero or more Report calls. It must not retain the Context or any
// node/symbol reference beyond its own execution, must not mutate tree or
// graph data, and must treat unknown semantic answers as "skip, do not
// report". Rules must not depend on the order in which occurrences are
// visited.
type Rule interface {
	// ID is the stable identifier matching configuration keys, e.g. "AV1530".
	ID() string
	// Description is a one-line summary shown by `avlint rules`.
	Description() string
	// DefaultSeverity applies when configuration does not override it.
	DefaultSeverity() diag.Severity
	// NodeKinds lists the syntax-node kinds to observe. May be empty.
	NodeKinds() []syntax.NodeKind
	// SymbolKinds lists the symbol kinds to observe. May be empty.
	SymbolKinds() []symbols.SymbolKind
	// Inspect runs once per matching node or symbol occurrence.
	Inspect(ctx *Context)
}

package symbols

import (
	"avlint/internal/source"
)

// SymbolKind classifies the semantic meaning of a symbol.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolAssembly
	SymbolNamespace
	SymbolType
	SymbolMethod
	SymbolProperty
	SymbolField
	SymbolParameter
	SymbolLocal

	symbolKindCount // keep last
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolAssembly:
		return "assembly"
	case SymbolNamespace:
		return "namespace"
	case SymbolType:
		return "type"
	case SymbolMethod:
		return "method"
	case SymbolProperty:
		return "property"
	case SymbolField:
		return "field"
	case SymbolParameter:
		return "parameter"
	case SymbolLocal:
		return "local"
	default:
		return "invalid"
	}
}

// IsValid reports whether the kind belongs to the closed enumeration.
func (k SymbolKind) IsValid() bool {
	return k > SymbolInvalid && k < symbolKindCount
}

// KindCount is the number of valid kinds, used to size dispatch tables.
const KindCount = int(symbolKindCount)

// IsMember reports whether the kind is a type member.
func (k SymbolKind) IsMember() bool {
	return k == SymbolMethod || k == SymbolProperty || k == SymbolField
}

// Symbol describes one resolved semantic entity. A symbol exists once no
// matter how many syntactic declarations contribute to it; Decls lists every
// declaration site. Containing is a non-owning back-reference forming the
// assembly/namespace/type tree.
type Symbol struct {
	Kind       SymbolKind
	Name       source.StringID
	Containing SymbolID
	Decls      []source.Span
}

// PrimaryDecl returns the first declaration span, or the zero span when the
// symbol has no source location (e.g. the assembly root).
func (s *Symbol) PrimaryDecl() source.Span {
	if len(s.Decls) == 0 {
		return source.Span{}
	}
	return s.Decls[0]
}

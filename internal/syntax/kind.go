package syntax

// NodeKind tags a syntax node with its category. The enumeration is closed:
// frontends map their language-specific grammar onto these kinds before
// handing a tree to the engine.
type NodeKind uint8

const (
	KindInvalid NodeKind = iota
	KindCompilationUnit
	KindNamespaceDecl
	KindTypeDecl
	KindMethodDecl
	KindPropertyDecl
	KindFieldDecl
	KindParameter
	KindLocalDecl
	KindBlock
	KindForStmt
	KindIfStmt
	KindReturnStmt
	KindAssignment
	KindInvocation
	KindMemberAccess
	KindConditionalAccess
	KindIdentifier
	KindLiteral

	kindCount // keep last
)

func (k NodeKind) String() string {
	switch k {
	case KindCompilationUnit:
		return "compilation-unit"
	case KindNamespaceDecl:
		return "namespace-decl"
	case KindTypeDecl:
		return "type-decl"
	case KindMethodDecl:
		return "method-decl"
	case KindPropertyDecl:
		return "property-decl"
	case KindFieldDecl:
		return "field-decl"
	case KindParameter:
		return "parameter"
	case KindLocalDecl:
		return "local-decl"
	case KindBlock:
		return "block"
	case KindForStmt:
		return "for-stmt"
	case KindIfStmt:
		return "if-stmt"
	case KindReturnStmt:
		return "return-stmt"
	case KindAssignment:
		return "assignment"
	case KindInvocation:
		return "invocation"
	case KindMemberAccess:
		return "member-access"
	case KindConditionalAccess:
		return "conditional-access"
	case KindIdentifier:
		return "identifier"
	case KindLiteral:
		return "literal"
	default:
		return "invalid"
	}
}

// IsValid reports whether the kind belongs to the closed enumeration.
func (k NodeKind) IsValid() bool {
	return k > KindInvalid && k < kindCount
}

// KindCount is the number of valid kinds, used to size dispatch tables.
const KindCount = int(kindCount)

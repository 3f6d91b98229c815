package syntax

import (
	"avlint/internal/source"
)

// Node is one syntax-tree element. Parent is a non-owning back-reference
// into the arena; Children are owned in left-to-right source order. Text
// carries the interned token text for identifier-like nodes and NoStringID
// otherwise. Nodes are immutable once the builder finishes.
type Node struct {
	Kind     NodeKind
	Span     source.Span
	Text     source.StringID
	Parent   NodeID
	Children []NodeID
}

package syntax

import (
	"avlint/internal/source"
)

// Builder is the only mutation surface for trees. External frontends (and
// the snapshot decoder, and tests) construct nodes through it; Finish seals
// the tree.
type Builder struct {
	tree     *Tree
	finished bool
}

// NewBuilder creates a builder with an optional node-count hint and an
// optional shared interner (pass nil for a private one).
func NewBuilder(capHint uint32, strings *source.Interner) *Builder {
	return &Builder{tree: newTree(capHint, strings)}
}

// Add allocates a node under parent. Pass NoNodeID for the root; the first
// parentless node becomes the tree root. Children attach in call order.
func (b *Builder) Add(parent NodeID, kind NodeKind, span source.Span, text string) NodeID {
	if b.finished {
		panic("syntax: Add after Finish")
	}
	var textID source.StringID
	if text != "" {
		textID = b.tree.strings.Intern(text)
	}
	id := b.tree.alloc(Node{
		Kind:   kind,
		Span:   span,
		Text:   textID,
		Parent: parent,
	})
	if parent.IsValid() {
		p := b.tree.Get(parent)
		p.Children = append(p.Children, id)
	} else if !b.tree.root.IsValid() {
		b.tree.root = id
	}
	return id
}

// Finish seals and returns the tree. The builder must not be used after.
func (b *Builder) Finish() *Tree {
	b.finished = true
	return b.tree
}

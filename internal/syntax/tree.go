package syntax

import (
	"fmt"

	"fortio.org/safecast"

	"avlint/internal/source"
)

// Tree stores all nodes of one compilation unit in a compact slice arena.
// Index 0 is reserved for NoNodeID. A finished tree is immutable and safe
// to share by read-only reference across concurrent rule callbacks.
type Tree struct {
	nodes   []Node
	root    NodeID
	strings *source.Interner
}

func newTree(capHint uint32, strings *source.Interner) *Tree {
	if capHint == 0 {
		capHint = 64
	}
	if strings == nil {
		strings = source.NewInterner()
	}
	return &Tree{
		nodes:   make([]Node, 1, capHint+1),
		strings: strings,
	}
}

func (t *Tree) alloc(n Node) NodeID {
	value, err := safecast.Conv[uint32](len(t.nodes))
	if err != nil {
		panic(fmt.Errorf("syntax arena overflow: %w", err))
	}
	id := NodeID(value)
	t.nodes = append(t.nodes, n)
	return id
}

// Root returns the root node ID, or NoNodeID for an empty tree.
func (t *Tree) Root() NodeID { return t.root }

// Get returns the node for id, or nil for an invalid ID.
func (t *Tree) Get(id NodeID) *Node {
	if !id.IsValid() || int(id) >= len(t.nodes) {
		return nil
	}
	return &t.nodes[id]
}

// Len reports the number of nodes excluding the sentinel.
func (t *Tree) Len() int { return len(t.nodes) - 1 }

// Strings exposes the interner holding node text.
func (t *Tree) Strings() *source.Interner { return t.strings }

// Text returns the token text of id, or "" when the node carries none.
func (t *Tree) Text(id NodeID) string {
	n := t.Get(id)
	if n == nil || n.Text == source.NoStringID {
		return ""
	}
	s, _ := t.strings.Lookup(n.Text)
	return s
}

// Parent returns the parent of id, or NoNodeID at the root.
func (t *Tree) Parent(id NodeID) NodeID {
	n := t.Get(id)
	if n == nil {
		return NoNodeID
	}
	return n.Parent
}

// Ancestors calls visit for each ancestor of id, nearest first, stopping
// early when visit returns false.
func (t *Tree) Ancestors(id NodeID, visit func(NodeID, *Node) bool) {
	for cur := t.Parent(id); cur.IsValid(); cur = t.Parent(cur) {
		if !visit(cur, t.Get(cur)) {
			return
		}
	}
}

// Walk performs a stable pre-order traversal from root: parent before
// children, children left-to-right. Traversal stops when visit returns
// false; the return value reports whether the walk ran to completion.
func (t *Tree) Walk(visit func(NodeID, *Node) bool) bool {
	return t.WalkFrom(t.root, visit)
}

// WalkFrom walks the subtree rooted at id in pre-order.
func (t *Tree) WalkFrom(id NodeID, visit func(NodeID, *Node) bool) bool {
	if !id.IsValid() {
		return true
	}
	n := t.Get(id)
	if n == nil {
		return true
	}
	if !visit(id, n) {
		return false
	}
	for _, child := range n.Children {
		if !t.WalkFrom(child, visit) {
			return false
		}
	}
	return true
}

// Validate checks arena invariants: valid kinds, consistent parent/child
// links, and a reachable root. Used by snapshot decoding and tests.
func (t *Tree) Validate() error {
	if t.root.IsValid() && t.Get(t.root) == nil {
		return fmt.Errorf("syntax: root %d out of range", t.root)
	}
	for i := 1; i < len(t.nodes); i++ {
		id := NodeID(i)
		n := &t.nodes[i]
		if !n.Kind.IsValid() {
			return fmt.Errorf("syntax: node %d has invalid kind", id)
		}
		if n.Parent.IsValid() && t.Get(n.Parent) == nil {
			return fmt.Errorf("syntax: node %d parent %d out of range", id, n.Parent)
		}
		for _, child := range n.Children {
			c := t.Get(child)
			if c == nil {
				return fmt.Errorf("syntax: node %d child %d out of range", id, child)
			}
			if c.Parent != id {
				return fmt.Errorf("syntax: node %d child %d has parent %d", id, child, c.Parent)
			}
		}
	}
	return nil
}

package syntax

// NodeID identifies a node inside a Tree arena.
type NodeID uint32

// NoNodeID marks the absence of a node reference (index 0 is reserved).
const NoNodeID NodeID = 0

// IsValid reports whether the ID refers to an allocated node.
func (id NodeID) IsValid() bool { return id != NoNodeID }

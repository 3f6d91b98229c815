package symbols

// SymbolID identifies a symbol inside a Graph arena.
type SymbolID uint32

// NoSymbolID marks the absence of a symbol reference (index 0 is reserved).
const NoSymbolID SymbolID = 0

// IsValid reports whether the ID refers to an allocated symbol.
func (id SymbolID) IsValid() bool { return id != NoSymbolID }

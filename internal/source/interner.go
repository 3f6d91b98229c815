package source

// StringID refers to a string stored in an Interner. 0 is the empty string.
type StringID uint32

const NoStringID StringID = 0

// Interner deduplicates strings (identifiers, names) so the rest of the
// engine can compare and store them as compact IDs.
type Interner struct {
	byID  []string
	index map[string]StringID
}

func NewInterner() *Interner {
	return &Interner{
		byID:  []string{""},
		index: map[string]StringID{"": 0},
	}
}

// Intern stores s and returns its ID, reusing the existing ID when s was
// interned before.
func (i *Interner) Intern(s string) StringID {
	if id, ok := i.index[s]; ok {
		return id
	}
	// Own copy, detached from the caller's backing buffer.
	cpy := string([]byte(s))
	id := StringID(len(i.byID))
	i.byID = append(i.byID, cpy)
	i.index[cpy] = id
	return id
}

// Lookup returns the string for id, with ok=false for unknown IDs.
func (i *Interner) Lookup(id StringID) (string, bool) {
	if int(id) >= len(i.byID) {
		return "", false
	}
	return i.byID[id], true
}

// MustLookup returns the string for id and panics on unknown IDs.
func (i *Interner) MustLookup(id StringID) string {
	s, ok := i.Lookup(id)
	if !ok {
		panic("source: invalid string ID")
	}
	return s
}

// Len reports the number of interned strings including the empty sentinel.
func (i *Interner) Len() int { return len(i.byID) }

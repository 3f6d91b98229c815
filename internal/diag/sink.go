package diag

import (
	"sort"
	"sync"
)

// Sink aggregates diagnostics from all rule callbacks. Report is safe for
// concurrent use; Drain produces a deterministic ordering regardless of the
// order in which reports arrived.
type Sink struct {
	mu    sync.Mutex
	items []Diagnostic
}

func NewSink() *Sink {
	return &Sink{items: make([]Diagnostic, 0, 16)}
}

// Report appends a diagnostic. Never drops an entry.
func (s *Sink) Report(d Diagnostic) {
	s.mu.Lock()
	s.items = append(s.items, d)
	s.mu.Unlock()
}

// Len reports the number of diagnostics collected so far.
func (s *Sink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// HasSeverity reports whether any collected diagnostic has severity at
// least min.
func (s *Sink) HasSeverity(min Severity) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].Severity >= min {
			return true
		}
	}
	return false
}

// Drain returns a sorted copy of all collected diagnostics. Sort key:
// file, start offset, end offset, rule id, message. The sink keeps its
// contents, so draining twice yields the same sequence.
func (s *Sink) Drain() []Diagnostic {
	s.mu.Lock()
	out := make([]Diagnostic, len(s.items))
	copy(out, s.items)
	s.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		di, dj := out[i], out[j]
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if di.Rule != dj.Rule {
			return di.Rule < dj.Rule
		}
		return di.Message < dj.Message
	})
	return out
}

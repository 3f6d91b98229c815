package diag

import (
	"avlint/internal/source"
)

// Note attaches secondary context to a diagnostic.
type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is one reported finding: either a guideline violation produced
// by a rule, or a tooling fault produced by the dispatcher when a rule
// crashed (Fault=true).
type Diagnostic struct {
	Rule     string
	Severity Severity
	Message  string
	Primary  source.Span
	Notes    []Note
	Fault    bool
}

// WithNote returns a copy of the diagnostic with an extra note appended.
func (d Diagnostic) WithNote(span source.Span, msg string) Diagnostic {
	notes := make([]Note, 0, len(d.Notes)+1)
	notes = append(notes, d.Notes...)
	notes = append(notes, Note{Span: span, Msg: msg})
	d.Notes = notes
	return d
}

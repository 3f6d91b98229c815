// Package diagfmt renders analysis results for humans (pretty, short) and
// machines (json, sarif). Renderers work on flat Records so diagnostics
// from many units, each with its own FileSet, can be merged into one
// deterministic report.
package diagfmt

import (
	"sort"

	"avlint/internal/diag"
	"avlint/internal/source"
)

// Record is one externally rendered diagnostic. SourceLine carries the text
// of the starting line for the pretty renderer's caret context; it is empty
// when unavailable.
type Record struct {
	Rule       string
	Severity   diag.Severity
	Message    string
	Path       string
	StartLine  uint32
	StartCol   uint32
	EndLine    uint32
	EndCol     uint32
	SourceLine string
	Fault      bool
}

// FromDiagnostics resolves spans against the unit's file set.
func FromDiagnostics(diags []diag.Diagnostic, fs *source.FileSet, fullPath bool) []Record {
	out := make([]Record, 0, len(diags))
	for _, d := range diags {
		rec := Record{
			Rule:     d.Rule,
			Severity: d.Severity,
			Message:  d.Message,
			Fault:    d.Fault,
		}
		if d.Primary.File.IsValid() {
			start, end := fs.Resolve(d.Primary)
			rec.Path = fs.PathFor(d.Primary.File, fullPath)
			rec.StartLine, rec.StartCol = start.Line, start.Col
			rec.EndLine, rec.EndCol = end.Line, end.Col
			rec.SourceLine = fs.Get(d.Primary.File).GetLine(start.Line)
		}
		out = append(out, rec)
	}
	return out
}

// Sort orders records by path, position, rule and message so merged
// multi-unit reports stay deterministic.
func Sort(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		ri, rj := records[i], records[j]
		if ri.Path != rj.Path {
			return ri.Path < rj.Path
		}
		if ri.StartLine != rj.StartLine {
			return ri.StartLine < rj.StartLine
		}
		if ri.StartCol != rj.StartCol {
			return ri.StartCol < rj.StartCol
		}
		if ri.Rule != rj.Rule {
			return ri.Rule < rj.Rule
		}
		return ri.Message < rj.Message
	})
}

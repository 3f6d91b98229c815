package diagfmt

import (
	"encoding/json"
	"io"
)

// DiagnosticJSON is the wire shape of a single diagnostic.
type DiagnosticJSON struct {
	RuleID      string `json:"ruleId"`
	Severity    string `json:"severity"`
	Message     string `json:"message"`
	FilePath    string `json:"filePath,omitempty"`
	StartLine   uint32 `json:"startLine"`
	StartColumn uint32 `json:"startColumn"`
	EndLine     uint32 `json:"endLine"`
	EndColumn   uint32 `json:"endColumn"`
	Fault       bool   `json:"fault,omitempty"`
}

// ReportJSON is the root structure of JSON output.
type ReportJSON struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
	Incomplete  bool             `json:"incomplete,omitempty"`
}

// BuildReport converts records into the serializable report without writing it.
func BuildReport(records []Record, opts JSONOpts) ReportJSON {
	records = truncate(records, opts.Max)
	out := ReportJSON{
		Diagnostics: make([]DiagnosticJSON, 0, len(records)),
		Incomplete:  opts.Incomplete,
	}
	for _, rec := range records {
		out.Diagnostics = append(out.Diagnostics, DiagnosticJSON{
			RuleID:      rec.Rule,
			Severity:    rec.Severity.Name(),
			Message:     rec.Message,
			FilePath:    rec.Path,
			StartLine:   rec.StartLine,
			StartColumn: rec.StartCol,
			EndLine:     rec.EndLine,
			EndColumn:   rec.EndCol,
			Fault:       rec.Fault,
		})
	}
	out.Count = len(out.Diagnostics)
	return out
}

// JSON writes the indented JSON report.
func JSON(w io.Writer, records []Record, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildReport(records, opts))
}

package diagfmt

import (
	"encoding/json"
	"io"

	"avlint/internal/diag"
)

const sarifSchema = "https://json.schemastore.org/sarif-2.1.0.json"

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version,omitempty"`
	Rules   []sarifRule `json:"rules,omitempty"`
}

type sarifRule struct {
	ID string `json:"id"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           sarifRegion           `json:"region"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   uint32 `json:"startLine"`
	StartColumn uint32 `json:"startColumn"`
	EndLine     uint32 `json:"endLine"`
	EndColumn   uint32 `json:"endColumn"`
}

// Sarif writes a single-run SARIF 2.1.0 log. The driver's rule list carries
// every distinct rule ID seen in the records, in first-seen order.
func Sarif(w io.Writer, records []Record, meta SarifRunMeta) error {
	run := sarifRun{
		Tool: sarifTool{Driver: sarifDriver{
			Name:    meta.ToolName,
			Version: meta.ToolVersion,
		}},
		Results: make([]sarifResult, 0, len(records)),
	}

	seen := make(map[string]bool)
	for _, rec := range records {
		if !seen[rec.Rule] {
			seen[rec.Rule] = true
			run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, sarifRule{ID: rec.Rule})
		}
		result := sarifResult{
			RuleID:  rec.Rule,
			Level:   sarifLevel(rec.Severity),
			Message: sarifMessage{Text: rec.Message},
		}
		if rec.Path != "" {
			result.Locations = []sarifLocation{{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifactLocation{URI: rec.Path},
					Region: sarifRegion{
						StartLine:   rec.StartLine,
						StartColumn: rec.StartCol,
						EndLine:     rec.EndLine,
						EndColumn:   rec.EndCol,
					},
				},
			}}
		}
		run.Results = append(run.Results, result)
	}

	log := sarifLog{
		Schema:  sarifSchema,
		Version: "2.1.0",
		Runs:    []sarifRun{run},
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(log)
}

func sarifLevel(sev diag.Severity) string {
	switch sev {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	default:
		return "note"
	}
}

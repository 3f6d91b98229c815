package diagfmt

// PrettyOpts configures human-readable output.
type PrettyOpts struct {
	Color bool
	// Max truncates the rendered list, 0 means unlimited.
	Max int
}

// JSONOpts configures machine-readable JSON output.
type JSONOpts struct {
	// Incomplete marks reports from cancelled runs.
	Incomplete bool
	Max        int
}

// SarifRunMeta provides tool metadata for SARIF output.
type SarifRunMeta struct {
	ToolName    string
	ToolVersion string
}

func truncate(records []Record, max int) []Record {
	if max > 0 && max < len(records) {
		return records[:max]
	}
	return records
}

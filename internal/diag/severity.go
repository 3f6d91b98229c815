package diag

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevInfo is for informational diagnostics.
	SevInfo Severity = iota
	// SevWarning is for warning diagnostics.
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Name returns the lowercase form used in configuration files and JSON output.
func (s Severity) Name() string {
	switch s {
	case SevInfo:
		return "info"
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	}
	return "unknown"
}

// ParseSeverity maps a configuration value to a Severity.
func ParseSeverity(name string) (Severity, bool) {
	switch name {
	case "info":
		return SevInfo, true
	case "warning":
		return SevWarning, true
	case "error":
		return SevError, true
	}
	return SevInfo, false
}

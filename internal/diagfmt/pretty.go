package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"avlint/internal/diag"
)

var (
	prettyError   = color.New(color.FgRed, color.Bold)
	prettyWarning = color.New(color.FgYellow, color.Bold)
	prettyInfo    = color.New(color.FgCyan, color.Bold)
	prettyRule    = color.New(color.Bold)
	prettyCaret   = color.New(color.FgGreen, color.Bold)
)

// Pretty renders records for humans:
//
//	<path>:<line>:<col>: <severity> <RULE>: <message>
//	    <source line>
//	    ^~~~~~
//
// The caret underline tracks display width, so tabs and wide runes in the
// source line keep the markers under the reported span. Records are expected
// to be sorted already.
func Pretty(w io.Writer, records []Record, opts PrettyOpts) {
	for _, c := range []*color.Color{prettyError, prettyWarning, prettyInfo, prettyRule, prettyCaret} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	records = truncate(records, opts.Max)
	for _, rec := range records {
		sev := severityColor(rec.Severity)
		if rec.Path == "" {
			fmt.Fprintf(w, "%s %s: %s\n", sev.Sprint(rec.Severity.Name()), prettyRule.Sprint(rec.Rule), rec.Message)
			continue
		}
		fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
			rec.Path, rec.StartLine, rec.StartCol,
			sev.Sprint(rec.Severity.Name()), prettyRule.Sprint(rec.Rule), rec.Message)

		if rec.SourceLine == "" {
			continue
		}
		line := strings.TrimRight(rec.SourceLine, "\r\n")
		fmt.Fprintf(w, "    %s\n", expandTabs(line))
		fmt.Fprintf(w, "    %s\n", prettyCaret.Sprint(underline(line, rec)))
	}
}

func severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return prettyError
	case diag.SevWarning:
		return prettyWarning
	default:
		return prettyInfo
	}
}

// underline builds the ^~~~ marker for the starting line of a record. Columns
// are 1-based byte offsets into the line; widths come from the rendered text.
func underline(line string, rec Record) string {
	start := int(rec.StartCol) - 1
	if start > len(line) {
		start = len(line)
	}
	end := len(line)
	if rec.EndLine == rec.StartLine && int(rec.EndCol)-1 <= len(line) {
		end = int(rec.EndCol) - 1
	}
	if end < start {
		end = start
	}

	pad := runewidth.StringWidth(expandTabs(line[:start]))
	width := runewidth.StringWidth(expandTabs(line[start:end]))
	if width < 1 {
		width = 1
	}
	return strings.Repeat(" ", pad) + "^" + strings.Repeat("~", width-1)
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}

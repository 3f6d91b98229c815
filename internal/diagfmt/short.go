package diagfmt

import (
	"fmt"
	"strings"
)

// Short renders one stable line per record, suitable for golden tests:
//
//	<severity> <RULE> <path>:<line>:<col> <message>
//
// Records are expected to be sorted already.
func Short(records []Record) string {
	var b strings.Builder
	for i, rec := range records {
		fmt.Fprintf(&b, "%s %s %s:%d:%d %s",
			rec.Severity.Name(), rec.Rule, rec.Path, rec.StartLine, rec.StartCol, rec.Message)
		if i < len(records)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

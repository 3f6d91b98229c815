package source

import (
	"path/filepath"
	"slices"
	"strings"
)

// normalizeCRLF replaces every \r\n with \n, leaving lone \r untouched.
// The bool result reports whether any replacement happened.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !slices.Contains(content, '\r') {
		return content, false
	}
	out := make([]byte, 0, len(content))
	changed := false
	i := 0
	for i < len(content) {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			out = append(out, '\n')
			i += 2
			changed = true
		} else {
			out = append(out, content[i])
			i++
		}
	}
	return out, changed
}

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}
	return content, false
}

// buildLineIndex records the byte offset of every \n in content.
func buildLineIndex(content []byte) []uint32 {
	var out []uint32
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i))
		}
	}
	return out
}

// toLineCol maps a byte offset to a 1-based line/column pair using the
// newline index.
func toLineCol(lineIdx []uint32, off uint32) LineCol {
	if len(lineIdx) == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}
	// First newline at or past the offset determines the line.
	line, _ := slices.BinarySearch(lineIdx, off)
	var lineStart uint32
	if line > 0 {
		lineStart = lineIdx[line-1] + 1
	}
	return LineCol{Line: uint32(line) + 1, Col: off - lineStart + 1}
}

func normalizePath(path string) string {
	return filepath.Clean(path)
}

func isEscapingRel(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

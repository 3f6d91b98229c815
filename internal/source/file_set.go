package source

import (
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
)

// FileSet owns all files participating in one analysis session and resolves
// spans into line/column positions. Index 0 is reserved for NoFileID.
type FileSet struct {
	files   []File
	index   map[string]FileID // normalized path -> id
	baseDir string
}

// NewFileSet creates an empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 1),
		index: make(map[string]FileID),
	}
}

// NewFileSetWithBase creates a FileSet whose relative paths are resolved
// against baseDir.
func NewFileSetWithBase(baseDir string) *FileSet {
	fs := NewFileSet()
	fs.baseDir = baseDir
	return fs
}

// SetBaseDir sets the directory used for relative path rendering.
func (fs *FileSet) SetBaseDir(dir string) {
	fs.baseDir = dir
}

// BaseDir returns the configured base directory, falling back to the current
// working directory.
func (fs *FileSet) BaseDir() string {
	if fs.baseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
	}
	return fs.baseDir
}

// Add registers normalized content under path and returns a fresh FileID.
// Registering the same path again creates a new ID; the path index always
// points at the latest version.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	lenFiles, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("file set overflow: %w", err))
	}
	id := FileID(lenFiles)
	normalized := normalizePath(path)
	fs.files = append(fs.files, File{
		ID:      id,
		Path:    normalized,
		Content: content,
		LineIdx: buildLineIndex(content),
		Flags:   flags,
	})
	fs.index[normalized] = id
	return id
}

// AddVirtual registers in-memory content (snapshot-embedded or test input).
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	return fs.Add(name, content, FileVirtual)
}

// Load reads a file from disk, normalizes CRLF and BOM, and registers it.
func (fs *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return NoFileID, err
	}
	content, hadBOM := removeBOM(content)
	content, hadCRLF := normalizeCRLF(content)

	flags := FileFlags(0)
	if hadBOM {
		flags |= FileHadBOM
	}
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return fs.Add(path, content, flags), nil
}

// Get returns the file for id, or nil for an invalid ID.
func (fs *FileSet) Get(id FileID) *File {
	if !id.IsValid() || int(id) >= len(fs.files) {
		return nil
	}
	return &fs.files[id]
}

// GetByPath returns the latest file registered under path.
func (fs *FileSet) GetByPath(path string) (*File, bool) {
	if id, ok := fs.index[normalizePath(path)]; ok {
		return &fs.files[id], true
	}
	return nil, false
}

// Len reports the number of registered files excluding the sentinel.
func (fs *FileSet) Len() int { return len(fs.files) - 1 }

// All exposes the registered files in ID order, excluding the sentinel.
// The slice points at internal storage and must not be modified.
func (fs *FileSet) All() []File {
	if len(fs.files) <= 1 {
		return nil
	}
	return fs.files[1:]
}

// Resolve converts a span into start and end line/column positions.
// An invalid file ID resolves to the zero LineCol.
func (fs *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fs.Get(span.File)
	if f == nil {
		return LineCol{}, LineCol{}
	}
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

// PathFor renders the file path for id: relative to the base directory when
// possible, absolute when fullPath is set, basename as a last resort.
func (fs *FileSet) PathFor(id FileID, fullPath bool) string {
	f := fs.Get(id)
	if f == nil {
		return "<unknown>"
	}
	if fullPath {
		if abs, err := filepath.Abs(f.Path); err == nil {
			return abs
		}
		return f.Path
	}
	if base := fs.BaseDir(); base != "" {
		if rel, err := filepath.Rel(base, f.Path); err == nil && !isEscapingRel(rel) {
			return rel
		}
	}
	return f.Path
}

// GetLine returns the 1-based line from the file content, without the
// trailing newline. Out-of-range lines yield the empty string.
func (f *File) GetLine(lineNum uint32) string {
	if f == nil || lineNum == 0 {
		return ""
	}
	lineCount := uint32(len(f.LineIdx)) + 1
	if lineNum > lineCount {
		return ""
	}
	var start uint32
	if lineNum > 1 {
		start = f.LineIdx[lineNum-2] + 1
	}
	end := uint32(len(f.Content))
	if lineNum <= uint32(len(f.LineIdx)) {
		end = f.LineIdx[lineNum-1]
	}
	if start > end {
		return ""
	}
	return string(f.Content[start:end])
}

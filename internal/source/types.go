package source

import (
	"path/filepath"

	"fortio.org/safecast"
)

type (
	// FileID identifies a file within its FileSet.
	FileID uint32
	// FileFlags records how a file was obtained and what Normalize changed.
	FileFlags uint8
)

const (
	// FileVirtual: content came from memory (stdin, tests), not from disk.
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
	FileNormalizedNFC
)

type File struct {
	ID      FileID
	Path    string // slash-separated, cleaned
	Content []byte
	// LineIdx holds the offset of every '\n' in Content.
	LineIdx []uint32
	// Hash is the sha256 of Content; the token cache keys on it.
	Hash  [32]byte
	Flags FileFlags
}

func (f *File) Text() string {
	if f == nil {
		return ""
	}
	return string(f.Content)
}

// LineBounds returns the byte range of line (1-based) without its '\n'.
// ok is false for line 0 and for lines past the end of the file.
func (f *File) LineBounds(line uint32) (start, end uint32, ok bool) {
	size, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		return 0, 0, false
	}
	breaks := uint32(len(f.LineIdx)) // не больше size
	switch {
	case line == 0 || line > breaks+1:
		return 0, 0, false
	case line > 1:
		start = f.LineIdx[line-2] + 1
	}
	end = size
	if line <= breaks {
		end = f.LineIdx[line-1]
	}
	return start, end, true
}

// GetLine returns the text of line (1-based), or "" when there is no such line.
func (f *File) GetLine(line uint32) string {
	start, end, ok := f.LineBounds(line)
	if !ok {
		return ""
	}
	return string(f.Content[start:end])
}

// FormatPath renders the path for output. mode is one of absolute, relative
// (to baseDir), basename or auto; anything else returns Path unchanged.
func (f *File) FormatPath(mode, baseDir string) string {
	switch mode {
	case "absolute":
		if abs, err := filepath.Abs(f.Path); err == nil {
			return normalizePath(abs)
		}
	case "relative":
		if rel, err := RelativePath(f.Path, baseDir); err == nil {
			return rel
		}
	case "basename":
		return filepath.Base(f.Path)
	case "auto":
		// длинные абсолютные пути сокращаем до имени файла
		if len(f.Path) >= 40 && filepath.IsAbs(f.Path) {
			return filepath.Base(f.Path)
		}
	}
	return f.Path
}

// LineCol is a resolved position; Col counts bytes from 1.
type LineCol struct {
	Line uint32
	Col  uint32
}

package diagfmt

import (
	"fmt"
	"strings"

	"ember/internal/diag"
	"ember/internal/source"
)

type fixEditPreview struct {
	before []string
	after  []string
}

// buildFixEditPreview applies edit to the whole lines it touches.
func buildFixEditPreview(fs *source.FileSet, edit diag.FixEdit) (fixEditPreview, error) {
	if fs == nil {
		return fixEditPreview{}, fmt.Errorf("nil FileSet")
	}
	file := fs.Get(edit.Span.File)
	if file == nil {
		return fixEditPreview{}, fmt.Errorf("file %d not found in FileSet", edit.Span.File)
	}
	startPos, endPos := fs.Resolve(edit.Span)
	blockStart, _, okStart := file.LineBounds(startPos.Line)
	_, blockEnd, okEnd := file.LineBounds(max(endPos.Line, startPos.Line))
	if !okStart || !okEnd || edit.Span.Start < blockStart || edit.Span.End > blockEnd || edit.Span.End < edit.Span.Start {
		return fixEditPreview{}, fmt.Errorf("edit span %s out of range for preview block", edit.Span)
	}

	original := string(file.Content[blockStart:blockEnd])
	relStart, relEnd := edit.Span.Start-blockStart, edit.Span.End-blockStart
	after := original[:relStart] + edit.NewText + original[relEnd:]
	return fixEditPreview{before: previewLines(original), after: previewLines(after)}, nil
}

func previewLines(text string) []string {
	return strings.Split(text, "\n")
}

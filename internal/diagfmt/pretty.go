package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"ember/internal/diag"
	"ember/internal/source"
)

type palette struct {
	err, warn, info *color.Color
	code, faint     *color.Color
	note, fix       *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		// глобальный color.NoColor не должен перебивать явную опцию
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:   mk(color.FgRed, color.Bold),
		warn:  mk(color.FgYellow, color.Bold),
		info:  mk(color.FgCyan),
		code:  mk(color.Bold),
		faint: mk(color.Faint),
		note:  mk(color.FgBlue),
		fix:   mk(color.FgGreen),
	}
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид, в порядке
// bag.Items() (ожидается bag.Sort() заранее):
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//	   3 | x = 1 2
//	     |       ^
//
// A diagnostic with a zero Primary span is not tied to source text and is
// printed as the header line only.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		prettyOne(w, d, fs, opts, p)
	}
}

func prettyOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	sev := p.severity(d.Severity)
	anchored := fs != nil && d.Anchored() && fs.Get(d.Primary.File) != nil

	if anchored {
		start, _ := fs.Resolve(d.Primary)
		fmt.Fprintf(w, "%s:%d:%d: ", formatPath(fs, d.Primary.File, opts.PathMode), start.Line, start.Col)
	}
	fmt.Fprintf(w, "%s %s: %s\n", sev.Sprint(d.Severity.String()), p.code.Sprint(d.Code.ID()), d.Message)
	if anchored {
		writeSnippet(w, fs, d.Primary, int(opts.Context), sev, p)
	}

	if opts.ShowNotes {
		for _, n := range d.Notes {
			loc := ""
			if fs != nil && fs.Get(n.Span.File) != nil {
				start, _ := fs.Resolve(n.Span)
				loc = fmt.Sprintf(" (%d:%d)", start.Line, start.Col)
			}
			fmt.Fprintf(w, "  %s%s: %s\n", p.note.Sprint("note"), loc, n.Msg)
		}
	}
	if opts.ShowFixes {
		for _, f := range d.Fixes {
			fmt.Fprintf(w, "  %s: %s\n", p.fix.Sprint("fix"), f.Title)
			if !opts.ShowPreview {
				continue
			}
			for _, e := range f.Edits {
				preview, err := buildFixEditPreview(fs, e)
				if err != nil {
					continue
				}
				for _, line := range preview.before {
					fmt.Fprintf(w, "    %s %s\n", p.err.Sprint("-"), line)
				}
				for _, line := range preview.after {
					fmt.Fprintf(w, "    %s %s\n", p.fix.Sprint("+"), line)
				}
			}
		}
	}
}

// writeSnippet prints the primary line (plus context lines above it) and a
// caret underline. Columns are display columns, so wide runes stay aligned.
func writeSnippet(w io.Writer, fs *source.FileSet, sp source.Span, context int, sev *color.Color, p palette) {
	f := fs.Get(sp.File)
	start, end := fs.Resolve(sp)

	first := max(int(start.Line)-context, 1)
	gutter := len(fmt.Sprint(start.Line))
	for ln := first; ln <= int(start.Line); ln++ {
		// #nosec G115 -- ln is bounded by start.Line
		line := expandTabs(f.GetLine(uint32(ln)))
		fmt.Fprintf(w, " %s %s\n", p.faint.Sprintf("%*d |", gutter, ln), line)
	}

	raw := f.GetLine(start.Line)
	startByte := min(int(start.Col)-1, len(raw))
	endByte := len(raw)
	if end.Line == start.Line {
		endByte = min(max(int(end.Col)-1, startByte), len(raw))
	}
	pad := runewidth.StringWidth(expandTabs(raw[:startByte]))
	width := max(runewidth.StringWidth(expandTabs(raw[startByte:endByte])), 1)

	marker := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, " %s %s%s\n", p.faint.Sprintf("%*s |", gutter, ""), strings.Repeat(" ", pad), sev.Sprint(marker))
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}

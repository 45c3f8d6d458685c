package diagfmt

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"scriptlint/internal/diag"
	"scriptlint/internal/source"
)

// ExcerptLine is one line of the evaluated text and its caret underline.
type ExcerptLine struct {
	Text   string
	Carets string
}

// Block is the rendering of one diagnostic: a header and its excerpt.
type Block struct {
	Header string
	Lines  []ExcerptLine
}

// Header formats "<name> - [<ruleId>] <message> (<line>:<column>)". A
// diagnostic without a rule prints "-" in the brackets.
func Header(name string, d diag.Diagnostic) string {
	return fmt.Sprintf("%s - [%s] %s (%d:%d)", name, ruleLabel(d), d.Message, d.Line, d.Column)
}

func ruleLabel(d diag.Diagnostic) string {
	if d.HasRule() {
		return d.RuleID
	}
	return "-"
}

// Excerpt renders d against the text it was reported on. The excerpt covers
// lines [Line, EndLine) of the text, or [Line, Line+1] when EndLine is
// absent. A nil file yields the header alone.
//
// Caret lines, with counts in code points and negative counts treated as 0:
//   - a one-line excerpt underlines [Column, EndColumn);
//   - the first of several lines is underlined from Column to its end;
//   - the last of several lines gets EndColumn carets from column 1;
//   - interior lines are underlined in full.
func Excerpt(name string, d diag.Diagnostic, file *source.File, opts ExcerptOpts) Block {
	b := Block{Header: Header(name, d)}
	if file == nil {
		return b
	}

	lines := file.Lines()
	start := clamp(int(d.Line)-1, 0, len(lines))
	end := clamp(excerptEnd(d, opts), start, len(lines))
	if start == end {
		return b
	}

	colStart := int(d.Column)
	colEnd := caretEnd(d, opts)
	excerpt := lines[start:end]
	b.Lines = make([]ExcerptLine, 0, len(excerpt))
	for i, text := range excerpt {
		width := utf8.RuneCountInString(text)
		var carets string
		switch {
		case len(excerpt) == 1:
			carets = spaces(colStart-1) + caretRun(colEnd-colStart)
		case i == 0:
			carets = spaces(colStart-1) + caretRun(width-(colStart-1))
		case i == len(excerpt)-1:
			carets = caretRun(colEnd)
		default:
			carets = caretRun(width)
		}
		b.Lines = append(b.Lines, ExcerptLine{Text: text, Carets: carets})
	}
	return b
}

// excerptEnd is the 1-based exclusive end line of the excerpt.
func excerptEnd(d diag.Diagnostic, opts ExcerptOpts) int {
	if opts.FirstLineOnly {
		return int(d.Line) + 1
	}
	line, _ := d.End()
	return int(line)
}

// caretEnd is the column the underline stops at. In first-line mode a
// finding that spans lines is marked by a single caret.
func caretEnd(d diag.Diagnostic, opts ExcerptOpts) int {
	if opts.FirstLineOnly && d.EndLine != 0 {
		return int(d.Column) + 1
	}
	_, col := d.End()
	return int(col)
}

// WriteTo writes the header and every excerpt line followed by its carets,
// each excerpt line prefixed by indent.
func (b Block) WriteTo(w io.Writer, indent string) error {
	if _, err := fmt.Fprintln(w, b.Header); err != nil {
		return err
	}
	for _, l := range b.Lines {
		if _, err := fmt.Fprintf(w, "%s%s\n%s%s\n", indent, l.Text, indent, l.Carets); err != nil {
			return err
		}
	}
	return nil
}

func spaces(n int) string {
	return strings.Repeat(" ", max(n, 0))
}

func caretRun(n int) string {
	return strings.Repeat("^", max(n, 0))
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"scriptlint/internal/diag"
	"scriptlint/internal/xref"
)

type palette struct {
	name    *color.Color
	rule    *color.Color
	fatal   *color.Color
	pos     *color.Color
	carets  *color.Color
	matches *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		name:    mk(color.Bold),
		rule:    mk(color.FgYellow),
		fatal:   mk(color.FgRed, color.Bold),
		pos:     mk(color.FgCyan),
		carets:  mk(color.FgRed, color.Bold),
		matches: mk(color.FgMagenta, color.Bold),
	}
}

func (p palette) header(name string, d diag.Diagnostic) string {
	rule := p.rule.Sprint(ruleLabel(d))
	if d.Fatal {
		rule = p.fatal.Sprint(ruleLabel(d))
	}
	return fmt.Sprintf("%s - [%s] %s %s", p.name.Sprint(name), rule, d.Message,
		p.pos.Sprintf("(%d:%d)", d.Line, d.Column))
}

// Pretty печатает диагностики всех записей в порядке results.
// Для каждой диагностики: заголовок, затем строки выдержки с подчёркиванием.
// После записи с диагностиками идёт пустая строка.
func Pretty(w io.Writer, results []diag.Result, opts PrettyOpts) error {
	p := newPalette(opts.Color)
	printed := 0
	omitted := 0
	for _, r := range results {
		n, skipped, err := prettyResult(w, r, opts, p, printed)
		if err != nil {
			return err
		}
		printed += n
		omitted += skipped
	}
	return writeOmitted(w, omitted)
}

func writeOmitted(w io.Writer, omitted int) error {
	if omitted == 0 {
		return nil
	}
	_, err := fmt.Fprintf(w, "... %d more diagnostic(s) not shown\n", omitted)
	return err
}

func prettyResult(w io.Writer, r diag.Result, opts PrettyOpts, p palette, printed int) (n, omitted int, err error) {
	if !r.Failing() {
		return 0, 0, nil
	}
	for _, d := range r.Diagnostics {
		if opts.Max > 0 && printed+n >= opts.Max {
			omitted++
			continue
		}
		b := Excerpt(r.Name, d, r.File, opts.Excerpt)
		b.Header = p.header(r.Name, d)
		for i := range b.Lines {
			b.Lines[i].Carets = p.carets.Sprint(b.Lines[i].Carets)
		}
		if err := b.WriteTo(w, opts.indent()); err != nil {
			return n, omitted, err
		}
		n++
	}
	if n > 0 {
		_, err = fmt.Fprintln(w)
	}
	return n, omitted, err
}

// correlationHeader formats "<name> (<updatedBy>) - <match>[,<match>...]".
func (p palette) correlationHeader(c xref.Correlation) string {
	return fmt.Sprintf("%s (%s) - %s", p.name.Sprint(c.Trigger.Name), c.Trigger.UpdatedBy,
		p.matches.Sprint(strings.Join(c.Matches, ",")))
}

// PrettyCorrelations prints every correlation header followed by the
// trigger's diagnostics. opts.Max bounds the diagnostics of all
// correlations together; a correlation with nothing left to show is
// skipped with its header.
func PrettyCorrelations(w io.Writer, cs []xref.Correlation, opts PrettyOpts) error {
	p := newPalette(opts.Color)
	printed := 0
	omitted := 0
	for _, c := range cs {
		if opts.Max > 0 && printed >= opts.Max {
			omitted += len(c.Trigger.Diagnostics)
			continue
		}
		if _, err := fmt.Fprintln(w, p.correlationHeader(c)); err != nil {
			return err
		}
		n, skipped, err := prettyResult(w, c.Trigger, opts, p, printed)
		if err != nil {
			return err
		}
		printed += n
		omitted += skipped
	}
	return writeOmitted(w, omitted)
}

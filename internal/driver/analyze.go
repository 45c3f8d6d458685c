package driver

import (
	"context"
	"fmt"

	"fortio.org/safecast"

	"scriptlint/internal/diag"
	"scriptlint/internal/jslint"
	"scriptlint/internal/record"
	"scriptlint/internal/scope"
	"scriptlint/internal/source"
)

// Linter is the lint capability: it lints one text against a declared
// global environment and returns ordered messages plus the evaluated text.
type Linter interface {
	LintText(ctx context.Context, text string, globals jslint.Globals) (jslint.Result, error)
}

// Analyze lints one record under env.
//
// The script is prepared first (tabs expanded to four spaces), so every
// reported column refers to the text stored in Result.File. The record is
// never mutated. A capability failure is returned as is and concerns this
// record only.
func Analyze(ctx context.Context, l Linter, rec record.Record, kind record.Kind, env scope.Environment) (diag.Result, error) {
	return analyzeFile(ctx, l, rec, kind, env, source.Prepare(rec.Name, rec.Script), 0)
}

func analyzeFile(ctx context.Context, l Linter, rec record.Record, kind record.Kind, env scope.Environment, file *source.File, maxDiagnostics int) (diag.Result, error) {
	res := diag.NewResult(rec, kind)
	out, err := l.LintText(ctx, file.Text(), env)
	if err != nil {
		return res, fmt.Errorf("lint %s %q: %w", kind, rec.Name, err)
	}

	bag := diag.NewBag(maxDiagnostics)
	for _, m := range out.Messages {
		d, err := convertMessage(m)
		if err != nil {
			return res, fmt.Errorf("lint %s %q: %w", kind, rec.Name, err)
		}
		bag.Add(d)
	}
	bag.Sort()
	res.Diagnostics = bag.Items()

	// пустой Source означает, что текст нам не вернули: без него нет ни
	// выдержек, ни корреляции
	if out.Source != "" {
		if out.Source == file.Text() {
			res.File = file
		} else {
			res.File = source.NewFile(rec.Name, []byte(out.Source), file.Flags)
		}
	}
	return res, nil
}

func convertMessage(m jslint.Message) (diag.Diagnostic, error) {
	var pos [4]uint32
	for i, v := range [4]int{m.Line, m.Column, m.EndLine, m.EndColumn} {
		u, err := safecast.Conv[uint32](v)
		if err != nil {
			return diag.Diagnostic{}, fmt.Errorf("message %q: position out of range: %w", m.Message, err)
		}
		pos[i] = u
	}
	d := diag.New(severityOf(m.Severity), m.RuleID, pos[0], pos[1], m.Message)
	d.Fatal = m.Fatal
	return d.WithEnd(pos[2], pos[3]), nil
}

func severityOf(l jslint.Level) diag.Severity {
	switch l {
	case jslint.LevelError:
		return diag.SevError
	case jslint.LevelWarn:
		return diag.SevWarning
	default:
		return diag.SevInfo
	}
}

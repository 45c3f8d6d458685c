package diag

import (
	"fmt"
	"sort"
	"strings"
)

type shortDiagnostic struct {
	Severity string
	Rule     string
	Name     string
	Line     uint32
	Column   uint32
	Message  string
}

// FormatShortDiagnostics renders the diagnostics of the given results into a
// stable, single-line-per-entry representation intended for CLI short output
// and golden files. Entries are sorted by record name then position.
func FormatShortDiagnostics(results []Result) string {
	rendered := make([]shortDiagnostic, 0, len(results))
	for _, r := range results {
		for _, d := range r.Diagnostics {
			rule := d.RuleID
			if rule == "" {
				rule = "-"
			}
			rendered = append(rendered, shortDiagnostic{
				Severity: d.Severity.String(),
				Rule:     rule,
				Name:     r.Name,
				Line:     d.Line,
				Column:   d.Column,
				Message:  sanitizeMessage(d.Message),
			})
		}
	}

	sort.SliceStable(rendered, func(i, j int) bool {
		di, dj := rendered[i], rendered[j]
		if di.Name != dj.Name {
			return di.Name < dj.Name
		}
		if di.Line != dj.Line {
			return di.Line < dj.Line
		}
		if di.Column != dj.Column {
			return di.Column < dj.Column
		}
		if di.Rule != dj.Rule {
			return di.Rule < dj.Rule
		}
		return di.Message < dj.Message
	})

	var b strings.Builder
	for i, d := range rendered {
		fmt.Fprintf(&b, "%s %s %s:%d:%d %s", d.Severity, d.Rule, d.Name, d.Line, d.Column, d.Message)
		if i < len(rendered)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}

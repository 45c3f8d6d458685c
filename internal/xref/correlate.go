package xref

import "scriptlint/internal/diag"

// Correlation pairs a failing trigger with the failing library names found
// in its evaluated text.
type Correlation struct {
	Trigger diag.Result
	Matches []string
}

// FailingNames returns the names of library results with at least one
// diagnostic, in input order.
func FailingNames(library []diag.Result) []string {
	var names []string
	for _, r := range diag.Failing(library) {
		names = append(names, r.Name)
	}
	return names
}

// Correlate builds a matcher over the failing library names and tests every
// failing trigger with a known evaluated text against it. Only triggers with
// a hit produce a Correlation; order follows triggers.
func Correlate(library, triggers []diag.Result) []Correlation {
	return CorrelateWith(NewMatcher(FailingNames(library)), triggers)
}

// CorrelateWith runs a prebuilt matcher over triggers.
func CorrelateWith(m *Matcher, triggers []diag.Result) []Correlation {
	if m.Empty() {
		return nil
	}
	var out []Correlation
	for _, t := range triggers {
		if !t.Failing() {
			continue
		}
		text, ok := t.Source()
		if !ok || !m.Match(text) {
			continue
		}
		out = append(out, Correlation{Trigger: t, Matches: m.FindAll(text)})
	}
	return out
}

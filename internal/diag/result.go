package diag

import (
	"scriptlint/internal/record"
	"scriptlint/internal/source"
)

// Result is the outcome of linting one record.
//
// File is the exact text the lint pass evaluated (tab-expanded); it is nil
// when the lint capability did not return it. Err holds a per-record lint
// failure; such a result carries no diagnostics.
type Result struct {
	Name        string
	Kind        record.Kind
	CreatedBy   string
	UpdatedBy   string
	File        *source.File
	Diagnostics []Diagnostic
	Err         error
}

// NewResult seeds a Result with the identity fields of rec.
func NewResult(rec record.Record, kind record.Kind) Result {
	return Result{
		Name:      rec.Name,
		Kind:      kind,
		CreatedBy: rec.CreatedBy,
		UpdatedBy: rec.UpdatedBy,
	}
}

// Failing reports whether the record has at least one diagnostic.
func (r Result) Failing() bool {
	return len(r.Diagnostics) > 0
}

// Source returns the evaluated text and whether it is known.
func (r Result) Source() (string, bool) {
	if r.File == nil {
		return "", false
	}
	return r.File.Text(), true
}

// Failing returns the results with at least one diagnostic, in input order.
func Failing(results []Result) []Result {
	out := make([]Result, 0, len(results))
	for _, r := range results {
		if r.Failing() {
			out = append(out, r)
		}
	}
	return out
}

package record

import (
	"strings"

	"golang.org/x/text/cases"
)

// WithScript drops records whose script is empty. Those are never analyzed.
func WithScript(records []Record) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if r.HasScript() {
			out = append(out, r)
		}
	}
	return out
}

// AuthorFilter keeps records created or updated by an identity whose
// identifier ends with one of Suffixes (trimmed, case-insensitive).
// An empty filter keeps everything.
type AuthorFilter struct {
	Suffixes []string
}

// NewAuthorFilter drops blank suffixes.
func NewAuthorFilter(suffixes ...string) AuthorFilter {
	f := AuthorFilter{}
	for _, s := range suffixes {
		if s = strings.TrimSpace(s); s != "" {
			f.Suffixes = append(f.Suffixes, s)
		}
	}
	return f
}

// Empty reports whether the filter keeps every record.
func (f AuthorFilter) Empty() bool {
	return len(f.Suffixes) == 0
}

// Match reports whether r was created or updated by a matching author.
func (f AuthorFilter) Match(r Record) bool {
	if f.Empty() {
		return true
	}
	fold := cases.Fold()
	created := fold.String(strings.TrimSpace(r.CreatedBy))
	updated := fold.String(strings.TrimSpace(r.UpdatedBy))
	for _, s := range f.Suffixes {
		suffix := fold.String(s)
		if strings.HasSuffix(created, suffix) || strings.HasSuffix(updated, suffix) {
			return true
		}
	}
	return false
}

// Apply returns the matching records in their original order.
func (f AuthorFilter) Apply(records []Record) []Record {
	if f.Empty() {
		return records
	}
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

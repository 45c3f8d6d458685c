package diag

type dedupKey struct {
	rule      string
	sev       Severity
	line      uint32
	column    uint32
	endLine   uint32
	endColumn uint32
	msg       string
}

func keyOf(d Diagnostic) dedupKey {
	return dedupKey{
		rule:      d.RuleID,
		sev:       d.Severity,
		line:      d.Line,
		column:    d.Column,
		endLine:   d.EndLine,
		endColumn: d.EndColumn,
		msg:       d.Message,
	}
}

// DedupReporter wraps another Reporter and suppresses duplicate diagnostics
// with the same rule, severity, range and message.
type DedupReporter struct {
	next Reporter
	seen map[dedupKey]struct{}
}

// NewDedupReporter returns a Reporter that filters out duplicates while
// forwarding unique diagnostics to the provided reporter.
func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{
		next: next,
		seen: make(map[dedupKey]struct{}),
	}
}

func (r *DedupReporter) Report(d Diagnostic) {
	if r == nil {
		return
	}
	key := keyOf(d)
	if _, ok := r.seen[key]; ok {
		return
	}
	r.seen[key] = struct{}{}
	if r.next != nil {
		r.next.Report(d)
	}
}

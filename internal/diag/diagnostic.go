package diag

// Diagnostic is one lint finding, positioned in the evaluated source text.
// Lines and columns are 1-based; EndLine and EndColumn are 0 when the lint
// capability did not report them.
type Diagnostic struct {
	Severity  Severity
	RuleID    string // пусто, если правило неизвестно (например, ошибка разбора)
	Message   string
	Fatal     bool
	Line      uint32
	Column    uint32
	EndLine   uint32
	EndColumn uint32
}

// HasRule reports whether the violated rule is known.
func (d Diagnostic) HasRule() bool {
	return d.RuleID != ""
}

// HasEnd reports whether both end coordinates were reported.
func (d Diagnostic) HasEnd() bool {
	return d.EndLine != 0 && d.EndColumn != 0
}

// End returns the end position. A missing coordinate falls back to one
// beyond the start: line+1 for the line, column+1 for the column.
func (d Diagnostic) End() (line, column uint32) {
	line, column = d.EndLine, d.EndColumn
	if line == 0 {
		line = d.Line + 1
	}
	if column == 0 {
		column = d.Column + 1
	}
	return line, column
}

// New builds a diagnostic at line:column without an end position; see WithEnd.
func New(sev Severity, rule string, line, column uint32, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		RuleID:   rule,
		Message:  msg,
		Line:     line,
		Column:   column,
	}
}

// WithEnd returns a copy with the end position set.
func (d Diagnostic) WithEnd(line, column uint32) Diagnostic {
	d.EndLine = line
	d.EndColumn = column
	return d
}

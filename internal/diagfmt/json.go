package diagfmt

import (
	"encoding/json"
	"io"
	"time"

	"github.com/google/uuid"

	"scriptlint/internal/diag"
	"scriptlint/internal/xref"
)

// Report is everything one run produced.
type Report struct {
	RunID        uuid.UUID
	Started      time.Time
	Library      []diag.Result
	Triggers     []diag.Result
	Correlations []xref.Correlation
}

// DiagnosticJSON представляет диагностику в JSON формате
type DiagnosticJSON struct {
	Severity  string `json:"severity"`
	Level     int    `json:"level"` // числовая важность как у ESLint: 1 warn, 2 error
	Rule      string `json:"rule,omitempty"`
	Message   string `json:"message"`
	Fatal     bool   `json:"fatal,omitempty"`
	Line      uint32 `json:"line"`
	Column    uint32 `json:"column"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndColumn uint32 `json:"end_column,omitempty"`
}

// RecordJSON is one linted record.
type RecordJSON struct {
	Name        string           `json:"name"`
	Kind        string           `json:"kind"`
	CreatedBy   string           `json:"created_by,omitempty"`
	UpdatedBy   string           `json:"updated_by,omitempty"`
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Truncated   int              `json:"truncated,omitempty"`
	Error       string           `json:"error,omitempty"`
	Source      string           `json:"source,omitempty"`
}

// CorrelationJSON links a failing trigger to the failing library names in it.
type CorrelationJSON struct {
	Trigger   string   `json:"trigger"`
	UpdatedBy string   `json:"updated_by,omitempty"`
	Matches   []string `json:"matches"`
}

// ReportOutput представляет корневую структуру JSON вывода
type ReportOutput struct {
	RunID        string            `json:"run_id"`
	Started      string            `json:"started,omitempty"`
	Library      []RecordJSON      `json:"library"`
	Triggers     []RecordJSON      `json:"triggers"`
	Correlations []CorrelationJSON `json:"correlations"`
	Summary      *Summary          `json:"summary,omitempty"`
}

func makeRecord(r diag.Result, opts JSONOpts) RecordJSON {
	out := RecordJSON{
		Name:        r.Name,
		Kind:        r.Kind.String(),
		CreatedBy:   r.CreatedBy,
		UpdatedBy:   r.UpdatedBy,
		Diagnostics: make([]DiagnosticJSON, 0, len(r.Diagnostics)),
	}
	if r.Err != nil {
		out.Error = r.Err.Error()
	}
	if opts.IncludeSource {
		out.Source, _ = r.Source()
	}
	items := r.Diagnostics
	if opts.Max > 0 && opts.Max < len(items) {
		out.Truncated = len(items) - opts.Max
		items = items[:opts.Max]
	}
	for _, d := range items {
		out.Diagnostics = append(out.Diagnostics, DiagnosticJSON{
			Severity:  d.Severity.String(),
			Level:     d.Severity.ESLint(),
			Rule:      d.RuleID,
			Message:   d.Message,
			Fatal:     d.Fatal,
			Line:      d.Line,
			Column:    d.Column,
			EndLine:   d.EndLine,
			EndColumn: d.EndColumn,
		})
	}
	return out
}

// BuildReportOutput формирует структуру JSON-вывода без сериализации.
func BuildReportOutput(rep Report, opts JSONOpts) ReportOutput {
	out := ReportOutput{
		RunID:        rep.RunID.String(),
		Library:      make([]RecordJSON, 0, len(rep.Library)),
		Triggers:     make([]RecordJSON, 0, len(rep.Triggers)),
		Correlations: make([]CorrelationJSON, 0, len(rep.Correlations)),
	}
	if !rep.Started.IsZero() {
		out.Started = rep.Started.UTC().Format(time.RFC3339)
	}
	for _, r := range rep.Library {
		out.Library = append(out.Library, makeRecord(r, opts))
	}
	for _, r := range rep.Triggers {
		out.Triggers = append(out.Triggers, makeRecord(r, opts))
	}
	for _, c := range rep.Correlations {
		out.Correlations = append(out.Correlations, CorrelationJSON{
			Trigger:   c.Trigger.Name,
			UpdatedBy: c.Trigger.UpdatedBy,
			Matches:   c.Matches,
		})
	}
	if opts.IncludeSummary {
		s := Summarize(rep.Triggers)
		out.Summary = &s
	}
	return out
}

// JSON writes the report as indented JSON.
func JSON(w io.Writer, rep Report, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildReportOutput(rep, opts))
}

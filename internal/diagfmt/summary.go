package diagfmt

import (
	"fmt"
	"io"
	"sort"

	"github.com/mattn/go-runewidth"

	"scriptlint/internal/diag"
)

// RecordCount is the number of diagnostics of one failing record.
type RecordCount struct {
	Name      string `json:"name"`
	UpdatedBy string `json:"updated_by"`
	Count     int    `json:"count"`
}

// RuleCount is the number of diagnostics reported under one rule id.
type RuleCount struct {
	Rule  string `json:"rule"`
	Count int    `json:"count"`
}

// Summary aggregates a batch of results.
type Summary struct {
	Records []RecordCount `json:"records"` // по убыванию Count
	Rules   []RuleCount   `json:"rules"`   // по имени правила
	Failing int           `json:"failing"`
	Total   int           `json:"total"`
	Errored int           `json:"errored"`
}

// Summarize counts diagnostics per record and per rule. Records whose lint
// call failed count towards Total and Errored but never towards Failing.
func Summarize(results []diag.Result) Summary {
	s := Summary{Total: len(results)}
	rules := make(map[string]int)
	for _, r := range results {
		if r.Err != nil {
			s.Errored++
		}
		if !r.Failing() {
			continue
		}
		s.Failing++
		s.Records = append(s.Records, RecordCount{Name: r.Name, UpdatedBy: r.UpdatedBy, Count: len(r.Diagnostics)})
		for _, d := range r.Diagnostics {
			rules[ruleLabel(d)]++
		}
	}
	sort.SliceStable(s.Records, func(i, j int) bool {
		return s.Records[i].Count > s.Records[j].Count
	})
	for rule, n := range rules {
		s.Rules = append(s.Rules, RuleCount{Rule: rule, Count: n})
	}
	sort.Slice(s.Rules, func(i, j int) bool { return s.Rules[i].Rule < s.Rules[j].Rule })
	return s
}

// Percent is the share of failing records, 0 for an empty batch.
func (s Summary) Percent() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Failing) / float64(s.Total) * 100
}

// WriteSummary prints per-record counts, the failing ratio and per-rule counts.
func WriteSummary(w io.Writer, s Summary, opts PrettyOpts) error {
	p := newPalette(opts.Color)
	for _, rc := range s.Records {
		if _, err := fmt.Fprintf(w, "%s (%s) - %d\n", p.name.Sprint(rc.Name), rc.UpdatedBy, rc.Count); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "\n%d / %d (%.2f%%)\n\n", s.Failing, s.Total, s.Percent()); err != nil {
		return err
	}
	if s.Errored > 0 {
		if _, err := fmt.Fprintf(w, "%d record(s) could not be linted\n\n", s.Errored); err != nil {
			return err
		}
	}

	width := 0
	for _, rc := range s.Rules {
		width = max(width, runewidth.StringWidth(rc.Rule))
	}
	for _, rc := range s.Rules {
		if _, err := fmt.Fprintf(w, "%s  %d\n", p.rule.Sprint(runewidth.FillRight(rc.Rule, width)), rc.Count); err != nil {
			return err
		}
	}
	return nil
}

package main

import (
	"fmt"
	"io"

	"scriptlint/internal/observ"
)

// printPhaseTimings writes one line per phase, "<phase> <ms> ms (<note>)".
func printPhaseTimings(out io.Writer, timer *observ.Timer) error {
	if out == nil || timer == nil {
		return nil
	}
	report := timer.Report()
	for _, p := range report.Phases {
		line := fmt.Sprintf("%s %.1f ms", p.Name, p.DurationMS)
		if p.Note != "" {
			line += " (" + p.Note + ")"
		}
		if p.Failed {
			line += " [failed]"
		}
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}
	if len(report.Phases) > 0 {
		if _, err := fmt.Fprintf(out, "total %.1f ms, slowest %s\n", report.TotalMS, report.Slowest); err != nil {
			return err
		}
	}
	return nil
}

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"scriptlint/internal/diag"
	"scriptlint/internal/diagfmt"
	"scriptlint/internal/driver"
	"scriptlint/internal/record"
)

type outputFormat string

const (
	formatPretty outputFormat = "pretty"
	formatJSON   outputFormat = "json"
	formatShort  outputFormat = "short"
)

func parseOutputFormat(s string) (outputFormat, error) {
	switch f := outputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case formatPretty, formatJSON, formatShort:
		return f, nil
	case "":
		return formatPretty, nil
	default:
		return "", fmt.Errorf("unknown format: %s (expected pretty|json|short)", s)
	}
}

// outputOptions are the report flags shared by check and lint.
type outputOptions struct {
	format        outputFormat
	color         bool
	quiet         bool
	firstLineOnly bool
	summary       bool
	includeSource bool
	max           int
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", "pretty", "output format (pretty|json|short)")
	cmd.Flags().Bool("first-line-only", false, "show only the first line of each finding")
	cmd.Flags().Bool("summary", false, "print per-record and per-rule counts")
	cmd.Flags().Bool("include-source", false, "embed the evaluated script text in JSON output")
}

func readOutputOptions(cmd *cobra.Command) (outputOptions, error) {
	var opts outputOptions

	formatStr, err := cmd.Flags().GetString("format")
	if err != nil {
		return opts, fmt.Errorf("failed to get format flag: %w", err)
	}
	if opts.format, err = parseOutputFormat(formatStr); err != nil {
		return opts, err
	}
	if opts.firstLineOnly, err = cmd.Flags().GetBool("first-line-only"); err != nil {
		return opts, fmt.Errorf("failed to get first-line-only flag: %w", err)
	}
	if opts.summary, err = cmd.Flags().GetBool("summary"); err != nil {
		return opts, fmt.Errorf("failed to get summary flag: %w", err)
	}
	if opts.includeSource, err = cmd.Flags().GetBool("include-source"); err != nil {
		return opts, fmt.Errorf("failed to get include-source flag: %w", err)
	}
	if opts.max, err = cmd.Root().PersistentFlags().GetInt("max-diagnostics"); err != nil {
		return opts, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if opts.quiet, err = cmd.Root().PersistentFlags().GetBool("quiet"); err != nil {
		return opts, fmt.Errorf("failed to get quiet flag: %w", err)
	}

	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return opts, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch colorFlag {
	case "on", "off", "auto":
	default:
		return opts, fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorFlag)
	}
	opts.color = colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stdout))
	return opts, nil
}

func (o outputOptions) pretty() diagfmt.PrettyOpts {
	return diagfmt.PrettyOpts{
		Color:   o.color,
		Excerpt: diagfmt.ExcerptOpts{FirstLineOnly: o.firstLineOnly},
		Max:     o.max,
	}
}

func (o outputOptions) json() diagfmt.JSONOpts {
	return diagfmt.JSONOpts{
		IncludeSource:  o.includeSource,
		IncludeSummary: o.summary,
		Max:            o.max,
	}
}

// writeCheckReport renders a full run: correlated triggers in text formats,
// everything in JSON.
func writeCheckReport(w io.Writer, rep diagfmt.Report, opts outputOptions) error {
	switch opts.format {
	case formatJSON:
		if err := diagfmt.JSON(w, rep, opts.json()); err != nil {
			return fmt.Errorf("failed to format report: %w", err)
		}
		return nil
	case formatShort:
		correlated := make([]diag.Result, 0, len(rep.Correlations))
		for _, c := range rep.Correlations {
			correlated = append(correlated, c.Trigger)
		}
		return writeShort(w, correlated)
	default:
		if err := diagfmt.PrettyCorrelations(w, rep.Correlations, opts.pretty()); err != nil {
			return err
		}
		if opts.summary {
			return diagfmt.WriteSummary(w, diagfmt.Summarize(rep.Triggers), opts.pretty())
		}
		return nil
	}
}

// writeResults renders one batch: every failing record in text formats.
func writeResults(w io.Writer, rep diagfmt.Report, results []diag.Result, opts outputOptions) error {
	switch opts.format {
	case formatJSON:
		if err := diagfmt.JSON(w, rep, opts.json()); err != nil {
			return fmt.Errorf("failed to format report: %w", err)
		}
		return nil
	case formatShort:
		return writeShort(w, results)
	default:
		if err := diagfmt.Pretty(w, results, opts.pretty()); err != nil {
			return err
		}
		if opts.summary {
			return diagfmt.WriteSummary(w, diagfmt.Summarize(results), opts.pretty())
		}
		return nil
	}
}

func writeShort(w io.Writer, results []diag.Result) error {
	output := diag.FormatShortDiagnostics(results)
	if output == "" {
		return nil
	}
	_, err := fmt.Fprintln(w, output)
	return err
}

// warnRecordErrors lists records whose lint pass failed and duplicate
// library names on w (stderr), unless quiet.
func warnRecordErrors(w io.Writer, opts outputOptions, dups []record.Duplicate, batches ...[]diag.Result) {
	if opts.quiet {
		return
	}
	warn := color.New(color.FgYellow, color.Bold)
	if opts.color {
		warn.EnableColor()
	} else {
		warn.DisableColor()
	}
	for _, d := range dups {
		fmt.Fprintf(w, "%s duplicate library name %q (%d records); the first one is in scope\n", warn.Sprint("warning:"), d.Name, d.Count)
	}
	for _, results := range batches {
		for _, r := range results {
			if r.Err != nil {
				fmt.Fprintf(w, "%s %v\n", warn.Sprint("warning:"), r.Err)
			}
		}
	}
}

// exportReport builds the renderer input of a run.
func exportReport(cmd *cobra.Command, rep driver.Report) diagfmt.Report {
	return diagfmt.Report{
		RunID:        runIDFrom(cmd.Context()),
		Library:      rep.Library,
		Triggers:     rep.Triggers,
		Correlations: rep.Correlations,
	}
}

package driver

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"scriptlint/internal/diag"
	"scriptlint/internal/observ"
	"scriptlint/internal/record"
	"scriptlint/internal/scope"
	"scriptlint/internal/trace"
	"scriptlint/internal/xref"
)

// ErrLibraryBatchLost is returned by Run when every library record failed to
// lint: without library results there is nothing to correlate against.
var ErrLibraryBatchLost = errors.New("every library record failed to lint")

// Request describes one run over a library export and a trigger export.
type Request struct {
	Library  []record.Record
	Triggers []record.Record

	// Authors keeps the trigger records to analyze. The zero filter keeps all.
	Authors record.AuthorFilter
	// HostGlobals are the readonly host handles; nil means scope.DefaultHostGlobals.
	HostGlobals []string
	// StrictNames turns duplicate library names into a run failure.
	StrictNames bool

	Options Options
	Timer   *observ.Timer
}

// Report is the outcome of a run.
type Report struct {
	Library      []diag.Result
	Triggers     []diag.Result
	Correlations []xref.Correlation

	// Duplicates lists library names carried by more than one record. Only
	// the first record of such a name is in scope, linted and correlated.
	Duplicates []record.Duplicate
	// Filtered counts the trigger records dropped by the author filter.
	Filtered int
}

// Run lints the library batch, waits for it, lints the filtered trigger
// batch and correlates failing triggers with failing library names.
//
// Per-record failures are reported inside the results. Run itself fails on
// cancellation, on duplicate names in strict mode, on an invalid lint
// configuration and when the whole library batch was lost.
func Run(ctx context.Context, req Request) (Report, error) {
	var rep Report
	ctx, span := trace.Start(ctx, trace.ScopeRun, "run")
	defer func() { span.End("") }()

	opts := req.Options
	if opts.NewLinter == nil {
		if err := opts.effectiveConfig().Validate(); err != nil {
			return rep, fmt.Errorf("lint config: %w", err)
		}
	}

	names := record.Names(req.Library)
	rep.Duplicates = names.Duplicates()
	if req.StrictNames {
		if err := names.Err(); err != nil {
			return rep, err
		}
	}
	for _, d := range rep.Duplicates {
		trace.Point(trace.FromContext(ctx), trace.ScopeRun, "duplicate-name", d.Name+" x"+strconv.Itoa(d.Count), span.ID())
	}

	host := req.HostGlobals
	if host == nil {
		host = scope.DefaultHostGlobals
	}
	builder := scope.NewBuilder(names.List(), host)

	var err error
	err = req.Timer.Measure("lint:library", func() (string, error) {
		rep.Library, err = LintBatch(ctx, record.FirstOfEach(req.Library), record.KindLibrary, builder, opts)
		return fmt.Sprintf("%d records", len(rep.Library)), err
	})
	if err != nil {
		return rep, err
	}
	if errAllFailed(rep.Library) {
		return rep, fmt.Errorf("%w: %w", ErrLibraryBatchLost, firstErr(rep.Library))
	}

	triggers := req.Authors.Apply(req.Triggers)
	rep.Filtered = len(req.Triggers) - len(triggers)
	err = req.Timer.Measure("lint:trigger", func() (string, error) {
		rep.Triggers, err = LintBatch(ctx, triggers, record.KindTrigger, builder, opts)
		return fmt.Sprintf("%d records, %d filtered", len(rep.Triggers), rep.Filtered), err
	})
	if err != nil {
		return rep, err
	}

	_ = req.Timer.Measure("correlate", func() (string, error) {
		rep.Correlations = xref.Correlate(rep.Library, rep.Triggers)
		return fmt.Sprintf("%d correlations", len(rep.Correlations)), nil
	})
	span.SetInt("correlations", len(rep.Correlations))
	return rep, nil
}

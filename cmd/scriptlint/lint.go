package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"scriptlint/internal/diagfmt"
	"scriptlint/internal/driver"
	"scriptlint/internal/observ"
	"scriptlint/internal/record"
	"scriptlint/internal/scope"
	"scriptlint/internal/trace"
)

var lintCmd = &cobra.Command{
	Use:   "lint [flags] <export.json>",
	Short: "Lint a single export of one kind and print every failing record",
	Long: `Lint every record of one export. Library records see every other library name as
a readonly global and their own name as writable; trigger records see the names
of the library export given with --library as readonly globals.`,
	Args: cobra.ExactArgs(1),
	RunE: runLint,
}

func init() {
	lintCmd.Flags().String("kind", "library", "record kind of the export (library|trigger)")
	lintCmd.Flags().String("library", "", "library export providing the names in scope of trigger records")
	lintCmd.Flags().StringSlice("author-suffix", nil, "keep records created or updated by these author suffixes (repeatable)")
	lintCmd.Flags().StringSlice("global", nil, "extra readonly host globals (repeatable)")
	lintCmd.Flags().Int("ecma-version", 2018, "ECMAScript edition to parse")
	lintCmd.Flags().Int("jobs", 0, "max parallel lint workers (0=auto)")
	lintCmd.Flags().Bool("dedup", false, "drop identical diagnostics within a record")
	addOutputFlags(lintCmd)
}

func runLint(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic(cmd.Context())

	kindStr, err := cmd.Flags().GetString("kind")
	if err != nil {
		return fmt.Errorf("failed to get kind flag: %w", err)
	}
	kind, err := record.ParseKind(kindStr)
	if err != nil {
		return err
	}
	dedup, err := cmd.Flags().GetBool("dedup")
	if err != nil {
		return fmt.Errorf("failed to get dedup flag: %w", err)
	}
	settings, _, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	out, err := readOutputOptions(cmd)
	if err != nil {
		return err
	}

	records, err := record.Load(args[0])
	if err != nil {
		return err
	}
	names, err := libraryNames(cmd, kind, records)
	if err != nil {
		return err
	}
	if kind == record.KindTrigger {
		records = record.NewAuthorFilter(settings.AuthorSuffixes...).Apply(records)
	}

	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	ctx, span := trace.Start(cmd.Context(), trace.ScopeRun, "lint")
	defer span.End(kind.String())
	started := time.Now()
	timer := observ.NewTimer()

	builder := scope.NewBuilder(names.List(), settings.HostGlobals)
	stop := timer.Start("lint:" + kind.String())
	results, err := driver.LintBatch(ctx, records, kind, builder, driver.Options{
		Jobs:   settings.Jobs,
		Dedup:  dedup,
		Config: settings.Lint,
	})
	stop(fmt.Sprintf("%d records", len(results)))
	dups := names.Duplicates()
	if kind == record.KindTrigger {
		dups = nil
	}
	warnRecordErrors(cmd.ErrOrStderr(), out, dups, results)
	if err != nil {
		return fmt.Errorf("lint failed: %w", err)
	}

	rep := diagfmt.Report{RunID: runIDFrom(cmd.Context()), Started: started}
	if kind == record.KindLibrary {
		rep.Library = results
	} else {
		rep.Triggers = results
	}
	if err := writeResults(cmd.OutOrStdout(), rep, results, out); err != nil {
		return err
	}
	if showTimings {
		return printPhaseTimings(cmd.ErrOrStderr(), timer)
	}
	return nil
}

// libraryNames returns the library names in scope: the export itself for
// library records, the --library export (if any) for trigger records.
func libraryNames(cmd *cobra.Command, kind record.Kind, records []record.Record) (*record.NameSet, error) {
	if kind == record.KindLibrary {
		return record.Names(records), nil
	}
	path, err := cmd.Flags().GetString("library")
	if err != nil {
		return nil, fmt.Errorf("failed to get library flag: %w", err)
	}
	if path == "" {
		return record.Names(nil), nil
	}
	library, err := record.Load(path)
	if err != nil {
		return nil, err
	}
	return record.Names(library), nil
}

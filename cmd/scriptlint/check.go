package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"scriptlint/internal/driver"
	"scriptlint/internal/observ"
	"scriptlint/internal/record"
	"scriptlint/internal/trace"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags]",
	Short: "Lint library and trigger exports and correlate the failures",
	Long: `Lint every library script and every trigger script of the configured exports,
then print the failing triggers that mention a failing library script by name.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

// init registers the flags of the check command. Source, filter and lint
// flags override scriptlint.toml.
func init() {
	checkCmd.Flags().String("library", defaultLibraryPath, "library export (JSON with a records array)")
	checkCmd.Flags().String("trigger", defaultTriggerPath, "trigger export (JSON with a records array)")
	checkCmd.Flags().StringSlice("author-suffix", nil, "keep triggers created or updated by these author suffixes (repeatable)")
	checkCmd.Flags().StringSlice("global", nil, "extra readonly host globals (repeatable)")
	checkCmd.Flags().Int("ecma-version", 2018, "ECMAScript edition to parse")
	checkCmd.Flags().Int("jobs", 0, "max parallel lint workers (0=auto)")
	checkCmd.Flags().Bool("cache", false, "reuse lint results from the disk cache")
	checkCmd.Flags().Bool("clear-cache", false, "drop the disk cache before linting")
	checkCmd.Flags().Bool("strict-names", false, "fail when two library records share a name")
	checkCmd.Flags().Bool("dedup", false, "drop identical diagnostics within a record")
	checkCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	addOutputFlags(checkCmd)
}

// runCheck loads both exports, runs the lint pipeline and prints the
// correlated triggers. Per-record lint failures are warnings; only load
// failures, invalid configuration and a lost library batch fail the command.
func runCheck(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic(cmd.Context())

	settings, _, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	out, err := readOutputOptions(cmd)
	if err != nil {
		return err
	}

	strictNames, err := cmd.Flags().GetBool("strict-names")
	if err != nil {
		return fmt.Errorf("failed to get strict-names flag: %w", err)
	}
	dedup, err := cmd.Flags().GetBool("dedup")
	if err != nil {
		return fmt.Errorf("failed to get dedup flag: %w", err)
	}
	clearCache, err := cmd.Flags().GetBool("clear-cache")
	if err != nil {
		return fmt.Errorf("failed to get clear-cache flag: %w", err)
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	ctx, span := trace.Start(cmd.Context(), trace.ScopeRun, "check")
	defer span.End("")
	started := time.Now()
	timer := observ.NewTimer()

	var library, triggers []record.Record
	err = timer.Measure("load", func() (string, error) {
		var err error
		if library, err = record.Load(settings.LibraryPath); err != nil {
			return "", err
		}
		if triggers, err = record.Load(settings.TriggerPath); err != nil {
			return "", err
		}
		return fmt.Sprintf("%d library, %d trigger", len(library), len(triggers)), nil
	})
	if err != nil {
		return err
	}

	opts := driver.Options{
		Jobs:   settings.Jobs,
		Dedup:  dedup,
		Config: settings.Lint,
	}
	if settings.Cache || clearCache {
		cache, err := driver.OpenDiskCache("scriptlint")
		if err != nil {
			return fmt.Errorf("failed to open disk cache: %w", err)
		}
		if clearCache {
			if err := cache.DropAll(); err != nil {
				return fmt.Errorf("failed to clear disk cache: %w", err)
			}
		}
		if settings.Cache {
			opts.Cache = cache
		}
	}

	req := driver.Request{
		Library:     library,
		Triggers:    triggers,
		Authors:     record.NewAuthorFilter(settings.AuthorSuffixes...),
		HostGlobals: settings.HostGlobals,
		StrictNames: strictNames,
		Options:     opts,
		Timer:       timer,
	}

	var rep driver.Report
	if shouldUseTUI(mode, out.format) && !out.quiet {
		rep, err = runWithUI(ctx, "scriptlint check", req)
	} else {
		rep, err = driver.Run(ctx, req)
	}
	warnRecordErrors(cmd.ErrOrStderr(), out, rep.Duplicates, rep.Library, rep.Triggers)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	report := exportReport(cmd, rep)
	report.Started = started
	err = timer.Measure("report", func() (string, error) {
		return "", writeCheckReport(cmd.OutOrStdout(), report, out)
	})
	if err != nil {
		return err
	}

	if showTimings {
		return printPhaseTimings(cmd.ErrOrStderr(), timer)
	}
	return nil
}

package main

import (
	"fmt"
	"io"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"scriptlint/internal/record"
	"scriptlint/internal/scope"
)

var scopeCmd = &cobra.Command{
	Use:   "scope [flags] <record-name>",
	Short: "Print the global environment a record is linted with",
	Args:  cobra.ExactArgs(1),
	RunE:  runScope,
}

func init() {
	scopeCmd.Flags().String("kind", "trigger", "record kind (library|trigger)")
	scopeCmd.Flags().String("library", defaultLibraryPath, "library export providing the names in scope")
	scopeCmd.Flags().StringSlice("global", nil, "extra readonly host globals (repeatable)")
}

func runScope(cmd *cobra.Command, args []string) error {
	kindStr, err := cmd.Flags().GetString("kind")
	if err != nil {
		return fmt.Errorf("failed to get kind flag: %w", err)
	}
	kind, err := record.ParseKind(kindStr)
	if err != nil {
		return err
	}
	settings, _, err := resolveSettings(cmd)
	if err != nil {
		return err
	}

	library, err := record.Load(settings.LibraryPath)
	if err != nil {
		return err
	}
	names := record.Names(library)
	name := args[0]
	if kind == record.KindLibrary && !names.Has(name) {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %q is not a record of %s\n", name, settings.LibraryPath)
	}

	env := scope.NewBuilder(names.List(), settings.HostGlobals).Build(name, kind == record.KindLibrary)
	return writeEnvironment(cmd.OutOrStdout(), name, kind, env)
}

// writeEnvironment prints one "<name>  <access>" row per global, sorted by
// name, after a one-line header.
func writeEnvironment(w io.Writer, name string, kind record.Kind, env scope.Environment) error {
	if _, err := fmt.Fprintf(w, "%s %s: %d globals, %d writable\n", kind, name, env.Len(), len(env.Writable())); err != nil {
		return err
	}
	names := env.Names()
	width := 0
	for _, n := range names {
		width = max(width, runewidth.StringWidth(n))
	}
	for _, n := range names {
		if _, err := fmt.Fprintf(w, "  %s  %s\n", runewidth.FillRight(n, width), env.Access(n)); err != nil {
			return err
		}
	}
	return nil
}

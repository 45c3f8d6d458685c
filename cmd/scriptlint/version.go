package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"scriptlint/internal/jslint"
	"scriptlint/internal/version"
)

const versionTagline = "no leaks into the global scope"

// buildInfo is what `scriptlint version` reports. Build metadata is filled
// only when asked for; the lint engine facts always are.
type buildInfo struct {
	Tool        string   `json:"tool"`
	Version     string   `json:"version"`
	Tagline     string   `json:"tagline"`
	Rules       []string `json:"rules"`
	DefaultECMA int      `json:"default_ecma_version"`
	LatestECMA  int      `json:"latest_ecma_version"`
	GitCommit   string   `json:"git_commit,omitempty"`
	GitMessage  string   `json:"git_message,omitempty"`
	BuildDate   string   `json:"build_date,omitempty"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show scriptlint build information",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func init() {
	versionCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	versionCmd.Flags().Bool("full", false, "include git commit, message and build date")
}

func runVersion(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	full, err := cmd.Flags().GetBool("full")
	if err != nil {
		return fmt.Errorf("failed to get full flag: %w", err)
	}

	info := collectBuildInfo(full)
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	case "pretty":
		return writeBuildInfo(cmd.OutOrStdout(), info, full)
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
}

func collectBuildInfo(full bool) buildInfo {
	rules := jslint.Rules()
	slices.Sort(rules)
	info := buildInfo{
		Tool:        "scriptlint",
		Version:     orDefault(version.Version, "dev"),
		Tagline:     versionTagline,
		Rules:       rules,
		DefaultECMA: jslint.DefaultConfig().ECMAVersion,
		LatestECMA:  jslint.LatestEdition(),
	}
	if full {
		info.GitCommit = orDefault(version.GitCommit, "unknown")
		info.GitMessage = orDefault(version.GitMessage, "unknown")
		info.BuildDate = orDefault(version.BuildDate, "unknown")
	}
	return info
}

func writeBuildInfo(out io.Writer, info buildInfo, full bool) error {
	lines := []string{
		fmt.Sprintf("scriptlint %s: %s", version.Colored(info.Version), info.Tagline),
		fmt.Sprintf("rules:   %s", strings.Join(info.Rules, ", ")),
		fmt.Sprintf("ecma:    %d (default), up to %d", info.DefaultECMA, info.LatestECMA),
	}
	if full {
		lines = append(lines,
			"commit:  "+info.GitCommit,
			"message: "+info.GitMessage,
			"built:   "+info.BuildDate,
		)
	}
	_, err := fmt.Fprintln(out, strings.Join(lines, "\n"))
	return err
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}

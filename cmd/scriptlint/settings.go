package main

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"scriptlint/internal/jslint"
	"scriptlint/internal/scope"
)

// Paths of a plain export checkout, used when neither the manifest nor the
// flags name the exports.
const (
	defaultLibraryPath = "snow_src_files/sys_script_include.json"
	defaultTriggerPath = "snow_src_files/sys_script.json"
)

// runSettings is the resolved configuration of one invocation: defaults,
// then the manifest, then explicit flags.
type runSettings struct {
	LibraryPath    string
	TriggerPath    string
	AuthorSuffixes []string
	HostGlobals    []string
	Lint           jslint.Config
	Jobs           int
	Cache          bool
}

func defaultSettings() runSettings {
	return runSettings{
		LibraryPath: defaultLibraryPath,
		TriggerPath: defaultTriggerPath,
		HostGlobals: slices.Clone(scope.DefaultHostGlobals),
		Lint:        jslint.DefaultConfig(),
	}
}

// applyManifest layers m over s. A nil manifest changes nothing.
func (s *runSettings) applyManifest(m *projectManifest) error {
	if m == nil {
		return nil
	}
	cfg := m.Config
	if cfg.Sources.Library != "" {
		s.LibraryPath = m.resolve(cfg.Sources.Library)
	}
	if cfg.Sources.Trigger != "" {
		s.TriggerPath = m.resolve(cfg.Sources.Trigger)
	}
	if len(cfg.Filter.AuthorSuffixes) > 0 {
		s.AuthorSuffixes = slices.Clone(cfg.Filter.AuthorSuffixes)
	}
	s.HostGlobals = appendUnique(s.HostGlobals, cfg.Globals.Host...)
	if cfg.Lint.ECMAVersion != 0 {
		s.Lint.ECMAVersion = cfg.Lint.ECMAVersion
	}
	for name, value := range cfg.Lint.Rules {
		level, err := jslint.ParseLevel(value)
		if err != nil {
			return fmt.Errorf("%s: [lint.rules].%s: %w", m.Path, name, err)
		}
		s.Lint.Rules[name] = level
	}
	if cfg.Lint.Jobs > 0 {
		s.Jobs = cfg.Lint.Jobs
	}
	s.Cache = s.Cache || cfg.Lint.Cache
	return nil
}

// applyFlags overrides s with the flags the user set explicitly. Flags the
// command does not define are skipped.
func (s *runSettings) applyFlags(cmd *cobra.Command) error {
	flags := cmd.Flags()
	changed := func(name string) bool {
		return flags.Lookup(name) != nil && flags.Changed(name)
	}

	var err error
	if changed("library") {
		if s.LibraryPath, err = flags.GetString("library"); err != nil {
			return fmt.Errorf("failed to get library flag: %w", err)
		}
	}
	if changed("trigger") {
		if s.TriggerPath, err = flags.GetString("trigger"); err != nil {
			return fmt.Errorf("failed to get trigger flag: %w", err)
		}
	}
	if changed("author-suffix") {
		if s.AuthorSuffixes, err = flags.GetStringSlice("author-suffix"); err != nil {
			return fmt.Errorf("failed to get author-suffix flag: %w", err)
		}
	}
	if changed("global") {
		extra, err := flags.GetStringSlice("global")
		if err != nil {
			return fmt.Errorf("failed to get global flag: %w", err)
		}
		s.HostGlobals = appendUnique(s.HostGlobals, extra...)
	}
	if changed("ecma-version") {
		if s.Lint.ECMAVersion, err = flags.GetInt("ecma-version"); err != nil {
			return fmt.Errorf("failed to get ecma-version flag: %w", err)
		}
	}
	if changed("jobs") {
		if s.Jobs, err = flags.GetInt("jobs"); err != nil {
			return fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}
	if changed("cache") {
		if s.Cache, err = flags.GetBool("cache"); err != nil {
			return fmt.Errorf("failed to get cache flag: %w", err)
		}
	}
	return s.Lint.Validate()
}

// resolveSettings loads the manifest named by --manifest (or the nearest
// one) and applies the command flags on top.
func resolveSettings(cmd *cobra.Command) (runSettings, *projectManifest, error) {
	s := defaultSettings()

	manifestPath, err := cmd.Root().PersistentFlags().GetString("manifest")
	if err != nil {
		return s, nil, fmt.Errorf("failed to get manifest flag: %w", err)
	}
	wd, err := os.Getwd()
	if err != nil {
		return s, nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	manifest, _, err := loadProjectManifest(manifestPath, wd)
	if err != nil {
		return s, nil, err
	}
	if err := s.applyManifest(manifest); err != nil {
		return s, manifest, err
	}
	if err := s.applyFlags(cmd); err != nil {
		return s, manifest, err
	}
	return s, manifest, nil
}

func appendUnique(dst []string, names ...string) []string {
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name != "" && !slices.Contains(dst, name) {
			dst = append(dst, name)
		}
	}
	return dst
}

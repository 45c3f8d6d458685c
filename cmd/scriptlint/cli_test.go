package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"scriptlint/internal/diagfmt"
)

const libraryExport = `{"records": [
  {"name": "Foo", "script": "var Foo = Class.create();\nhelper = 1;", "sys_created_by": "ann@thrivenetworks.com", "sys_updated_by": "ann@thrivenetworks.com"},
  {"name": "Bar", "script": "var Bar = Class.create();", "sys_created_by": "ann@thrivenetworks.com", "sys_updated_by": "ann@thrivenetworks.com"}
]}`

const triggerExport = `{"records": [
  {"name": "On insert", "script": "Foo.run(current);\nleak = 2;", "sys_created_by": "admin", "sys_updated_by": "jane@thrivenetworks.com"},
  {"name": "On delete", "script": "Foo.run(current);\nother = 3;", "sys_created_by": "admin", "sys_updated_by": "bob@example.com"},
  {"name": "Clean", "script": "Bar.run(current);", "sys_created_by": "admin", "sys_updated_by": "jane@thrivenetworks.com"}
]}`

// exportDir writes both exports and an empty manifest so the run does not
// pick up a scriptlint.toml from the working tree.
func exportDir(t *testing.T) (library, trigger, manifest string) {
	t.Helper()
	dir := t.TempDir()
	library = filepath.Join(dir, "sys_script_include.json")
	trigger = filepath.Join(dir, "sys_script.json")
	manifest = filepath.Join(dir, "scriptlint.yaml")
	writeFile(t, library, libraryExport)
	writeFile(t, trigger, triggerExport)
	writeFile(t, manifest, "")
	return library, trigger, manifest
}

// resetFlags puts every flag of the command tree back to its default; the
// commands are package globals shared between tests.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	resetFlags(rootCmd)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err = rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestCheckCommandPretty(t *testing.T) {
	library, trigger, manifest := exportDir(t)
	stdout, stderr, err := execute(t, "check",
		"--manifest", manifest,
		"--library", library,
		"--trigger", trigger,
		"--author-suffix", "@thrivenetworks.com",
		"--ui", "off",
		"--color", "off",
	)
	if err != nil {
		t.Fatalf("check: %v\nstderr: %s", err, stderr)
	}

	if !strings.Contains(stdout, "On insert (jane@thrivenetworks.com) - Foo\n") {
		t.Errorf("missing correlation header:\n%s", stdout)
	}
	if !strings.Contains(stdout, "On insert - [no-implicit-globals]") || !strings.Contains(stdout, "(2:1)") {
		t.Errorf("missing diagnostic header:\n%s", stdout)
	}
	if !strings.Contains(stdout, "\tleak = 2;\n\t^") {
		t.Errorf("missing excerpt:\n%s", stdout)
	}
	if strings.Contains(stdout, "On delete") {
		t.Errorf("filtered trigger reported:\n%s", stdout)
	}
	if strings.Contains(stdout, "Clean") {
		t.Errorf("clean trigger reported:\n%s", stdout)
	}
}

func TestCheckCommandJSON(t *testing.T) {
	library, trigger, manifest := exportDir(t)
	stdout, stderr, err := execute(t, "check",
		"--manifest", manifest,
		"--library", library,
		"--trigger", trigger,
		"--ui", "off",
		"--format", "json",
		"--summary",
	)
	if err != nil {
		t.Fatalf("check: %v\nstderr: %s", err, stderr)
	}

	var out diagfmt.ReportOutput
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("decode report: %v\n%s", err, stdout)
	}
	if out.RunID == "" || out.RunID == "00000000-0000-0000-0000-000000000000" {
		t.Errorf("run id = %q", out.RunID)
	}
	if len(out.Library) != 2 || len(out.Triggers) != 3 {
		t.Fatalf("records: %d library, %d trigger", len(out.Library), len(out.Triggers))
	}
	// без фильтра авторов оба упавших триггера коррелируют с Foo
	if len(out.Correlations) != 2 {
		t.Fatalf("correlations = %+v", out.Correlations)
	}
	for _, c := range out.Correlations {
		if len(c.Matches) != 1 || c.Matches[0] != "Foo" {
			t.Errorf("correlation %s matches %v", c.Trigger, c.Matches)
		}
	}
	if out.Summary == nil || out.Summary.Failing != 2 || out.Summary.Total != 3 {
		t.Errorf("summary = %+v", out.Summary)
	}
}

func TestCheckCommandMissingExport(t *testing.T) {
	_, trigger, manifest := exportDir(t)
	_, _, err := execute(t, "check",
		"--manifest", manifest,
		"--library", filepath.Join(t.TempDir(), "nope.json"),
		"--trigger", trigger,
		"--ui", "off",
	)
	if err == nil {
		t.Fatal("expected an error for a missing export")
	}
}

func TestLintCommandShort(t *testing.T) {
	library, _, manifest := exportDir(t)
	stdout, stderr, err := execute(t, "lint", library,
		"--manifest", manifest,
		"--kind", "library",
		"--format", "short",
	)
	if err != nil {
		t.Fatalf("lint: %v\nstderr: %s", err, stderr)
	}
	if !strings.Contains(stdout, "Foo") || strings.Contains(stdout, "Bar") {
		t.Errorf("short output:\n%s", stdout)
	}
}

func TestScopeCommand(t *testing.T) {
	library, _, manifest := exportDir(t)
	stdout, stderr, err := execute(t, "scope", "Foo",
		"--manifest", manifest,
		"--library", library,
		"--kind", "library",
	)
	if err != nil {
		t.Fatalf("scope: %v\nstderr: %s", err, stderr)
	}

	rows := map[string]string{}
	for _, line := range strings.Split(stdout, "\n")[1:] {
		fields := strings.Fields(line)
		if len(fields) == 2 {
			rows[fields[0]] = fields[1]
		}
	}
	if rows["Foo"] != "writable" || rows["Bar"] != "readonly" || rows["current"] != "readonly" {
		t.Errorf("environment rows = %v", rows)
	}
	if stderr != "" {
		t.Errorf("unexpected warning: %s", stderr)
	}
}

func TestVersionCommandJSON(t *testing.T) {
	stdout, _, err := execute(t, "version", "--format", "json", "--full")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	var info buildInfo
	if err := json.Unmarshal([]byte(stdout), &info); err != nil {
		t.Fatalf("decode: %v\n%s", err, stdout)
	}
	if info.Tool != "scriptlint" || info.DefaultECMA != 2018 || info.GitCommit == "" {
		t.Errorf("info = %+v", info)
	}
	if len(info.Rules) == 0 || info.Rules[0] != "no-implicit-globals" {
		t.Errorf("rules = %v", info.Rules)
	}
}

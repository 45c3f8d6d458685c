package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scriptlint/internal/jslint"
	"scriptlint/internal/scope"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

const sampleManifest = `# export checkout
[sources]
library = "exports/includes.json"
trigger = "exports/rules.json"

[filter]
author_suffixes = ["@thrivenetworks.com"]

[lint]
ecma_version = 2020
jobs = 3

[lint.rules]
no-implicit-globals = "warn"

[globals]
host = ["GlideSysAttachment", "gs"]
`

func TestFindManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "scriptlint.toml"), sampleManifest)
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	path, ok, err := findManifest(nested)
	if err != nil || !ok {
		t.Fatalf("findManifest: ok=%v err=%v", ok, err)
	}
	if path != filepath.Join(root, "scriptlint.toml") {
		t.Fatalf("path = %q", path)
	}
}

func TestLoadProjectManifestTOML(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "scriptlint.toml")
	writeFile(t, path, sampleManifest)

	m, ok, err := loadProjectManifest("", root)
	if err != nil || !ok {
		t.Fatalf("loadProjectManifest: ok=%v err=%v", ok, err)
	}

	s := defaultSettings()
	if err := s.applyManifest(m); err != nil {
		t.Fatalf("applyManifest: %v", err)
	}
	if want := filepath.Join(root, "exports", "includes.json"); s.LibraryPath != want {
		t.Errorf("LibraryPath = %q, want %q", s.LibraryPath, want)
	}
	if want := filepath.Join(root, "exports", "rules.json"); s.TriggerPath != want {
		t.Errorf("TriggerPath = %q, want %q", s.TriggerPath, want)
	}
	if len(s.AuthorSuffixes) != 1 || s.AuthorSuffixes[0] != "@thrivenetworks.com" {
		t.Errorf("AuthorSuffixes = %v", s.AuthorSuffixes)
	}
	if s.Lint.ECMAVersion != 2020 || s.Lint.Rules[jslint.RuleNoImplicitGlobals] != jslint.LevelWarn {
		t.Errorf("Lint = %+v", s.Lint)
	}
	if s.Jobs != 3 {
		t.Errorf("Jobs = %d", s.Jobs)
	}
	if got, want := len(s.HostGlobals), len(scope.DefaultHostGlobals)+1; got != want {
		t.Errorf("HostGlobals = %v, want defaults plus one", s.HostGlobals)
	}
}

func TestLoadProjectManifestYAML(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "scriptlint.yaml")
	writeFile(t, path, `sources:
  library: inc.json
filter:
  author_suffixes: ["@example.com"]
lint:
  ecma_version: 2015
`)
	m, ok, err := loadProjectManifest(path, "")
	if err != nil || !ok {
		t.Fatalf("loadProjectManifest: ok=%v err=%v", ok, err)
	}
	if m.Config.Sources.Library != "inc.json" || m.Config.Lint.ECMAVersion != 2015 {
		t.Fatalf("config = %+v", m.Config)
	}

	empty := filepath.Join(root, "empty.yaml")
	writeFile(t, empty, "")
	if _, _, err := loadProjectManifest(empty, ""); err != nil {
		t.Fatalf("empty manifest: %v", err)
	}
}

func TestLoadProjectManifestErrors(t *testing.T) {
	cases := []struct {
		name string
		file string
		data string
		want string
	}{
		{"unknown key", "scriptlint.toml", "[lint]\nfoo = 1\n", "unknown key"},
		{"bad level", "scriptlint.toml", "[lint.rules]\nno-implicit-globals = \"loud\"\n", "invalid rule level"},
		{"negative jobs", "scriptlint.toml", "[lint]\njobs = -1\n", "jobs"},
		{"blank suffix", "scriptlint.toml", "[filter]\nauthor_suffixes = [\" \"]\n", "blank"},
		{"bad toml", "scriptlint.toml", "[lint\n", "failed to parse TOML"},
		{"unknown yaml key", "scriptlint.yaml", "lint:\n  foo: 1\n", "failed to parse YAML"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tc.file)
			writeFile(t, path, tc.data)
			_, _, err := loadProjectManifest(path, "")
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want it to mention %q", err, tc.want)
			}
		})
	}
}

func TestNoManifestIsNotAnError(t *testing.T) {
	m, ok, err := loadProjectManifest("", t.TempDir())
	if err != nil || ok || m != nil {
		t.Fatalf("got m=%v ok=%v err=%v", m, ok, err)
	}
}

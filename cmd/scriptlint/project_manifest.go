package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"scriptlint/internal/jslint"
)

// manifestNames are looked up in this order in every directory.
var manifestNames = []string{"scriptlint.toml", "scriptlint.yaml", "scriptlint.yml"}

type projectManifest struct {
	Path   string
	Root   string
	Config projectConfig
}

type projectConfig struct {
	Sources sourcesConfig `toml:"sources" yaml:"sources"`
	Filter  filterConfig  `toml:"filter" yaml:"filter"`
	Lint    lintConfig    `toml:"lint" yaml:"lint"`
	Globals globalsConfig `toml:"globals" yaml:"globals"`
}

type sourcesConfig struct {
	Library string `toml:"library" yaml:"library"`
	Trigger string `toml:"trigger" yaml:"trigger"`
}

type filterConfig struct {
	AuthorSuffixes []string `toml:"author_suffixes" yaml:"author_suffixes"`
}

type lintConfig struct {
	ECMAVersion int               `toml:"ecma_version" yaml:"ecma_version"`
	Rules       map[string]string `toml:"rules" yaml:"rules"`
	Jobs        int               `toml:"jobs" yaml:"jobs"`
	Cache       bool              `toml:"cache" yaml:"cache"`
}

type globalsConfig struct {
	// Host names are appended to the default host globals.
	Host []string `toml:"host" yaml:"host"`
}

func findManifest(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		for _, name := range manifestNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// loadProjectManifest loads the manifest at path, or the nearest one above
// startDir when path is empty. A missing manifest is not an error.
func loadProjectManifest(path, startDir string) (*projectManifest, bool, error) {
	if path == "" {
		var (
			ok  bool
			err error
		)
		path, ok, err = findManifest(startDir)
		if err != nil || !ok {
			return nil, ok, err
		}
	}
	cfg, err := loadProjectConfig(path)
	if err != nil {
		return nil, true, err
	}
	return &projectManifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
	}, true, nil
}

func loadProjectConfig(path string) (projectConfig, error) {
	var cfg projectConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		f, err := os.Open(path)
		if err != nil {
			return projectConfig{}, fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()
		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		// пустой файл даёт io.EOF: это нулевая конфигурация
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return projectConfig{}, fmt.Errorf("%s: failed to parse YAML: %w", path, err)
		}
	default:
		meta, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return projectConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return projectConfig{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
		}
		if meta.IsDefined("lint", "ecma_version") && cfg.Lint.ECMAVersion == 0 {
			return projectConfig{}, fmt.Errorf("%s: [lint].ecma_version must not be 0", path)
		}
	}
	if err := cfg.validate(); err != nil {
		return projectConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c projectConfig) validate() error {
	for name, level := range c.Lint.Rules {
		if _, err := jslint.ParseLevel(level); err != nil {
			return fmt.Errorf("[lint.rules].%s: %w", name, err)
		}
	}
	if c.Lint.Jobs < 0 {
		return fmt.Errorf("[lint].jobs must not be negative")
	}
	for _, s := range c.Filter.AuthorSuffixes {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("[filter].author_suffixes contains a blank entry")
		}
	}
	return nil
}

// resolve makes a manifest-relative path absolute.
func (m *projectManifest) resolve(p string) string {
	if m == nil || p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.Root, filepath.FromSlash(p))
}

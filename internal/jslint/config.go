package jslint

import (
	"fmt"
	"sort"
	"strings"
)

// RuleNoImplicitGlobals reports declarations and assignments that leak into
// the global scope.
const RuleNoImplicitGlobals = "no-implicit-globals"

// Level is the configured severity of a rule.
type Level uint8

const (
	LevelOff Level = iota
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseLevel accepts the names and numeric forms used by lint configs.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "0":
		return LevelOff, nil
	case "warn", "warning", "1":
		return LevelWarn, nil
	case "error", "2":
		return LevelError, nil
	default:
		return LevelOff, fmt.Errorf("invalid rule level: %q (expected: off|warn|error)", s)
	}
}

// Config is the base configuration of a lint pass.
type Config struct {
	// ECMAVersion is the language edition, as a year (2015...) or a legacy
	// number (3, 5, 6...).
	ECMAVersion int
	Rules       map[string]Level
}

// DefaultConfig lints at ECMAScript 2018 with only no-implicit-globals enabled.
func DefaultConfig() Config {
	return Config{
		ECMAVersion: 2018,
		Rules: map[string]Level{
			RuleNoImplicitGlobals: LevelError,
		},
	}
}

// Edition returns the configured edition as a year (5 for ES5, 3 for ES3).
func (c Config) Edition() int {
	v := c.ECMAVersion
	if v >= 6 && v < 2015 {
		v += 2009
	}
	return v
}

// Validate checks the edition and that every configured rule exists.
func (c Config) Validate() error {
	switch e := c.Edition(); {
	case e == 3 || e == 5:
	case e >= 2015 && e <= latestEdition:
	default:
		return fmt.Errorf("unsupported ecmaVersion %d (expected 3, 5, 6..%d or 2015..%d)", c.ECMAVersion, latestEdition-2009, latestEdition)
	}
	for name := range c.Rules {
		if _, ok := registry[name]; !ok {
			return fmt.Errorf("unknown rule %q", name)
		}
	}
	return nil
}

// EnabledRules returns the names of rules above LevelOff, sorted.
func (c Config) EnabledRules() []string {
	var out []string
	for name, level := range c.Rules {
		if level > LevelOff {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Package xref links failing trigger scripts to the failing library scripts
// they appear to reference.
//
// The link is textual: a trigger references a library when the library's
// name occurs anywhere in the trigger's evaluated text. Substring hits
// (Util inside UtilHelper) are accepted.
package xref

import (
	"regexp"
	"strings"
)

// neverMatches is the pattern used for an empty name set.
const neverMatches = `\b\B`

// Matcher is an alternation of library names. When two names could match at
// the same position the one listed first wins.
type Matcher struct {
	re    *regexp.Regexp
	names []string
}

// NewMatcher compiles names, in order, into one alternation.
func NewMatcher(names []string) *Matcher {
	quoted := make([]string, 0, len(names))
	kept := make([]string, 0, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(name))
		kept = append(kept, name)
	}
	pattern := neverMatches
	if len(quoted) > 0 {
		pattern = strings.Join(quoted, "|")
	}
	return &Matcher{re: regexp.MustCompile(pattern), names: kept}
}

// Names returns the names the matcher was built from.
func (m *Matcher) Names() []string {
	return append([]string(nil), m.names...)
}

// Empty reports whether the matcher can never match.
func (m *Matcher) Empty() bool {
	return len(m.names) == 0
}

// String returns the compiled pattern.
func (m *Matcher) String() string {
	return m.re.String()
}

// Match reports whether any name occurs in text.
func (m *Matcher) Match(text string) bool {
	return m.re.MatchString(text)
}

// FindAll returns the names found in text, in first-occurrence order and
// without repeats.
func (m *Matcher) FindAll(text string) []string {
	hits := m.re.FindAllString(text, -1)
	if len(hits) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(hits))
	out := make([]string, 0, len(hits))
	for _, h := range hits {
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, h)
	}
	return out
}

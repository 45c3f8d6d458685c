package jslint

import (
	"regexp"
	"strings"
)

// Globals is a declared global environment. scope.Environment satisfies it.
type Globals interface {
	Lookup(name string) (writable, ok bool)
}

type noGlobals struct{}

func (noGlobals) Lookup(string) (bool, bool) { return false, false }

// resolver layers the globals known to one lint pass: inline /* global */
// directives first, then the caller's environment, then the edition builtins.
type resolver struct {
	inline  map[string]bool
	env     Globals
	edition int
}

func newResolver(env Globals, edition int, comments []string) *resolver {
	if env == nil {
		env = noGlobals{}
	}
	r := &resolver{env: env, edition: edition}
	for _, c := range comments {
		body, ok := parseDirective(c)
		if !ok {
			continue
		}
		for name, writable := range parseGlobalList(body) {
			if r.inline == nil {
				r.inline = make(map[string]bool)
			}
			r.inline[name] = writable
		}
	}
	return r
}

func (r *resolver) lookup(name string) (writable, ok bool) {
	if w, found := r.inline[name]; found {
		return w, true
	}
	if w, found := r.env.Lookup(name); found {
		return w, true
	}
	if builtinFor(name, r.edition) {
		return false, true
	}
	return false, false
}

var (
	directiveRe = regexp.MustCompile(`^/\*\s*globals?\s([\s\S]*)\*/$`)
	colonRe     = regexp.MustCompile(`\s*:\s*`)
)

// parseDirective returns the body of a block comment like "/* global a, b:writable */".
func parseDirective(comment string) (string, bool) {
	m := directiveRe.FindStringSubmatch(comment)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// parseGlobalList reads "a, b:writable c: readonly" into name -> writable.
func parseGlobalList(body string) map[string]bool {
	out := make(map[string]bool)
	// "name : value" is allowed, glue it before splitting.
	body = colonRe.ReplaceAllString(body, ":")
	for _, item := range strings.FieldsFunc(body, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	}) {
		name, value, _ := strings.Cut(item, ":")
		if name == "" {
			continue
		}
		switch strings.ToLower(value) {
		case "writable", "writeable", "true":
			out[name] = true
		case "off":
		default:
			out[name] = false
		}
	}
	return out
}

package jslint

import "scriptlint/internal/source"

// Rule is one check run over an analyzed program.
type Rule interface {
	// Name is the rule id reported on every finding, e.g. "no-implicit-globals".
	Name() string
	Description() string
	Check(ctx *Context)
}

// Context gives a rule the analyzed program and collects its findings.
type Context struct {
	File  *source.File
	level Level
	rule  string

	analysis *analysis
	globals  *resolver
	messages []Message
}

// Report records a finding at span.
func (c *Context) Report(span source.Span, msg string) {
	start, end := c.File.Resolve(span)
	c.messages = append(c.messages, Message{
		RuleID:    c.rule,
		Severity:  c.level,
		Message:   msg,
		Line:      int(start.Line),
		Column:    int(start.Col),
		EndLine:   int(end.Line),
		EndColumn: int(end.Col),
	})
}

var registry = map[string]Rule{}

func register(r Rule) {
	registry[r.Name()] = r
}

// Rules lists the names of every known rule.
func Rules() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	return out
}

package jslint

import (
	"context"
	"errors"
	"fmt"
	"sort"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"

	"scriptlint/internal/source"
)

// ErrEmptySource is returned for a zero-length text; callers filter empty
// scripts before linting.
var ErrEmptySource = errors.New("empty source text")

// Linter runs a fixed configuration over source texts.
type Linter struct {
	cfg   Config
	rules []Rule
}

// New validates cfg and resolves its enabled rules.
func New(cfg Config) (*Linter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	l := &Linter{cfg: cfg}
	for _, name := range cfg.EnabledRules() {
		l.rules = append(l.rules, registry[name])
	}
	return l, nil
}

// Config returns the configuration the linter was built with.
func (l *Linter) Config() Config {
	return l.cfg
}

// LintText parses text and evaluates it against globals. A text that does
// not parse yields exactly one fatal message and no rule findings.
func (l *Linter) LintText(ctx context.Context, text string, globals Globals) (Result, error) {
	if text == "" {
		return Result{}, ErrEmptySource
	}
	src := []byte(text)

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(javascript.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return Result{}, fmt.Errorf("failed to parse: %w", err)
	}
	defer tree.Close()
	root := tree.RootNode()

	file := source.NewFile("", src, 0)
	res := Result{Source: text}

	serr := parseError(root, src)
	if serr == nil {
		serr = editionError(root, src, l.cfg.Edition())
	}
	if serr != nil {
		pos := file.Position(serr.off)
		res.Messages = []Message{{
			Severity: LevelError,
			Message:  "Parsing error: " + serr.msg,
			Fatal:    true,
			Line:     int(pos.Line),
			Column:   int(pos.Col),
		}}
		return res, nil
	}

	a := analyze(root, src)
	globalsRes := newResolver(globals, l.cfg.Edition(), a.comments)
	for _, rule := range l.rules {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		rc := &Context{
			File:     file,
			level:    l.cfg.Rules[rule.Name()],
			rule:     rule.Name(),
			analysis: a,
			globals:  globalsRes,
		}
		rule.Check(rc)
		res.Messages = append(res.Messages, rc.messages...)
	}
	sortMessages(res.Messages)
	return res, nil
}

func sortMessages(ms []Message) {
	sort.SliceStable(ms, func(i, j int) bool {
		if ms[i].Line != ms[j].Line {
			return ms[i].Line < ms[j].Line
		}
		return ms[i].Column < ms[j].Column
	})
}

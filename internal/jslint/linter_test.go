package jslint

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// env maps a name to whether it is writable.
type env map[string]bool

func (e env) Lookup(name string) (writable, ok bool) {
	w, ok := e[name]
	return w, ok
}

func lint(t *testing.T, text string, globals Globals) []Message {
	t.Helper()
	l, err := New(DefaultConfig())
	require.NoError(t, err)
	res, err := l.LintText(context.Background(), text, globals)
	require.NoError(t, err)
	assert.Equal(t, text, res.Source)
	return res.Messages
}

func TestGlobalDeclarations(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Message
	}{
		{
			name: "var",
			text: "var x = 1;",
			want: []Message{{
				RuleID: RuleNoImplicitGlobals, Severity: LevelError,
				Message: "Unexpected 'var' declaration in the global scope, wrap in an IIFE for a local variable, assign as global property for a global variable.",
				Line:    1, Column: 5, EndLine: 1, EndColumn: 10,
			}},
		},
		{
			name: "function",
			text: "function foo() {}",
			want: []Message{{
				RuleID: RuleNoImplicitGlobals, Severity: LevelError,
				Message: "Unexpected function declaration in the global scope, wrap in an IIFE for a local variable, assign as global property for a global variable.",
				Line:    1, Column: 1, EndLine: 1, EndColumn: 18,
			}},
		},
		{
			name: "multi-line function",
			text: "function foo() {\n  return 1;\n}",
			want: []Message{{
				RuleID: RuleNoImplicitGlobals, Severity: LevelError,
				Message: "Unexpected function declaration in the global scope, wrap in an IIFE for a local variable, assign as global property for a global variable.",
				Line:    1, Column: 1, EndLine: 3, EndColumn: 2,
			}},
		},
		{
			name: "assignment",
			text: "x = 1;",
			want: []Message{{
				RuleID: RuleNoImplicitGlobals, Severity: LevelError,
				Message: "Global variable leak, declare the variable if it is intended to be local.",
				Line:    1, Column: 1, EndLine: 1, EndColumn: 6,
			}},
		},
		{
			name: "lexical bindings",
			text: "let a = 1; const b = 2; class C {}",
			want: nil,
		},
		{
			name: "wrapped in an IIFE",
			text: "(function () { var a = 1; function b() {} a = 2; })();",
			want: nil,
		},
		{
			name: "strict program",
			text: "'use strict';\nx = 1;",
			want: nil,
		},
		{
			name: "strict function",
			text: "(function () { \"use strict\"; y = 1; })();",
			want: nil,
		},
		{
			name: "compound assignment",
			text: "x += 1; x++;",
			want: nil,
		},
		{
			name: "member assignment",
			text: "a.b = 1; a[0] = 2;",
			want: nil,
		},
		{
			name: "declared later in the program",
			text: "x = 1; var x;",
			want: []Message{{
				RuleID: RuleNoImplicitGlobals, Severity: LevelError,
				Message: "Unexpected 'var' declaration in the global scope, wrap in an IIFE for a local variable, assign as global property for a global variable.",
				Line:    1, Column: 12, EndLine: 1, EndColumn: 13,
			}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lint(t, tt.text, nil))
		})
	}
}

func TestLeakInsideFunction(t *testing.T) {
	got := lint(t, "(function () { var a = 1; b = 2; })();", nil)
	require.Len(t, got, 1)
	assert.Equal(t, "Global variable leak, declare the variable if it is intended to be local.", got[0].Message)
	assert.Equal(t, 1, got[0].Line)
	assert.Equal(t, 27, got[0].Column)
	assert.Equal(t, 32, got[0].EndColumn)
}

func TestMessagesAreOrdered(t *testing.T) {
	got := lint(t, "function f() {\n  var x = 1;\n  y = 2;\n}\nvar z;", nil)
	require.Len(t, got, 3)
	assert.Equal(t, []int{1, 3, 5}, []int{got[0].Line, got[1].Line, got[2].Line})
	assert.Contains(t, got[0].Message, "function declaration")
	assert.Contains(t, got[1].Message, "Global variable leak")
	assert.Contains(t, got[2].Message, "'var' declaration")
}

func TestDestructuringAndLoops(t *testing.T) {
	got := lint(t, "[a, b] = [1, 2];", nil)
	require.Len(t, got, 2)
	for _, m := range got {
		assert.Equal(t, 1, m.Column)
		assert.Equal(t, 16, m.EndColumn)
	}

	got = lint(t, "for (k in o) {}", nil)
	require.Len(t, got, 1)
	assert.Equal(t, "Global variable leak, declare the variable if it is intended to be local.", got[0].Message)
	assert.Equal(t, 1, got[0].Column)

	assert.Empty(t, lint(t, "(function () { for (var k in o) {} for (let v of o) {} })();", nil))
}

func TestDeclaredGlobals(t *testing.T) {
	globals := env{"gs": false, "Foo": true}

	assert.Empty(t, lint(t, "function Foo() {}\nFoo = 2;", globals))

	got := lint(t, "function gs() {}", globals)
	require.Len(t, got, 1)
	assert.Equal(t, "Unexpected redeclaration of read-only global variable.", got[0].Message)

	got = lint(t, "gs = null;", globals)
	require.Len(t, got, 1)
	assert.Equal(t, "Unexpected assignment to read-only global variable.", got[0].Message)

	assert.Empty(t, lint(t, "gs.info('x');", globals))
}

func TestBuiltinGlobalsAreReadonly(t *testing.T) {
	got := lint(t, "Math = 1;", nil)
	require.Len(t, got, 1)
	assert.Equal(t, "Unexpected assignment to read-only global variable.", got[0].Message)

	got = lint(t, "var JSON = {};", nil)
	require.Len(t, got, 1)
	assert.Equal(t, "Unexpected redeclaration of read-only global variable.", got[0].Message)

	// undefined разбирается отдельным типом узла, не identifier
	got = lint(t, "undefined = 2;\nNaN = 1;", nil)
	require.Len(t, got, 2)
	for i, m := range got {
		assert.Equal(t, "Unexpected assignment to read-only global variable.", m.Message)
		assert.Equal(t, i+1, m.Line)
		assert.Equal(t, 1, m.Column)
	}
}

func TestInlineGlobalDirective(t *testing.T) {
	assert.Empty(t, lint(t, "/* global counter:writable */\ncounter = 1;", nil))

	got := lint(t, "/*global counter*/\ncounter = 1;", nil)
	require.Len(t, got, 1)
	assert.Equal(t, "Unexpected assignment to read-only global variable.", got[0].Message)
}

func TestParseErrorIsSingleFatalMessage(t *testing.T) {
	got := lint(t, "var x = 1;\nfunction (", nil)
	require.Len(t, got, 1)
	m := got[0]
	assert.True(t, m.Fatal)
	assert.Empty(t, m.RuleID)
	assert.Equal(t, LevelError, m.Severity)
	assert.Contains(t, m.Message, "Parsing error: ")
	assert.Zero(t, m.EndLine)
	assert.Zero(t, m.EndColumn)
}

func TestEditionGate(t *testing.T) {
	got := lint(t, "var a = b ?? c;", nil)
	require.Len(t, got, 1)
	assert.True(t, got[0].Fatal)
	assert.Equal(t, "Parsing error: Unexpected token ??", got[0].Message)
	assert.Equal(t, 11, got[0].Column)

	cfg := DefaultConfig()
	cfg.ECMAVersion = 2020
	l, err := New(cfg)
	require.NoError(t, err)
	res, err := l.LintText(context.Background(), "var a = b ?? c;", nil)
	require.NoError(t, err)
	require.Len(t, res.Messages, 1)
	assert.False(t, res.Messages[0].Fatal)
	assert.Equal(t, RuleNoImplicitGlobals, res.Messages[0].RuleID)

	got = lint(t, "import x from 'y';", nil)
	require.Len(t, got, 1)
	assert.Equal(t, "Parsing error: "+moduleOnlyMessage, got[0].Message)
}

func TestWarnLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rules[RuleNoImplicitGlobals] = LevelWarn
	l, err := New(cfg)
	require.NoError(t, err)
	res, err := l.LintText(context.Background(), "x = 1;", nil)
	require.NoError(t, err)
	require.Len(t, res.Messages, 1)
	assert.Equal(t, LevelWarn, res.Messages[0].Severity)
}

func TestEmptySource(t *testing.T) {
	l, err := New(DefaultConfig())
	require.NoError(t, err)
	_, err = l.LintText(context.Background(), "", nil)
	assert.ErrorIs(t, err, ErrEmptySource)
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ECMAVersion = 9
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 2018, cfg.Edition())

	cfg.ECMAVersion = 4
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Rules["no-undef"] = LevelError
	_, err := New(cfg)
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{"off": LevelOff, "0": LevelOff, "warn": LevelWarn, "Error": LevelError, "2": LevelError} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestConcurrentLint(t *testing.T) {
	l, err := New(DefaultConfig())
	require.NoError(t, err)
	for _, text := range []string{"a = 1;", "var b;", "function c() {}", "(function () {})();"} {
		t.Run(text, func(t *testing.T) {
			t.Parallel()
			for range 20 {
				_, err := l.LintText(context.Background(), text, env{"gs": false})
				require.NoError(t, err)
			}
		})
	}
}

// Package jslint is the lint capability: it parses a JavaScript source text
// with tree-sitter, analyzes its scopes and runs the configured rules against
// a declared set of globals.
//
// The engine is intentionally small. It implements the implicit-global rule
// class (no-implicit-globals), reports parse failures as a single fatal
// message without a rule id, and rejects syntax newer than the configured
// ECMAScript edition the same way.
//
// Positions are 1-based lines and code point columns of the text passed to
// LintText. End positions are exclusive, so a finding on "x = 1" starting at
// column 1 ends at column 6.
//
// A Linter holds no mutable state; every LintText call creates its own
// tree-sitter parser and may run concurrently with others.
package jslint

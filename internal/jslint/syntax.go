package jslint

import (
	"bytes"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

const moduleOnlyMessage = "'import' and 'export' may appear only with 'sourceType: module'"

// syntaxError is a fatal parse failure at a byte offset.
type syntaxError struct {
	off uint32
	msg string
}

// findSyntaxError returns the first ERROR or MISSING node in document order.
func findSyntaxError(n *sitter.Node) *sitter.Node {
	if n.IsError() || n.IsMissing() {
		return n
	}
	if !n.HasError() {
		return nil
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if found := findSyntaxError(n.Child(i)); found != nil {
			return found
		}
	}
	return nil
}

// parseError describes the first tree-sitter error the way an ECMAScript
// parser does: the unexpected token, or the end of input.
func parseError(root *sitter.Node, src []byte) *syntaxError {
	bad := findSyntaxError(root)
	if bad == nil {
		return nil
	}
	var tok *sitter.Node
	if bad.IsMissing() {
		tok = nextLeaf(bad)
	} else {
		tok = firstLeaf(bad)
	}
	if tok == nil || int(tok.StartByte()) >= len(bytes.TrimRight(src, " \t\r\n")) {
		return &syntaxError{off: uint32(len(src)), msg: "Unexpected end of input"}
	}
	return &syntaxError{off: tok.StartByte(), msg: "Unexpected token " + tokenText(tok, src)}
}

// editionError rejects syntax newer than edition, and module syntax.
func editionError(root *sitter.Node, src []byte, edition int) *syntaxError {
	var found *syntaxError
	var visit func(n *sitter.Node) bool
	visit = func(n *sitter.Node) bool {
		switch n.Type() {
		case "import_statement", "export_statement":
			found = &syntaxError{off: n.StartByte(), msg: moduleOnlyMessage}
			return true
		}
		if since, tok := introducedIn(n, src); since > edition {
			found = &syntaxError{off: tok.StartByte(), msg: "Unexpected token " + tokenText(tok, src)}
			return true
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if visit(n.NamedChild(i)) {
				return true
			}
		}
		return false
	}
	visit(root)
	return found
}

// introducedIn returns the edition that introduced the syntax of n, or 0 when
// n is older than ES2015, together with the token to blame.
func introducedIn(n *sitter.Node, src []byte) (int, *sitter.Node) {
	switch n.Type() {
	case "field_definition", "class_static_block", "private_property_identifier":
		return 2022, n

	case "optional_chain":
		return 2020, n

	case "number":
		text := n.Content(src)
		switch {
		case strings.Contains(text, "_"):
			return 2021, n
		case strings.HasSuffix(text, "n"):
			return 2020, n
		}

	case "augmented_assignment_expression":
		op := n.ChildByFieldName("operator")
		if op == nil {
			break
		}
		switch op.Type() {
		case "||=", "&&=", "??=":
			return 2021, op
		case "**=":
			return 2016, op
		}

	case "binary_expression":
		op := n.ChildByFieldName("operator")
		if op == nil {
			break
		}
		switch op.Type() {
		case "??":
			return 2020, op
		case "**":
			return 2016, op
		}

	case "call_expression":
		if fn := n.ChildByFieldName("function"); fn != nil && fn.Type() == "import" {
			return 2020, fn
		}

	case "catch_clause":
		if n.ChildByFieldName("parameter") == nil {
			if body := n.ChildByFieldName("body"); body != nil {
				return 2019, body
			}
		}

	case "for_in_statement":
		if tok := childOfType(n, "await"); tok != nil {
			return 2018, tok
		}
		if op := n.ChildByFieldName("operator"); op != nil && op.Type() == "of" {
			return 2015, op
		}

	case "spread_element", "rest_pattern":
		if p := n.Parent(); p != nil && (p.Type() == "object" || p.Type() == "object_pattern") {
			return 2018, n
		}
		return 2015, n

	case "await_expression":
		return 2017, n

	case "function_declaration", "function", "function_expression", "arrow_function", "method_definition",
		"generator_function_declaration", "generator_function":
		async := childOfType(n, "async")
		generator := strings.HasPrefix(n.Type(), "generator_") || childOfType(n, "*") != nil
		switch {
		case async != nil && generator:
			return 2018, async
		case async != nil:
			return 2017, async
		case generator || n.Type() == "arrow_function":
			return 2015, firstLeaf(n)
		}

	case "lexical_declaration", "class_declaration", "class", "template_string",
		"object_pattern", "array_pattern", "computed_property_name", "shorthand_property_identifier":
		return 2015, firstLeaf(n)
	}
	return 0, n
}

func childOfType(n *sitter.Node, typ string) *sitter.Node {
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c.Type() == typ {
			return c
		}
	}
	return nil
}

func firstLeaf(n *sitter.Node) *sitter.Node {
	for n.ChildCount() > 0 {
		n = n.Child(0)
	}
	return n
}

// nextLeaf returns the first leaf after n, or nil at the end of the tree.
func nextLeaf(n *sitter.Node) *sitter.Node {
	for cur := n; cur != nil; cur = cur.Parent() {
		if s := cur.NextSibling(); s != nil {
			return firstLeaf(s)
		}
	}
	return nil
}

// tokenText returns the leading token of a node's text.
func tokenText(n *sitter.Node, src []byte) string {
	text := strings.TrimSpace(n.Content(src))
	if i := strings.IndexAny(text, " \t\n"); i > 0 {
		text = text[:i]
	}
	return text
}

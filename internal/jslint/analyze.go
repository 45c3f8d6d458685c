package jslint

import (
	sitter "github.com/smacker/go-tree-sitter"

	"scriptlint/internal/source"
)

// analysis is the scope model of one program.
type analysis struct {
	global *scope
	// implicit holds unresolved plain assignments made in sloppy code,
	// ordered by their first write.
	implicit []*variable
	comments []string
}

type write struct {
	name string
	node source.Span
	from *scope
}

type analyzer struct {
	src    []byte
	writes []write
}

func analyze(root *sitter.Node, src []byte) *analysis {
	a := &analyzer{src: src}
	global := newScope(scopeGlobal, nil, hasUseStrict(root, src))
	a.children(root, global)
	return a.finish(global, collectComments(root, src))
}

// finish resolves every recorded write against the scope chain it was made in.
func (a *analyzer) finish(global *scope, comments []string) *analysis {
	res := &analysis{global: global, comments: comments}
	byName := make(map[string]*variable)
	for _, w := range a.writes {
		if w.from.strict || w.from.resolve(w.name) {
			continue
		}
		v, ok := byName[w.name]
		if !ok {
			v = &variable{name: w.name}
			byName[w.name] = v
			res.implicit = append(res.implicit, v)
		}
		v.defs = append(v.defs, definition{kind: defImplicit, node: w.node})
	}
	return res
}

func (a *analyzer) text(n *sitter.Node) string {
	return n.Content(a.src)
}

func (a *analyzer) children(n *sitter.Node, sc *scope) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		a.walk(n.NamedChild(i), sc)
	}
}

func (a *analyzer) walk(n *sitter.Node, sc *scope) {
	if n == nil {
		return
	}
	switch n.Type() {
	case "comment":
		return

	case "function_declaration", "generator_function_declaration":
		if name := n.ChildByFieldName("name"); name != nil {
			sc.declare(a.text(name), definition{kind: defFunctionName, node: spanOf(n)})
		}
		a.function(n, sc)

	case "function", "function_expression", "generator_function", "arrow_function", "method_definition":
		a.function(n, sc)

	case "class_declaration", "class":
		a.class(n, sc)

	case "class_static_block":
		a.children(n, newScope(scopeFunction, sc, true))

	case "variable_declaration":
		a.declarations(n, sc, sc.variableScope(), defVar)

	case "lexical_declaration":
		a.declarations(n, sc, sc, defLexical)

	case "statement_block", "switch_body":
		a.children(n, newScope(scopeBlock, sc, sc.strict))

	case "for_statement":
		a.children(n, newScope(scopeBlock, sc, sc.strict))

	case "for_in_statement":
		a.forIn(n, sc)

	case "catch_clause":
		cs := newScope(scopeCatch, sc, sc.strict)
		if p := n.ChildByFieldName("parameter"); p != nil {
			a.declarePattern(p, cs, cs, defCatchClause, spanOf(p))
		}
		a.walk(n.ChildByFieldName("body"), cs)

	case "assignment_expression":
		a.assign(n.ChildByFieldName("left"), sc, spanOf(n))
		a.walk(n.ChildByFieldName("right"), sc)

	default:
		a.children(n, sc)
	}
}

// function opens the scope of any function-like node and walks it.
func (a *analyzer) function(n *sitter.Node, outer *scope) {
	body := n.ChildByFieldName("body")
	strict := outer.strict
	if body != nil && body.Type() == "statement_block" && hasUseStrict(body, a.src) {
		strict = true
	}
	fs := newScope(scopeFunction, outer, strict)

	switch n.Type() {
	case "function", "function_expression", "generator_function":
		if name := n.ChildByFieldName("name"); name != nil {
			fs.declare(a.text(name), definition{kind: defFunctionExprName, node: spanOf(n)})
		}
	case "method_definition":
		if name := n.ChildByFieldName("name"); name != nil && name.Type() == "computed_property_name" {
			a.walk(name, outer)
		}
	}
	if n.Type() != "arrow_function" {
		fs.declare("arguments", definition{kind: defParameter, node: spanOf(n)})
	}

	if p := n.ChildByFieldName("parameter"); p != nil {
		a.declarePattern(p, fs, fs, defParameter, spanOf(p))
	}
	if params := n.ChildByFieldName("parameters"); params != nil {
		for i := 0; i < int(params.NamedChildCount()); i++ {
			p := params.NamedChild(i)
			a.declarePattern(p, fs, fs, defParameter, spanOf(p))
		}
	}

	if body == nil {
		return
	}
	if body.Type() == "statement_block" {
		a.children(body, fs)
		return
	}
	a.walk(body, fs)
}

// class bodies are always strict.
func (a *analyzer) class(n *sitter.Node, outer *scope) {
	name := n.ChildByFieldName("name")
	if name != nil && n.Type() == "class_declaration" {
		outer.declare(a.text(name), definition{kind: defClassName, node: spanOf(n)})
	}
	cs := newScope(scopeClass, outer, true)
	if name != nil && n.Type() == "class" {
		cs.declare(a.text(name), definition{kind: defClassName, node: spanOf(n)})
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if name != nil && sameNode(c, name) {
			continue
		}
		a.walk(c, cs)
	}
}

// declarations handles var/let/const. Names go to target, initializers are
// evaluated in sc.
func (a *analyzer) declarations(n *sitter.Node, sc, target *scope, kind defKind) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		d := n.NamedChild(i)
		if d.Type() != "variable_declarator" {
			a.walk(d, sc)
			continue
		}
		if name := d.ChildByFieldName("name"); name != nil {
			a.declarePattern(name, sc, target, kind, spanOf(d))
		}
		a.walk(d.ChildByFieldName("value"), sc)
	}
}

func (a *analyzer) declarePattern(p *sitter.Node, sc, target *scope, kind defKind, report source.Span) {
	visitPattern(p,
		func(id *sitter.Node) { target.declare(a.text(id), definition{kind: kind, node: report}) },
		func(expr *sitter.Node) { a.walk(expr, sc) },
	)
}

// assign records the identifier targets of a plain assignment.
func (a *analyzer) assign(target *sitter.Node, sc *scope, report source.Span) {
	if target == nil {
		return
	}
	if target.Type() == "parenthesized_expression" {
		for i := 0; i < int(target.NamedChildCount()); i++ {
			if c := target.NamedChild(i); c.Type() != "comment" {
				a.assign(c, sc, report)
				return
			}
		}
		return
	}
	visitPattern(target,
		func(id *sitter.Node) { a.writes = append(a.writes, write{name: a.text(id), node: report, from: sc}) },
		func(expr *sitter.Node) { a.walk(expr, sc) },
	)
}

// forIn covers for-in and for-of. A left side without a declaration kind is
// an assignment target.
func (a *analyzer) forIn(n *sitter.Node, outer *scope) {
	ls := newScope(scopeBlock, outer, outer.strict)
	left := n.ChildByFieldName("left")
	kind := n.ChildByFieldName("kind")

	switch {
	case left == nil:
	case kind != nil:
		target, dk := ls, defLexical
		if kind.Type() == "var" {
			target, dk = outer.variableScope(), defVar
		}
		a.declarePattern(left, ls, target, dk, source.Span{Start: kind.StartByte(), End: left.EndByte()})
	case left.Type() == "variable_declaration" || left.Type() == "lexical_declaration":
		a.walk(left, ls)
	default:
		a.assign(left, ls, spanOf(n))
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if left != nil && sameNode(c, left) {
			continue
		}
		a.walk(c, ls)
	}
}

// visitPattern calls onName for every binding identifier in a pattern and
// onExpr for everything evaluated as an expression (defaults, computed keys,
// member targets).
func visitPattern(n *sitter.Node, onName, onExpr func(*sitter.Node)) {
	if n == nil {
		return
	}
	switch n.Type() {
	case "identifier", "shorthand_property_identifier_pattern", "undefined":
		onName(n)
	case "comment":
	case "object_pattern", "array_pattern", "rest_pattern":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			visitPattern(n.NamedChild(i), onName, onExpr)
		}
	case "pair_pattern":
		if key := n.ChildByFieldName("key"); key != nil && key.Type() == "computed_property_name" {
			onExpr(key)
		}
		visitPattern(n.ChildByFieldName("value"), onName, onExpr)
	case "assignment_pattern", "object_assignment_pattern":
		visitPattern(n.ChildByFieldName("left"), onName, onExpr)
		if right := n.ChildByFieldName("right"); right != nil {
			onExpr(right)
		}
	default:
		onExpr(n)
	}
}

// hasUseStrict reports a "use strict" directive in the prologue of a program
// or function body.
func hasUseStrict(n *sitter.Node, src []byte) bool {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() == "comment" {
			continue
		}
		if c.Type() != "expression_statement" || c.NamedChildCount() != 1 {
			return false
		}
		lit := c.NamedChild(0)
		if lit.Type() != "string" {
			return false
		}
		if s := lit.Content(src); len(s) >= 2 && s[1:len(s)-1] == "use strict" {
			return true
		}
	}
	return false
}

func collectComments(root *sitter.Node, src []byte) []string {
	var out []string
	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		if n.Type() == "comment" {
			out = append(out, n.Content(src))
			return
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			visit(n.NamedChild(i))
		}
	}
	visit(root)
	return out
}

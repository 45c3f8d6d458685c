package jslint

import (
	sitter "github.com/smacker/go-tree-sitter"

	"scriptlint/internal/source"
)

type scopeKind uint8

const (
	scopeGlobal scopeKind = iota
	scopeFunction
	scopeBlock
	scopeCatch
	scopeClass
)

type defKind uint8

const (
	defVar defKind = iota
	defFunctionName
	defFunctionExprName
	defLexical
	defClassName
	defParameter
	defCatchClause
	defImplicit
)

// definition ties a variable to the node a finding about it points at.
type definition struct {
	kind defKind
	node source.Span
}

type variable struct {
	name string
	defs []definition
}

type scope struct {
	kind   scopeKind
	parent *scope
	strict bool
	vars   map[string]*variable
	order  []*variable
}

func newScope(kind scopeKind, parent *scope, strict bool) *scope {
	return &scope{kind: kind, parent: parent, strict: strict, vars: make(map[string]*variable)}
}

func (s *scope) declare(name string, def definition) {
	v, ok := s.vars[name]
	if !ok {
		v = &variable{name: name}
		s.vars[name] = v
		s.order = append(s.order, v)
	}
	v.defs = append(v.defs, def)
}

// variableScope is where a var declaration in s is hoisted to.
func (s *scope) variableScope() *scope {
	c := s
	for c.kind != scopeGlobal && c.kind != scopeFunction {
		c = c.parent
	}
	return c
}

func (s *scope) resolve(name string) bool {
	for c := s; c != nil; c = c.parent {
		if _, ok := c.vars[name]; ok {
			return true
		}
	}
	return false
}

func spanOf(n *sitter.Node) source.Span {
	return source.Span{Start: n.StartByte(), End: n.EndByte()}
}

func sameNode(a, b *sitter.Node) bool {
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}

// Package scope synthesizes the permitted-globals environment of a lint pass.
//
// Scripts in the export rely on identifiers defined only by convention: the
// names of library scripts and a fixed set of host-provided handles. An
// Environment declares those identifiers to the linter with an access level,
// so that only genuine implicit globals are reported.
package scope

import (
	"fmt"
	"sort"
)

// Access is the access level of a declared global.
type Access uint8

const (
	// Readonly globals may be read but not assigned or redeclared.
	Readonly Access = iota + 1
	// Writable globals may be assigned and redeclared freely.
	Writable
)

func (a Access) String() string {
	switch a {
	case Readonly:
		return "readonly"
	case Writable:
		return "writable"
	default:
		return "unknown"
	}
}

// Environment maps identifiers to their access level. It is never mutated
// after Build returns.
type Environment struct {
	entries map[string]Access
}

// Lookup reports whether name is declared and, if so, whether it is writable.
func (e Environment) Lookup(name string) (writable, ok bool) {
	a, ok := e.entries[name]
	return a == Writable, ok
}

// Access returns the access level of name, or 0 when undeclared.
func (e Environment) Access(name string) Access {
	return e.entries[name]
}

// Len returns the number of declared identifiers.
func (e Environment) Len() int {
	return len(e.entries)
}

// Names returns the declared identifiers sorted lexically.
func (e Environment) Names() []string {
	names := make([]string, 0, len(e.entries))
	for name := range e.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Writable returns the writable identifiers sorted lexically.
func (e Environment) Writable() []string {
	var out []string
	for _, name := range e.Names() {
		if e.entries[name] == Writable {
			out = append(out, name)
		}
	}
	return out
}

// Equal reports whether both environments declare the same identifiers with
// the same access levels.
func (e Environment) Equal(other Environment) bool {
	if len(e.entries) != len(other.entries) {
		return false
	}
	for name, a := range e.entries {
		if other.entries[name] != a {
			return false
		}
	}
	return true
}

func (e Environment) String() string {
	return fmt.Sprintf("scope(%d globals, %d writable)", e.Len(), len(e.Writable()))
}

// Package record models the script records of a platform metadata export.
//
// Two kinds of records are analyzed: library scripts, reusable units callable
// by name from other scripts, and trigger scripts bound to an event or flow.
// Records are loaded once per run and never mutated afterwards.
package record

import "fmt"

// Kind distinguishes library scripts from trigger scripts.
type Kind uint8

const (
	// KindLibrary is a reusable script callable by its name.
	KindLibrary Kind = iota + 1
	// KindTrigger is a script bound to an event rather than a callable name.
	KindTrigger
)

func (k Kind) String() string {
	switch k {
	case KindLibrary:
		return "library"
	case KindTrigger:
		return "trigger"
	default:
		return "unknown"
	}
}

// ParseKind converts a string to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "library", "include", "script_include":
		return KindLibrary, nil
	case "trigger", "rule", "business_rule":
		return KindTrigger, nil
	default:
		return 0, fmt.Errorf("invalid record kind: %q (expected: library|trigger)", s)
	}
}

// Record is one analyzed script unit. Fields beyond Name, Script, CreatedBy
// and UpdatedBy are carried for reporting and otherwise ignored.
type Record struct {
	Name      string `json:"name"`
	Script    string `json:"script"`
	CreatedBy string `json:"sys_created_by"`
	UpdatedBy string `json:"sys_updated_by"`

	SysID      string `json:"sys_id,omitempty"`
	Active     string `json:"active,omitempty"`
	APIName    string `json:"api_name,omitempty"`
	Collection string `json:"collection,omitempty"`
	UpdatedOn  string `json:"sys_updated_on,omitempty"`
}

// HasScript reports whether the record carries any source text.
func (r Record) HasScript() bool {
	return r.Script != ""
}

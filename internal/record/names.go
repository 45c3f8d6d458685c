package record

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDuplicateName is returned by NameSet.Err when two records share a name.
var ErrDuplicateName = errors.New("duplicate record name")

// Duplicate describes a name carried by more than one record.
type Duplicate struct {
	Name  string
	Count int
}

// NameSet is the immutable snapshot of record names taken once per run.
// The first occurrence of a name wins; later ones are reported as duplicates.
type NameSet struct {
	names      []string
	index      map[string]int
	duplicates []Duplicate
}

// Names builds a NameSet in enumeration order.
func Names(records []Record) *NameSet {
	ns := &NameSet{
		names: make([]string, 0, len(records)),
		index: make(map[string]int, len(records)),
	}
	counts := make(map[string]int)
	for _, r := range records {
		if r.Name == "" {
			continue
		}
		counts[r.Name]++
		if _, ok := ns.index[r.Name]; ok {
			continue
		}
		ns.index[r.Name] = len(ns.names)
		ns.names = append(ns.names, r.Name)
	}
	for _, name := range ns.names {
		if c := counts[name]; c > 1 {
			ns.duplicates = append(ns.duplicates, Duplicate{Name: name, Count: c})
		}
	}
	return ns
}

// List returns the names in first-occurrence order. Do not modify the slice.
func (ns *NameSet) List() []string {
	return ns.names
}

// Len returns the number of distinct names.
func (ns *NameSet) Len() int {
	return len(ns.names)
}

// Has reports whether name belongs to the set.
func (ns *NameSet) Has(name string) bool {
	_, ok := ns.index[name]
	return ok
}

// Duplicates lists names seen more than once, in first-occurrence order.
func (ns *NameSet) Duplicates() []Duplicate {
	return ns.duplicates
}

// Err returns an ErrDuplicateName error naming every duplicate, or nil.
func (ns *NameSet) Err() error {
	if len(ns.duplicates) == 0 {
		return nil
	}
	parts := make([]string, 0, len(ns.duplicates))
	for _, d := range ns.duplicates {
		parts = append(parts, fmt.Sprintf("%s (x%d)", d.Name, d.Count))
	}
	return fmt.Errorf("%w: %s", ErrDuplicateName, strings.Join(parts, ", "))
}

// FirstOfEach keeps the first record of every name and drops later records
// that repeat it. Unnamed records pass through.
func FirstOfEach(records []Record) []Record {
	seen := make(map[string]struct{}, len(records))
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if r.Name != "" {
			if _, dup := seen[r.Name]; dup {
				continue
			}
			seen[r.Name] = struct{}{}
		}
		out = append(out, r)
	}
	return out
}

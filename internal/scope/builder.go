package scope

// DefaultHostGlobals are the host-provided handles every script may read:
// the current and previous record, logging, web services and data access.
var DefaultHostGlobals = []string{
	"current",
	"previous",
	"sn_ws",
	"GlideRecord",
	"gs",
	"Class",
	"GlideAggregate",
	"GlideFilter",
	"GlideElement",
	"GlideDateTime",
	"global",
}

// Builder derives per-record environments from one immutable snapshot of the
// library names, taken once per run.
type Builder struct {
	host    []string
	library []string
}

// NewBuilder snapshots the library names and host globals. Empty names are
// dropped; the input slices are copied.
func NewBuilder(libraryNames, host []string) *Builder {
	b := &Builder{
		host:    make([]string, 0, len(host)),
		library: make([]string, 0, len(libraryNames)),
	}
	for _, name := range host {
		if name != "" {
			b.host = append(b.host, name)
		}
	}
	for _, name := range libraryNames {
		if name != "" {
			b.library = append(b.library, name)
		}
	}
	return b
}

// LibraryNames returns the snapshot of library names. Do not modify the slice.
func (b *Builder) LibraryNames() []string {
	return b.library
}

// Build returns the environment for the record named self.
//
// Host globals are always readonly. For a library record every other library
// name is readonly and self is writable, so the script may assign its own
// declared name. For a trigger record every library name is readonly and self
// is not injected.
func (b *Builder) Build(self string, isLibrary bool) Environment {
	entries := make(map[string]Access, len(b.host)+len(b.library)+1)
	for _, name := range b.host {
		entries[name] = Readonly
	}
	for _, name := range b.library {
		if isLibrary && name == self {
			continue
		}
		entries[name] = Readonly
	}
	if isLibrary && self != "" {
		entries[self] = Writable
	}
	return Environment{entries: entries}
}

package source

type (
	// FileFlags encodes metadata about an evaluated source text.
	FileFlags uint8 // метаданные
)

const (
	// FileHadBOM indicates a leading UTF-8 BOM was stripped.
	FileHadBOM FileFlags = 1 << iota
	FileNormalizedCRLF
	FileExpandedTabs
)

// File captures the exact text a lint pass evaluated for one record.
type File struct {
	Name    string
	Content []byte
	LineIdx []uint32 // byte offsets of every '\n'
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol represents a human-readable position in a source text.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based, counted in code points
}

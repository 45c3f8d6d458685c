package source

import (
	"crypto/sha256"
	"strings"
)

// NewFile stores content as-is, computes LineIdx and Hash.
func NewFile(name string, content []byte, flags FileFlags) *File {
	return &File{
		Name:    name,
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	}
}

// Prepare builds the text a lint pass evaluates for a script: BOM stripped,
// CRLF normalized, tabs expanded to four spaces.
func Prepare(name, script string) *File {
	content, hadBOM := removeBOM([]byte(script))
	content, hadCRLF := normalizeCRLF(content)

	flags := FileFlags(0)
	if hadBOM {
		flags |= FileHadBOM
	}
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	text := string(content)
	if expanded := ExpandTabs(text); expanded != text {
		flags |= FileExpandedTabs
		text = expanded
	}
	return NewFile(name, []byte(text), flags)
}

// Text returns the content as a string.
func (f *File) Text() string {
	if f == nil {
		return ""
	}
	return string(f.Content)
}

// LineCount returns the number of lines, a trailing newline opens an empty last line.
func (f *File) LineCount() int {
	return len(f.LineIdx) + 1
}

// Lines splits the content on '\n'.
func (f *File) Lines() []string {
	return strings.Split(string(f.Content), "\n")
}

// Position converts a byte offset into a line and a code point column.
func (f *File) Position(off uint32) LineCol {
	if lenContent := uint32(len(f.Content)); off > lenContent {
		off = lenContent
	}
	line := lineOf(f.LineIdx, off)
	start := lineStart(f.LineIdx, line)
	return LineCol{Line: uint32(line + 1), Col: runeCol(f.Content, start, off)}
}

// Resolve converts a span into line and column positions.
func (f *File) Resolve(span Span) (start, end LineCol) {
	return f.Position(span.Start), f.Position(span.End)
}

package source

import (
	"bytes"
	"slices"
	"strings"
	"unicode/utf8"
)

// tabWidth is the number of spaces a tab expands to before linting.
const tabWidth = 4

// ExpandTabs replaces every tab with four spaces. Applying it twice is a no-op.
func ExpandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

// normalizeCRLF заменяет все \r\n на \n, не трогая одиночные \r.
// Возвращает новый слайс и флаг: были ли замены (true, если хотя бы одна).
func normalizeCRLF(content []byte) ([]byte, bool) {
	// Быстрый путь: если нет \r, возвращаем как есть.
	if !slices.Contains(content, '\r') {
		return content, false
	}

	out := make([]byte, 0, len(content))
	changed := false

	i := 0
	for i < len(content) {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			out = append(out, '\n')
			i += 2
			changed = true
		} else {
			out = append(out, content[i])
			i++
		}
	}
	return out, changed
}

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) < 3 {
		return content, false
	}

	if content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}

	return content, false
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, bytes.Count(content, []byte{'\n'}))
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i))
		}
	}
	return out
}

// lineStart returns the byte offset of the first byte of the 0-based line.
func lineStart(lineIdx []uint32, line int) uint32 {
	if line <= 0 {
		return 0
	}
	return lineIdx[line-1] + 1
}

// lineOf returns the 0-based line containing off.
func lineOf(lineIdx []uint32, off uint32) int {
	// бинпоиск: количество переводов строки строго до off
	lo, hi := 0, len(lineIdx)
	for lo < hi {
		mid := (lo + hi) >> 1
		if lineIdx[mid] < off {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

func runeCol(content []byte, start, off uint32) uint32 {
	return uint32(utf8.RuneCount(content[start:off])) + 1
}

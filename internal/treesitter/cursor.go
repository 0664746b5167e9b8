package treesitter

import "bytes"

// accessKind describes what precedes the identifier being completed.
type accessKind int

const (
	accessNone accessKind = iota
	accessMember
	accessScope
)

// byteOffset converts a 1-based line and byte column into an offset into
// src. Columns past the end of the line clamp to the line end.
func byteOffset(src []byte, line, column int) int {
	if line < 1 {
		line = 1
	}
	if column < 1 {
		column = 1
	}
	start := 0
	for l := 1; l < line; l++ {
		next := bytes.IndexByte(src[start:], '\n')
		if next < 0 {
			return len(src)
		}
		start += next + 1
	}
	end := start + bytes.IndexByte(src[start:], '\n')
	if end < start {
		end = len(src)
	}
	offset := start + column - 1
	if offset > end {
		offset = end
	}
	return offset
}

func isIdentByte(b byte) bool {
	return b == '_' || b == '$' ||
		('a' <= b && b <= 'z') ||
		('A' <= b && b <= 'Z') ||
		('0' <= b && b <= '9')
}

// prefixAt returns the partial identifier ending at offset and what kind of
// access precedes it.
func prefixAt(src []byte, offset int) (string, accessKind) {
	start := offset
	for start > 0 && isIdentByte(src[start-1]) {
		start--
	}
	prefix := string(src[start:offset])

	i := start
	for i > 0 && (src[i-1] == ' ' || src[i-1] == '\t') {
		i--
	}
	switch {
	case i >= 1 && src[i-1] == '.':
		return prefix, accessMember
	case i >= 2 && src[i-2] == '-' && src[i-1] == '>':
		return prefix, accessMember
	case i >= 2 && src[i-2] == ':' && src[i-1] == ':':
		return prefix, accessScope
	}
	return prefix, accessNone
}

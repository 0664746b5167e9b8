// Package textbuf provides fixed-capacity text fields for completion records.
package textbuf

import "unicode/utf8"

const (
	// ShortCapacity bounds the abbr, word and menu fields of a completion record.
	ShortCapacity = 128
	// InfoCapacity bounds the documentation field of a completion record.
	InfoCapacity = 1024
)

// Field is a byte buffer that never grows past its capacity. Appends that do
// not fit are truncated silently, always on a UTF-8 boundary.
type Field struct {
	data     []byte
	capacity int
}

// NewField returns an empty field holding at most capacity bytes.
func NewField(capacity int) Field {
	if capacity < 0 {
		capacity = 0
	}
	return Field{data: make([]byte, 0, capacity), capacity: capacity}
}

// Append copies as much of text as fits and returns the number of bytes
// written. Appending an empty string is a no-op.
func (f *Field) Append(text string) int {
	room := f.capacity - len(f.data)
	if room <= 0 || text == "" {
		return 0
	}
	if len(text) > room {
		text = text[:runeBoundary(text, room)]
	}
	f.data = append(f.data, text...)
	return len(text)
}

// String returns exactly the bytes written so far.
func (f Field) String() string {
	return string(f.data)
}

// Len returns the number of bytes written.
func (f Field) Len() int {
	return len(f.data)
}

// Cap returns the field capacity in bytes.
func (f Field) Cap() int {
	return f.capacity
}

// Full reports whether no further byte fits.
func (f Field) Full() bool {
	return len(f.data) >= f.capacity
}

// Reset empties the field, keeping its capacity.
func (f *Field) Reset() {
	f.data = f.data[:0]
}

// runeBoundary returns the largest n <= limit such that s[:n] does not end
// inside a multi-byte sequence.
func runeBoundary(s string, limit int) int {
	n := limit
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return n
}

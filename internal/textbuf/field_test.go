package textbuf

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestAppendFitsExactly(t *testing.T) {
	f := NewField(ShortCapacity)
	if n := f.Append("foo"); n != 3 {
		t.Fatalf("expected 3 bytes written, got %d", n)
	}
	if n := f.Append("()"); n != 2 {
		t.Fatalf("expected 2 bytes written, got %d", n)
	}
	if got := f.String(); got != "foo()" {
		t.Fatalf("expected foo(), got %q", got)
	}
}

func TestAppendNeverExceedsCapacity(t *testing.T) {
	for _, capacity := range []int{0, 1, 2, 7, ShortCapacity, InfoCapacity} {
		f := NewField(capacity)
		total := 0
		for i := 0; i < 50; i++ {
			total += f.Append(strings.Repeat("x", i))
			if f.Len() > capacity {
				t.Fatalf("capacity %d: field grew to %d bytes", capacity, f.Len())
			}
		}
		if total != f.Len() {
			t.Fatalf("capacity %d: reported %d bytes, field holds %d", capacity, total, f.Len())
		}
		if capacity > 0 && !f.Full() {
			t.Fatalf("capacity %d: expected field to be full", capacity)
		}
	}
}

func TestAppendTruncatesOnRuneBoundary(t *testing.T) {
	f := NewField(5)
	f.Append("ab")
	n := f.Append("ü€") // 2 + 3 bytes, only ü fits
	if n != 2 {
		t.Fatalf("expected 2 bytes written, got %d", n)
	}
	if !utf8.ValidString(f.String()) {
		t.Fatalf("field holds invalid utf-8: %q", f.String())
	}
	if f.String() != "abü" {
		t.Fatalf("expected abü, got %q", f.String())
	}
}

func TestAppendEmptyIsNoop(t *testing.T) {
	f := NewField(4)
	f.Append("abcd")
	if n := f.Append(""); n != 0 {
		t.Fatalf("expected no bytes written, got %d", n)
	}
	if f.String() != "abcd" {
		t.Fatalf("unexpected field content %q", f.String())
	}
}

func TestResetKeepsCapacity(t *testing.T) {
	f := NewField(3)
	f.Append("abcdef")
	f.Reset()
	if f.Len() != 0 || f.Cap() != 3 {
		t.Fatalf("unexpected field after reset len=%d cap=%d", f.Len(), f.Cap())
	}
	f.Append("xyz1")
	if f.String() != "xyz" {
		t.Fatalf("expected xyz, got %q", f.String())
	}
}

// Package complete translates engine completion results into editor records.
package complete

import (
	"github.com/ideclang/ideclang/internal/textbuf"
)

// Record is one editor-facing completion item.
type Record struct {
	Abbr     textbuf.Field // kind keyword or result type
	Word     textbuf.Field // text to insert, placeholders wrapped in <# #>
	Menu     textbuf.Field // same as Word with placeholders unwrapped
	Info     textbuf.Field // brief documentation comment
	Kind     byte          // category tag, 0 when unclassified
	Priority uint
}

// NewRecord returns an empty record with bounded fields.
func NewRecord() Record {
	return Record{
		Abbr: textbuf.NewField(textbuf.ShortCapacity),
		Word: textbuf.NewField(textbuf.ShortCapacity),
		Menu: textbuf.NewField(textbuf.ShortCapacity),
		Info: textbuf.NewField(textbuf.InfoCapacity),
	}
}

// KindString returns the tag as a one-character string, or "" if unset.
func (r Record) KindString() string {
	if r.Kind == 0 {
		return ""
	}
	return string(r.Kind)
}

// Item is the plain form of a Record used for JSON output.
type Item struct {
	Kind     string `json:"kind"`
	Abbr     string `json:"abbr"`
	Word     string `json:"word"`
	Menu     string `json:"menu"`
	Info     string `json:"info,omitempty"`
	Priority uint   `json:"priority,omitempty"`
}

// Item copies the record's fields into plain strings.
func (r Record) Item() Item {
	return Item{
		Kind:     r.KindString(),
		Abbr:     r.Abbr.String(),
		Word:     r.Word.String(),
		Menu:     r.Menu.String(),
		Info:     r.Info.String(),
		Priority: r.Priority,
	}
}

// Sink receives finished records in engine order.
type Sink func(Record)

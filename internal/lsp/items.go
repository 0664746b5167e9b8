package lsp

import (
	"fmt"
	"strconv"
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/ideclang/ideclang/internal/complete"
)

// completionItem maps a record onto the LSP shape. index keeps engine order
// stable in SortText.
func completionItem(r complete.Record, index int) protocol.CompletionItem {
	label := r.Menu.String()
	word := r.Word.String()
	abbr := r.Abbr.String()

	item := protocol.CompletionItem{
		Label:      label,
		Kind:       itemKind(r.Kind, abbr, word),
		SortText:   ptr(fmt.Sprintf("%05d%05d", r.Priority, index)),
		FilterText: ptr(typedPrefix(word)),
	}
	if abbr != "" {
		item.Detail = ptr(abbr)
	}
	if info := r.Info.String(); info != "" {
		item.Documentation = protocol.MarkupContent{Kind: protocol.MarkupKindPlainText, Value: info}
	}
	if snippet, ok := toSnippet(word); ok {
		item.InsertText = ptr(snippet)
		format := protocol.InsertTextFormatSnippet
		item.InsertTextFormat = &format
	} else {
		item.InsertText = ptr(word)
		format := protocol.InsertTextFormatPlainText
		item.InsertTextFormat = &format
	}
	return item
}

func itemKind(tag byte, abbr, word string) *protocol.CompletionItemKind {
	var kind protocol.CompletionItemKind
	switch tag {
	case 't':
		switch {
		case strings.HasPrefix(abbr, "struct"), strings.HasPrefix(abbr, "union"):
			kind = protocol.CompletionItemKindStruct
		case strings.HasPrefix(abbr, "enum"):
			kind = protocol.CompletionItemKindEnum
		default:
			kind = protocol.CompletionItemKindClass
		}
	case 'f':
		kind = protocol.CompletionItemKindFunction
	case 'm':
		if strings.Contains(word, "(") {
			kind = protocol.CompletionItemKindMethod
		} else {
			kind = protocol.CompletionItemKindField
		}
	case 'v', 's':
		kind = protocol.CompletionItemKindVariable
	case 'p':
		kind = protocol.CompletionItemKindTypeParameter
	case 'D':
		kind = protocol.CompletionItemKindKeyword
	case 'M':
		kind = protocol.CompletionItemKindConstant
	default:
		kind = protocol.CompletionItemKindText
	}
	return &kind
}

// toSnippet rewrites <#placeholder#> markers as numbered snippet tab stops.
// It reports false when word has no placeholders.
func toSnippet(word string) (string, bool) {
	if !strings.Contains(word, "<#") {
		return word, false
	}
	var b strings.Builder
	n := 0
	rest := word
	for {
		open := strings.Index(rest, "<#")
		if open < 0 {
			b.WriteString(escapeSnippet(rest))
			break
		}
		end := strings.Index(rest[open+2:], "#>")
		if end < 0 {
			b.WriteString(escapeSnippet(rest))
			break
		}
		b.WriteString(escapeSnippet(rest[:open]))
		n++
		b.WriteString("${" + strconv.Itoa(n) + ":")
		b.WriteString(escapeSnippet(rest[open+2 : open+2+end]))
		b.WriteString("}")
		rest = rest[open+2+end+2:]
	}
	return b.String(), n > 0
}

var snippetEscaper = strings.NewReplacer(`\`, `\\`, `$`, `\$`, `}`, `\}`)

func escapeSnippet(s string) string { return snippetEscaper.Replace(s) }

// typedPrefix is the identifier the client filters against.
func typedPrefix(word string) string {
	if i := strings.IndexAny(word, "(<["); i > 0 {
		return word[:i]
	}
	return word
}

func ptr[T any](v T) *T {
	return &v
}

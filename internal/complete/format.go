package complete

import "github.com/ideclang/ideclang/internal/clang"

const (
	placeholderOpen  = "<#"
	placeholderClose = "#>"
)

// FormatChunk appends one chunk to the record. Chunk kinds without a rule
// leave the record untouched.
func FormatChunk(r *Record, chunk clang.Chunk) {
	switch chunk.Kind {
	case clang.ChunkTypedText, clang.ChunkText:
		r.Word.Append(chunk.Text)
		r.Menu.Append(chunk.Text)
	case clang.ChunkResultType:
		r.Abbr.Append(chunk.Text)
	case clang.ChunkPlaceholder:
		r.Word.Append(placeholderOpen)
		r.Word.Append(chunk.Text)
		r.Word.Append(placeholderClose)
		r.Menu.Append(chunk.Text)
	case clang.ChunkLeftParen, clang.ChunkRightParen,
		clang.ChunkLeftBracket, clang.ChunkRightBracket,
		clang.ChunkLeftBrace, clang.ChunkRightBrace,
		clang.ChunkLeftAngle, clang.ChunkRightAngle,
		clang.ChunkComma, clang.ChunkColon, clang.ChunkSemiColon,
		clang.ChunkEqual, clang.ChunkHorizontalSpace, clang.ChunkVerticalSpace:
		r.Word.Append(chunk.Text)
		r.Menu.Append(chunk.Text)
	}
}

package complete

import "github.com/ideclang/ideclang/internal/clang"

// Read builds one record from one engine result. Chunks are applied in the
// order the engine emitted them.
func Read(result clang.Result) Record {
	r := NewRecord()
	if tag, ok := KindTag(result.CursorKind); ok {
		r.Kind = tag
	}
	if keyword, ok := KindKeyword(result.CursorKind); ok {
		r.Abbr.Append(keyword)
	}
	for _, chunk := range result.Chunks {
		FormatChunk(&r, chunk)
	}
	r.Info.Append(result.BriefComment)
	r.Priority = result.Priority
	return r
}

// ReadAll feeds every result through Read and hands the records to sink in
// order. It returns the number of records produced.
func ReadAll(results clang.Results, sink Sink) int {
	if results == nil {
		return 0
	}
	n := results.Len()
	for i := 0; i < n; i++ {
		sink(Read(results.At(i)))
	}
	return n
}

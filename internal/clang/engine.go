// Package clang defines the boundary between the completion core and the
// analysis engine that parses C/C++ and answers completion queries.
package clang

import (
	"github.com/ideclang/ideclang/internal/errors"
)

// ErrParseFailed is returned by ParseUnit when the engine produced no unit.
var ErrParseFailed = errors.New("translation unit parse failed")

// UnsavedFile overrides the on-disk content of Filename for one call.
type UnsavedFile struct {
	Filename string
	Contents []byte
}

// Chunk is one labeled piece of a completion result.
type Chunk struct {
	Kind ChunkKind
	Text string
}

// Result is one completion candidate. It is only valid until the Results it
// came from is disposed; Text values are Go strings so they may be kept.
type Result struct {
	CursorKind   CursorKind
	Chunks       []Chunk
	Priority     uint
	BriefComment string
}

// Results is the ordered outcome of one completion query.
type Results interface {
	Len() int
	At(i int) Result
	Dispose()
}

// Unit is a parsed translation unit owned by the caller until Dispose.
// Units are not safe for concurrent use.
type Unit interface {
	// Reparse re-analyzes the unit in place. A nil unsaved slice re-reads
	// every file from disk.
	Reparse(unsaved []UnsavedFile, options TranslationOptions) error

	// CompleteAt runs a completion query at a 1-based line and byte column.
	// A nil Results with a nil error means the engine had nothing to offer.
	CompleteAt(path string, line, column int, unsaved []UnsavedFile, options CompletionOptions) (Results, error)

	Dispose()
}

// Engine creates units against one process-wide index.
type Engine interface {
	// Name identifies the engine in logs and doctor output.
	Name() string

	ParseUnit(path string, flags []string, options TranslationOptions) (Unit, error)

	// Dispose releases the index. Units must be disposed first.
	Dispose() error
}

// SliceResults adapts an in-memory slice to Results.
type SliceResults []Result

func (s SliceResults) Len() int        { return len(s) }
func (s SliceResults) At(i int) Result { return s[i] }
func (s SliceResults) Dispose()        {}

// Package clangtest provides an in-memory clang.Engine for tests.
package clangtest

import (
	"sync"

	"github.com/ideclang/ideclang/internal/clang"
)

// Query is one recorded CompleteAt call.
type Query struct {
	Path    string
	Line    int
	Column  int
	Unsaved []clang.UnsavedFile
	Options clang.CompletionOptions
}

// Engine is a fake engine that hands out Units and records what happens to
// them. Results and ParseErr control what callers see.
type Engine struct {
	mu sync.Mutex

	// Results is returned by every CompleteAt. Nil makes CompleteAt return
	// nil results.
	Results  clang.SliceResults
	ParseErr error
	QueryErr error

	Units    []*Unit
	Disposed int
}

// Unit records parses, queries and disposal for one path.
type Unit struct {
	engine *Engine

	Path         string
	Flags        []string
	Options      clang.TranslationOptions
	Reparses     int
	Disposed     int
	Queries      []Query
	ResultsFreed int
}

func (e *Engine) Name() string { return "fake" }

func (e *Engine) ParseUnit(path string, flags []string, options clang.TranslationOptions) (clang.Unit, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ParseErr != nil {
		return nil, e.ParseErr
	}
	u := &Unit{engine: e, Path: path, Flags: append([]string(nil), flags...), Options: options}
	e.Units = append(e.Units, u)
	return u, nil
}

func (e *Engine) Dispose() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Disposed++
	return nil
}

// UnitsFor returns every unit ever parsed for path.
func (e *Engine) UnitsFor(path string) []*Unit {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []*Unit
	for _, u := range e.Units {
		if u.Path == path {
			out = append(out, u)
		}
	}
	return out
}

func (u *Unit) Reparse(unsaved []clang.UnsavedFile, options clang.TranslationOptions) error {
	u.engine.mu.Lock()
	defer u.engine.mu.Unlock()
	u.Reparses++
	return nil
}

func (u *Unit) CompleteAt(path string, line, column int, unsaved []clang.UnsavedFile, options clang.CompletionOptions) (clang.Results, error) {
	u.engine.mu.Lock()
	defer u.engine.mu.Unlock()
	copied := make([]clang.UnsavedFile, len(unsaved))
	for i, f := range unsaved {
		copied[i] = clang.UnsavedFile{Filename: f.Filename, Contents: append([]byte(nil), f.Contents...)}
	}
	u.Queries = append(u.Queries, Query{Path: path, Line: line, Column: column, Unsaved: copied, Options: options})
	if u.engine.QueryErr != nil {
		return nil, u.engine.QueryErr
	}
	if u.engine.Results == nil {
		return nil, nil
	}
	return &results{unit: u, items: u.engine.Results}, nil
}

func (u *Unit) Dispose() {
	u.engine.mu.Lock()
	defer u.engine.mu.Unlock()
	u.Disposed++
}

type results struct {
	unit  *Unit
	items clang.SliceResults
}

func (r *results) Len() int              { return r.items.Len() }
func (r *results) At(i int) clang.Result { return r.items.At(i) }

func (r *results) Dispose() {
	r.unit.engine.mu.Lock()
	defer r.unit.engine.mu.Unlock()
	r.unit.ResultsFreed++
}

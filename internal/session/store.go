// Package session keeps one parsed unit per open file and answers
// completion queries against it.
package session

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/ideclang/ideclang/internal/clang"
	"github.com/ideclang/ideclang/internal/complete"
	"github.com/ideclang/ideclang/internal/logger"
)

// Store maps file paths to parsed units. It is not safe for concurrent use;
// callers serialize every call.
type Store struct {
	engine clang.Engine
	flags  []string
	units  map[string]clang.Unit
	log    *zap.SugaredLogger
	closed bool
}

// NewStore returns a store that parses every unit with the given flags. The
// flags are copied and stay fixed for the store's lifetime.
func NewStore(engine clang.Engine, flags []string) *Store {
	return &Store{
		engine: engine,
		flags:  append([]string(nil), flags...),
		units:  make(map[string]clang.Unit),
		log:    logger.Named("session"),
	}
}

// Flags returns a copy of the compiler flags applied to every parse.
func (s *Store) Flags() []string {
	return append([]string(nil), s.flags...)
}

// Open parses path unless a unit for it already exists. A failed parse is
// logged and leaves no entry, so a later Open retries.
func (s *Store) Open(path string) {
	if s.closed {
		return
	}
	if _, ok := s.units[path]; ok {
		return
	}
	unit, err := s.engine.ParseUnit(path, s.flags, clang.DefaultTranslationOptions)
	if err != nil {
		s.log.Warnw("parse failed", "path", path, "engine", s.engine.Name(), "error", err)
		return
	}
	if unit == nil {
		s.log.Warnw("parse produced no unit", "path", path, "engine", s.engine.Name())
		return
	}
	s.units[path] = unit
	recordUnitsOpen(context.Background(), 1)
	s.log.Debugw("opened", "path", path)
}

// Save re-analyzes the unit for path from disk. Unknown paths are ignored.
func (s *Store) Save(path string) {
	unit, ok := s.units[path]
	if !ok {
		return
	}
	if err := unit.Reparse(nil, clang.DefaultTranslationOptions); err != nil {
		s.log.Warnw("reparse failed", "path", path, "error", err)
		return
	}
	s.log.Debugw("reparsed", "path", path)
}

// Close disposes the unit for path. Unknown paths are ignored.
func (s *Store) Close(path string) {
	unit, ok := s.units[path]
	if !ok {
		return
	}
	delete(s.units, path)
	unit.Dispose()
	recordUnitsOpen(context.Background(), -1)
	s.log.Debugw("closed", "path", path)
}

// Has reports whether a unit is stored for path.
func (s *Store) Has(path string) bool {
	_, ok := s.units[path]
	return ok
}

// Paths returns the open paths in sorted order.
func (s *Store) Paths() []string {
	paths := make([]string, 0, len(s.units))
	for path := range s.units {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// FindCompletions queries the unit for path at a 1-based line and byte
// column, with content overlaying the file on disk, and hands every record to
// sink in engine order. It returns the number of records produced. Unknown
// paths and engine failures produce zero records.
func (s *Store) FindCompletions(path string, line, column int, content []byte, sink complete.Sink) int {
	unit, ok := s.units[path]
	if !ok {
		return 0
	}

	ctx, span := startCompletionSpan(context.Background(), path, line, column)
	defer span.End()
	start := time.Now()

	unsaved := []clang.UnsavedFile{{Filename: path, Contents: content}}
	results, err := unit.CompleteAt(path, line, column, unsaved, clang.DefaultCompletionOptions)
	if err != nil {
		s.log.Debugw("completion failed", "path", path, "line", line, "column", column, "error", err)
		recordCompletion(ctx, span, time.Since(start), 0, false)
		return 0
	}
	if results == nil {
		recordCompletion(ctx, span, time.Since(start), 0, true)
		return 0
	}
	defer results.Dispose()

	n := complete.ReadAll(results, sink)
	recordCompletion(ctx, span, time.Since(start), n, true)
	return n
}

// Teardown disposes every remaining unit and then the engine. Calling it
// again does nothing.
func (s *Store) Teardown() error {
	if s.closed {
		return nil
	}
	s.closed = true
	for _, path := range s.Paths() {
		s.units[path].Dispose()
		delete(s.units, path)
		recordUnitsOpen(context.Background(), -1)
	}
	return s.engine.Dispose()
}

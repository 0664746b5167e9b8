//go:build !cgo || !(linux || darwin)

package libclang

import (
	"github.com/ideclang/ideclang/internal/clang"
)

// Engine is unavailable in this build; Load always fails.
type Engine struct{}

// Load reports that libclang cannot be loaded without cgo.
func Load(path string) (*Engine, error) {
	return nil, loadError(path, "built without cgo support")
}

func (e *Engine) Name() string    { return "libclang" }
func (e *Engine) Path() string    { return "" }
func (e *Engine) Version() string { return "" }

func (e *Engine) ParseUnit(path string, flags []string, options clang.TranslationOptions) (clang.Unit, error) {
	return nil, ErrLoad
}

func (e *Engine) Dispose() error { return nil }

// Package libclang implements clang.Engine on top of a libclang shared
// library loaded at runtime.
package libclang

import (
	"github.com/ideclang/ideclang/internal/errors"
)

var (
	// ErrLoad marks failures to open the shared library.
	ErrLoad = errors.New("unable to load libclang")
	// ErrSymbol marks a library that lacks a required entry point.
	ErrSymbol = errors.New("libclang symbol missing")
)

// Symbols lists every entry point resolved at load time.
var Symbols = []string{
	"clang_createIndex",
	"clang_disposeIndex",
	"clang_parseTranslationUnit",
	"clang_reparseTranslationUnit",
	"clang_disposeTranslationUnit",
	"clang_codeCompleteAt",
	"clang_disposeCodeCompleteResults",
	"clang_getNumCompletionChunks",
	"clang_getCompletionChunkKind",
	"clang_getCompletionChunkText",
	"clang_getCompletionPriority",
	"clang_getCompletionBriefComment",
	"clang_getCString",
	"clang_disposeString",
	"clang_getClangVersion",
}

func loadError(path, reason string) error {
	err := errors.Wrapf(ErrLoad, "%s: %s", path, reason)
	return errors.WithHint(err, "set libclang.path in ideclang.toml or IDECLANG_LIBCLANG_PATH, or run `ideclang doctor`")
}

//go:build cgo && (linux || darwin)

package libclang

/*
#cgo linux LDFLAGS: -ldl
#include <dlfcn.h>
#include <stdlib.h>
#include <string.h>

typedef void* CXIndex;
typedef void* CXTranslationUnit;
typedef void* CXCompletionString;

typedef struct {
	const void* data;
	unsigned private_flags;
} CXString;

struct CXUnsavedFile {
	const char* Filename;
	const char* Contents;
	unsigned long Length;
};

typedef struct {
	int CursorKind;
	CXCompletionString CompletionString;
} CXCompletionResult;

typedef struct {
	CXCompletionResult* Results;
	unsigned NumResults;
} CXCodeCompleteResults;

// Order matches Symbols in libclang.go.
enum {
	IC_createIndex,
	IC_disposeIndex,
	IC_parseTranslationUnit,
	IC_reparseTranslationUnit,
	IC_disposeTranslationUnit,
	IC_codeCompleteAt,
	IC_disposeCodeCompleteResults,
	IC_getNumCompletionChunks,
	IC_getCompletionChunkKind,
	IC_getCompletionChunkText,
	IC_getCompletionPriority,
	IC_getCompletionBriefComment,
	IC_getCString,
	IC_disposeString,
	IC_getClangVersion,
	IC_COUNT
};

typedef struct {
	void* handle;
	void* sym[IC_COUNT];
} ic_api;

static void* ic_dlopen(const char* path) {
	return dlopen(path, RTLD_LAZY | RTLD_LOCAL);
}

static const char* ic_dlerror(void) {
	return dlerror();
}

static void* ic_dlsym(void* h, const char* name, char** err) {
	dlerror();
	void* p = dlsym(h, name);
	char* e = dlerror();
	if (e) { *err = e; return NULL; }
	*err = NULL;
	return p;
}

static void ic_set(ic_api* a, int i, void* p) { a->sym[i] = p; }

static char* ic_take(ic_api* a, CXString s) {
	const char* c = ((const char* (*)(CXString))a->sym[IC_getCString])(s);
	char* out = c ? strdup(c) : NULL;
	((void (*)(CXString))a->sym[IC_disposeString])(s);
	return out;
}

static CXIndex ic_createIndex(ic_api* a, int excludePCH, int diagnostics) {
	return ((CXIndex (*)(int, int))a->sym[IC_createIndex])(excludePCH, diagnostics);
}

static void ic_disposeIndex(ic_api* a, CXIndex idx) {
	((void (*)(CXIndex))a->sym[IC_disposeIndex])(idx);
}

static CXTranslationUnit ic_parse(ic_api* a, CXIndex idx, const char* path,
		char** args, int nargs, struct CXUnsavedFile* unsaved, unsigned nunsaved, unsigned opts) {
	return ((CXTranslationUnit (*)(CXIndex, const char*, const char* const*, int,
		struct CXUnsavedFile*, unsigned, unsigned))a->sym[IC_parseTranslationUnit])(
		idx, path, (const char* const*)args, nargs, unsaved, nunsaved, opts);
}

static int ic_reparse(ic_api* a, CXTranslationUnit tu, struct CXUnsavedFile* unsaved,
		unsigned nunsaved, unsigned opts) {
	return ((int (*)(CXTranslationUnit, unsigned, struct CXUnsavedFile*, unsigned))
		a->sym[IC_reparseTranslationUnit])(tu, nunsaved, unsaved, opts);
}

static void ic_disposeTU(ic_api* a, CXTranslationUnit tu) {
	((void (*)(CXTranslationUnit))a->sym[IC_disposeTranslationUnit])(tu);
}

static CXCodeCompleteResults* ic_complete(ic_api* a, CXTranslationUnit tu, const char* path,
		unsigned line, unsigned column, struct CXUnsavedFile* unsaved, unsigned nunsaved, unsigned opts) {
	return ((CXCodeCompleteResults* (*)(CXTranslationUnit, const char*, unsigned, unsigned,
		struct CXUnsavedFile*, unsigned, unsigned))a->sym[IC_codeCompleteAt])(
		tu, path, line, column, unsaved, nunsaved, opts);
}

static void ic_disposeResults(ic_api* a, CXCodeCompleteResults* r) {
	((void (*)(CXCodeCompleteResults*))a->sym[IC_disposeCodeCompleteResults])(r);
}

static unsigned ic_numResults(CXCodeCompleteResults* r) { return r->NumResults; }
static int ic_cursorKind(CXCodeCompleteResults* r, unsigned i) { return r->Results[i].CursorKind; }
static CXCompletionString ic_completionString(CXCodeCompleteResults* r, unsigned i) {
	return r->Results[i].CompletionString;
}

static unsigned ic_numChunks(ic_api* a, CXCompletionString cs) {
	return ((unsigned (*)(CXCompletionString))a->sym[IC_getNumCompletionChunks])(cs);
}

static int ic_chunkKind(ic_api* a, CXCompletionString cs, unsigned i) {
	return ((int (*)(CXCompletionString, unsigned))a->sym[IC_getCompletionChunkKind])(cs, i);
}

static char* ic_chunkText(ic_api* a, CXCompletionString cs, unsigned i) {
	return ic_take(a, ((CXString (*)(CXCompletionString, unsigned))a->sym[IC_getCompletionChunkText])(cs, i));
}

static unsigned ic_priority(ic_api* a, CXCompletionString cs) {
	return ((unsigned (*)(CXCompletionString))a->sym[IC_getCompletionPriority])(cs);
}

static char* ic_briefComment(ic_api* a, CXCompletionString cs) {
	return ic_take(a, ((CXString (*)(CXCompletionString))a->sym[IC_getCompletionBriefComment])(cs));
}

static char* ic_version(ic_api* a) {
	return ic_take(a, ((CXString (*)(void))a->sym[IC_getClangVersion])());
}
*/
import "C"

import (
	"unsafe"

	"github.com/ideclang/ideclang/internal/clang"
	"github.com/ideclang/ideclang/internal/errors"
)

// Engine owns one dlopen handle and one libclang index.
type Engine struct {
	api   *C.ic_api
	index C.CXIndex
	path  string
}

// Load opens the shared library at path, resolves every entry point and
// creates the process-wide index.
func Load(path string) (*Engine, error) {
	if len(Symbols) != int(C.IC_COUNT) {
		return nil, errors.Newf("libclang symbol table has %d entries, want %d", len(Symbols), int(C.IC_COUNT))
	}

	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	handle := C.ic_dlopen(cpath)
	if handle == nil {
		return nil, loadError(path, dlerr())
	}

	api := (*C.ic_api)(C.calloc(1, C.sizeof_ic_api))
	api.handle = handle
	for i, name := range Symbols {
		p, err := dlsym(handle, name)
		if err != nil {
			C.dlclose(handle)
			C.free(unsafe.Pointer(api))
			return nil, errors.WithHint(
				errors.Wrapf(ErrSymbol, "%s in %s: %v", name, path, err),
				"libclang is too old or not a libclang build",
			)
		}
		C.ic_set(api, C.int(i), p)
	}

	index := C.ic_createIndex(api, 1, 0)
	if index == nil {
		C.dlclose(handle)
		C.free(unsafe.Pointer(api))
		return nil, loadError(path, "clang_createIndex returned null")
	}
	return &Engine{api: api, index: index, path: path}, nil
}

func dlerr() string {
	if msg := C.ic_dlerror(); msg != nil {
		return C.GoString(msg)
	}
	return "unknown dlerror"
}

func dlsym(handle unsafe.Pointer, name string) (unsafe.Pointer, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	var cerr *C.char
	p := C.ic_dlsym(handle, cname, &cerr)
	if cerr != nil {
		return nil, errors.New(C.GoString(cerr))
	}
	if p == nil {
		return nil, errors.New("resolved to null")
	}
	return p, nil
}

func (e *Engine) Name() string { return "libclang" }

// Path returns the library the engine was loaded from.
func (e *Engine) Path() string { return e.path }

// Version returns libclang's own version string.
func (e *Engine) Version() string {
	if e.api == nil {
		return ""
	}
	return take(C.ic_version(e.api))
}

func (e *Engine) ParseUnit(path string, flags []string, options clang.TranslationOptions) (clang.Unit, error) {
	if e.api == nil {
		return nil, errors.New("libclang engine disposed")
	}
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	args, nargs, freeArgs := cStrings(flags)
	defer freeArgs()

	tu := C.ic_parse(e.api, e.index, cpath, args, nargs, nil, 0, C.uint(options))
	if tu == nil {
		return nil, errors.Wrapf(clang.ErrParseFailed, "%s", path)
	}
	return &unit{api: e.api, tu: tu}, nil
}

// Dispose releases the index and closes the library. Units must already be
// disposed.
func (e *Engine) Dispose() error {
	if e.api == nil {
		return nil
	}
	C.ic_disposeIndex(e.api, e.index)
	handle := e.api.handle
	C.free(unsafe.Pointer(e.api))
	e.api = nil
	e.index = nil
	if C.dlclose(handle) != 0 {
		return errors.Newf("dlclose %s: %s", e.path, dlerr())
	}
	return nil
}

type unit struct {
	api *C.ic_api
	tu  C.CXTranslationUnit
}

func (u *unit) Reparse(unsaved []clang.UnsavedFile, options clang.TranslationOptions) error {
	files, n, free := cUnsaved(unsaved)
	defer free()
	if rc := C.ic_reparse(u.api, u.tu, files, n, C.uint(options)); rc != 0 {
		return errors.Newf("clang_reparseTranslationUnit returned %d", int(rc))
	}
	return nil
}

func (u *unit) CompleteAt(path string, line, column int, unsaved []clang.UnsavedFile, options clang.CompletionOptions) (clang.Results, error) {
	if line < 1 || column < 1 {
		return nil, errors.Newf("invalid position %d:%d", line, column)
	}
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	files, n, free := cUnsaved(unsaved)
	defer free()

	raw := C.ic_complete(u.api, u.tu, cpath, C.uint(line), C.uint(column), files, n, C.uint(options))
	if raw == nil {
		return nil, nil
	}
	return &results{api: u.api, raw: raw, n: int(C.ic_numResults(raw))}, nil
}

func (u *unit) Dispose() {
	if u.tu == nil {
		return
	}
	C.ic_disposeTU(u.api, u.tu)
	u.tu = nil
}

type results struct {
	api *C.ic_api
	raw *C.CXCodeCompleteResults
	n   int
}

func (r *results) Len() int { return r.n }

func (r *results) At(i int) clang.Result {
	idx := C.uint(i)
	cs := C.ic_completionString(r.raw, idx)
	count := int(C.ic_numChunks(r.api, cs))
	chunks := make([]clang.Chunk, 0, count)
	for j := 0; j < count; j++ {
		chunks = append(chunks, clang.Chunk{
			Kind: clang.ChunkKind(C.ic_chunkKind(r.api, cs, C.uint(j))),
			Text: take(C.ic_chunkText(r.api, cs, C.uint(j))),
		})
	}
	return clang.Result{
		CursorKind:   clang.CursorKind(C.ic_cursorKind(r.raw, idx)),
		Chunks:       chunks,
		Priority:     uint(C.ic_priority(r.api, cs)),
		BriefComment: take(C.ic_briefComment(r.api, cs)),
	}
}

func (r *results) Dispose() {
	if r.raw == nil {
		return
	}
	C.ic_disposeResults(r.api, r.raw)
	r.raw = nil
	r.n = 0
}

// take copies a strdup'd C string into Go memory and frees it.
func take(p *C.char) string {
	if p == nil {
		return ""
	}
	defer C.free(unsafe.Pointer(p))
	return C.GoString(p)
}

func cStrings(values []string) (**C.char, C.int, func()) {
	if len(values) == 0 {
		return nil, 0, func() {}
	}
	arr := (**C.char)(C.malloc(C.size_t(len(values)) * C.size_t(unsafe.Sizeof(uintptr(0)))))
	view := unsafe.Slice(arr, len(values))
	for i, v := range values {
		view[i] = C.CString(v)
	}
	return arr, C.int(len(values)), func() {
		for _, p := range view {
			C.free(unsafe.Pointer(p))
		}
		C.free(unsafe.Pointer(arr))
	}
}

func cUnsaved(files []clang.UnsavedFile) (*C.struct_CXUnsavedFile, C.uint, func()) {
	if len(files) == 0 {
		return nil, 0, func() {}
	}
	arr := (*C.struct_CXUnsavedFile)(C.calloc(C.size_t(len(files)), C.sizeof_struct_CXUnsavedFile))
	view := unsafe.Slice(arr, len(files))
	for i, f := range files {
		view[i].Filename = C.CString(f.Filename)
		view[i].Contents = (*C.char)(C.CBytes(f.Contents))
		view[i].Length = C.ulong(len(f.Contents))
	}
	return arr, C.uint(len(files)), func() {
		for _, f := range view {
			C.free(unsafe.Pointer(f.Filename))
			C.free(unsafe.Pointer(f.Contents))
		}
		C.free(unsafe.Pointer(arr))
	}
}

package treesitter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ideclang/ideclang/internal/clang"
	"github.com/ideclang/ideclang/internal/errors"
)

const pointSource = `#define MAX(a, b) ((a) > (b) ? (a) : (b))
#define LIMIT 10

struct Point {
	int x;
	int y;
};

typedef struct Point point_t;

enum Color { RED, GREEN };

static int counter;

void draw(struct Point *p, int scale);

int main(int argc, char **argv) {
	struct Point pt;
	int total = 0;
	pt.x = LIMIT;
	return total;
}
`

func writeSource(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// cursorAfter returns the 1-based line and byte column just past marker.
func cursorAfter(t *testing.T, src, marker string) (int, int) {
	t.Helper()
	idx := strings.Index(src, marker)
	require.GreaterOrEqual(t, idx, 0, "marker %q not found", marker)
	idx += len(marker)
	line := strings.Count(src[:idx], "\n") + 1
	col := idx - (strings.LastIndex(src[:idx], "\n") + 1) + 1
	return line, col
}

func complete(t *testing.T, u clang.Unit, path, src, marker string, overlay bool, options clang.CompletionOptions) []clang.Result {
	t.Helper()
	line, col := cursorAfter(t, src, marker)
	var unsaved []clang.UnsavedFile
	if overlay {
		unsaved = []clang.UnsavedFile{{Filename: path, Contents: []byte(src)}}
	}
	results, err := u.CompleteAt(path, line, col, unsaved, options)
	require.NoError(t, err)
	if results == nil {
		return nil
	}
	defer results.Dispose()
	out := make([]clang.Result, 0, results.Len())
	for i := 0; i < results.Len(); i++ {
		out = append(out, results.At(i))
	}
	return out
}

func names(results []clang.Result) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, typedText(r))
	}
	return out
}

func openPoint(t *testing.T) (clang.Unit, string) {
	t.Helper()
	path := writeSource(t, "point.c", pointSource)
	u, err := New().ParseUnit(path, nil, clang.DefaultTranslationOptions)
	require.NoError(t, err)
	t.Cleanup(u.Dispose)
	return u, path
}

func TestCompleteFunctionPrototype(t *testing.T) {
	u, path := openPoint(t)

	results := complete(t, u, path, pointSource, "void dr", false, clang.DefaultCompletionOptions)
	require.Len(t, results, 1)
	assert.Equal(t, clang.CursorFunctionDecl, results[0].CursorKind)
	assert.Equal(t, []clang.Chunk{
		{Kind: clang.ChunkResultType, Text: "void"},
		{Kind: clang.ChunkTypedText, Text: "draw"},
		{Kind: clang.ChunkLeftParen, Text: "("},
		{Kind: clang.ChunkPlaceholder, Text: "struct Point *p"},
		{Kind: clang.ChunkComma, Text: ", "},
		{Kind: clang.ChunkPlaceholder, Text: "int scale"},
		{Kind: clang.ChunkRightParen, Text: ")"},
	}, results[0].Chunks)
}

func TestCompleteMemberAccess(t *testing.T) {
	u, path := openPoint(t)

	results := complete(t, u, path, pointSource, "\tpt.", false, clang.DefaultCompletionOptions)
	assert.Equal(t, []string{"x", "y"}, names(results))
	for _, r := range results {
		assert.Equal(t, clang.CursorFieldDecl, r.CursorKind)
	}
}

func TestCompleteLocals(t *testing.T) {
	u, path := openPoint(t)

	results := complete(t, u, path, pointSource, "return tot", false, clang.DefaultCompletionOptions)
	require.Len(t, results, 1)
	assert.Equal(t, "total", typedText(results[0]))
	assert.Equal(t, clang.CursorVarDecl, results[0].CursorKind)
	assert.Equal(t, uint(priorityLocal), results[0].Priority)
	assert.Equal(t, clang.Chunk{Kind: clang.ChunkResultType, Text: "int"}, results[0].Chunks[0])
}

func TestCompleteParametersFromOverlay(t *testing.T) {
	u, path := openPoint(t)
	edited := strings.Replace(pointSource, "return total;", "return arg;", 1)

	results := complete(t, u, path, edited, "return arg", true, clang.DefaultCompletionOptions)
	assert.Equal(t, []string{"argc", "argv"}, names(results))
	for _, r := range results {
		assert.Equal(t, clang.CursorParmDecl, r.CursorKind)
	}
	assert.Equal(t, "char **", results[1].Chunks[0].Text)
}

func TestCompleteTypesAndEnumerators(t *testing.T) {
	u, path := openPoint(t)

	results := complete(t, u, path, pointSource, "\tstruct Po", false, clang.DefaultCompletionOptions)
	require.Len(t, results, 1)
	assert.Equal(t, clang.CursorStructDecl, results[0].CursorKind)
	assert.Equal(t, "Point", typedText(results[0]))

	edited := strings.Replace(pointSource, "return total;", "return GR;", 1)
	results = complete(t, u, path, edited, "return GR", true, clang.DefaultCompletionOptions)
	require.Len(t, results, 1)
	assert.Equal(t, clang.CursorEnumConstantDecl, results[0].CursorKind)
	assert.Equal(t, "GREEN", typedText(results[0]))
}

func TestMacrosRequireOption(t *testing.T) {
	u, path := openPoint(t)

	results := complete(t, u, path, pointSource, "pt.x = LI", false, clang.DefaultCompletionOptions)
	require.Len(t, results, 1)
	assert.Equal(t, clang.CursorMacroDefinition, results[0].CursorKind)
	assert.Equal(t, uint(priorityMacro), results[0].Priority)

	results = complete(t, u, path, pointSource, "pt.x = LI", false, clang.CompleteIncludeBriefComments)
	assert.Empty(t, results)
}

func TestReparseReadsDisk(t *testing.T) {
	u, path := openPoint(t)

	updated := strings.Replace(pointSource, "static int counter;", "static int depth;", 1)
	updated = strings.Replace(updated, "return total;", "return dep;", 1)
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))
	assert.Equal(t, pointSource, string(u.(*unit).content))

	require.NoError(t, u.Reparse(nil, clang.DefaultTranslationOptions))

	results := complete(t, u, path, updated, "return dep", false, clang.DefaultCompletionOptions)
	assert.Equal(t, []string{"depth"}, names(results))
}

func TestParseMissingFile(t *testing.T) {
	_, err := New().ParseUnit(filepath.Join(t.TempDir(), "missing.c"), nil, clang.DefaultTranslationOptions)
	require.Error(t, err)
	assert.True(t, errors.Is(err, clang.ErrParseFailed))
}

const widgetSource = `class Widget {
public:
	Widget(int size);
	~Widget();
	void resize(int n);
	int width;
};

int use(Widget &w) {
	w.resize(1);
	return 0;
}
`

func TestCompleteCPPMembers(t *testing.T) {
	path := writeSource(t, "widget.cpp", widgetSource)
	u, err := New().ParseUnit(path, nil, clang.DefaultTranslationOptions)
	require.NoError(t, err)
	defer u.Dispose()

	results := complete(t, u, path, widgetSource, "\tw.", false, clang.DefaultCompletionOptions)
	got := names(results)
	assert.Contains(t, got, "resize")
	assert.Contains(t, got, "width")
	assert.NotContains(t, got, "use")
	assert.NotContains(t, got, "Widget")
}

func TestDisposedUnitRefusesQueries(t *testing.T) {
	u, path := openPoint(t)
	u.Dispose()

	_, err := u.CompleteAt(path, 1, 1, nil, clang.DefaultCompletionOptions)
	assert.Error(t, err)
	assert.Error(t, u.Reparse(nil, clang.DefaultTranslationOptions))
}

package lsp

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/ideclang/ideclang/internal/clang"
	"github.com/ideclang/ideclang/internal/clang/clangtest"
	"github.com/ideclang/ideclang/internal/session"
)

func pointResults() clang.SliceResults {
	return clang.SliceResults{
		{
			CursorKind: clang.CursorStructDecl,
			Chunks:     []clang.Chunk{{Kind: clang.ChunkTypedText, Text: "Point"}},
			Priority:   50,
		},
		{
			CursorKind: clang.CursorFunctionDecl,
			Chunks: []clang.Chunk{
				{Kind: clang.ChunkResultType, Text: "void"},
				{Kind: clang.ChunkTypedText, Text: "draw"},
				{Kind: clang.ChunkLeftParen, Text: "("},
				{Kind: clang.ChunkPlaceholder, Text: "int scale"},
				{Kind: clang.ChunkRightParen, Text: ")"},
			},
			Priority:     12,
			BriefComment: "Draws the scene.",
		},
	}
}

func newTestHandler(t *testing.T, engine *clangtest.Engine) *Handler {
	t.Helper()
	h, err := NewHandler(session.NewStore(engine, []string{"-std=c11"}), Options{Name: "ideclang", Version: "test"})
	require.NoError(t, err)
	return h
}

func openDoc(t *testing.T, h *Handler, name, text string) (string, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	uri := pathToURI(path)
	require.NoError(t, h.TextDocumentDidOpen(nil, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: "c", Version: 1, Text: text},
	}))
	return uri, path
}

func completionParams(uri string, line, character uint32) *protocol.CompletionParams {
	return &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Position:     protocol.Position{Line: line, Character: character},
		},
	}
}

func TestInitializeAdvertisesCompletion(t *testing.T) {
	h := newTestHandler(t, &clangtest.Engine{})

	result, err := h.Initialize(nil, &protocol.InitializeParams{})
	require.NoError(t, err)

	init, ok := result.(protocol.InitializeResult)
	require.True(t, ok)
	require.NotNil(t, init.Capabilities.CompletionProvider)
	assert.Equal(t, []string{".", ":", ">"}, init.Capabilities.CompletionProvider.TriggerCharacters)

	sync, ok := init.Capabilities.TextDocumentSync.(*protocol.TextDocumentSyncOptions)
	require.True(t, ok)
	assert.Equal(t, protocol.TextDocumentSyncKindFull, *sync.Change)
	assert.Equal(t, true, init.Capabilities.DefinitionProvider)
	assert.Equal(t, "ideclang", init.ServerInfo.Name)
}

func TestOpenIgnoresUntrackedFiles(t *testing.T) {
	engine := &clangtest.Engine{}
	h := newTestHandler(t, engine)

	openDoc(t, h, "main.go", "package main")

	assert.Empty(t, engine.Units)
	assert.Equal(t, 0, h.OpenDocuments())
}

func TestCompletionUsesBufferOverlay(t *testing.T) {
	engine := &clangtest.Engine{Results: pointResults()}
	h := newTestHandler(t, engine)

	text := "int main(void) {\n  dr\n}\n"
	uri, path := openDoc(t, h, "a.c", text)

	result, err := h.TextDocumentCompletion(nil, completionParams(uri, 1, 4))
	require.NoError(t, err)
	list, ok := result.(protocol.CompletionList)
	require.True(t, ok)
	require.Len(t, list.Items, 2)

	point := list.Items[0]
	assert.Equal(t, "Point", point.Label)
	assert.Equal(t, "struct", *point.Detail)
	assert.Equal(t, protocol.CompletionItemKindStruct, *point.Kind)
	assert.Equal(t, "Point", *point.InsertText)
	assert.Equal(t, protocol.InsertTextFormatPlainText, *point.InsertTextFormat)

	draw := list.Items[1]
	assert.Equal(t, "draw(int scale)", draw.Label)
	assert.Equal(t, "void", *draw.Detail)
	assert.Equal(t, protocol.CompletionItemKindFunction, *draw.Kind)
	assert.Equal(t, "draw(${1:int scale})", *draw.InsertText)
	assert.Equal(t, protocol.InsertTextFormatSnippet, *draw.InsertTextFormat)
	assert.Equal(t, "draw", *draw.FilterText)
	assert.Equal(t, protocol.MarkupContent{Kind: protocol.MarkupKindPlainText, Value: "Draws the scene."}, draw.Documentation)
	assert.Less(t, *draw.SortText, *point.SortText)

	unit := engine.UnitsFor(path)[0]
	require.Len(t, unit.Queries, 1)
	assert.Equal(t, 2, unit.Queries[0].Line)
	assert.Equal(t, 5, unit.Queries[0].Column)
	assert.Equal(t, []byte(text), unit.Queries[0].Unsaved[0].Contents)
}

func TestCompletionSeesLatestChange(t *testing.T) {
	engine := &clangtest.Engine{Results: pointResults()}
	h := newTestHandler(t, engine)
	uri, path := openDoc(t, h, "a.c", "int x;\n")

	changed := "int x;\nint y = x\n"
	require.NoError(t, h.TextDocumentDidChange(nil, &protocol.DidChangeTextDocumentParams{
		TextDocument:   protocol.VersionedTextDocumentIdentifier{TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri}},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: changed}},
	}))

	_, err := h.TextDocumentCompletion(nil, completionParams(uri, 1, 9))
	require.NoError(t, err)

	unit := engine.UnitsFor(path)[0]
	require.Len(t, unit.Queries, 1)
	assert.Equal(t, []byte(changed), unit.Queries[0].Unsaved[0].Contents)
}

func TestCompletionForUnknownDocument(t *testing.T) {
	h := newTestHandler(t, &clangtest.Engine{Results: pointResults()})

	result, err := h.TextDocumentCompletion(nil, completionParams("file:///nowhere/x.c", 0, 0))
	require.NoError(t, err)
	assert.Empty(t, result.(protocol.CompletionList).Items)
}

func TestSaveAndCloseDriveTheStore(t *testing.T) {
	engine := &clangtest.Engine{}
	h := newTestHandler(t, engine)
	uri, path := openDoc(t, h, "a.c", "int x;\n")

	id := protocol.TextDocumentIdentifier{URI: uri}
	require.NoError(t, h.TextDocumentDidSave(nil, &protocol.DidSaveTextDocumentParams{TextDocument: id}))
	require.NoError(t, h.TextDocumentDidClose(nil, &protocol.DidCloseTextDocumentParams{TextDocument: id}))
	require.NoError(t, h.TextDocumentDidClose(nil, &protocol.DidCloseTextDocumentParams{TextDocument: id}))

	unit := engine.UnitsFor(path)[0]
	assert.Equal(t, 1, unit.Reparses)
	assert.Equal(t, 1, unit.Disposed)
	assert.Equal(t, 0, h.OpenDocuments())
}

func TestShutdownTearsDownOnce(t *testing.T) {
	engine := &clangtest.Engine{}
	h := newTestHandler(t, engine)
	_, path := openDoc(t, h, "a.c", "int x;\n")

	require.NoError(t, h.Shutdown(nil))
	require.NoError(t, h.Exit(nil))

	assert.Equal(t, 1, engine.UnitsFor(path)[0].Disposed)
	assert.Equal(t, 1, engine.Disposed)
}

func TestExitWithoutShutdownTearsDown(t *testing.T) {
	engine := &clangtest.Engine{}
	h := newTestHandler(t, engine)
	_, path := openDoc(t, h, "a.c", "int x;\n")

	require.NoError(t, h.SetTrace(nil, &protocol.SetTraceParams{Value: protocol.TraceValueVerbose}))
	require.NoError(t, h.Exit(nil))
	require.NoError(t, h.Close())

	assert.Equal(t, 1, engine.UnitsFor(path)[0].Disposed)
	assert.Equal(t, 1, engine.Disposed)
	assert.Equal(t, 0, h.OpenDocuments())
}

func TestNavigationReturnsEmpty(t *testing.T) {
	h := newTestHandler(t, &clangtest.Engine{})
	uri, _ := openDoc(t, h, "a.c", "int x;\n")
	pos := protocol.TextDocumentPositionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Position:     protocol.Position{Line: 0, Character: 4},
	}

	def, err := h.TextDocumentDefinition(nil, &protocol.DefinitionParams{TextDocumentPositionParams: pos})
	require.NoError(t, err)
	assert.Empty(t, def)

	impl, err := h.TextDocumentImplementation(nil, &protocol.ImplementationParams{TextDocumentPositionParams: pos})
	require.NoError(t, err)
	assert.Empty(t, impl)

	refs, err := h.TextDocumentReferences(nil, &protocol.ReferenceParams{TextDocumentPositionParams: pos})
	require.NoError(t, err)
	assert.Empty(t, refs)

	highlights, err := h.TextDocumentDocumentHighlight(nil, &protocol.DocumentHighlightParams{TextDocumentPositionParams: pos})
	require.NoError(t, err)
	assert.Empty(t, highlights)
}

func TestWatcherReparsesOnDiskWrite(t *testing.T) {
	engine := &clangtest.Engine{}
	h, err := NewHandler(session.NewStore(engine, nil), Options{Name: "ideclang", Watch: true, Debounce: 10 * time.Millisecond})
	require.NoError(t, err)
	defer h.Shutdown(nil)

	dir := t.TempDir()
	path := filepath.Join(dir, "a.c")
	require.NoError(t, os.WriteFile(path, []byte("int x;\n"), 0o644))
	require.NoError(t, h.TextDocumentDidOpen(nil, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: pathToURI(path), Text: "int x;\n"},
	}))

	require.NoError(t, os.WriteFile(path, []byte("int y;\n"), 0o644))

	unit := engine.UnitsFor(path)[0]
	require.Eventually(t, func() bool {
		h.mu.Lock()
		defer h.mu.Unlock()
		return unit.Reparses > 0
	}, 5*time.Second, 20*time.Millisecond)
}

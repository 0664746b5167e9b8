package lsp

import (
	"sync"
	"time"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	glspserver "github.com/tliron/glsp/server"
	"go.uber.org/zap"

	"github.com/ideclang/ideclang/internal/complete"
	"github.com/ideclang/ideclang/internal/logger"
	"github.com/ideclang/ideclang/internal/session"
)

// TriggerCharacters are the last characters of "::", "." and "->".
var TriggerCharacters = []string{".", ":", ">"}

type document struct {
	path    string
	content string
}

// Options configures a Handler.
type Options struct {
	Name     string
	Version  string
	Watch    bool
	Debounce time.Duration
}

// Handler serves the session store over LSP. Every store call happens under
// mu, including those triggered by the file watcher.
type Handler struct {
	store   *session.Store
	opts    Options
	log     *zap.SugaredLogger
	watcher *FileWatcher

	mu        sync.Mutex
	documents map[string]*document // URI -> open document
	shutdown  bool

	protocol protocol.Handler
}

// NewHandler wraps store. With opts.Watch, open files are reparsed when they
// change on disk.
func NewHandler(store *session.Store, opts Options) (*Handler, error) {
	h := &Handler{
		store:     store,
		opts:      opts,
		log:       logger.Named("lsp"),
		documents: make(map[string]*document),
	}
	if opts.Watch {
		watcher, err := NewFileWatcher(opts.Debounce, h.onDiskChange)
		if err != nil {
			return nil, err
		}
		watcher.Start()
		h.watcher = watcher
	}
	h.protocol = protocol.Handler{
		Initialize:                    h.Initialize,
		Initialized:                   h.Initialized,
		Shutdown:                      h.Shutdown,
		Exit:                          h.Exit,
		SetTrace:                      h.SetTrace,
		TextDocumentDidOpen:           h.TextDocumentDidOpen,
		TextDocumentDidChange:         h.TextDocumentDidChange,
		TextDocumentDidSave:           h.TextDocumentDidSave,
		TextDocumentDidClose:          h.TextDocumentDidClose,
		TextDocumentCompletion:        h.TextDocumentCompletion,
		TextDocumentDeclaration:       h.TextDocumentDeclaration,
		TextDocumentDefinition:        h.TextDocumentDefinition,
		TextDocumentReferences:        h.TextDocumentReferences,
		TextDocumentImplementation:    h.TextDocumentImplementation,
		TextDocumentDocumentHighlight: h.TextDocumentDocumentHighlight,
	}
	return h, nil
}

// NewServer returns a glsp server dispatching to h.
func (h *Handler) NewServer(debug bool) *glspserver.Server {
	return glspserver.NewServer(&h.protocol, h.opts.Name, debug)
}

// Initialize handles LSP initialize request
func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	h.log.Infow("LSP client initializing", "client", params.ClientInfo)

	capabilities := h.protocol.CreateServerCapabilities()
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: ptr(true),
		Change:    ptr(protocol.TextDocumentSyncKindFull),
		Save:      &protocol.SaveOptions{IncludeText: ptr(false)},
	}
	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: TriggerCharacters,
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    h.opts.Name,
			Version: ptr(h.opts.Version),
		},
	}, nil
}

// Initialized is called after client receives InitializeResult
func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	h.log.Infow("LSP client initialized")
	return nil
}

// Shutdown releases every parsed unit.
func (h *Handler) Shutdown(ctx *glsp.Context) error {
	h.log.Infow("LSP client shutting down")
	return h.teardown()
}

// Exit tears down the session when the client exits without shutdown.
func (h *Handler) Exit(ctx *glsp.Context) error {
	return h.teardown()
}

// SetTrace accepts trace level changes; logging is governed by config.
func (h *Handler) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	return nil
}

// Close tears the session down if the client never sent shutdown.
func (h *Handler) Close() error {
	return h.teardown()
}

func (h *Handler) teardown() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.shutdown {
		return nil
	}
	h.shutdown = true
	if h.watcher != nil {
		if err := h.watcher.Close(); err != nil {
			h.log.Warnw("File watcher close failed", "error", err)
		}
	}
	h.documents = make(map[string]*document)
	return h.store.Teardown()
}

// TextDocumentDidOpen parses the document's file.
func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := params.TextDocument.URI
	path, err := uriToPath(uri)
	if err != nil || !Tracked(path) {
		h.log.Debugw("Ignoring document", "uri", uri, "language", params.TextDocument.LanguageID)
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.shutdown {
		return nil
	}

	h.documents[uri] = &document{path: path, content: params.TextDocument.Text}
	h.store.Open(path)
	if h.watcher != nil {
		if err := h.watcher.Add(path); err != nil {
			h.log.Warnw("Cannot watch document", "path", path, "error", err)
		}
	}
	h.log.Debugw("Document opened", "uri", uri, "length", len(params.TextDocument.Text))
	return nil
}

// TextDocumentDidChange replaces the cached content. Only full sync is
// advertised.
func (h *Handler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	doc, ok := h.documents[params.TextDocument.URI]
	if !ok {
		return nil
	}
	for _, change := range params.ContentChanges {
		if whole, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			doc.content = whole.Text
		}
	}
	return nil
}

// TextDocumentDidSave reparses the document's file from disk.
func (h *Handler) TextDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	doc, ok := h.documents[params.TextDocument.URI]
	if !ok {
		return nil
	}
	if params.Text != nil {
		doc.content = *params.Text
	}
	h.store.Save(doc.path)
	return nil
}

// TextDocumentDidClose disposes the document's unit.
func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	uri := params.TextDocument.URI
	doc, ok := h.documents[uri]
	if !ok {
		return nil
	}
	delete(h.documents, uri)
	if !h.pathOpen(doc.path) {
		h.store.Close(doc.path)
		if h.watcher != nil {
			h.watcher.Remove(doc.path)
		}
	}
	h.log.Debugw("Document closed", "uri", uri)
	return nil
}

// pathOpen reports whether another open URI still maps to path.
func (h *Handler) pathOpen(path string) bool {
	for _, doc := range h.documents {
		if doc.path == path {
			return true
		}
	}
	return false
}

// TextDocumentCompletion answers from the session store using the cached
// buffer as the unsaved overlay.
func (h *Handler) TextDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Errorw("Panic in completion handler", "panic", r, "uri", params.TextDocument.URI)
			result = protocol.CompletionList{Items: []protocol.CompletionItem{}}
			err = nil
		}
	}()

	h.mu.Lock()
	defer h.mu.Unlock()

	items := []protocol.CompletionItem{}
	doc, ok := h.documents[params.TextDocument.URI]
	if !ok {
		return protocol.CompletionList{Items: items}, nil
	}

	line, column := byteColumn(doc.content, params.Position.Line, params.Position.Character)
	h.store.FindCompletions(doc.path, line, column, []byte(doc.content), func(r complete.Record) {
		items = append(items, completionItem(r, len(items)))
	})
	h.log.Debugw("Completion", "path", doc.path, "line", line, "column", column, "items", len(items))
	return protocol.CompletionList{Items: items}, nil
}

type lookupFunc func(path string, line, column int, sink session.LocationSink) session.Lookup

func (h *Handler) lookup(method string, params protocol.TextDocumentPositionParams, find lookupFunc) []protocol.Location {
	h.mu.Lock()
	defer h.mu.Unlock()

	locations := []protocol.Location{}
	doc, ok := h.documents[params.TextDocument.URI]
	if !ok {
		return locations
	}
	line, column := byteColumn(doc.content, params.Position.Line, params.Position.Character)
	outcome := find(doc.path, line, column, func(loc session.Location) {
		locations = append(locations, toProtocolLocation(loc))
	})
	h.log.Debugw("Navigation", "method", method, "path", doc.path, "outcome", outcome.String())
	return locations
}

func toProtocolLocation(loc session.Location) protocol.Location {
	line := uint32(0)
	if loc.Line > 0 {
		line = uint32(loc.Line - 1)
	}
	character := uint32(0)
	if loc.Column > 0 {
		character = uint32(loc.Column - 1)
	}
	pos := protocol.Position{Line: line, Character: character}
	return protocol.Location{URI: pathToURI(loc.File), Range: protocol.Range{Start: pos, End: pos}}
}

func (h *Handler) TextDocumentDefinition(ctx *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	return h.lookup("definition", params.TextDocumentPositionParams, h.store.FindDefinition), nil
}

func (h *Handler) TextDocumentDeclaration(ctx *glsp.Context, params *protocol.DeclarationParams) (any, error) {
	return h.lookup("declaration", params.TextDocumentPositionParams, h.store.FindDeclaration), nil
}

// TextDocumentImplementation resolves like definition.
func (h *Handler) TextDocumentImplementation(ctx *glsp.Context, params *protocol.ImplementationParams) (any, error) {
	return h.lookup("implementation", params.TextDocumentPositionParams, h.store.FindDefinition), nil
}

func (h *Handler) TextDocumentReferences(ctx *glsp.Context, params *protocol.ReferenceParams) ([]protocol.Location, error) {
	return h.lookup("references", params.TextDocumentPositionParams, h.store.FindReferences), nil
}

// TextDocumentDocumentHighlight reports assignments to the symbol under the
// cursor as write highlights.
func (h *Handler) TextDocumentDocumentHighlight(ctx *glsp.Context, params *protocol.DocumentHighlightParams) ([]protocol.DocumentHighlight, error) {
	locations := h.lookup("assignments", params.TextDocumentPositionParams, h.store.FindAssignments)
	highlights := make([]protocol.DocumentHighlight, 0, len(locations))
	for _, loc := range locations {
		if loc.URI != params.TextDocument.URI {
			continue
		}
		highlights = append(highlights, protocol.DocumentHighlight{
			Range: loc.Range,
			Kind:  ptr(protocol.DocumentHighlightKindWrite),
		})
	}
	return highlights, nil
}

// onDiskChange is the file watcher callback.
func (h *Handler) onDiskChange(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.shutdown || !h.pathOpen(path) {
		return
	}
	h.store.Save(path)
}

// OpenDocuments returns the number of open documents.
func (h *Handler) OpenDocuments() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.documents)
}

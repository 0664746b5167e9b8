// Package treesitter implements clang.Engine with tree-sitter grammars. It
// needs no libclang and answers completions from the declarations visible in
// the file itself.
package treesitter

import (
	"context"
	"os"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/ideclang/ideclang/internal/clang"
	"github.com/ideclang/ideclang/internal/errors"
)

// Priorities follow libclang's scale: lower is more relevant.
const (
	priorityLocal       = 34
	priorityMember      = 35
	priorityDeclaration = 50
	priorityMacro       = 70
)

// Engine parses C and C++ with tree-sitter.
type Engine struct {
	registry *Registry
}

// New returns an engine using the default C/C++ registry.
func New() *Engine {
	return &Engine{registry: NewDefaultRegistry()}
}

func (e *Engine) Name() string { return "treesitter" }

func (e *Engine) ParseUnit(path string, flags []string, options clang.TranslationOptions) (clang.Unit, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(clang.ErrParseFailed, "%s: %v", path, err)
	}
	u := &unit{
		path:     path,
		language: e.registry.ForUnit(path, flags),
		content:  content,
	}
	tree, err := u.parse(content)
	if err != nil {
		return nil, errors.Wrapf(clang.ErrParseFailed, "%s: %v", path, err)
	}
	tree.Close()
	return u, nil
}

func (e *Engine) Dispose() error { return nil }

type unit struct {
	path     string
	language *Language
	content  []byte
	disposed bool
}

func (u *unit) parse(content []byte) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(u.language.grammar())
	return parser.ParseCtx(context.Background(), nil, content)
}

func overlay(path string, unsaved []clang.UnsavedFile) ([]byte, bool) {
	for _, f := range unsaved {
		if f.Filename == path {
			return f.Contents, true
		}
	}
	return nil, false
}

func (u *unit) Reparse(unsaved []clang.UnsavedFile, options clang.TranslationOptions) error {
	if u.disposed {
		return errors.New("unit disposed")
	}
	content, ok := overlay(u.path, unsaved)
	if !ok {
		var err error
		content, err = os.ReadFile(u.path)
		if err != nil {
			return errors.Wrapf(err, "reparse %s", u.path)
		}
	}
	u.content = append([]byte(nil), content...)
	return nil
}

func (u *unit) CompleteAt(path string, line, column int, unsaved []clang.UnsavedFile, options clang.CompletionOptions) (clang.Results, error) {
	if u.disposed {
		return nil, errors.New("unit disposed")
	}
	content, ok := overlay(path, unsaved)
	if !ok {
		content = u.content
	}

	offset := byteOffset(content, line, column)
	prefix, access := prefixAt(content, offset)

	tree, err := u.parse(content)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	defer tree.Close()

	decls := collectDecls(tree.RootNode(), content, uint32(offset))
	results := make(clang.SliceResults, 0, len(decls))
	for _, d := range decls {
		if !strings.HasPrefix(d.Name, prefix) || !visible(d, access, options) {
			continue
		}
		results = append(results, toResult(d))
	}
	if len(results) == 0 {
		return nil, nil
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Priority != results[j].Priority {
			return results[i].Priority < results[j].Priority
		}
		return typedText(results[i]) < typedText(results[j])
	})
	return results, nil
}

func (u *unit) Dispose() {
	u.disposed = true
	u.content = nil
}

func visible(d Decl, access accessKind, options clang.CompletionOptions) bool {
	if d.Kind == clang.CursorMacroDefinition && !options.Has(clang.CompleteIncludeMacros) {
		return false
	}
	switch access {
	case accessMember:
		return d.Member && d.Kind != clang.CursorConstructor && d.Kind != clang.CursorDestructor
	case accessScope:
		return d.Kind != clang.CursorMacroDefinition && !d.Local
	default:
		return !d.Member
	}
}

func toResult(d Decl) clang.Result {
	r := clang.Result{CursorKind: d.Kind, Priority: priority(d)}
	if d.ResultType != "" {
		r.Chunks = append(r.Chunks, clang.Chunk{Kind: clang.ChunkResultType, Text: d.ResultType})
	}
	r.Chunks = append(r.Chunks, clang.Chunk{Kind: clang.ChunkTypedText, Text: d.Name})
	if d.Params == nil {
		return r
	}
	r.Chunks = append(r.Chunks, clang.Chunk{Kind: clang.ChunkLeftParen, Text: "("})
	for i, p := range d.Params {
		if i > 0 {
			r.Chunks = append(r.Chunks, clang.Chunk{Kind: clang.ChunkComma, Text: ", "})
		}
		r.Chunks = append(r.Chunks, clang.Chunk{Kind: clang.ChunkPlaceholder, Text: p})
	}
	r.Chunks = append(r.Chunks, clang.Chunk{Kind: clang.ChunkRightParen, Text: ")"})
	return r
}

func priority(d Decl) uint {
	switch {
	case d.Kind == clang.CursorMacroDefinition:
		return priorityMacro
	case d.Local:
		return priorityLocal
	case d.Member:
		return priorityMember
	default:
		return priorityDeclaration
	}
}

func typedText(r clang.Result) string {
	for _, c := range r.Chunks {
		if c.Kind == clang.ChunkTypedText {
			return c.Text
		}
	}
	return ""
}

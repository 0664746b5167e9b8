package treesitter

import (
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
)

// Language binds a grammar to the file extensions it handles.
type Language struct {
	Name       string
	Extensions []string
	grammar    func() *sitter.Language
}

var (
	LanguageC = &Language{
		Name:       "c",
		Extensions: []string{".c", ".h"},
		grammar:    c.GetLanguage,
	}
	LanguageCPP = &Language{
		Name:       "cpp",
		Extensions: []string{".cc", ".cpp", ".cxx", ".c++", ".hpp", ".hh", ".hxx", ".h++"},
		grammar:    cpp.GetLanguage,
	}
)

// Registry maps file extensions to languages.
type Registry struct {
	languages map[string]*Language // language name -> language
	extToLang map[string]string    // extension -> language name
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		languages: make(map[string]*Language),
		extToLang: make(map[string]string),
	}
}

// NewDefaultRegistry creates a registry with the C and C++ grammars
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(LanguageC)
	r.Register(LanguageCPP)
	return r
}

// Register adds a language to the registry
func (r *Registry) Register(l *Language) {
	r.languages[l.Name] = l
	for _, ext := range l.Extensions {
		r.extToLang[ext] = l.Name
	}
}

// ForFile returns the language for a path by extension
func (r *Registry) ForFile(path string) (*Language, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	name, ok := r.extToLang[ext]
	if !ok {
		return nil, false
	}
	l, ok := r.languages[name]
	return l, ok
}

// ForUnit picks the grammar for a path compiled with flags. An explicit
// "-x c++" or a C++ -std selects C++ for any extension.
func (r *Registry) ForUnit(path string, flags []string) *Language {
	if cppRequested(flags) {
		if l, ok := r.languages[LanguageCPP.Name]; ok {
			return l
		}
	}
	if l, ok := r.ForFile(path); ok {
		return l
	}
	return LanguageC
}

// SupportedExtensions returns all registered file extensions
func (r *Registry) SupportedExtensions() []string {
	exts := make([]string, 0, len(r.extToLang))
	for ext := range r.extToLang {
		exts = append(exts, ext)
	}
	return exts
}

func cppRequested(flags []string) bool {
	for i, flag := range flags {
		switch {
		case flag == "-x" && i+1 < len(flags):
			if strings.HasPrefix(flags[i+1], "c++") {
				return true
			}
		case strings.HasPrefix(flag, "-xc++"):
			return true
		case strings.HasPrefix(flag, "-std=c++"), strings.HasPrefix(flag, "-std=gnu++"),
			strings.HasPrefix(flag, "--std=c++"), strings.HasPrefix(flag, "--std=gnu++"):
			return true
		}
	}
	return false
}

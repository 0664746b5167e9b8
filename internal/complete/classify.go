package complete

import "github.com/ideclang/ideclang/internal/clang"

var kindTags = map[clang.CursorKind]byte{
	clang.CursorStructDecl:             't',
	clang.CursorUnionDecl:              't',
	clang.CursorEnumConstantDecl:       't',
	clang.CursorEnumDecl:               't',
	clang.CursorTypedefDecl:            't',
	clang.CursorClassTemplate:          't',
	clang.CursorClassDecl:              't',
	clang.CursorConversionFunction:     'f',
	clang.CursorFunctionTemplate:       'f',
	clang.CursorFunctionDecl:           'f',
	clang.CursorConstructor:            'm',
	clang.CursorDestructor:             'm',
	clang.CursorCXXMethod:              'm',
	clang.CursorFieldDecl:              'm',
	clang.CursorVarDecl:                'v',
	clang.CursorTemplateTypeParameter:  'p',
	clang.CursorParmDecl:               's',
	clang.CursorPreprocessingDirective: 'D',
	clang.CursorMacroDefinition:        'M',
}

var kindKeywords = map[clang.CursorKind]string{
	clang.CursorStructDecl:       "struct",
	clang.CursorUnionDecl:        "union",
	clang.CursorEnumConstantDecl: "enum",
	clang.CursorEnumDecl:         "enum",
	clang.CursorTypedefDecl:      "typedef",
	clang.CursorClassTemplate:    "class",
	clang.CursorClassDecl:        "class",
}

// KindTag returns the one-character category for a cursor kind.
func KindTag(kind clang.CursorKind) (byte, bool) {
	tag, ok := kindTags[kind]
	return tag, ok
}

// KindKeyword returns the keyword seeded into Abbr for type-like kinds.
func KindKeyword(kind clang.CursorKind) (string, bool) {
	keyword, ok := kindKeywords[kind]
	return keyword, ok
}

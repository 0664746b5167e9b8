package clang

import "fmt"

// CursorKind mirrors libclang's CXCursorKind for the kinds a completion
// result can carry. Values match the C enum so the libclang engine can pass
// them through unchanged.
type CursorKind int

const (
	CursorUnexposedDecl            CursorKind = 1
	CursorStructDecl               CursorKind = 2
	CursorUnionDecl                CursorKind = 3
	CursorClassDecl                CursorKind = 4
	CursorEnumDecl                 CursorKind = 5
	CursorFieldDecl                CursorKind = 6
	CursorEnumConstantDecl         CursorKind = 7
	CursorFunctionDecl             CursorKind = 8
	CursorVarDecl                  CursorKind = 9
	CursorParmDecl                 CursorKind = 10
	CursorTypedefDecl              CursorKind = 20
	CursorCXXMethod                CursorKind = 21
	CursorNamespace                CursorKind = 22
	CursorConstructor              CursorKind = 24
	CursorDestructor               CursorKind = 25
	CursorConversionFunction       CursorKind = 26
	CursorTemplateTypeParameter    CursorKind = 27
	CursorNonTypeTemplateParameter CursorKind = 28
	CursorFunctionTemplate         CursorKind = 30
	CursorClassTemplate            CursorKind = 31
	CursorTypeAliasDecl            CursorKind = 36
	CursorNotImplemented           CursorKind = 72
	CursorPreprocessingDirective   CursorKind = 500
	CursorMacroDefinition          CursorKind = 501
	CursorMacroExpansion           CursorKind = 502
	CursorInclusionDirective       CursorKind = 503
)

var cursorNames = map[CursorKind]string{
	CursorUnexposedDecl:            "UnexposedDecl",
	CursorStructDecl:               "StructDecl",
	CursorUnionDecl:                "UnionDecl",
	CursorClassDecl:                "ClassDecl",
	CursorEnumDecl:                 "EnumDecl",
	CursorFieldDecl:                "FieldDecl",
	CursorEnumConstantDecl:         "EnumConstantDecl",
	CursorFunctionDecl:             "FunctionDecl",
	CursorVarDecl:                  "VarDecl",
	CursorParmDecl:                 "ParmDecl",
	CursorTypedefDecl:              "TypedefDecl",
	CursorCXXMethod:                "CXXMethod",
	CursorNamespace:                "Namespace",
	CursorConstructor:              "Constructor",
	CursorDestructor:               "Destructor",
	CursorConversionFunction:       "ConversionFunction",
	CursorTemplateTypeParameter:    "TemplateTypeParameter",
	CursorNonTypeTemplateParameter: "NonTypeTemplateParameter",
	CursorFunctionTemplate:         "FunctionTemplate",
	CursorClassTemplate:            "ClassTemplate",
	CursorTypeAliasDecl:            "TypeAliasDecl",
	CursorNotImplemented:           "NotImplemented",
	CursorPreprocessingDirective:   "PreprocessingDirective",
	CursorMacroDefinition:          "MacroDefinition",
	CursorMacroExpansion:           "MacroExpansion",
	CursorInclusionDirective:       "InclusionDirective",
}

func (k CursorKind) String() string {
	if name, ok := cursorNames[k]; ok {
		return name
	}
	return fmt.Sprintf("CursorKind(%d)", int(k))
}

// ChunkKind mirrors libclang's CXCompletionChunkKind.
type ChunkKind int

const (
	ChunkOptional ChunkKind = iota
	ChunkTypedText
	ChunkText
	ChunkPlaceholder
	ChunkInformative
	ChunkCurrentParameter
	ChunkLeftParen
	ChunkRightParen
	ChunkLeftBracket
	ChunkRightBracket
	ChunkLeftBrace
	ChunkRightBrace
	ChunkLeftAngle
	ChunkRightAngle
	ChunkComma
	ChunkResultType
	ChunkColon
	ChunkSemiColon
	ChunkEqual
	ChunkHorizontalSpace
	ChunkVerticalSpace
)

func (k ChunkKind) String() string {
	switch k {
	case ChunkOptional:
		return "Optional"
	case ChunkTypedText:
		return "TypedText"
	case ChunkText:
		return "Text"
	case ChunkPlaceholder:
		return "Placeholder"
	case ChunkInformative:
		return "Informative"
	case ChunkCurrentParameter:
		return "CurrentParameter"
	case ChunkLeftParen:
		return "LeftParen"
	case ChunkRightParen:
		return "RightParen"
	case ChunkLeftBracket:
		return "LeftBracket"
	case ChunkRightBracket:
		return "RightBracket"
	case ChunkLeftBrace:
		return "LeftBrace"
	case ChunkRightBrace:
		return "RightBrace"
	case ChunkLeftAngle:
		return "LeftAngle"
	case ChunkRightAngle:
		return "RightAngle"
	case ChunkComma:
		return "Comma"
	case ChunkResultType:
		return "ResultType"
	case ChunkColon:
		return "Colon"
	case ChunkSemiColon:
		return "SemiColon"
	case ChunkEqual:
		return "Equal"
	case ChunkHorizontalSpace:
		return "HorizontalSpace"
	case ChunkVerticalSpace:
		return "VerticalSpace"
	default:
		return fmt.Sprintf("ChunkKind(%d)", int(k))
	}
}

// TranslationOptions mirrors CXTranslationUnit_Flags.
type TranslationOptions uint

const (
	TranslationDetailedPreprocessingRecord TranslationOptions = 0x01
	TranslationIncomplete                  TranslationOptions = 0x02
	TranslationPrecompiledPreamble         TranslationOptions = 0x04
	TranslationCacheCompletionResults      TranslationOptions = 0x08
)

// CompletionOptions mirrors CXCodeComplete_Flags.
type CompletionOptions uint

const (
	CompleteIncludeMacros        CompletionOptions = 0x01
	CompleteIncludeCodePatterns  CompletionOptions = 0x02
	CompleteIncludeBriefComments CompletionOptions = 0x04
)

// DefaultTranslationOptions is used for every parse and reparse: the preamble
// is precompiled and cached, completion results are cached and the unit
// tolerates missing includes.
const DefaultTranslationOptions = TranslationPrecompiledPreamble |
	TranslationCacheCompletionResults |
	TranslationIncomplete

// DefaultCompletionOptions is used for every completion query.
const DefaultCompletionOptions = CompleteIncludeMacros |
	CompleteIncludeCodePatterns |
	CompleteIncludeBriefComments

// Has reports whether all bits of o are set.
func (c CompletionOptions) Has(o CompletionOptions) bool {
	return c&o == o
}

// Has reports whether all bits of o are set.
func (t TranslationOptions) Has(o TranslationOptions) bool {
	return t&o == o
}

package lexer

import "strings"

type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

type Span struct {
	Start Position
	End   Position
}

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenBadCharacter
	TokenWhitespace
	TokenComment
	TokenDocComment
	TokenOpenTag
	TokenOpenTagWithEcho
	TokenCloseTag
	TokenInlineHTML

	// Literals and names
	TokenVariable
	TokenString
	TokenNameQualified
	TokenNameFullyQualified
	TokenNameRelative
	TokenLNumber
	TokenDNumber
	TokenConstantString

	// Keywords
	TokenAbstract
	TokenArray
	TokenAs
	TokenCatch
	TokenClass
	TokenConst
	TokenDeclare
	TokenEcho
	TokenElse
	TokenElseIf
	TokenExtends
	TokenFinal
	TokenFinally
	TokenFunction
	TokenHaltCompiler
	TokenIf
	TokenImplements
	TokenInterface
	TokenNamespace
	TokenNew
	TokenPrivate
	TokenProtected
	TokenPublic
	TokenReadonly
	TokenReturn
	TokenStatic
	TokenThrow
	TokenTry
	TokenUse
	TokenVar
	TokenWhile

	// Operators and punctuation
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenSemicolon
	TokenComma
	TokenDot
	TokenEllipsis
	TokenArrow
	TokenDoubleArrow
	TokenDoubleColon
	TokenAssign
	TokenEQ
	TokenNE
	TokenIdentical
	TokenNotIdentical
	TokenLT
	TokenLE
	TokenGT
	TokenGE
	TokenAnd
	TokenOr
	TokenNot
	TokenPipe
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenPercent
	TokenQuestion
	TokenColon

	numTokenKinds
)

// tokenKindNames doubles as the terminal vocabulary of the grammar: keywords
// and punctuation use their source text, everything else the name PHP gives
// the token.
var tokenKindNames = map[TokenKind]string{
	TokenEOF:                "EOF",
	TokenBadCharacter:       "T_BAD_CHARACTER",
	TokenWhitespace:         "T_WHITESPACE",
	TokenComment:            "T_COMMENT",
	TokenDocComment:         "T_DOC_COMMENT",
	TokenOpenTag:            "T_OPEN_TAG",
	TokenOpenTagWithEcho:    "T_OPEN_TAG_WITH_ECHO",
	TokenCloseTag:           "T_CLOSE_TAG",
	TokenInlineHTML:         "T_INLINE_HTML",
	TokenVariable:           "T_VARIABLE",
	TokenString:             "T_STRING",
	TokenNameQualified:      "T_NAME_QUALIFIED",
	TokenNameFullyQualified: "T_NAME_FULLY_QUALIFIED",
	TokenNameRelative:       "T_NAME_RELATIVE",
	TokenLNumber:            "T_LNUMBER",
	TokenDNumber:            "T_DNUMBER",
	TokenConstantString:     "T_CONSTANT_ENCAPSED_STRING",
	TokenAbstract:           "abstract",
	TokenArray:              "array",
	TokenAs:                 "as",
	TokenCatch:              "catch",
	TokenClass:              "class",
	TokenConst:              "const",
	TokenDeclare:            "declare",
	TokenEcho:               "echo",
	TokenElse:               "else",
	TokenElseIf:             "elseif",
	TokenExtends:            "extends",
	TokenFinal:              "final",
	TokenFinally:            "finally",
	TokenFunction:           "function",
	TokenHaltCompiler:       "__halt_compiler",
	TokenIf:                 "if",
	TokenImplements:         "implements",
	TokenInterface:          "interface",
	TokenNamespace:          "namespace",
	TokenNew:                "new",
	TokenPrivate:            "private",
	TokenProtected:          "protected",
	TokenPublic:             "public",
	TokenReadonly:           "readonly",
	TokenReturn:             "return",
	TokenStatic:             "static",
	TokenThrow:              "throw",
	TokenTry:                "try",
	TokenUse:                "use",
	TokenVar:                "var",
	TokenWhile:              "while",
	TokenLParen:             "(",
	TokenRParen:             ")",
	TokenLBrace:             "{",
	TokenRBrace:             "}",
	TokenLBracket:           "[",
	TokenRBracket:           "]",
	TokenSemicolon:          ";",
	TokenComma:              ",",
	TokenDot:                ".",
	TokenEllipsis:           "...",
	TokenArrow:              "->",
	TokenDoubleArrow:        "=>",
	TokenDoubleColon:        "::",
	TokenAssign:             "=",
	TokenEQ:                 "==",
	TokenNE:                 "!=",
	TokenIdentical:          "===",
	TokenNotIdentical:       "!==",
	TokenLT:                 "<",
	TokenLE:                 "<=",
	TokenGT:                 ">",
	TokenGE:                 ">=",
	TokenAnd:                "&&",
	TokenOr:                 "||",
	TokenNot:                "!",
	TokenPipe:               "|",
	TokenPlus:               "+",
	TokenMinus:              "-",
	TokenStar:               "*",
	TokenSlash:              "/",
	TokenPercent:            "%",
	TokenQuestion:           "?",
	TokenColon:              ":",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsTrivia reports whether the parser never sees tokens of kind k.
func (k TokenKind) IsTrivia() bool {
	switch k {
	case TokenWhitespace, TokenComment, TokenDocComment, TokenOpenTag:
		return true
	}
	return false
}

// Kinds returns every token kind in declaration order.
func Kinds() []TokenKind {
	kinds := make([]TokenKind, 0, numTokenKinds)
	for k := TokenEOF; k < numTokenKinds; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

type Token struct {
	Kind    TokenKind
	Span    Span
	Literal string
}

var keywords = map[string]TokenKind{
	"abstract":        TokenAbstract,
	"array":           TokenArray,
	"as":              TokenAs,
	"catch":           TokenCatch,
	"class":           TokenClass,
	"const":           TokenConst,
	"declare":         TokenDeclare,
	"echo":            TokenEcho,
	"else":            TokenElse,
	"elseif":          TokenElseIf,
	"extends":         TokenExtends,
	"final":           TokenFinal,
	"finally":         TokenFinally,
	"function":        TokenFunction,
	"__halt_compiler": TokenHaltCompiler,
	"if":              TokenIf,
	"implements":      TokenImplements,
	"interface":       TokenInterface,
	"namespace":       TokenNamespace,
	"new":             TokenNew,
	"private":         TokenPrivate,
	"protected":       TokenProtected,
	"public":          TokenPublic,
	"readonly":        TokenReadonly,
	"return":          TokenReturn,
	"static":          TokenStatic,
	"throw":           TokenThrow,
	"try":             TokenTry,
	"use":             TokenUse,
	"var":             TokenVar,
	"while":           TokenWhile,
}

// LookupKeyword maps an identifier to its keyword kind. PHP keywords are
// case-insensitive.
func LookupKeyword(ident string) TokenKind {
	if kind, ok := keywords[strings.ToLower(ident)]; ok {
		return kind
	}
	return TokenString
}

package lexer

import "bytes"

type Lexer struct {
	input  []byte
	file   string
	pos    int
	line   int
	column int

	inPHP bool
	// prevKind is the last significant token, used to read keywords after
	// -> and :: as plain identifiers.
	prevKind TokenKind

	// haltCountdown counts the significant tokens still allowed after
	// __halt_compiler. Once it drops to zero the rest of the input is data.
	haltCountdown int
	halted        bool
}

func NewLexer(input []byte, file string) *Lexer {
	return &Lexer{
		input:    input,
		file:     file,
		line:     1,
		column:   1,
		prevKind: TokenEOF,
	}
}

func (l *Lexer) Position() Position {
	return Position{
		File:   l.file,
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

// HaltData returns the raw input following a __halt_compiler(); statement.
// ok is false when the lexer has not stopped at one.
func (l *Lexer) HaltData() (data string, ok bool) {
	if !l.halted {
		return "", false
	}
	return string(l.input[l.pos:]), true
}

// All lexes the remaining input, trivia included. The final token is EOF.
func (l *Lexer) All() []Token {
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			return tokens
		}
	}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) hasPrefix(s string) bool {
	return bytes.HasPrefix(l.input[l.pos:], []byte(s))
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

// advanceNewline consumes a single line break if one follows.
func (l *Lexer) advanceNewline() {
	switch {
	case l.peek() == '\r' && l.peekN(1) == '\n':
		l.advanceN(2)
	case l.peek() == '\n' || l.peek() == '\r':
		l.advance()
	}
}

func (l *Lexer) NextToken() Token {
	startPos := l.Position()
	if l.halted || l.pos >= len(l.input) {
		return Token{Kind: TokenEOF, Span: Span{Start: startPos, End: startPos}}
	}

	var tok Token
	if l.inPHP {
		tok = l.scanPHP(startPos)
	} else {
		tok = l.scanInlineHTML(startPos)
	}

	if !tok.Kind.IsTrivia() {
		l.prevKind = tok.Kind
		switch {
		case tok.Kind == TokenHaltCompiler && l.haltCountdown == 0:
			l.haltCountdown = 3
		case l.haltCountdown > 0:
			l.haltCountdown--
			if l.haltCountdown == 0 {
				l.halted = true
			}
		}
	}
	return tok
}

func (l *Lexer) scanInlineHTML(start Position) Token {
	if l.hasPrefix("<?=") {
		l.advanceN(3)
		l.inPHP = true
		return l.token(TokenOpenTagWithEcho, start)
	}
	if l.atOpenTag() {
		l.advanceN(5)
		l.advanceNewlineOrSpace()
		l.inPHP = true
		return l.token(TokenOpenTag, start)
	}
	for l.pos < len(l.input) && !l.hasPrefix("<?=") && !l.atOpenTag() {
		l.advance()
	}
	return l.token(TokenInlineHTML, start)
}

func (l *Lexer) atOpenTag() bool {
	if l.pos+5 > len(l.input) || !bytes.EqualFold(l.input[l.pos:l.pos+5], []byte("<?php")) {
		return false
	}
	next := l.peekN(5)
	return next == 0 || isSpace(next)
}

func (l *Lexer) advanceNewlineOrSpace() {
	if l.peek() == ' ' || l.peek() == '\t' {
		l.advance()
		return
	}
	l.advanceNewline()
}

func (l *Lexer) scanPHP(start Position) Token {
	ch := l.peek()

	switch {
	case isSpace(ch):
		return l.scanWhitespace(start)
	case ch == '?' && l.peekN(1) == '>':
		l.advanceN(2)
		l.advanceNewline()
		l.inPHP = false
		return l.token(TokenCloseTag, start)
	case ch == '#' || (ch == '/' && l.peekN(1) == '/'):
		return l.scanLineComment(start)
	case ch == '/' && l.peekN(1) == '*':
		return l.scanBlockComment(start)
	case ch == '$' && isIdentStart(l.peekN(1)):
		l.advance()
		for isIdentPart(l.peek()) {
			l.advance()
		}
		return l.token(TokenVariable, start)
	case ch == '\\' && isIdentStart(l.peekN(1)):
		l.advance()
		l.scanNameTail()
		return l.token(TokenNameFullyQualified, start)
	case isIdentStart(ch):
		return l.scanIdentOrKeyword(start)
	case isDigit(ch) || (ch == '.' && isDigit(l.peekN(1))):
		return l.scanNumber(start)
	case ch == '\'':
		return l.scanSingleQuoted(start)
	case ch == '"':
		return l.scanDoubleQuoted(start)
	}
	return l.scanOperator(start)
}

func (l *Lexer) scanWhitespace(start Position) Token {
	for isSpace(l.peek()) {
		l.advance()
	}
	return l.token(TokenWhitespace, start)
}

// scanLineComment stops before a newline or a closing tag.
func (l *Lexer) scanLineComment(start Position) Token {
	for l.pos < len(l.input) {
		ch := l.peek()
		if ch == '\n' || ch == '\r' || (ch == '?' && l.peekN(1) == '>') {
			break
		}
		l.advance()
	}
	return l.token(TokenComment, start)
}

func (l *Lexer) scanBlockComment(start Position) Token {
	kind := TokenComment
	if l.hasPrefix("/**") && isSpace(l.peekN(3)) {
		kind = TokenDocComment
	}
	l.advanceN(2)
	for l.pos < len(l.input) {
		if l.peek() == '*' && l.peekN(1) == '/' {
			l.advanceN(2)
			break
		}
		l.advance()
	}
	return l.token(kind, start)
}

// scanNameTail consumes an identifier followed by any number of \segment
// parts.
func (l *Lexer) scanNameTail() bool {
	for isIdentPart(l.peek()) {
		l.advance()
	}
	qualified := false
	for l.peek() == '\\' && isIdentStart(l.peekN(1)) {
		l.advance()
		for isIdentPart(l.peek()) {
			l.advance()
		}
		qualified = true
	}
	return qualified
}

func (l *Lexer) scanIdentOrKeyword(start Position) Token {
	qualified := l.scanNameTail()
	literal := string(l.input[start.Offset:l.pos])
	if qualified {
		if len(literal) > 10 && bytes.EqualFold([]byte(literal[:10]), []byte(`namespace\`)) {
			return l.token(TokenNameRelative, start)
		}
		return l.token(TokenNameQualified, start)
	}
	if l.prevKind == TokenArrow || l.prevKind == TokenDoubleColon {
		return l.token(TokenString, start)
	}
	return l.token(LookupKeyword(literal), start)
}

func (l *Lexer) scanNumber(start Position) Token {
	if l.peek() == '0' {
		switch l.peekN(1) {
		case 'x', 'X':
			if isHexDigit(l.peekN(2)) {
				l.advanceN(2)
				l.scanDigits(isHexDigit)
				return l.token(TokenLNumber, start)
			}
		case 'b', 'B':
			if isBinDigit(l.peekN(2)) {
				l.advanceN(2)
				l.scanDigits(isBinDigit)
				return l.token(TokenLNumber, start)
			}
		case 'o', 'O':
			if isDigit(l.peekN(2)) {
				l.advanceN(2)
				l.scanDigits(isDigit)
				return l.token(TokenLNumber, start)
			}
		}
	}

	kind := TokenLNumber
	l.scanDigits(isDigit)
	if l.peek() == '.' && l.peekN(1) != '.' {
		kind = TokenDNumber
		l.advance()
		l.scanDigits(isDigit)
	}
	if e := l.peek(); e == 'e' || e == 'E' {
		next := l.peekN(1)
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekN(2))) {
			kind = TokenDNumber
			l.advanceN(2)
			l.scanDigits(isDigit)
		}
	}
	return l.token(kind, start)
}

// scanDigits accepts underscores only between two digits.
func (l *Lexer) scanDigits(digit func(byte) bool) {
	for {
		ch := l.peek()
		switch {
		case digit(ch):
			l.advance()
		case ch == '_' && l.pos > 0 && digit(l.input[l.pos-1]) && digit(l.peekN(1)):
			l.advance()
		default:
			return
		}
	}
}

func (l *Lexer) scanSingleQuoted(start Position) Token {
	l.advance()
	for l.pos < len(l.input) {
		switch l.peek() {
		case '\\':
			l.advanceN(2)
		case '\'':
			l.advance()
			return l.token(TokenConstantString, start)
		default:
			l.advance()
		}
	}
	return l.token(TokenBadCharacter, start)
}

func (l *Lexer) scanDoubleQuoted(start Position) Token {
	l.advance()
	for l.pos < len(l.input) {
		switch l.peek() {
		case '\\':
			l.advanceN(2)
		case '"':
			l.advance()
			return l.token(TokenConstantString, start)
		default:
			l.advance()
		}
	}
	return l.token(TokenBadCharacter, start)
}

var operators = []struct {
	text string
	kind TokenKind
}{
	{"===", TokenIdentical},
	{"!==", TokenNotIdentical},
	{"...", TokenEllipsis},
	{"==", TokenEQ},
	{"!=", TokenNE},
	{"<>", TokenNE},
	{"<=", TokenLE},
	{">=", TokenGE},
	{"&&", TokenAnd},
	{"||", TokenOr},
	{"->", TokenArrow},
	{"=>", TokenDoubleArrow},
	{"::", TokenDoubleColon},
	{"(", TokenLParen},
	{")", TokenRParen},
	{"{", TokenLBrace},
	{"}", TokenRBrace},
	{"[", TokenLBracket},
	{"]", TokenRBracket},
	{";", TokenSemicolon},
	{",", TokenComma},
	{".", TokenDot},
	{"=", TokenAssign},
	{"<", TokenLT},
	{">", TokenGT},
	{"!", TokenNot},
	{"|", TokenPipe},
	{"+", TokenPlus},
	{"-", TokenMinus},
	{"*", TokenStar},
	{"/", TokenSlash},
	{"%", TokenPercent},
	{"?", TokenQuestion},
	{":", TokenColon},
}

func (l *Lexer) scanOperator(start Position) Token {
	for _, op := range operators {
		if l.hasPrefix(op.text) {
			l.advanceN(len(op.text))
			return l.token(op.kind, start)
		}
	}
	l.advance()
	return l.token(TokenBadCharacter, start)
}

func (l *Lexer) token(kind TokenKind, start Position) Token {
	end := l.Position()
	return Token{
		Kind:    kind,
		Span:    Span{Start: start, End: end},
		Literal: string(l.input[start.Offset:end.Offset]),
	}
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isBinDigit(ch byte) bool {
	return ch == '0' || ch == '1'
}

// PHP identifiers are byte based: any byte from 0x80 up counts as a letter.
func isIdentStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_' || ch >= 0x80
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}

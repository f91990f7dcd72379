package parser

import (
	"github.com/dhamidi/phparse/lalr"
	"github.com/dhamidi/phparse/php/lexer"
)

// tokenSource adapts the PHP lexer to the engine. Trivia is dropped, a
// closing tag ends a statement like ';' and <?= starts an echo.
type tokenSource struct {
	lex *lexer.Lexer
}

func newTokenSource(src []byte, file string) *tokenSource {
	return &tokenSource{lex: lexer.NewLexer(src, file)}
}

func (s *tokenSource) NextToken() lalr.Token {
	for {
		tok := s.lex.NextToken()
		if tok.Kind.IsTrivia() {
			continue
		}
		kind := tok.Kind
		switch kind {
		case lexer.TokenCloseTag:
			kind = lexer.TokenSemicolon
		case lexer.TokenOpenTagWithEcho:
			kind = lexer.TokenEcho
		}
		return lalr.Token{
			ID:    int(kind),
			Value: tok.Literal,
			Start: lalr.Position(tok.Span.Start),
			End:   lalr.Position(tok.Span.End),
		}
	}
}

func (s *tokenSource) haltData() string {
	data, _ := s.lex.HaltData()
	return data
}

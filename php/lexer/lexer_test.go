package lexer

import (
	"testing"
)

// significant lexes src and drops trivia and the trailing EOF.
func significant(src string) []Token {
	var out []Token
	for _, tok := range NewLexer([]byte(src), "test.php").All() {
		if tok.Kind.IsTrivia() || tok.Kind == TokenEOF {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func kinds(tokens []Token) []TokenKind {
	out := make([]TokenKind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func equalKinds(t *testing.T, got, want []TokenKind) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d tokens %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("token %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestLexerNewLexer(t *testing.T) {
	lexer := NewLexer([]byte("<?php echo 1;"), "test.php")
	pos := lexer.Position()

	if pos.File != "test.php" {
		t.Errorf("File = %q, want %q", pos.File, "test.php")
	}
	if pos.Line != 1 || pos.Column != 1 || pos.Offset != 0 {
		t.Errorf("Position = %+v, want 1:1 at offset 0", pos)
	}
}

func TestLexerInlineHTMLAndTags(t *testing.T) {
	tokens := NewLexer([]byte("<b>hi</b>\n<?php echo 1 ?>\ntail"), "test.php").All()
	want := []TokenKind{
		TokenInlineHTML, TokenOpenTag, TokenEcho, TokenWhitespace,
		TokenLNumber, TokenWhitespace, TokenCloseTag, TokenInlineHTML, TokenEOF,
	}
	equalKinds(t, kinds(tokens), want)

	if tokens[0].Literal != "<b>hi</b>\n" {
		t.Errorf("inline html = %q", tokens[0].Literal)
	}
	if tokens[1].Literal != "<?php " {
		t.Errorf("open tag = %q, want one trailing space", tokens[1].Literal)
	}
	if tokens[6].Literal != "?>\n" {
		t.Errorf("close tag = %q, want the newline folded in", tokens[6].Literal)
	}
	if tokens[7].Literal != "tail" {
		t.Errorf("trailing html = %q", tokens[7].Literal)
	}
}

func TestLexerOpenTagWithEcho(t *testing.T) {
	got := kinds(significant("<?= $x ?>"))
	equalKinds(t, got, []TokenKind{TokenOpenTagWithEcho, TokenVariable, TokenCloseTag})
}

func TestLexerKeywords(t *testing.T) {
	tests := []struct {
		input string
		kind  TokenKind
	}{
		{"class", TokenClass},
		{"CLASS", TokenClass},
		{"Namespace", TokenNamespace},
		{"__halt_compiler", TokenHaltCompiler},
		{"__HALT_COMPILER", TokenHaltCompiler},
		{"readonly", TokenReadonly},
		{"elseif", TokenElseIf},
		{"foo", TokenString},
		{"classy", TokenString},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := significant("<?php " + tt.input)
			if len(tokens) != 1 {
				t.Fatalf("got %d tokens, want 1", len(tokens))
			}
			if tokens[0].Kind != tt.kind {
				t.Errorf("Kind = %s, want %s", tokens[0].Kind, tt.kind)
			}
		})
	}
}

func TestLexerKeywordAfterMemberAccess(t *testing.T) {
	got := kinds(significant("<?php $a->class; A::new();"))
	want := []TokenKind{
		TokenVariable, TokenArrow, TokenString, TokenSemicolon,
		TokenString, TokenDoubleColon, TokenString, TokenLParen, TokenRParen, TokenSemicolon,
	}
	equalKinds(t, got, want)
}

func TestLexerNames(t *testing.T) {
	tests := []struct {
		input string
		kind  TokenKind
	}{
		{`Foo`, TokenString},
		{`Foo\Bar`, TokenNameQualified},
		{`\Foo`, TokenNameFullyQualified},
		{`\Foo\Bar`, TokenNameFullyQualified},
		{`namespace\Foo`, TokenNameRelative},
		{`Foo\Class`, TokenNameQualified},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := significant("<?php " + tt.input)
			if len(tokens) != 1 {
				t.Fatalf("got %d tokens, want 1", len(tokens))
			}
			if tokens[0].Kind != tt.kind {
				t.Errorf("Kind = %s, want %s", tokens[0].Kind, tt.kind)
			}
			if tokens[0].Literal != tt.input {
				t.Errorf("Literal = %q, want %q", tokens[0].Literal, tt.input)
			}
		})
	}
}

func TestLexerNumbers(t *testing.T) {
	tests := []struct {
		input string
		kind  TokenKind
	}{
		{"42", TokenLNumber},
		{"1_000", TokenLNumber},
		{"0x1F", TokenLNumber},
		{"0b101", TokenLNumber},
		{"0o17", TokenLNumber},
		{"0777", TokenLNumber},
		{"1.5", TokenDNumber},
		{".5", TokenDNumber},
		{"1e10", TokenDNumber},
		{"1.5E-3", TokenDNumber},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := significant("<?php " + tt.input)
			if len(tokens) != 1 {
				t.Fatalf("got %d tokens, want 1", len(tokens))
			}
			if tokens[0].Kind != tt.kind || tokens[0].Literal != tt.input {
				t.Errorf("got %s %q, want %s %q", tokens[0].Kind, tokens[0].Literal, tt.kind, tt.input)
			}
		})
	}
}

func TestLexerStrings(t *testing.T) {
	tokens := significant(`<?php 'it\'s' "a\"b" 'open`)
	want := []TokenKind{TokenConstantString, TokenConstantString, TokenBadCharacter}
	equalKinds(t, kinds(tokens), want)
	if tokens[0].Literal != `'it\'s'` {
		t.Errorf("single quoted = %q", tokens[0].Literal)
	}
	if tokens[1].Literal != `"a\"b"` {
		t.Errorf("double quoted = %q", tokens[1].Literal)
	}
}

func TestLexerOperators(t *testing.T) {
	got := kinds(significant("<?php === !== == != <= >= && || -> => :: ... | ? :"))
	want := []TokenKind{
		TokenIdentical, TokenNotIdentical, TokenEQ, TokenNE, TokenLE, TokenGE,
		TokenAnd, TokenOr, TokenArrow, TokenDoubleArrow, TokenDoubleColon,
		TokenEllipsis, TokenPipe, TokenQuestion, TokenColon,
	}
	equalKinds(t, got, want)
}

func TestLexerComments(t *testing.T) {
	tokens := NewLexer([]byte("<?php // line ?>x"), "test.php").All()
	want := []TokenKind{TokenOpenTag, TokenComment, TokenCloseTag, TokenInlineHTML, TokenEOF}
	equalKinds(t, kinds(tokens), want)
	if tokens[1].Literal != "// line " {
		t.Errorf("line comment = %q, want it to stop before the closing tag", tokens[1].Literal)
	}

	got := kinds(significant("<?php /** doc */ # hash\n/* block */ $x"))
	equalKinds(t, got, []TokenKind{TokenVariable})

	doc := NewLexer([]byte("<?php /** doc */"), "test.php").All()
	if doc[1].Kind != TokenDocComment {
		t.Errorf("Kind = %s, want %s", doc[1].Kind, TokenDocComment)
	}
}

func TestLexerPositions(t *testing.T) {
	tokens := significant("<?php\n  $x = 1;")
	if len(tokens) != 4 {
		t.Fatalf("got %d tokens, want 4", len(tokens))
	}
	v := tokens[0].Span
	if v.Start.Line != 2 || v.Start.Column != 3 || v.Start.Offset != 8 {
		t.Errorf("$x starts at %+v, want 2:3 offset 8", v.Start)
	}
	if v.End.Column != 5 {
		t.Errorf("$x ends at column %d, want 5", v.End.Column)
	}
}

func TestLexerHaltCompiler(t *testing.T) {
	l := NewLexer([]byte("<?php __halt_compiler();raw <?php data"), "test.php")
	var got []TokenKind
	for {
		tok := l.NextToken()
		if tok.Kind == TokenEOF {
			break
		}
		if !tok.Kind.IsTrivia() {
			got = append(got, tok.Kind)
		}
	}
	equalKinds(t, got, []TokenKind{TokenHaltCompiler, TokenLParen, TokenRParen, TokenSemicolon})

	data, ok := l.HaltData()
	if !ok {
		t.Fatal("HaltData reported no halt")
	}
	if data != "raw <?php data" {
		t.Errorf("HaltData = %q", data)
	}
}

func TestLexerHaltCompilerCloseTag(t *testing.T) {
	l := NewLexer([]byte("<?php __halt_compiler() ?>\nbinary"), "test.php")
	l.All()
	data, ok := l.HaltData()
	if !ok || data != "binary" {
		t.Errorf("HaltData = %q, %v; want %q", data, ok, "binary")
	}
}

func TestLexerBadCharacter(t *testing.T) {
	got := kinds(significant("<?php $x @ 1"))
	equalKinds(t, got, []TokenKind{TokenVariable, TokenBadCharacter, TokenLNumber})
}

func TestTokenKindString(t *testing.T) {
	if TokenVariable.String() != "T_VARIABLE" {
		t.Errorf("TokenVariable = %q", TokenVariable.String())
	}
	if TokenSemicolon.String() != ";" {
		t.Errorf("TokenSemicolon = %q", TokenSemicolon.String())
	}
	if TokenKind(-1).String() != "Unknown" {
		t.Errorf("TokenKind(-1) = %q", TokenKind(-1).String())
	}
	for _, k := range Kinds() {
		if k.String() == "Unknown" {
			t.Errorf("kind %d has no name", int(k))
		}
	}
}

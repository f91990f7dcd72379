package lalr_test

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/phparse/lalr"
	"github.com/dhamidi/phparse/lalr/gen"
)

const calcGrammar = `
Program   = [ Program Statement ] .
Statement = Expr ";" | error ";" .
Expr      = Expr "+" Expr
          | Expr "*" Expr
          | Expr "==" Expr
          | "(" Expr ")"
          | "-" Expr
          | NUMBER .
`

const (
	tEOF = iota
	tNumber
	tSemi
	tPlus
	tStar
	tEq
	tLParen
	tRParen
	tMinus
)

var calcTerminals = []gen.Terminal{
	{Name: "NUMBER", ID: tNumber},
	{Name: ";", ID: tSemi},
	{Name: "+", ID: tPlus},
	{Name: "*", ID: tStar},
	{Name: "==", ID: tEq},
	{Name: "(", ID: tLParen},
	{Name: ")", ID: tRParen},
	{Name: "-", ID: tMinus},
}

func compileCalc(t *testing.T, combine bool) *lalr.Tables {
	t.Helper()
	g, err := gen.Parse("calc.ebnf", strings.NewReader(calcGrammar))
	require.NoError(t, err)
	tables, _, err := gen.Compile(g, gen.Options{
		Terminals: calcTerminals,
		Precedence: []gen.Level{
			{Assoc: gen.NonAssoc, Terminals: []string{"=="}},
			{Assoc: gen.Left, Terminals: []string{"+"}},
			{Assoc: gen.Left, Terminals: []string{"*"}},
			{Assoc: gen.Right, Terminals: []string{"-"}},
		},
		CombineLeafStates: combine,
	})
	require.NoError(t, err)
	return tables
}

func calcActions(t *testing.T, tables *lalr.Tables, overrides map[string]lalr.Action) []lalr.Action {
	t.Helper()
	byName := map[string]lalr.Action{
		"Program = <empty>": func(r *lalr.Reduction) (any, error) { return []any{}, nil },
		"Program = Program Statement": func(r *lalr.Reduction) (any, error) {
			return append(r.Value(1).([]any), r.Value(2)), nil
		},
		"Statement = Expr ';'": func(r *lalr.Reduction) (any, error) { return r.Value(1), nil },
		"Statement = error ';'": func(r *lalr.Reduction) (any, error) { return "error", nil },
		"Expr = Expr '+' Expr": func(r *lalr.Reduction) (any, error) {
			return r.Value(1).(int) + r.Value(3).(int), nil
		},
		"Expr = Expr '*' Expr": func(r *lalr.Reduction) (any, error) {
			return r.Value(1).(int) * r.Value(3).(int), nil
		},
		"Expr = Expr '==' Expr": func(r *lalr.Reduction) (any, error) {
			if r.Value(1).(int) == r.Value(3).(int) {
				return 1, nil
			}
			return 0, nil
		},
		"Expr = '(' Expr ')'": func(r *lalr.Reduction) (any, error) { return r.Value(2), nil },
		"Expr = '-' Expr":     func(r *lalr.Reduction) (any, error) { return -r.Value(2).(int), nil },
	}
	for k, v := range overrides {
		byName[k] = v
	}
	actions := make([]lalr.Action, tables.NumRules())
	for rule, text := range tables.Productions {
		actions[rule] = byName[text]
	}
	return actions
}

// sliceLexer tokenizes space separated lexemes on a single line.
type sliceLexer struct {
	tokens []lalr.Token
	next   int
}

func lex(src string) *sliceLexer {
	ids := map[string]int{";": tSemi, "+": tPlus, "*": tStar, "==": tEq, "(": tLParen, ")": tRParen, "-": tMinus}
	l := &sliceLexer{}
	col := 1
	for _, word := range strings.Split(src, " ") {
		if word == "" {
			col++
			continue
		}
		tok := lalr.Token{
			Start: lalr.Position{Line: 1, Column: col, Offset: col - 1},
			End:   lalr.Position{Line: 1, Column: col + len(word), Offset: col - 1 + len(word)},
		}
		if n, err := strconv.Atoi(word); err == nil {
			tok.ID, tok.Value = tNumber, n
		} else if id, ok := ids[word]; ok {
			tok.ID = id
		} else {
			tok.ID = 99
		}
		l.tokens = append(l.tokens, tok)
		col += len(word) + 1
	}
	return l
}

func (l *sliceLexer) NextToken() lalr.Token {
	if l.next >= len(l.tokens) {
		end := lalr.Position{Line: 1, Column: 1}
		if len(l.tokens) > 0 {
			end = l.tokens[len(l.tokens)-1].End
		}
		return lalr.Token{ID: tEOF, Start: end, End: end}
	}
	tok := l.tokens[l.next]
	l.next++
	return tok
}

func eachLayout(t *testing.T, f func(t *testing.T, tables *lalr.Tables)) {
	for _, combine := range []bool{false, true} {
		t.Run(fmt.Sprintf("combine=%v", combine), func(t *testing.T) {
			f(t, compileCalc(t, combine))
		})
	}
}

func TestEngine_Precedence(t *testing.T) {
	eachLayout(t, func(t *testing.T, tables *lalr.Tables) {
		e := lalr.NewEngine(tables, calcActions(t, tables, nil))
		tests := []struct {
			src  string
			want []any
		}{
			{"1 + 2 * 3 ;", []any{7}},
			{"2 * 3 + 1 ;", []any{7}},
			{"( 1 + 2 ) * 3 ; 4 ;", []any{9, 4}},
			{"- 2 * 3 ;", []any{-6}},
			{"1 + 1 == 2 ;", []any{1}},
			{"", []any{}},
		}
		for _, tt := range tests {
			got, err := e.Parse(lex(tt.src), nil)
			require.NoError(t, err, tt.src)
			assert.Equal(t, tt.want, got, tt.src)
		}
	})
}

func TestEngine_NonAssociativeOperator(t *testing.T) {
	eachLayout(t, func(t *testing.T, tables *lalr.Tables) {
		e := lalr.NewEngine(tables, calcActions(t, tables, nil))
		got, err := e.Parse(lex("1 == 1 == 1 ;"), nil)
		assert.Nil(t, got)
		var perr *lalr.Error
		require.True(t, errors.As(err, &perr))
		assert.True(t, strings.HasPrefix(perr.Message, "Syntax error, unexpected '=='"), perr.Message)
		assert.Equal(t, 1, perr.StartLine())
		assert.Equal(t, 8, perr.Span.Start.Column)
	})
}

func TestEngine_SyntaxErrorMessage(t *testing.T) {
	eachLayout(t, func(t *testing.T, tables *lalr.Tables) {
		e := lalr.NewEngine(tables, calcActions(t, tables, nil))
		_, err := e.Parse(lex("1 + ;"), nil)
		require.Error(t, err)
		assert.Equal(t, "Syntax error, unexpected ';', expecting NUMBER or '(' or '-' on line 1", err.Error())

		e.MaxExpected = 2
		_, err = e.Parse(lex("1 + ;"), nil)
		require.Error(t, err)
		assert.Equal(t, "Syntax error, unexpected ';' on line 1", err.Error())
	})
}

func TestEngine_RecoversAtStatementBoundary(t *testing.T) {
	eachLayout(t, func(t *testing.T, tables *lalr.Tables) {
		e := lalr.NewEngine(tables, calcActions(t, tables, nil))
		var handler lalr.Collecting
		got, err := e.Parse(lex("1 + ; 2 ;"), &handler)
		require.NoError(t, err)
		assert.Equal(t, []any{"error", 2}, got)
		require.Len(t, handler.Errors(), 1)
		assert.Equal(t, 5, handler.Errors()[0].Span.Start.Column)
	})
}

func TestEngine_DiscardsTokensWhileRecovering(t *testing.T) {
	eachLayout(t, func(t *testing.T, tables *lalr.Tables) {
		e := lalr.NewEngine(tables, calcActions(t, tables, nil))
		var handler lalr.Collecting
		got, err := e.Parse(lex("1 ) ) 5 ; 3 ;"), &handler)
		require.NoError(t, err)
		assert.Equal(t, []any{"error", 3}, got)
		assert.Len(t, handler.Errors(), 1, "errors while discarding are suppressed")
	})
}

func TestEngine_Unrecoverable(t *testing.T) {
	eachLayout(t, func(t *testing.T, tables *lalr.Tables) {
		e := lalr.NewEngine(tables, calcActions(t, tables, nil))
		var handler lalr.Collecting
		got, err := e.Parse(lex("1 +"), &handler)
		assert.Nil(t, got)
		assert.Equal(t, lalr.ErrUnrecoverable, err)
		require.Len(t, handler.Errors(), 1)
		assert.Equal(t, "Syntax error, unexpected EOF, expecting NUMBER or '(' or '-'", handler.Errors()[0].Message)
	})
}

func TestEngine_InvalidToken(t *testing.T) {
	tables := compileCalc(t, true)
	e := lalr.NewEngine(tables, calcActions(t, tables, nil))
	var handler lalr.Collecting
	_, err := e.Parse(lex("1 @ 2"), &handler)
	require.ErrorIs(t, err, lalr.ErrInvalidToken)
	assert.False(t, handler.HasErrors())
}

func TestEngine_HandlerAbort(t *testing.T) {
	tables := compileCalc(t, false)
	e := lalr.NewEngine(tables, calcActions(t, tables, nil))
	stop := errors.New("stop")
	calls := 0
	_, err := e.Parse(lex("1 + ; 2 ;"), lalr.ErrorHandlerFunc(func(*lalr.Error) error {
		calls++
		return stop
	}))
	assert.Equal(t, stop, err)
	assert.Equal(t, 1, calls)
}

func TestEngine_Spans(t *testing.T) {
	eachLayout(t, func(t *testing.T, tables *lalr.Tables) {
		var spans []lalr.Span
		var empty lalr.Span
		actions := calcActions(t, tables, map[string]lalr.Action{
			"Statement = Expr ';'": func(r *lalr.Reduction) (any, error) {
				spans = append(spans, r.Span())
				assert.Equal(t, r.SpanAt(1).End.Column+1, r.SpanAt(2).Start.Column)
				return r.Value(1), nil
			},
			"Program = <empty>": func(r *lalr.Reduction) (any, error) {
				empty = r.Span()
				return []any{}, nil
			},
		})
		e := lalr.NewEngine(tables, actions)
		_, err := e.Parse(lex("10 + 2 ; 3 ;"), nil)
		require.NoError(t, err)
		require.Len(t, spans, 2)
		assert.Equal(t, 1, spans[0].Start.Column)
		assert.Equal(t, 9, spans[0].End.Column)
		assert.Equal(t, 10, spans[1].Start.Column)
		assert.Equal(t, 13, spans[1].End.Column)
		assert.False(t, empty.End.IsValid(), "nothing precedes the first statement")
	})
}

func TestEngine_FatalActionError(t *testing.T) {
	overrides := map[string]lalr.Action{
		"Expr = '(' Expr ')'": func(r *lalr.Reduction) (any, error) {
			return nil, lalr.NewError("Parenthesized expression not allowed")
		},
	}
	eachLayout(t, func(t *testing.T, tables *lalr.Tables) {
		e := lalr.NewEngine(tables, calcActions(t, tables, overrides))

		_, err := e.Parse(lex("( 1 ) ;"), nil)
		var perr *lalr.Error
		require.True(t, errors.As(err, &perr))
		assert.Equal(t, "Parenthesized expression not allowed on line 1", perr.Error())

		var handler lalr.Collecting
		got, err := e.Parse(lex("( 1 ) ;"), &handler)
		assert.Nil(t, got)
		assert.Equal(t, lalr.ErrUnrecoverable, err)
		require.Len(t, handler.Errors(), 1)
		assert.Equal(t, 5, handler.Errors()[0].Span.Start.Column, "span comes from the last token read")
	})
}

func TestEngine_ReportedErrorsDoNotStopTheParse(t *testing.T) {
	overrides := map[string]lalr.Action{
		"Expr = '-' Expr": func(r *lalr.Reduction) (any, error) {
			r.Report(lalr.Errorf(r.Span(), "Negation of %d", r.Value(2)))
			return -r.Value(2).(int), nil
		},
	}
	tables := compileCalc(t, true)
	e := lalr.NewEngine(tables, calcActions(t, tables, overrides))
	var handler lalr.Collecting
	got, err := e.Parse(lex("- 4 ; 5 ;"), &handler)
	require.NoError(t, err)
	assert.Equal(t, []any{-4, 5}, got)
	require.Len(t, handler.Errors(), 1)
	assert.Equal(t, "Negation of 4 from 1:1 to 1:4", handler.Errors()[0].WithColumns())
}

func TestEngine_Reusable(t *testing.T) {
	tables := compileCalc(t, true)
	e := lalr.NewEngine(tables, calcActions(t, tables, nil))
	for i := 0; i < 3; i++ {
		var handler lalr.Collecting
		got, err := e.Parse(lex("1 + ; 2 * 2 ;"), &handler)
		require.NoError(t, err)
		assert.Equal(t, []any{"error", 4}, got)
		assert.Len(t, handler.Errors(), 1)
	}
}

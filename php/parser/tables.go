package parser

import (
	"bytes"
	_ "embed"
	"sync"

	"github.com/pkg/errors"

	"github.com/dhamidi/phparse/lalr"
	"github.com/dhamidi/phparse/lalr/gen"
	"github.com/dhamidi/phparse/php/lexer"
)

//go:embed grammar.ebnf
var grammarSource []byte

// Precedence levels, lowest first.
var precedence = []gen.Level{
	{Assoc: gen.Right, Terminals: []string{"="}},
	{Assoc: gen.Left, Terminals: []string{"?", ":"}},
	{Assoc: gen.Left, Terminals: []string{"||"}},
	{Assoc: gen.Left, Terminals: []string{"&&"}},
	{Assoc: gen.NonAssoc, Terminals: []string{"==", "!=", "===", "!=="}},
	{Assoc: gen.NonAssoc, Terminals: []string{"<", "<=", ">", ">="}},
	{Assoc: gen.Left, Terminals: []string{"+", "-", "."}},
	{Assoc: gen.Left, Terminals: []string{"*", "/", "%"}},
	{Assoc: gen.Right, Terminals: []string{"!"}},
}

var (
	tablesOnce   sync.Once
	cachedTables *lalr.Tables
	cachedReport *gen.Report
	tablesErr    error
)

// GrammarSource returns the EBNF the parser is generated from.
func GrammarSource() []byte {
	return grammarSource
}

// Terminals declares every token kind the parser can receive. Trivia and
// the tags that the token source rewrites are left out.
func Terminals() []gen.Terminal {
	var terms []gen.Terminal
	for _, k := range lexer.Kinds() {
		switch {
		case k == lexer.TokenEOF, k.IsTrivia():
			continue
		case k == lexer.TokenOpenTagWithEcho, k == lexer.TokenCloseTag:
			continue
		}
		terms = append(terms, gen.Terminal{Name: k.String(), ID: int(k)})
	}
	return terms
}

// GrammarOptions are the compiler settings of the PHP grammar.
func GrammarOptions() gen.Options {
	return gen.Options{
		Start:             "Start",
		EOF:               int(lexer.TokenEOF),
		Terminals:         Terminals(),
		Precedence:        precedence,
		CombineLeafStates: true,
	}
}

// Tables compiles the PHP grammar on first use. The result is shared by
// every Parser and must not be modified.
func Tables() (*lalr.Tables, *gen.Report, error) {
	tablesOnce.Do(func() {
		g, err := gen.Parse("grammar.ebnf", bytes.NewReader(grammarSource))
		if err != nil {
			tablesErr = err
			return
		}
		cachedTables, cachedReport, tablesErr = gen.Compile(g, GrammarOptions())
		if tablesErr != nil {
			tablesErr = errors.Wrap(tablesErr, "compile PHP grammar")
		}
	})
	return cachedTables, cachedReport, tablesErr
}

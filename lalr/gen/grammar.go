// Package gen compiles an EBNF grammar into the compressed LALR(1) tables
// consumed by package lalr.
//
// Grammars are written in the EBNF dialect of golang.org/x/exp/ebnf. Every
// production is a nonterminal. Quoted tokens and names without a production
// are terminals and must be declared in Options.Terminals; the name error
// refers to the error symbol used for recovery. Alternatives, groups and
// options are expanded into plain rules, repetition is rejected in favour of
// explicit left recursion:
//
//	StatementList = [ StatementList Statement ] .
//	Statement     = Expr ";" | error .
package gen

import (
	"io"
	"sort"
	"strings"
	"text/scanner"

	"github.com/pkg/errors"
	"golang.org/x/exp/ebnf"
)

const (
	errorName = "error"
	eofName   = "EOF"
)

// Symbol is a grammar symbol as written in the source. Literal symbols come
// from quoted tokens.
type Symbol struct {
	Name    string
	Literal bool
}

func (s Symbol) String() string {
	if s.Literal {
		return "'" + s.Name + "'"
	}
	return s.Name
}

// Production is one nonterminal with its expanded alternatives.
type Production struct {
	Name         string
	Pos          scanner.Position
	Alternatives [][]Symbol
}

// Grammar is a set of productions in source order.
type Grammar struct {
	Productions []*Production
	byName      map[string]*Production
}

// Lookup returns the production for name.
func (g *Grammar) Lookup(name string) (*Production, bool) {
	p, ok := g.byName[name]
	return p, ok
}

// Parse reads an EBNF grammar.
func Parse(filename string, r io.Reader) (*Grammar, error) {
	src, err := ebnf.Parse(filename, r)
	if err != nil {
		return nil, errors.Wrapf(err, "parse grammar %s", filename)
	}
	return FromEBNF(src)
}

// FromEBNF expands an already parsed EBNF grammar.
func FromEBNF(src ebnf.Grammar) (*Grammar, error) {
	prods := make([]*ebnf.Production, 0, len(src))
	for _, p := range src {
		prods = append(prods, p)
	}
	sort.Slice(prods, func(i, j int) bool {
		return prods[i].Pos().Offset < prods[j].Pos().Offset
	})

	g := &Grammar{byName: make(map[string]*Production, len(prods))}
	for _, p := range prods {
		name := p.Name.String
		if name == errorName || name == eofName {
			return nil, errors.Errorf("%s: %q is reserved and cannot be a production", p.Pos(), name)
		}
		alts, err := expand(p.Expr)
		if err != nil {
			return nil, errors.Wrapf(err, "production %s", name)
		}
		prod := &Production{Name: name, Pos: p.Pos(), Alternatives: alts}
		g.Productions = append(g.Productions, prod)
		g.byName[name] = prod
	}
	return g, nil
}

// expand flattens an expression into its alternatives.
func expand(e ebnf.Expression) ([][]Symbol, error) {
	switch x := e.(type) {
	case nil:
		return [][]Symbol{{}}, nil
	case *ebnf.Name:
		return [][]Symbol{{{Name: x.String}}}, nil
	case *ebnf.Token:
		return [][]Symbol{{{Name: x.String, Literal: true}}}, nil
	case *ebnf.Group:
		return expand(x.Body)
	case *ebnf.Option:
		body, err := expand(x.Body)
		if err != nil {
			return nil, err
		}
		return append(body, []Symbol{}), nil
	case ebnf.Alternative:
		var out [][]Symbol
		for _, alt := range x {
			sub, err := expand(alt)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
		}
		return out, nil
	case ebnf.Sequence:
		out := [][]Symbol{{}}
		for _, term := range x {
			sub, err := expand(term)
			if err != nil {
				return nil, err
			}
			var next [][]Symbol
			for _, prefix := range out {
				for _, suffix := range sub {
					seq := make([]Symbol, 0, len(prefix)+len(suffix))
					seq = append(append(seq, prefix...), suffix...)
					next = append(next, seq)
				}
			}
			out = next
		}
		return out, nil
	case *ebnf.Repetition:
		return nil, errors.Errorf("%s: repetition is not supported, use left recursion", x.Pos())
	case *ebnf.Range:
		return nil, errors.Errorf("%s: character ranges are not supported", x.Pos())
	default:
		return nil, errors.Errorf("%s: unsupported expression %T", e.Pos(), e)
	}
}

// RuleString renders a rule the way Tables.Productions and action keys do.
func RuleString(lhs string, rhs []Symbol) string {
	if len(rhs) == 0 {
		return lhs + " = <empty>"
	}
	parts := make([]string, len(rhs))
	for i, s := range rhs {
		parts[i] = s.String()
	}
	return lhs + " = " + strings.Join(parts, " ")
}

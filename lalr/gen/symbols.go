package gen

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/pkg/errors"
)

const (
	startName   = "$start"
	errorSymbol = 1
)

type rule struct {
	lhs  int
	rhs  []int
	prec int
	text string
}

// builder holds the grammar in numeric form. Terminals are numbered from 0
// (EOF) and 1 (error); nonterminal n is encoded as nterms+n inside rule
// bodies.
type builder struct {
	opts Options

	terms     []string
	termIndex map[string]int
	termID    []int
	prec      []int
	assoc     []Assoc

	nonterms []string
	ntIndex  map[string]int

	rules []rule
	byLHS [][]int

	nullable   []bool
	first      []*bitset.BitSet
	firstAfter [][]*bitset.BitSet
	nullAfter  [][]bool

	states   []*lrState
	stateKey map[string]int
}

func newBuilder(g *Grammar, opts Options) (*builder, error) {
	if len(g.Productions) == 0 {
		return nil, errors.New("grammar has no productions")
	}
	b := &builder{
		opts:      opts,
		termIndex: map[string]int{},
		ntIndex:   map[string]int{},
		stateKey:  map[string]int{},
	}

	literal := map[string]bool{}
	for _, p := range g.Productions {
		for _, alt := range p.Alternatives {
			for _, s := range alt {
				if s.Literal {
					literal[s.Name] = true
				}
			}
		}
	}

	b.addTerminal(eofName, eofName, opts.EOF)
	b.addTerminal(errorName, errorName, -1)
	ids := map[int]string{opts.EOF: eofName}
	for _, t := range opts.Terminals {
		switch {
		case t.Name == eofName || t.Name == errorName:
			return nil, errors.Errorf("terminal name %q is reserved", t.Name)
		case t.ID < 0:
			return nil, errors.Errorf("terminal %s has negative token id %d", t.Name, t.ID)
		}
		if _, dup := b.termIndex[t.Name]; dup {
			return nil, errors.Errorf("terminal %s declared twice", t.Name)
		}
		if other, dup := ids[t.ID]; dup {
			return nil, errors.Errorf("terminals %s and %s share token id %d", other, t.Name, t.ID)
		}
		if _, isProd := g.Lookup(t.Name); isProd && !literal[t.Name] {
			return nil, errors.Errorf("terminal %s is also a production", t.Name)
		}
		ids[t.ID] = t.Name
		display := t.Name
		if literal[t.Name] {
			display = Symbol{Name: t.Name, Literal: true}.String()
		}
		b.addTerminal(t.Name, display, t.ID)
	}

	for level, l := range opts.Precedence {
		for _, name := range l.Terminals {
			t, ok := b.termIndex[name]
			if !ok {
				return nil, errors.Errorf("precedence given for undeclared terminal %s", name)
			}
			if b.prec[t] != 0 {
				return nil, errors.Errorf("precedence of %s declared twice", name)
			}
			b.prec[t] = level + 1
			b.assoc[t] = l.Assoc
		}
	}

	start := opts.Start
	if start == "" {
		start = g.Productions[0].Name
	}
	if _, ok := g.Lookup(start); !ok {
		return nil, errors.Errorf("start symbol %s has no production", start)
	}

	b.addNonTerminal(startName)
	for _, p := range g.Productions {
		b.addNonTerminal(p.Name)
	}
	b.byLHS = make([][]int, len(b.nonterms))

	b.addRule(0, []int{b.nt(b.ntIndex[start])}, startName+" = "+start)
	seen := map[string]bool{}
	for _, p := range g.Productions {
		lhs := b.ntIndex[p.Name]
		for _, alt := range p.Alternatives {
			text := RuleString(p.Name, alt)
			if seen[text] {
				return nil, errors.Errorf("%s: duplicate rule %s", p.Pos, text)
			}
			seen[text] = true
			rhs := make([]int, len(alt))
			for i, s := range alt {
				sym, err := b.resolve(s)
				if err != nil {
					return nil, errors.Wrapf(err, "%s: rule %s", p.Pos, text)
				}
				rhs[i] = sym
			}
			b.addRule(lhs, rhs, text)
		}
	}
	return b, nil
}

func (b *builder) addTerminal(key, display string, id int) {
	b.termIndex[key] = len(b.terms)
	b.terms = append(b.terms, display)
	b.termID = append(b.termID, id)
	b.prec = append(b.prec, 0)
	b.assoc = append(b.assoc, Left)
}

func (b *builder) addNonTerminal(name string) {
	b.ntIndex[name] = len(b.nonterms)
	b.nonterms = append(b.nonterms, name)
}

func (b *builder) addRule(lhs int, rhs []int, text string) {
	r := rule{lhs: lhs, rhs: rhs, text: text}
	for i := len(rhs) - 1; i >= 0; i-- {
		if b.isTerm(rhs[i]) {
			r.prec = b.prec[rhs[i]]
			break
		}
	}
	b.byLHS[lhs] = append(b.byLHS[lhs], len(b.rules))
	b.rules = append(b.rules, r)
}

func (b *builder) resolve(s Symbol) (int, error) {
	if !s.Literal {
		if s.Name == errorName {
			return errorSymbol, nil
		}
		if nt, ok := b.ntIndex[s.Name]; ok {
			return b.nt(nt), nil
		}
	}
	if t, ok := b.termIndex[s.Name]; ok {
		return t, nil
	}
	return 0, errors.Errorf("undeclared terminal %s", s)
}

func (b *builder) nt(n int) int {
	return len(b.terms) + n
}

func (b *builder) isTerm(sym int) bool {
	return sym < len(b.terms)
}

func (b *builder) symbolName(sym int) string {
	if b.isTerm(sym) {
		return b.terms[sym]
	}
	return b.nonterms[sym-len(b.terms)]
}

// computeFirst derives nullable and FIRST sets for every nonterminal and
// every suffix of every rule body.
func (b *builder) computeFirst() {
	n := uint(len(b.terms))
	b.nullable = make([]bool, len(b.nonterms))
	b.first = make([]*bitset.BitSet, len(b.nonterms))
	for i := range b.first {
		b.first[i] = bitset.New(n)
	}

	for changed := true; changed; {
		changed = false
		for _, r := range b.rules {
			nullable := true
			for _, sym := range r.rhs {
				if b.isTerm(sym) {
					if !b.first[r.lhs].Test(uint(sym)) {
						b.first[r.lhs].Set(uint(sym))
						changed = true
					}
					nullable = false
					break
				}
				nt := sym - len(b.terms)
				if !b.first[r.lhs].IsSuperSet(b.first[nt]) {
					b.first[r.lhs].InPlaceUnion(b.first[nt])
					changed = true
				}
				if !b.nullable[nt] {
					nullable = false
					break
				}
			}
			if nullable && !b.nullable[r.lhs] {
				b.nullable[r.lhs] = true
				changed = true
			}
		}
	}

	b.firstAfter = make([][]*bitset.BitSet, len(b.rules))
	b.nullAfter = make([][]bool, len(b.rules))
	for ri, r := range b.rules {
		firsts := make([]*bitset.BitSet, len(r.rhs)+1)
		nulls := make([]bool, len(r.rhs)+1)
		firsts[len(r.rhs)] = bitset.New(n)
		nulls[len(r.rhs)] = true
		for k := len(r.rhs) - 1; k >= 0; k-- {
			sym := r.rhs[k]
			if b.isTerm(sym) {
				firsts[k] = bitset.New(n).Set(uint(sym))
				continue
			}
			nt := sym - len(b.terms)
			firsts[k] = b.first[nt].Clone()
			if b.nullable[nt] {
				firsts[k].InPlaceUnion(firsts[k+1])
				nulls[k] = nulls[k+1]
			}
		}
		b.firstAfter[ri] = firsts
		b.nullAfter[ri] = nulls
	}
}

// tokenToSymbol maps lexer token ids to terminal symbols.
func (b *builder) tokenToSymbol() []int {
	highest := 0
	for _, id := range b.termID {
		if id > highest {
			highest = id
		}
	}
	out := make([]int, highest+1)
	for i := range out {
		out[i] = len(b.terms)
	}
	for sym, id := range b.termID {
		if id >= 0 {
			out[id] = sym
		}
	}
	return out
}

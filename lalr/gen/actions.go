package gen

import (
	"fmt"
	"sort"

	"github.com/dhamidi/phparse/lalr"
)

type actKind int

const (
	actShift actKind = iota + 1
	actReduce
	actAccept
	actError
)

type act struct {
	kind actKind
	arg  int
}

// stateActions is the resolved action row of one LR state.
type stateActions struct {
	acts  map[int]act
	gotos map[int]int
	def   int
}

func (s *stateActions) hasKind(kinds ...actKind) bool {
	for _, a := range s.acts {
		for _, k := range kinds {
			if a.kind == k {
				return true
			}
		}
	}
	return false
}

// Conflict describes a conflict that precedence could not settle.
type Conflict struct {
	State  int
	Symbol string
	Kind   string
	Detail string
}

func (c Conflict) String() string {
	return fmt.Sprintf("state %d: %s conflict on %s (%s)", c.State, c.Kind, c.Symbol, c.Detail)
}

func (b *builder) buildActions() ([]*stateActions, []Conflict) {
	var conflicts []Conflict
	out := make([]*stateActions, len(b.states))
	for si, s := range b.states {
		sa := &stateActions{acts: map[int]act{}, gotos: map[int]int{}, def: lalr.UnexpectedTokenRule}
		for _, x := range s.syms {
			if b.isTerm(x) {
				sa.acts[x] = act{kind: actShift, arg: s.trans[x]}
			} else {
				sa.gotos[x-len(b.terms)] = s.trans[x]
			}
		}

		for i, it := range s.items {
			r := b.rules[it.rule]
			if it.dot != len(r.rhs) {
				continue
			}
			if it.rule == 0 {
				if c, ok := b.merge(si, sa, lalr.EOFSymbol, act{kind: actAccept}); !ok {
					conflicts = append(conflicts, c)
				}
				continue
			}
			la := s.itemLA[i]
			for t, ok := la.NextSet(0); ok; t, ok = la.NextSet(t + 1) {
				if int(t) == errorSymbol {
					continue
				}
				if c, ok := b.merge(si, sa, int(t), act{kind: actReduce, arg: it.rule}); !ok {
					conflicts = append(conflicts, c)
				}
			}
		}
		b.chooseDefault(sa)
		out[si] = sa
	}
	return out, conflicts
}

// merge adds a reduce or accept action, settling collisions by precedence.
// It reports false with a description when the collision stays unresolved.
func (b *builder) merge(state int, sa *stateActions, t int, a act) (Conflict, bool) {
	cur, ok := sa.acts[t]
	if !ok {
		sa.acts[t] = a
		return Conflict{}, true
	}
	c := Conflict{State: state, Symbol: b.terms[t]}
	switch cur.kind {
	case actShift:
		rp, tp := b.rules[a.arg].prec, b.prec[t]
		if a.kind == actReduce && rp > 0 && tp > 0 {
			switch {
			case tp < rp:
				sa.acts[t] = a
			case tp == rp && b.assoc[t] == Left:
				sa.acts[t] = a
			case tp == rp && b.assoc[t] == NonAssoc:
				sa.acts[t] = act{kind: actError}
			}
			return c, true
		}
		c.Kind = "shift/reduce"
		c.Detail = fmt.Sprintf("shift wins over %s", b.rules[a.arg].text)
		return c, false
	case actReduce:
		c.Kind = "reduce/reduce"
		if a.kind == actAccept || a.arg < cur.arg {
			sa.acts[t] = a
			c.Detail = fmt.Sprintf("%s wins over %s", b.describe(a), b.rules[cur.arg].text)
		} else {
			c.Detail = fmt.Sprintf("%s wins over %s", b.rules[cur.arg].text, b.describe(a))
		}
		return c, false
	case actAccept:
		c.Kind = "reduce/reduce"
		c.Detail = fmt.Sprintf("accept wins over %s", b.describe(a))
		return c, false
	}
	// A nonassoc error already owns the cell.
	return c, true
}

func (b *builder) describe(a act) string {
	if a.kind == actAccept {
		return "accept"
	}
	return b.rules[a.arg].text
}

// chooseDefault picks the default action of a state. States that shift keep
// every reduction explicit so that errors are detected before any reduction
// happens; the default is then the error action and explicit error cells are
// redundant. Otherwise the most frequent reduction becomes the default.
func (b *builder) chooseDefault(sa *stateActions) {
	if sa.hasKind(actShift) {
		for t, a := range sa.acts {
			if a.kind == actError {
				delete(sa.acts, t)
			}
		}
		return
	}

	counts := map[int]int{}
	for _, a := range sa.acts {
		if a.kind == actReduce {
			counts[a.arg]++
		}
	}
	if len(counts) == 0 {
		return
	}
	rules := make([]int, 0, len(counts))
	for r := range counts {
		rules = append(rules, r)
	}
	sort.Ints(rules)
	best := rules[0]
	for _, r := range rules[1:] {
		if counts[r] > counts[best] {
			best = r
		}
	}
	sa.def = best
	for t, a := range sa.acts {
		if a.kind == actReduce && a.arg == best {
			delete(sa.acts, t)
		}
	}
}

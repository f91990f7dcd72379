package gen

import (
	"sort"
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

type item struct {
	rule int
	dot  int
}

// lrState is one LR(0) state. Kernel items come first in items, in kernel
// order, so kernel index i is also item index i.
type lrState struct {
	kernel []item
	items  []item
	index  map[item]int

	// la holds the kernel lookaheads while they propagate; itemLA the
	// closure lookaheads once they are final.
	la     []*bitset.BitSet
	itemLA []*bitset.BitSet

	trans map[int]int
	syms  []int
}

func kernelKey(kernel []item) string {
	var b strings.Builder
	for _, it := range kernel {
		b.WriteString(strconv.Itoa(it.rule))
		b.WriteByte('.')
		b.WriteString(strconv.Itoa(it.dot))
		b.WriteByte(' ')
	}
	return b.String()
}

func (b *builder) addState(kernel []item) int {
	sort.Slice(kernel, func(i, j int) bool {
		if kernel[i].rule != kernel[j].rule {
			return kernel[i].rule < kernel[j].rule
		}
		return kernel[i].dot < kernel[j].dot
	})
	key := kernelKey(kernel)
	if idx, ok := b.stateKey[key]; ok {
		return idx
	}
	s := &lrState{kernel: kernel, trans: map[int]int{}}
	s.la = make([]*bitset.BitSet, len(kernel))
	for i := range s.la {
		s.la[i] = bitset.New(uint(len(b.terms)))
	}
	b.stateKey[key] = len(b.states)
	b.states = append(b.states, s)
	return len(b.states) - 1
}

func (b *builder) closure(s *lrState) {
	s.index = map[item]int{}
	add := func(it item) {
		if _, ok := s.index[it]; !ok {
			s.index[it] = len(s.items)
			s.items = append(s.items, it)
		}
	}
	for _, it := range s.kernel {
		add(it)
	}
	for i := 0; i < len(s.items); i++ {
		it := s.items[i]
		r := b.rules[it.rule]
		if it.dot < len(r.rhs) && !b.isTerm(r.rhs[it.dot]) {
			for _, ri := range b.byLHS[r.rhs[it.dot]-len(b.terms)] {
				add(item{rule: ri})
			}
		}
	}
}

// buildStates constructs the LR(0) automaton. State 0 is the initial state.
func (b *builder) buildStates() {
	b.addState([]item{{rule: 0}})
	for i := 0; i < len(b.states); i++ {
		s := b.states[i]
		b.closure(s)

		next := map[int][]item{}
		var order []int
		for _, it := range s.items {
			r := b.rules[it.rule]
			if it.dot >= len(r.rhs) {
				continue
			}
			x := r.rhs[it.dot]
			if _, ok := next[x]; !ok {
				order = append(order, x)
			}
			next[x] = append(next[x], item{rule: it.rule, dot: it.dot + 1})
		}
		for _, x := range order {
			s.trans[x] = b.addState(next[x])
			s.syms = append(s.syms, x)
		}
	}
}

// closureLA computes LR(1) closure lookaheads from the current kernel
// lookaheads of s.
func (b *builder) closureLA(s *lrState) []*bitset.BitSet {
	la := make([]*bitset.BitSet, len(s.items))
	for i := range la {
		if i < len(s.kernel) {
			la[i] = s.la[i].Clone()
		} else {
			la[i] = bitset.New(uint(len(b.terms)))
		}
	}
	for changed := true; changed; {
		changed = false
		for i, it := range s.items {
			r := b.rules[it.rule]
			if it.dot >= len(r.rhs) || b.isTerm(r.rhs[it.dot]) {
				continue
			}
			follow := b.firstAfter[it.rule][it.dot+1]
			if b.nullAfter[it.rule][it.dot+1] {
				follow = follow.Union(la[i])
			}
			for _, ri := range b.byLHS[r.rhs[it.dot]-len(b.terms)] {
				j := s.index[item{rule: ri}]
				if !la[j].IsSuperSet(follow) {
					la[j].InPlaceUnion(follow)
					changed = true
				}
			}
		}
	}
	return la
}

// computeLookaheads propagates lookaheads between kernels until nothing
// changes, then stores the closure lookaheads of every state.
func (b *builder) computeLookaheads() {
	b.states[0].la[0].Set(uint(0))

	queue := make([]int, len(b.states))
	queued := make([]bool, len(b.states))
	for i := range queue {
		queue[i] = i
		queued[i] = true
	}
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		queued[i] = false

		s := b.states[i]
		la := b.closureLA(s)
		for j, it := range s.items {
			r := b.rules[it.rule]
			if it.dot >= len(r.rhs) {
				continue
			}
			target := s.trans[r.rhs[it.dot]]
			t := b.states[target]
			k := t.index[item{rule: it.rule, dot: it.dot + 1}]
			if t.la[k].IsSuperSet(la[j]) {
				continue
			}
			t.la[k].InPlaceUnion(la[j])
			if !queued[target] {
				queued[target] = true
				queue = append(queue, target)
			}
		}
	}

	for _, s := range b.states {
		s.itemLA = b.closureLA(s)
	}
}

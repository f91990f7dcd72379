package gen

import (
	"sort"

	"github.com/dhamidi/phparse/lalr"
)

type cell struct {
	key   int
	value int
}

type row struct {
	slot  int
	cells []cell
}

// packer displaces sparse rows into one pair of value/check slices. Every
// placed row gets a distinct base, so a probe can only ever match the row it
// was meant for.
type packer struct {
	value []int
	check []int
	bases map[int]bool
}

func newPacker() *packer {
	return &packer{bases: map[int]bool{}}
}

// place finds the first base where cells fit. check is the value stored in
// the check column; a negative check means "use the cell key".
func (p *packer) place(cells []cell, check int, avoidZero bool) int {
	for base := -cells[0].key; ; base++ {
		if (avoidZero && base == 0) || p.bases[base] || !p.fits(base, cells) {
			continue
		}
		p.bases[base] = true
		for _, c := range cells {
			idx := base + c.key
			for len(p.check) <= idx {
				p.check = append(p.check, -1)
				p.value = append(p.value, 0)
			}
			p.value[idx] = c.value
			if check < 0 {
				p.check[idx] = c.key
			} else {
				p.check[idx] = check
			}
		}
		return base
	}
}

func (p *packer) fits(base int, cells []cell) bool {
	for _, c := range cells {
		idx := base + c.key
		if idx < len(p.check) && p.check[idx] != -1 {
			return false
		}
	}
	return true
}

// packRows places rows largest first and returns the base of every slot.
func packRows(p *packer, rows []row, slots int, emptyBase int, fixedCheck bool, avoidZero bool) []int {
	bases := make([]int, slots)
	for i := range bases {
		bases[i] = emptyBase
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return len(rows[i].cells) > len(rows[j].cells)
	})
	for _, r := range rows {
		if len(r.cells) == 0 {
			continue
		}
		sort.Slice(r.cells, func(i, j int) bool { return r.cells[i].key < r.cells[j].key })
		check := -1
		if fixedCheck {
			check = r.slot
		}
		bases[r.slot] = p.place(r.cells, check, avoidZero)
	}
	return bases
}

// layout is the final numbering of states.
type layout struct {
	leaf      []bool
	index     []int
	order     []int
	twoTable  []bool
	numTwo    int
	numStates int
}

func (b *builder) layout(rows []*stateActions) *layout {
	l := &layout{
		leaf:     make([]bool, len(rows)),
		index:    make([]int, len(rows)),
		twoTable: make([]bool, len(rows)),
	}
	for i, sa := range rows {
		l.leaf[i] = b.opts.CombineLeafStates && i != 0 && len(sa.acts) == 0 &&
			len(sa.gotos) == 0 && sa.def != lalr.UnexpectedTokenRule
		l.twoTable[i] = sa.hasKind(actShift, actAccept) && sa.hasKind(actReduce, actError)
	}

	l.order = append(l.order, 0)
	for i := 1; i < len(rows); i++ {
		if !l.leaf[i] && l.twoTable[i] {
			l.order = append(l.order, i)
		}
	}
	if l.twoTable[0] || len(l.order) > 1 {
		l.numTwo = len(l.order)
	}
	for i := 1; i < len(rows); i++ {
		if !l.leaf[i] && !l.twoTable[i] {
			l.order = append(l.order, i)
		}
	}
	for n, i := range l.order {
		l.index[i] = n
	}
	l.numStates = len(l.order)
	return l
}

// target encodes the destination of a shift or goto: leaf states collapse
// into their reduction.
func (l *layout) target(rows []*stateActions, s int) int {
	if l.leaf[s] {
		return l.numStates + rows[s].def
	}
	return l.index[s]
}

func (b *builder) pack(rows []*stateActions) *lalr.Tables {
	l := b.layout(rows)
	n := l.numStates

	encode := func(a act) int {
		switch a.kind {
		case actShift:
			return l.target(rows, a.arg)
		case actReduce:
			return -a.arg
		case actError:
			return -lalr.UnexpectedTokenRule
		}
		return 0
	}

	defaults := make([]int, n)
	var actionRows []row
	for slot, s := range l.order {
		sa := rows[s]
		defaults[slot] = sa.def
		var primary, secondary []cell
		for t, a := range sa.acts {
			c := cell{key: t, value: encode(a)}
			if slot < l.numTwo && l.twoTable[s] && (a.kind == actReduce || a.kind == actError) {
				secondary = append(secondary, c)
			} else {
				primary = append(primary, c)
			}
		}
		actionRows = append(actionRows, row{slot: slot, cells: primary})
		if slot < l.numTwo {
			actionRows = append(actionRows, row{slot: slot + n, cells: secondary})
		}
	}

	// Rows without cells keep a base that no symbol can reach, except the
	// primary rows of lookahead-free states which are marked with base 0.
	ap := newPacker()
	actionBase := packRows(ap, actionRows, n+l.numTwo, -len(b.terms)-1, false, true)
	for slot, s := range l.order {
		if len(rows[s].acts) == 0 {
			actionBase[slot] = 0
		}
	}

	gotoDefault := make([]int, len(b.nonterms))
	var gotoRows []row
	for nt := range b.nonterms {
		targets := map[int]int{}
		counts := map[int]int{}
		for _, s := range l.order {
			if dst, ok := rows[s].gotos[nt]; ok {
				v := l.target(rows, dst)
				targets[l.index[s]] = v
				counts[v]++
			}
		}
		def := 0
		if len(counts) > 0 {
			values := make([]int, 0, len(counts))
			for v := range counts {
				values = append(values, v)
			}
			sort.Ints(values)
			def = values[0]
			for _, v := range values[1:] {
				if counts[v] > counts[def] {
					def = v
				}
			}
		}
		gotoDefault[nt] = def
		var cells []cell
		for from, v := range targets {
			if v != def {
				cells = append(cells, cell{key: from, value: v})
			}
		}
		gotoRows = append(gotoRows, row{slot: nt, cells: cells})
	}
	gp := newPacker()
	gotoBase := packRows(gp, gotoRows, len(b.nonterms), -n-1, true, false)

	ruleToNT := make([]int, len(b.rules))
	ruleLen := make([]int, len(b.rules))
	productions := make([]string, len(b.rules))
	for i, r := range b.rules {
		ruleToNT[i] = r.lhs
		ruleLen[i] = len(r.rhs)
		productions[i] = r.text
	}

	t := &lalr.Tables{
		SymbolToName:      append([]string(nil), b.terms...),
		NonTerminalToName: append([]string(nil), b.nonterms...),
		Productions:       productions,
		TokenToSymbol:     b.tokenToSymbol(),
		InvalidSymbol:     len(b.terms),
		ErrorSymbol:       errorSymbol,
		Action:            ap.value,
		ActionCheck:       ap.check,
		ActionBase:        actionBase,
		ActionDefault:     defaults,
		Goto:              gp.value,
		GotoCheck:         gp.check,
		GotoBase:          gotoBase,
		GotoDefault:       gotoDefault,
		RuleToNonTerminal: ruleToNT,
		RuleToLength:      ruleLen,
		NumNonLeafStates:  n,
		TwoTableStates:    l.numTwo,
	}
	return t
}

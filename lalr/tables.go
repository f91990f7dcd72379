// Package lalr is the runtime driver for compressed LALR(1) parse tables.
//
// The tables are produced ahead of time (see package gen) and consumed here
// as opaque data. The Engine interprets them: it shifts tokens pulled from a
// Lexer, runs one Action per reduced rule, tracks source spans for every
// stack slot and recovers from syntax errors through the grammar's error
// symbol.
package lalr

import "github.com/pkg/errors"

const (
	// SymbolNone marks an empty lookahead buffer.
	SymbolNone = -1

	// EOFSymbol is the internal symbol of the end-of-input token.
	EOFSymbol = 0

	// DefaultAction in the action table means "use the state's default".
	DefaultAction = -32766

	// UnexpectedTokenRule is the rule number standing for a syntax error.
	UnexpectedTokenRule = 32767

	// DefaultMaxExpected bounds the expected-token hint of syntax errors.
	DefaultMaxExpected = 4
)

// Tables is a compressed LALR(1) automaton.
//
// Action rows are displaced into Action/ActionCheck: the entry of state s on
// terminal symbol t lives at ActionBase[s]+t when ActionCheck at that index
// equals t. States below TwoTableStates own a second row whose base is
// ActionBase[s+NumNonLeafStates]. ActionBase[s] == 0 means the state always
// uses ActionDefault[s] and never needs a lookahead.
//
// Action values: 0 accepts, 0 < a < NumNonLeafStates shifts to state a,
// a >= NumNonLeafStates shifts and then reduces rule a-NumNonLeafStates,
// a < 0 reduces rule -a.
//
// Goto columns are displaced the same way, indexed by nonterminal and keyed
// by the state exposed after popping; misses use GotoDefault. Goto targets at
// or above NumNonLeafStates again encode an immediate reduction.
type Tables struct {
	SymbolToName      []string
	NonTerminalToName []string
	Productions       []string

	TokenToSymbol []int
	InvalidSymbol int
	ErrorSymbol   int

	Action        []int
	ActionCheck   []int
	ActionBase    []int
	ActionDefault []int

	Goto        []int
	GotoCheck   []int
	GotoBase    []int
	GotoDefault []int

	RuleToNonTerminal []int
	RuleToLength      []int

	NumNonLeafStates int
	TwoTableStates   int
}

// NumRules returns the number of grammar rules including the accept rule.
func (t *Tables) NumRules() int {
	return len(t.RuleToLength)
}

// Validate checks the shape of the bundle. The engine trusts its tables, so
// integrations should call this once after loading or generating them.
func (t *Tables) Validate() error {
	switch {
	case len(t.Action) != len(t.ActionCheck):
		return errors.Wrapf(ErrCorruptTables, "action table has %d entries but %d checks", len(t.Action), len(t.ActionCheck))
	case len(t.Goto) != len(t.GotoCheck):
		return errors.Wrapf(ErrCorruptTables, "goto table has %d entries but %d checks", len(t.Goto), len(t.GotoCheck))
	case len(t.ActionDefault) != t.NumNonLeafStates:
		return errors.Wrapf(ErrCorruptTables, "%d default actions for %d states", len(t.ActionDefault), t.NumNonLeafStates)
	case len(t.ActionBase) != t.NumNonLeafStates+t.TwoTableStates:
		return errors.Wrapf(ErrCorruptTables, "%d action bases, want %d", len(t.ActionBase), t.NumNonLeafStates+t.TwoTableStates)
	case len(t.GotoBase) != len(t.GotoDefault):
		return errors.Wrapf(ErrCorruptTables, "%d goto bases for %d nonterminals", len(t.GotoBase), len(t.GotoDefault))
	case len(t.RuleToLength) != len(t.RuleToNonTerminal):
		return errors.Wrapf(ErrCorruptTables, "%d rule lengths for %d rules", len(t.RuleToLength), len(t.RuleToNonTerminal))
	case t.ErrorSymbol <= EOFSymbol || t.ErrorSymbol >= len(t.SymbolToName):
		return errors.Wrapf(ErrCorruptTables, "error symbol %d out of range", t.ErrorSymbol)
	case t.InvalidSymbol != len(t.SymbolToName):
		return errors.Wrapf(ErrCorruptTables, "invalid symbol %d, want %d", t.InvalidSymbol, len(t.SymbolToName))
	case t.TwoTableStates > t.NumNonLeafStates:
		return errors.Wrapf(ErrCorruptTables, "%d two-table states exceed %d states", t.TwoTableStates, t.NumNonLeafStates)
	}
	for rule, nt := range t.RuleToNonTerminal {
		if nt < 0 || nt >= len(t.GotoBase) {
			return errors.Wrapf(ErrCorruptTables, "rule %d reduces to unknown nonterminal %d", rule, nt)
		}
	}
	for id, sym := range t.TokenToSymbol {
		if sym < 0 || sym > t.InvalidSymbol {
			return errors.Wrapf(ErrCorruptTables, "token %d maps to symbol %d", id, sym)
		}
	}
	return nil
}

// lookupAction finds the explicit action slot of state on symbol, trying the
// primary row first and the secondary row of two-table states second.
func (t *Tables) lookupAction(state, symbol int) (int, bool) {
	idx := t.ActionBase[state] + symbol
	if idx >= 0 && idx < len(t.Action) && t.ActionCheck[idx] == symbol {
		return idx, true
	}
	if state < t.TwoTableStates {
		idx = t.ActionBase[state+t.NumNonLeafStates] + symbol
		if idx >= 0 && idx < len(t.Action) && t.ActionCheck[idx] == symbol {
			return idx, true
		}
	}
	return 0, false
}

// action returns the explicit, non-default action of state on symbol.
func (t *Tables) action(state, symbol int) (int, bool) {
	idx, ok := t.lookupAction(state, symbol)
	if !ok || t.Action[idx] == DefaultAction {
		return 0, false
	}
	return t.Action[idx], true
}

func (t *Tables) gotoState(nonTerminal, state int) int {
	idx := t.GotoBase[nonTerminal] + state
	if idx >= 0 && idx < len(t.Goto) && t.GotoCheck[idx] == nonTerminal {
		return t.Goto[idx]
	}
	return t.GotoDefault[nonTerminal]
}

func (t *Tables) symbolName(symbol int) string {
	if symbol >= 0 && symbol < len(t.SymbolToName) {
		return t.SymbolToName[symbol]
	}
	return "unknown symbol"
}

package lalr

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("phparse.lalr")

// Token is one lexeme handed to the engine. ID is the lexer's raw token id,
// mapped to a grammar symbol through Tables.TokenToSymbol.
type Token struct {
	ID    int
	Value any
	Start Position
	End   Position
}

// Lexer is the pull source of tokens. It must keep returning the
// end-of-input token once the input is exhausted.
type Lexer interface {
	NextToken() Token
}

// Action builds the semantic value of a reduced rule. A returned error is
// fatal: it is handed to the ErrorHandler and the parse stops without a
// result. Recoverable problems go through Reduction.Report instead.
type Action func(r *Reduction) (any, error)

// Engine runs the automaton described by a Tables bundle. An Engine keeps
// per-parse state and must not be used by two parses at once; the tables
// may be shared freely.
type Engine struct {
	tables  *Tables
	actions []Action

	// MaxExpected is the largest number of expected tokens listed in a
	// syntax error; above it the hint is dropped.
	MaxExpected int

	stack          stack
	errorState     int
	handler        ErrorHandler
	abort          error
	tokenSpan      Span
	lookaheadStart Position
}

// NewEngine returns an engine for t. actions is indexed by rule number; a
// nil entry passes through the value of the first right-hand-side symbol.
func NewEngine(t *Tables, actions []Action) *Engine {
	return &Engine{
		tables:      t,
		actions:     actions,
		MaxExpected: DefaultMaxExpected,
	}
}

func (e *Engine) Tables() *Tables {
	return e.tables
}

func (e *Engine) reset(handler ErrorHandler) {
	if handler == nil {
		handler = Throwing{}
	}
	e.handler = handler
	e.abort = nil
	e.errorState = 0
	e.tokenSpan = Span{}
	e.lookaheadStart = Position{}
	e.stack = e.stack[:0]
	e.stack.push(record{state: 0})
}

// Parse consumes tokens from lex until the input is accepted or the parse
// fails. It returns the semantic value of the start symbol; partial results
// are returned whenever error recovery succeeded. A nil handler aborts on
// the first error.
func (e *Engine) Parse(lex Lexer, handler ErrorHandler) (any, error) {
	e.reset(handler)
	defer func() {
		e.handler = nil
	}()

	t := e.tables
	state := 0
	symbol := SymbolNone
	var value any
	var rule int

	for {
		if t.ActionBase[state] == 0 {
			rule = t.ActionDefault[state]
		} else {
			if symbol == SymbolNone {
				tok := lex.NextToken()
				sym, err := e.symbolOf(tok.ID)
				if err != nil {
					return nil, err
				}
				symbol, value = sym, tok.Value
				e.tokenSpan = Span{Start: tok.Start, End: tok.End}
				e.lookaheadStart = tok.Start
			}

			if action, ok := t.action(state, symbol); ok {
				if action > 0 {
					e.stack.push(record{state: action, value: value, start: e.tokenSpan.Start, end: e.tokenSpan.End})
					symbol, value = SymbolNone, nil
					if e.errorState > 0 {
						e.errorState--
					}
					if action < t.NumNonLeafStates {
						state = action
						continue
					}
					rule = action - t.NumNonLeafStates
				} else {
					rule = -action
				}
			} else {
				rule = t.ActionDefault[state]
			}
		}

	reduce:
		for {
			switch {
			case rule == 0:
				return e.stack.top().value, nil
			case rule != UnexpectedTokenRule:
				next, err := e.reduce(rule)
				if err != nil {
					return nil, err
				}
				state = next
			default:
				switch e.errorState {
				case 0:
					e.emit(e.syntaxError(symbol, state))
					if e.abort != nil {
						return nil, e.abort
					}
					fallthrough
				case 1, 2:
					e.errorState = 3
					next, ok := e.shiftErrorSymbol(state)
					if !ok {
						log.Debugf("no state on the stack accepts the error symbol")
						return nil, ErrUnrecoverable
					}
					state = next
				case 3:
					// Without a buffered token nothing can be discarded, so
					// no progress is possible.
					if symbol == EOFSymbol || symbol == SymbolNone {
						log.Debugf("reached end of input while discarding tokens")
						return nil, ErrUnrecoverable
					}
					log.Debugf("discarding %s", t.symbolName(symbol))
					symbol, value = SymbolNone, nil
					break reduce
				}
			}

			if state < t.NumNonLeafStates {
				break
			}
			rule = state - t.NumNonLeafStates
		}
	}
}

func (e *Engine) symbolOf(id int) (int, error) {
	t := e.tables
	if id < 0 || id >= len(t.TokenToSymbol) || t.TokenToSymbol[id] == t.InvalidSymbol {
		return 0, errors.Wrapf(ErrInvalidToken, "token id %d", id)
	}
	return t.TokenToSymbol[id], nil
}

// reduce runs the action of rule, replaces its right-hand side on the stack
// with the produced value and returns the goto state.
func (e *Engine) reduce(rule int) (int, error) {
	t := e.tables
	n := t.RuleToLength[rule]
	top := e.stack.pos()
	if n > top {
		return 0, errors.Wrapf(ErrCorruptTables, "rule %d pops %d records from a stack of %d", rule, n, top)
	}
	base := top - n + 1

	r := Reduction{engine: e, rule: rule, base: base, length: n}
	var value any
	var err error
	if rule < len(e.actions) && e.actions[rule] != nil {
		value, err = e.actions[rule](&r)
	} else if n > 0 {
		value = e.stack[base].value
	}
	if e.abort != nil {
		return 0, e.abort
	}
	if err != nil {
		return 0, e.fail(rule, err)
	}

	start := e.lookaheadStart
	if n > 0 {
		start = e.stack[base].start
	}
	end := e.stack[top].end

	exposed := e.stack.pop(n)
	state := t.gotoState(t.RuleToNonTerminal[rule], e.stack[exposed].state)
	e.stack.push(record{state: state, value: value, start: start, end: end})
	return state, nil
}

// fail turns an action error into the parse result.
func (e *Engine) fail(rule int, err error) error {
	var perr *Error
	if !errors.As(err, &perr) {
		return errors.Wrapf(err, "lalr: reducing %s", e.production(rule))
	}
	perr.Attach(e.tokenSpan)
	e.emit(perr)
	if e.abort != nil {
		return e.abort
	}
	return ErrUnrecoverable
}

// shiftErrorSymbol pops the stack until a state accepts the error symbol and
// shifts it there. The error symbol covers no input: it starts at the
// lookahead and ends where the previous record ends.
func (e *Engine) shiftErrorSymbol(state int) (int, bool) {
	t := e.tables
	for {
		if action, ok := t.action(state, t.ErrorSymbol); ok && action > 0 {
			prev := e.stack.top()
			e.stack.push(record{state: action, start: e.lookaheadStart, end: prev.end})
			return action, true
		}
		if e.stack.pos() <= 0 {
			return 0, false
		}
		state = e.stack[e.stack.pop(1)].state
	}
}

func (e *Engine) emit(err *Error) {
	if e.abort != nil {
		return
	}
	if herr := e.handler.HandleError(err); herr != nil {
		e.abort = herr
	}
}

func (e *Engine) syntaxError(symbol, state int) *Error {
	t := e.tables
	var b strings.Builder
	b.WriteString("Syntax error")
	if symbol != SymbolNone {
		b.WriteString(", unexpected ")
		b.WriteString(t.symbolName(symbol))
	}
	if expected := e.expectedTokens(state); len(expected) > 0 {
		b.WriteString(", expecting ")
		b.WriteString(strings.Join(expected, " or "))
	}
	return NewErrorAt(b.String(), e.tokenSpan)
}

// expectedTokens lists the terminals with an explicit action in state. More
// than MaxExpected candidates yield nil, since a truncated list misleads.
func (e *Engine) expectedTokens(state int) []string {
	t := e.tables
	var expected []string
	for symbol, name := range t.SymbolToName {
		if symbol == t.ErrorSymbol {
			continue
		}
		action, ok := t.action(state, symbol)
		if !ok || action == -UnexpectedTokenRule {
			continue
		}
		if len(expected) == e.MaxExpected {
			return nil
		}
		expected = append(expected, name)
	}
	return expected
}

func (e *Engine) production(rule int) string {
	if rule >= 0 && rule < len(e.tables.Productions) {
		return e.tables.Productions[rule]
	}
	return "rule"
}

// Reduction is the view of the stack handed to an Action. Positions are
// 1-based like $1..$n in yacc.
type Reduction struct {
	engine *Engine
	rule   int
	base   int
	length int
}

func (r *Reduction) Rule() int {
	return r.rule
}

func (r *Reduction) Len() int {
	return r.length
}

// Value returns the semantic value of the i-th right-hand-side symbol.
func (r *Reduction) Value(i int) any {
	return r.engine.stack[r.base+i-1].value
}

// SpanAt returns the source span of the i-th right-hand-side symbol.
func (r *Reduction) SpanAt(i int) Span {
	idx := r.base + i - 1
	return r.engine.stack.span(idx, idx)
}

// Span covers the whole right-hand side. Empty rules start at the lookahead
// and end where the previous symbol ended.
func (r *Reduction) Span() Span {
	s := r.engine.stack
	if r.length == 0 {
		return Span{Start: r.engine.lookaheadStart, End: s[r.base-1].end}
	}
	return s.span(r.base, r.base+r.length-1)
}

// LookaheadStart is the start of the most recently read token.
func (r *Reduction) LookaheadStart() Position {
	return r.engine.lookaheadStart
}

// Report hands a recoverable error to the ErrorHandler. If the handler
// aborts, the parse stops once the action returns.
func (r *Reduction) Report(err *Error) {
	r.engine.emit(err)
}

package gen

// Assoc is the associativity of a precedence level.
type Assoc int

const (
	Left Assoc = iota
	Right
	NonAssoc
)

func (a Assoc) String() string {
	switch a {
	case Left:
		return "left"
	case Right:
		return "right"
	case NonAssoc:
		return "nonassoc"
	}
	return "unknown"
}

// Terminal binds a grammar terminal to the lexer's token id. Name is the
// unquoted text for literal tokens ("if", ";") and the bare name otherwise
// (T_STRING).
type Terminal struct {
	Name string
	ID   int
}

// Level is one precedence level. Levels are listed from lowest to highest
// binding, as in yacc.
type Level struct {
	Assoc     Assoc
	Terminals []string
}

type Options struct {
	// Start is the start nonterminal; the first production when empty.
	Start string

	// EOF is the lexer's token id for end of input.
	EOF int

	Terminals  []Terminal
	Precedence []Level

	// ExpectConflicts is the number of unresolved conflicts tolerated.
	// Shift/reduce conflicts resolve to shift, reduce/reduce conflicts to
	// the earlier rule.
	ExpectConflicts int

	// CombineLeafStates folds states whose only move is a single default
	// reduction into the shift or goto that enters them.
	CombineLeafStates bool
}

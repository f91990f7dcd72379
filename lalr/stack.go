package lalr

// record is one slot of the parse stack: the automaton state, the semantic
// value of the symbol that led there and the source span of that symbol.
// Keeping the four columns in one record keeps them the same length.
type record struct {
	state int
	value any
	start Position
	end   Position
}

type stack []record

func (s *stack) push(r record) {
	*s = append(*s, r)
}

// pop removes n records and returns the new top index.
func (s *stack) pop(n int) int {
	*s = (*s)[:len(*s)-n]
	return len(*s) - 1
}

func (s stack) top() *record {
	return &s[len(s)-1]
}

// pos is the index of the top record; the bottom record has pos 0.
func (s stack) pos() int {
	return len(s) - 1
}

func (s stack) span(from, to int) Span {
	return Span{Start: s[from].start, End: s[to].end}
}

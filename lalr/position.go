package lalr

import "fmt"

// Position is a location in source text. Lines and columns start at 1; the
// zero Position means "unknown".
type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) IsValid() bool {
	return p.Line > 0
}

func (p Position) String() string {
	if p.File != "" {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span is the source range covered by a token or a reduced node.
type Span struct {
	Start Position
	End   Position
}

// Union returns the smallest span covering both s and o. Invalid endpoints
// are ignored.
func (s Span) Union(o Span) Span {
	out := s
	if !out.Start.IsValid() || (o.Start.IsValid() && o.Start.Offset < out.Start.Offset) {
		out.Start = o.Start
	}
	if !out.End.IsValid() || (o.End.IsValid() && o.End.Offset > out.End.Offset) {
		out.End = o.End
	}
	return out
}

func (s Span) String() string {
	return s.Start.String() + "-" + s.End.String()
}

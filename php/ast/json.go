package ast

import "encoding/json"

type jsonNode struct {
	Kind     string      `json:"kind"`
	Span     *jsonSpan   `json:"span,omitempty"`
	Flags    []string    `json:"flags,omitempty"`
	Text     string      `json:"text,omitempty"`
	Value    any         `json:"value,omitempty"`
	Name     *jsonNode   `json:"name,omitempty"`
	Type     *jsonNode   `json:"type,omitempty"`
	Expr     *jsonNode   `json:"expr,omitempty"`
	Children []*jsonNode `json:"children,omitempty"`
	Stmts    []*jsonNode `json:"stmts,omitempty"`
}

type jsonSpan struct {
	Start jsonPosition `json:"start"`
	End   jsonPosition `json:"end"`
}

type jsonPosition struct {
	Line   int `json:"line"`
	Column int `json:"column"`
	Offset int `json:"offset"`
}

func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.toJSON())
}

func (n *Node) toJSON() *jsonNode {
	if n == nil {
		return nil
	}
	jn := &jsonNode{
		Kind:  n.Kind.String(),
		Text:  n.Text,
		Value: n.Value,
		Name:  n.Name.toJSON(),
		Type:  n.Type.toJSON(),
		Expr:  n.Expr.toJSON(),
	}

	if n.Span.Start.Line != 0 || n.Span.End.Line != 0 {
		jn.Span = &jsonSpan{
			Start: jsonPosition{Line: n.Span.Start.Line, Column: n.Span.Start.Column, Offset: n.Span.Start.Offset},
			End:   jsonPosition{Line: n.Span.End.Line, Column: n.Span.End.Column, Offset: n.Span.End.Offset},
		}
	}

	for _, m := range modifierNames {
		if n.Flags&m.flag != 0 {
			jn.Flags = append(jn.Flags, m.name)
		}
	}

	for _, child := range n.Children {
		jn.Children = append(jn.Children, child.toJSON())
	}
	for _, stmt := range n.Stmts {
		jn.Stmts = append(jn.Stmts, stmt.toJSON())
	}
	return jn
}

package ast

// Inspect traverses the tree depth-first. If f returns false the children
// of that node are skipped.
func Inspect(n *Node, f func(*Node) bool) {
	if n == nil || !f(n) {
		return
	}
	Inspect(n.Name, f)
	Inspect(n.Type, f)
	Inspect(n.Expr, f)
	for _, child := range n.Children {
		Inspect(child, f)
	}
	for _, stmt := range n.Stmts {
		Inspect(stmt, f)
	}
}

// InspectAll runs Inspect over every statement.
func InspectAll(stmts []*Node, f func(*Node) bool) {
	for _, stmt := range stmts {
		Inspect(stmt, f)
	}
}

// Collect returns every node of the given kind.
func Collect(stmts []*Node, kind NodeKind) []*Node {
	var out []*Node
	InspectAll(stmts, func(n *Node) bool {
		if n.Kind == kind {
			out = append(out, n)
		}
		return true
	})
	return out
}

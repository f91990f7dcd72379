package parser

import (
	"strings"

	"github.com/dhamidi/phparse/lalr"
	"github.com/dhamidi/phparse/php/ast"
)

type namespaceStyle int

const (
	styleNone namespaceStyle = iota
	styleSemicolon
	styleBrace
)

func styleOf(ns *ast.Node) namespaceStyle {
	if ns.Flags.Has(ast.FlagBraced) {
		return styleBrace
	}
	return styleSemicolon
}

// normalizeNamespaces folds the statements following each `namespace X;`
// into that namespace, so both declaration styles yield the same tree.
func normalizeNamespaces(stmts []*ast.Node, report func(*lalr.Error)) []*ast.Node {
	switch namespacingStyle(stmts, report) {
	case styleNone:
		return stmts
	case styleBrace:
		afterFirst := false
		for _, stmt := range stmts {
			switch {
			case stmt.Kind == ast.KindNamespace:
				afterFirst = true
			case stmt.Kind == ast.KindHaltCompiler, stmt.Kind == ast.KindNop:
			case afterFirst:
				report(lalr.NewErrorAt("No code may exist outside of namespace {}", stmt.Span))
				return stmts
			}
		}
		return stmts
	}

	var result []*ast.Node
	var current *ast.Node
	for _, stmt := range stmts {
		switch {
		case stmt.Kind == ast.KindNamespace:
			extendToLastStatement(current)
			result = append(result, stmt)
			current = nil
			if !stmt.Flags.Has(ast.FlagBraced) {
				current = stmt
			}
		case stmt.Kind == ast.KindHaltCompiler:
			result = append(result, stmt)
		case current != nil:
			current.Stmts = append(current.Stmts, stmt)
		default:
			result = append(result, stmt)
		}
	}
	extendToLastStatement(current)
	return result
}

func extendToLastStatement(ns *ast.Node) {
	if ns == nil || len(ns.Stmts) == 0 {
		return
	}
	ns.Span.End = ns.Stmts[len(ns.Stmts)-1].Span.End
}

// namespacingStyle determines the style of the file and reports namespaces
// that come too late or mix styles. Mixed files are normalized as
// semicolon style.
func namespacingStyle(stmts []*ast.Node, report func(*lalr.Error)) namespaceStyle {
	style := styleNone
	hasNotAllowed := false
	for i, stmt := range stmts {
		switch stmt.Kind {
		case ast.KindNamespace:
			current := styleOf(stmt)
			if style == styleNone {
				style = current
				if hasNotAllowed {
					report(lalr.NewErrorAt("Namespace declaration statement has to be the very first statement in the script", keywordSpan(stmt)))
				}
			} else if style != current {
				report(lalr.NewErrorAt("Cannot mix bracketed namespace declarations with unbracketed namespace declarations", keywordSpan(stmt)))
				return styleSemicolon
			}
			continue
		case ast.KindDeclare, ast.KindHaltCompiler, ast.KindNop:
			continue
		case ast.KindInlineHTML:
			if i == 0 && isShebang(stmt.Text) {
				continue
			}
		}
		hasNotAllowed = true
	}
	return style
}

// keywordSpan narrows a namespace statement to its `namespace` keyword.
func keywordSpan(ns *ast.Node) lalr.Span {
	start := ns.Span.Start
	end := start
	end.Offset += len("namespace")
	end.Column += len("namespace")
	return lalr.Span{Start: start, End: end}
}

func isShebang(html string) bool {
	return strings.HasPrefix(html, "#!") &&
		strings.HasSuffix(html, "\n") &&
		strings.Count(html, "\n") == 1
}

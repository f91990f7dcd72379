package parser

import (
	"fmt"
	"strings"

	"github.com/dhamidi/phparse/lalr"
	"github.com/dhamidi/phparse/php/ast"
)

var specialClassNames = map[string]bool{
	"self":   true,
	"parent": true,
	"static": true,
}

// isSpecialClassName reports whether n is an unqualified self, parent or
// static.
func isSpecialClassName(n *ast.Node) bool {
	if n == nil {
		return false
	}
	if n.Kind != ast.KindIdentifier && n.Kind != ast.KindName {
		return false
	}
	return specialClassNames[strings.ToLower(n.Text)]
}

func checkClassName(r *lalr.Reduction, name *ast.Node) {
	if isSpecialClassName(name) {
		r.Report(lalr.Errorf(name.Span, "Cannot use '%s' as class name as it is reserved", name.Text))
	}
}

func checkImplementedInterfaces(r *lalr.Reduction, interfaces []*ast.Node) {
	for _, iface := range interfaces {
		if isSpecialClassName(iface) {
			r.Report(lalr.Errorf(iface.Span, "Cannot use '%s' as interface name as it is reserved", iface.Text))
		}
	}
}

func checkClass(r *lalr.Reduction, class *ast.Node) {
	checkClassName(r, class.Name)
	if isSpecialClassName(class.Type) {
		r.Report(lalr.Errorf(class.Type.Span, "Cannot use '%s' as class name as it is reserved", class.Type.Text))
	}
	checkImplementedInterfaces(r, class.Children)
}

func checkInterface(r *lalr.Reduction, iface *ast.Node) {
	checkClassName(r, iface.Name)
	checkImplementedInterfaces(r, iface.Children)
}

func checkNamespace(r *lalr.Reduction, ns *ast.Node) {
	if isSpecialClassName(ns.Name) {
		r.Report(lalr.Errorf(ns.Name.Span, "Cannot use '%s' as namespace name", ns.Name.Text))
	}
	for _, stmt := range ns.Stmts {
		if stmt.Kind == ast.KindNamespace {
			r.Report(lalr.NewErrorAt("Namespace declarations cannot be nested", stmt.Span))
		}
	}
}

// checkUseItem rejects an explicit alias that names a special class.
func checkUseItem(r *lalr.Reduction, item *ast.Node, at lalr.Span) {
	alias := item.FirstChildOfKind(ast.KindIdentifier)
	if alias == nil || !specialClassNames[strings.ToLower(alias.Text)] {
		return
	}
	r.Report(lalr.Errorf(at, "Cannot use %s as %s because '%s' is a special class name",
		item.Name.Source(), alias.Text, alias.Text))
}

func checkParam(r *lalr.Reduction, param *ast.Node) {
	if param.Flags.Has(ast.FlagVariadic) && param.Expr != nil {
		r.Report(lalr.NewErrorAt("Variadic parameter cannot have a default value", param.Expr.Span))
	}
}

func checkTry(r *lalr.Reduction, try *ast.Node) {
	if len(try.Children) == 0 {
		r.Report(lalr.NewErrorAt("Cannot use try without catch or finally", try.Span))
	}
}

func checkClassConst(r *lalr.Reduction, flags ast.Flags, at lalr.Span) {
	for _, f := range []ast.Flags{ast.FlagStatic, ast.FlagAbstract, ast.FlagFinal, ast.FlagReadonly} {
		if flags.Has(f) {
			r.Report(lalr.Errorf(at, "Cannot use '%s' as constant modifier", ast.ModifierName(f)))
		}
	}
}

func checkProperty(r *lalr.Reduction, flags ast.Flags, at lalr.Span) {
	if flags.Has(ast.FlagAbstract) {
		r.Report(lalr.NewErrorAt("Properties cannot be declared abstract", at))
	}
	if flags.Has(ast.FlagFinal) {
		r.Report(lalr.NewErrorAt("Properties cannot be declared final", at))
	}
}

func checkMethod(r *lalr.Reduction, method *ast.Node, at lalr.Span) {
	name := method.NameText()
	if method.Flags.Has(ast.FlagStatic) {
		switch strings.ToLower(name) {
		case "__construct":
			r.Report(lalr.Errorf(at, "Constructor %s() cannot be static", name))
		case "__destruct":
			r.Report(lalr.Errorf(at, "Destructor %s() cannot be static", name))
		case "__clone":
			r.Report(lalr.Errorf(at, "Clone method %s() cannot be static", name))
		}
	}
	if method.Flags.Has(ast.FlagReadonly) {
		r.Report(lalr.Errorf(at, "Method %s() cannot be readonly", name))
	}
}

// verifyModifier rejects adding modifier b to the member modifiers a. A
// malformed list cannot be represented, so the error is fatal.
func verifyModifier(a, b ast.Flags, at lalr.Span) error {
	switch {
	case a&ast.FlagVisibility != 0 && b&ast.FlagVisibility != 0:
		return lalr.NewErrorAt("Multiple access type modifiers are not allowed", at)
	case a.Has(ast.FlagAbstract) && b.Has(ast.FlagAbstract),
		a.Has(ast.FlagStatic) && b.Has(ast.FlagStatic),
		a.Has(ast.FlagFinal) && b.Has(ast.FlagFinal),
		a.Has(ast.FlagReadonly) && b.Has(ast.FlagReadonly):
		return lalr.NewErrorAt(fmt.Sprintf("Multiple %s modifiers are not allowed", ast.ModifierName(b)), at)
	case abstractAndFinal(a, b):
		return lalr.NewErrorAt("Cannot use the final modifier on an abstract class member", at)
	}
	return nil
}

func verifyClassModifier(a, b ast.Flags, at lalr.Span) error {
	switch {
	case a.Has(ast.FlagAbstract) && b.Has(ast.FlagAbstract),
		a.Has(ast.FlagFinal) && b.Has(ast.FlagFinal),
		a.Has(ast.FlagReadonly) && b.Has(ast.FlagReadonly):
		return lalr.NewErrorAt(fmt.Sprintf("Multiple %s modifiers are not allowed", ast.ModifierName(b)), at)
	case abstractAndFinal(a, b):
		return lalr.NewErrorAt("Cannot use the final modifier on an abstract class", at)
	}
	return nil
}

func abstractAndFinal(a, b ast.Flags) bool {
	const both = ast.FlagAbstract | ast.FlagFinal
	return a&both != 0 && b&both != 0
}

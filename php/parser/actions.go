package parser

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/dhamidi/phparse/lalr"
	"github.com/dhamidi/phparse/php/ast"
)

// bindActions orders actions by rule number. Every key must name a rule of
// t; rules without an action pass their first value through.
func bindActions(t *lalr.Tables, actions map[string]lalr.Action) ([]lalr.Action, error) {
	index := make(map[string]int, len(t.Productions))
	for i, p := range t.Productions {
		index[p] = i
	}
	out := make([]lalr.Action, len(t.Productions))
	for rule, action := range actions {
		i, ok := index[rule]
		if !ok {
			return nil, errors.Errorf("action for unknown rule %q", rule)
		}
		out[i] = action
	}
	return out, nil
}

func nodeAt(r *lalr.Reduction, i int) *ast.Node {
	n, _ := r.Value(i).(*ast.Node)
	return n
}

func listAt(r *lalr.Reduction, i int) []*ast.Node {
	l, _ := r.Value(i).([]*ast.Node)
	return l
}

func textAt(r *lalr.Reduction, i int) string {
	s, _ := r.Value(i).(string)
	return s
}

func flagsAt(r *lalr.Reduction, i int) ast.Flags {
	f, _ := r.Value(i).(ast.Flags)
	return f
}

func identifierAt(r *lalr.Reduction, i int) *ast.Node {
	return &ast.Node{Kind: ast.KindIdentifier, Span: r.SpanAt(i), Text: textAt(r, i)}
}

func variableName(tok string) string {
	return strings.TrimPrefix(tok, "$")
}

// nameFrom builds a name node from a name token.
func nameFrom(tok string, span lalr.Span) *ast.Node {
	n := &ast.Node{Kind: ast.KindName, Span: span, Text: tok}
	switch {
	case strings.HasPrefix(tok, `\`):
		n.Kind = ast.KindFullyQualifiedName
		n.Text = tok[1:]
	case len(tok) > len(`namespace\`) && strings.EqualFold(tok[:len(`namespace\`)], `namespace\`):
		n.Kind = ast.KindRelativeName
		n.Text = tok[len(`namespace\`):]
	}
	return n
}

// blockStmts unwraps the body of a loop written with or without braces.
func blockStmts(stmt *ast.Node) []*ast.Node {
	switch {
	case stmt == nil:
		return nil
	case stmt.Kind == ast.KindBlock:
		return stmt.Stmts
	}
	return []*ast.Node{stmt}
}

func build(kind ast.NodeKind, r *lalr.Reduction, init func(n *ast.Node)) *ast.Node {
	n := &ast.Node{Kind: kind, Span: r.Span()}
	if init != nil {
		init(n)
	}
	return n
}

// single starts a list from the first value.
func single(r *lalr.Reduction) (any, error) {
	if n := nodeAt(r, 1); n != nil {
		return []*ast.Node{n}, nil
	}
	return []*ast.Node{}, nil
}

// appendAt appends the i-th value to the list in the first slot.
func appendAt(i int) lalr.Action {
	return func(r *lalr.Reduction) (any, error) {
		list := listAt(r, 1)
		if n := nodeAt(r, i); n != nil {
			list = append(list, n)
		}
		return list, nil
	}
}

func emptyList(r *lalr.Reduction) (any, error) {
	return []*ast.Node{}, nil
}

func flag(f ast.Flags) lalr.Action {
	return func(r *lalr.Reduction) (any, error) {
		return f, nil
	}
}

func nameToken(r *lalr.Reduction) (any, error) {
	return nameFrom(textAt(r, 1), r.SpanAt(1)), nil
}

var binaryOperators = []string{
	"||", "&&", "==", "!=", "===", "!==", "<", "<=", ">", ">=",
	"+", "-", ".", "*", "/", "%",
}

func (p *Parser) ruleActions() map[string]lalr.Action {
	m := map[string]lalr.Action{
		"Start = TopStatementList": func(r *lalr.Reduction) (any, error) {
			return normalizeNamespaces(listAt(r, 1), r.Report), nil
		},

		"TopStatementList = TopStatementList TopStatement": appendAt(2),
		"TopStatementList = <empty>":                       emptyList,

		"TopStatement = '__halt_compiler' '(' ')' ';'": func(r *lalr.Reduction) (any, error) {
			return build(ast.KindHaltCompiler, r, func(n *ast.Node) {
				n.Text = p.src.haltData()
			}), nil
		},
		"TopStatement = 'namespace' NamespaceName ';'": func(r *lalr.Reduction) (any, error) {
			ns := build(ast.KindNamespace, r, func(n *ast.Node) {
				n.Name = nodeAt(r, 2)
			})
			checkNamespace(r, ns)
			return ns, nil
		},
		"TopStatement = 'namespace' NamespaceName '{' TopStatementList '}'": func(r *lalr.Reduction) (any, error) {
			ns := build(ast.KindNamespace, r, func(n *ast.Node) {
				n.Name = nodeAt(r, 2)
				n.Flags = ast.FlagBraced
				n.Stmts = listAt(r, 4)
			})
			checkNamespace(r, ns)
			return ns, nil
		},
		"TopStatement = 'namespace' '{' TopStatementList '}'": func(r *lalr.Reduction) (any, error) {
			ns := build(ast.KindNamespace, r, func(n *ast.Node) {
				n.Flags = ast.FlagBraced
				n.Stmts = listAt(r, 3)
			})
			checkNamespace(r, ns)
			return ns, nil
		},
		"TopStatement = 'use' UseList ';'": func(r *lalr.Reduction) (any, error) {
			return build(ast.KindUse, r, func(n *ast.Node) {
				n.Children = listAt(r, 2)
			}), nil
		},
		"TopStatement = 'const' ConstList ';'": func(r *lalr.Reduction) (any, error) {
			return build(ast.KindConst, r, func(n *ast.Node) {
				n.Children = listAt(r, 2)
			}), nil
		},

		"NamespaceName = T_STRING":         nameToken,
		"NamespaceName = T_NAME_QUALIFIED": nameToken,

		"UseList = UseItem":             single,
		"UseList = UseList ',' UseItem": appendAt(3),
		"UseItem = UseName": func(r *lalr.Reduction) (any, error) {
			item := build(ast.KindUseItem, r, func(n *ast.Node) {
				n.Name = nodeAt(r, 1)
			})
			checkUseItem(r, item, r.SpanAt(1))
			return item, nil
		},
		"UseItem = UseName 'as' T_STRING": func(r *lalr.Reduction) (any, error) {
			item := build(ast.KindUseItem, r, func(n *ast.Node) {
				n.Name = nodeAt(r, 1)
				n.AddChild(identifierAt(r, 3))
			})
			checkUseItem(r, item, r.SpanAt(3))
			return item, nil
		},
		"UseName = T_STRING":               nameToken,
		"UseName = T_NAME_QUALIFIED":       nameToken,
		"UseName = T_NAME_FULLY_QUALIFIED": nameToken,

		"ConstList = ConstItem":               single,
		"ConstList = ConstList ',' ConstItem": appendAt(3),
		"ConstItem = T_STRING '=' Expr": func(r *lalr.Reduction) (any, error) {
			return build(ast.KindConstItem, r, func(n *ast.Node) {
				n.Name = identifierAt(r, 1)
				n.Expr = nodeAt(r, 3)
			}), nil
		},

		"InnerStatementList = InnerStatementList InnerStatement": appendAt(2),
		"InnerStatementList = <empty>":                           emptyList,
		"InnerStatement = '__halt_compiler'": func(r *lalr.Reduction) (any, error) {
			return nil, lalr.NewErrorAt("__HALT_COMPILER() can only be used from the outermost scope", r.Span())
		},

		"Statement = '{' InnerStatementList '}'": func(r *lalr.Reduction) (any, error) {
			return build(ast.KindBlock, r, func(n *ast.Node) {
				n.Stmts = listAt(r, 2)
			}), nil
		},
		"Statement = 'while' '(' Expr ')' Statement": func(r *lalr.Reduction) (any, error) {
			return build(ast.KindWhile, r, func(n *ast.Node) {
				n.Expr = nodeAt(r, 3)
				n.Stmts = blockStmts(nodeAt(r, 5))
			}), nil
		},
		"Statement = 'return' ';'": func(r *lalr.Reduction) (any, error) {
			return build(ast.KindReturn, r, nil), nil
		},
		"Statement = 'return' Expr ';'": func(r *lalr.Reduction) (any, error) {
			return build(ast.KindReturn, r, func(n *ast.Node) {
				n.Expr = nodeAt(r, 2)
			}), nil
		},
		"Statement = 'echo' ExprList ';'": func(r *lalr.Reduction) (any, error) {
			return build(ast.KindEcho, r, func(n *ast.Node) {
				n.Children = listAt(r, 2)
			}), nil
		},
		"Statement = Expr ';'": func(r *lalr.Reduction) (any, error) {
			return build(ast.KindExprStmt, r, func(n *ast.Node) {
				n.Expr = nodeAt(r, 1)
			}), nil
		},
		"Statement = 'try' '{' InnerStatementList '}' CatchList FinallyClause": func(r *lalr.Reduction) (any, error) {
			try := build(ast.KindTry, r, func(n *ast.Node) {
				n.Stmts = listAt(r, 3)
				n.Children = append(n.Children, listAt(r, 5)...)
				n.AddChild(nodeAt(r, 6))
			})
			checkTry(r, try)
			return try, nil
		},
		"Statement = 'throw' Expr ';'": func(r *lalr.Reduction) (any, error) {
			return build(ast.KindThrow, r, func(n *ast.Node) {
				n.Expr = nodeAt(r, 2)
			}), nil
		},
		"Statement = 'declare' '(' DeclareList ')' ';'": func(r *lalr.Reduction) (any, error) {
			return build(ast.KindDeclare, r, func(n *ast.Node) {
				n.Children = listAt(r, 3)
			}), nil
		},
		"Statement = 'declare' '(' DeclareList ')' '{' InnerStatementList '}'": func(r *lalr.Reduction) (any, error) {
			return build(ast.KindDeclare, r, func(n *ast.Node) {
				n.Children = listAt(r, 3)
				n.Stmts = listAt(r, 6)
				n.Flags = ast.FlagBraced
			}), nil
		},
		"Statement = ';'": func(r *lalr.Reduction) (any, error) {
			return build(ast.KindNop, r, nil), nil
		},
		"Statement = T_INLINE_HTML": func(r *lalr.Reduction) (any, error) {
			return build(ast.KindInlineHTML, r, func(n *ast.Node) {
				n.Text = textAt(r, 1)
			}), nil
		},
		"Statement = error": func(r *lalr.Reduction) (any, error) {
			return nil, nil
		},

		"IfStatement = 'if' '(' Expr ')' '{' InnerStatementList '}' ElseClause": func(r *lalr.Reduction) (any, error) {
			return build(ast.KindIf, r, func(n *ast.Node) {
				n.Expr = nodeAt(r, 3)
				n.Stmts = listAt(r, 6)
				n.Children = listAt(r, 8)
			}), nil
		},
		"ElseClause = 'elseif' '(' Expr ')' '{' InnerStatementList '}' ElseClause": func(r *lalr.Reduction) (any, error) {
			elseIf := &ast.Node{
				Kind:  ast.KindElseIf,
				Span:  r.SpanAt(1).Union(r.SpanAt(7)),
				Expr:  nodeAt(r, 3),
				Stmts: listAt(r, 6),
			}
			return append([]*ast.Node{elseIf}, listAt(r, 8)...), nil
		},
		"ElseClause = 'else' '{' InnerStatementList '}'": func(r *lalr.Reduction) (any, error) {
			return []*ast.Node{build(ast.KindElse, r, func(n *ast.Node) {
				n.Stmts = listAt(r, 3)
			})}, nil
		},
		"ElseClause = 'else' IfStatement": func(r *lalr.Reduction) (any, error) {
			return []*ast.Node{build(ast.KindElse, r, func(n *ast.Node) {
				n.Stmts = []*ast.Node{nodeAt(r, 2)}
			})}, nil
		},

		"CatchList = CatchList Catch": appendAt(2),
		"Catch = 'catch' '(' CatchTypes T_VARIABLE ')' '{' InnerStatementList '}'": func(r *lalr.Reduction) (any, error) {
			return build(ast.KindCatch, r, func(n *ast.Node) {
				n.Children = listAt(r, 3)
				n.Text = variableName(textAt(r, 4))
				n.Stmts = listAt(r, 7)
			}), nil
		},
		"CatchTypes = Name":                single,
		"CatchTypes = CatchTypes '|' Name": appendAt(3),
		"FinallyClause = 'finally' '{' InnerStatementList '}'": func(r *lalr.Reduction) (any, error) {
			return build(ast.KindFinally, r, func(n *ast.Node) {
				n.Stmts = listAt(r, 3)
			}), nil
		},

		"DeclareList = DeclareItem":                 single,
		"DeclareList = DeclareList ',' DeclareItem": appendAt(3),
		"DeclareItem = T_STRING '=' Expr": func(r *lalr.Reduction) (any, error) {
			return build(ast.KindDeclareItem, r, func(n *ast.Node) {
				n.Name = identifierAt(r, 1)
				n.Expr = nodeAt(r, 3)
			}), nil
		},

		"FunctionDeclaration = 'function' T_STRING '(' ParameterList ')' '{' InnerStatementList '}'": func(r *lalr.Reduction) (any, error) {
			return build(ast.KindFunction, r, func(n *ast.Node) {
				n.Name = identifierAt(r, 2)
				n.Children = listAt(r, 4)
				n.Stmts = listAt(r, 7)
			}), nil
		},

		"NonEmptyParameterList = Parameter":                           single,
		"NonEmptyParameterList = NonEmptyParameterList ',' Parameter": appendAt(3),
		"Parameter = OptionalType OptionalEllipsis T_VARIABLE": func(r *lalr.Reduction) (any, error) {
			return param(r, nil), nil
		},
		"Parameter = OptionalType OptionalEllipsis T_VARIABLE '=' Expr": func(r *lalr.Reduction) (any, error) {
			prm := param(r, nodeAt(r, 5))
			checkParam(r, prm)
			return prm, nil
		},
		"OptionalEllipsis = '...'": func(r *lalr.Reduction) (any, error) {
			return true, nil
		},
		"Type = 'array'": func(r *lalr.Reduction) (any, error) {
			return identifierAt(r, 1), nil
		},

		"ClassDeclaration = ClassModifiers 'class' T_STRING Extends Implements '{' ClassStatementList '}'": func(r *lalr.Reduction) (any, error) {
			class := build(ast.KindClass, r, func(n *ast.Node) {
				n.Flags = flagsAt(r, 1)
				n.Name = identifierAt(r, 3)
				n.Type = nodeAt(r, 4)
				n.Children = listAt(r, 5)
				n.Stmts = listAt(r, 7)
			})
			checkClass(r, class)
			return class, nil
		},
		"ClassModifiers = ClassModifiers ClassModifier": func(r *lalr.Reduction) (any, error) {
			a, b := flagsAt(r, 1), flagsAt(r, 2)
			if err := verifyClassModifier(a, b, r.Span()); err != nil {
				return nil, err
			}
			return a | b, nil
		},
		"ClassModifier = 'abstract'": flag(ast.FlagAbstract),
		"ClassModifier = 'final'":    flag(ast.FlagFinal),
		"ClassModifier = 'readonly'": flag(ast.FlagReadonly),
		"Extends = 'extends' Name": func(r *lalr.Reduction) (any, error) {
			return nodeAt(r, 2), nil
		},
		"Implements = 'implements' NameList": func(r *lalr.Reduction) (any, error) {
			return listAt(r, 2), nil
		},

		"InterfaceDeclaration = 'interface' T_STRING InterfaceExtends '{' ClassStatementList '}'": func(r *lalr.Reduction) (any, error) {
			iface := build(ast.KindInterface, r, func(n *ast.Node) {
				n.Name = identifierAt(r, 2)
				n.Children = listAt(r, 3)
				n.Stmts = listAt(r, 5)
			})
			checkInterface(r, iface)
			return iface, nil
		},
		"InterfaceExtends = 'extends' NameList": func(r *lalr.Reduction) (any, error) {
			return listAt(r, 2), nil
		},
		"NameList = Name":               single,
		"NameList = NameList ',' Name": appendAt(3),

		"ClassStatementList = ClassStatementList ClassStatement": appendAt(2),
		"ClassStatementList = <empty>":                           emptyList,
		"ClassStatement = VariableModifiers OptionalType PropertyList ';'": func(r *lalr.Reduction) (any, error) {
			prop := build(ast.KindProperty, r, func(n *ast.Node) {
				n.Flags = flagsAt(r, 1)
				n.Type = nodeAt(r, 2)
				n.Children = listAt(r, 3)
			})
			checkProperty(r, prop.Flags, r.SpanAt(1))
			return prop, nil
		},
		"ClassStatement = MemberModifiers 'const' ConstList ';'": func(r *lalr.Reduction) (any, error) {
			c := build(ast.KindClassConst, r, func(n *ast.Node) {
				n.Flags = flagsAt(r, 1)
				n.Children = listAt(r, 3)
			})
			checkClassConst(r, c.Flags, r.SpanAt(1))
			return c, nil
		},
		"ClassStatement = MemberModifiers 'function' T_STRING '(' ParameterList ')' ';'": func(r *lalr.Reduction) (any, error) {
			m := build(ast.KindMethod, r, func(n *ast.Node) {
				n.Flags = flagsAt(r, 1)
				n.Name = identifierAt(r, 3)
				n.Children = listAt(r, 5)
			})
			checkMethod(r, m, r.SpanAt(1))
			return m, nil
		},
		"ClassStatement = MemberModifiers 'function' T_STRING '(' ParameterList ')' '{' InnerStatementList '}'": func(r *lalr.Reduction) (any, error) {
			m := build(ast.KindMethod, r, func(n *ast.Node) {
				n.Flags = flagsAt(r, 1) | ast.FlagBraced
				n.Name = identifierAt(r, 3)
				n.Children = listAt(r, 5)
				n.Stmts = listAt(r, 8)
			})
			checkMethod(r, m, r.SpanAt(1))
			return m, nil
		},
		"ClassStatement = error": func(r *lalr.Reduction) (any, error) {
			return nil, nil
		},
		"VariableModifiers = 'var'": flag(0),
		"NonEmptyMemberModifiers = NonEmptyMemberModifiers MemberModifier": func(r *lalr.Reduction) (any, error) {
			a, b := flagsAt(r, 1), flagsAt(r, 2)
			if err := verifyModifier(a, b, r.Span()); err != nil {
				return nil, err
			}
			return a | b, nil
		},
		"MemberModifier = 'public'":    flag(ast.FlagPublic),
		"MemberModifier = 'protected'": flag(ast.FlagProtected),
		"MemberModifier = 'private'":   flag(ast.FlagPrivate),
		"MemberModifier = 'static'":    flag(ast.FlagStatic),
		"MemberModifier = 'abstract'":  flag(ast.FlagAbstract),
		"MemberModifier = 'final'":     flag(ast.FlagFinal),
		"MemberModifier = 'readonly'":  flag(ast.FlagReadonly),

		"PropertyList = PropertyItem":                  single,
		"PropertyList = PropertyList ',' PropertyItem": appendAt(3),
		"PropertyItem = T_VARIABLE": func(r *lalr.Reduction) (any, error) {
			return build(ast.KindPropertyItem, r, func(n *ast.Node) {
				n.Text = variableName(textAt(r, 1))
			}), nil
		},
		"PropertyItem = T_VARIABLE '=' Expr": func(r *lalr.Reduction) (any, error) {
			return build(ast.KindPropertyItem, r, func(n *ast.Node) {
				n.Text = variableName(textAt(r, 1))
				n.Expr = nodeAt(r, 3)
			}), nil
		},

		"ExprList = Expr":              single,
		"ExprList = ExprList ',' Expr": appendAt(3),

		"Expr = Variable '=' Expr": func(r *lalr.Reduction) (any, error) {
			return build(ast.KindAssign, r, func(n *ast.Node) {
				n.Children = []*ast.Node{nodeAt(r, 1), nodeAt(r, 3)}
			}), nil
		},
		"Expr = Expr '?' Expr ':' Expr": func(r *lalr.Reduction) (any, error) {
			return build(ast.KindTernary, r, func(n *ast.Node) {
				n.Children = []*ast.Node{nodeAt(r, 1), nodeAt(r, 3), nodeAt(r, 5)}
			}), nil
		},
		"Expr = '(' Expr ')'": func(r *lalr.Reduction) (any, error) {
			return nodeAt(r, 2), nil
		},
		"Expr = 'new' ClassReference": func(r *lalr.Reduction) (any, error) {
			return build(ast.KindNew, r, func(n *ast.Node) {
				n.Type = nodeAt(r, 2)
			}), nil
		},
		"Expr = 'new' ClassReference Arguments": func(r *lalr.Reduction) (any, error) {
			return build(ast.KindNew, r, func(n *ast.Node) {
				n.Type = nodeAt(r, 2)
				n.Children = listAt(r, 3)
			}), nil
		},
		"Expr = '[' ArrayPairList ']'": func(r *lalr.Reduction) (any, error) {
			return build(ast.KindArray, r, func(n *ast.Node) {
				n.Children = listAt(r, 2)
			}), nil
		},
		"Expr = 'array' '(' ArrayPairList ')'": func(r *lalr.Reduction) (any, error) {
			return build(ast.KindArray, r, func(n *ast.Node) {
				n.Children = listAt(r, 3)
			}), nil
		},
		"Expr = Name": func(r *lalr.Reduction) (any, error) {
			return build(ast.KindConstFetch, r, func(n *ast.Node) {
				n.Name = nodeAt(r, 1)
			}), nil
		},
		"Expr = ClassReference '::' T_STRING": func(r *lalr.Reduction) (any, error) {
			return build(ast.KindClassConstFetch, r, func(n *ast.Node) {
				n.Type = nodeAt(r, 1)
				n.Name = identifierAt(r, 3)
			}), nil
		},

		"Variable = T_VARIABLE": func(r *lalr.Reduction) (any, error) {
			return build(ast.KindVariable, r, func(n *ast.Node) {
				n.Text = variableName(textAt(r, 1))
			}), nil
		},
		"Variable = Variable '[' ']'": func(r *lalr.Reduction) (any, error) {
			return build(ast.KindArrayDimFetch, r, func(n *ast.Node) {
				n.Expr = nodeAt(r, 1)
			}), nil
		},
		"Variable = Variable '[' Expr ']'": func(r *lalr.Reduction) (any, error) {
			return build(ast.KindArrayDimFetch, r, func(n *ast.Node) {
				n.Expr = nodeAt(r, 1)
				n.AddChild(nodeAt(r, 3))
			}), nil
		},
		"Variable = Variable '->' T_STRING": func(r *lalr.Reduction) (any, error) {
			return build(ast.KindPropertyFetch, r, func(n *ast.Node) {
				n.Expr = nodeAt(r, 1)
				n.Name = identifierAt(r, 3)
			}), nil
		},
		"Variable = Variable '->' T_STRING Arguments": func(r *lalr.Reduction) (any, error) {
			return build(ast.KindMethodCall, r, func(n *ast.Node) {
				n.Expr = nodeAt(r, 1)
				n.Name = identifierAt(r, 3)
				n.Children = listAt(r, 4)
			}), nil
		},
		"Variable = Name Arguments": func(r *lalr.Reduction) (any, error) {
			return build(ast.KindFuncCall, r, func(n *ast.Node) {
				n.Name = nodeAt(r, 1)
				n.Children = listAt(r, 2)
			}), nil
		},
		"Variable = ClassReference '::' T_STRING Arguments": func(r *lalr.Reduction) (any, error) {
			return build(ast.KindStaticCall, r, func(n *ast.Node) {
				n.Type = nodeAt(r, 1)
				n.Name = identifierAt(r, 3)
				n.Children = listAt(r, 4)
			}), nil
		},
		"Variable = ClassReference '::' T_VARIABLE": func(r *lalr.Reduction) (any, error) {
			return build(ast.KindStaticPropertyFetch, r, func(n *ast.Node) {
				n.Type = nodeAt(r, 1)
				n.Name = &ast.Node{Kind: ast.KindIdentifier, Span: r.SpanAt(3), Text: variableName(textAt(r, 3))}
			}), nil
		},

		"ClassReference = 'static'": func(r *lalr.Reduction) (any, error) {
			return &ast.Node{Kind: ast.KindName, Span: r.Span(), Text: "static"}, nil
		},

		"Name = T_STRING":               nameToken,
		"Name = T_NAME_QUALIFIED":       nameToken,
		"Name = T_NAME_FULLY_QUALIFIED": nameToken,
		"Name = T_NAME_RELATIVE":        nameToken,

		"Arguments = '(' ArgumentList ')'": func(r *lalr.Reduction) (any, error) {
			return listAt(r, 2), nil
		},
		"NonEmptyArgumentList = Expr":                          single,
		"NonEmptyArgumentList = NonEmptyArgumentList ',' Expr": appendAt(3),

		"ArrayPairList = NonEmptyArrayPairList ','": func(r *lalr.Reduction) (any, error) {
			return listAt(r, 1), nil
		},
		"NonEmptyArrayPairList = ArrayPair":                           single,
		"NonEmptyArrayPairList = NonEmptyArrayPairList ',' ArrayPair": appendAt(3),
		"ArrayPair = Expr": func(r *lalr.Reduction) (any, error) {
			return build(ast.KindArrayItem, r, func(n *ast.Node) {
				n.Expr = nodeAt(r, 1)
			}), nil
		},
		"ArrayPair = Expr '=>' Expr": func(r *lalr.Reduction) (any, error) {
			return build(ast.KindArrayItem, r, func(n *ast.Node) {
				n.Expr = nodeAt(r, 3)
				n.AddChild(nodeAt(r, 1))
			}), nil
		},

		"Scalar = T_LNUMBER": func(r *lalr.Reduction) (any, error) {
			v, err := parseInt(textAt(r, 1))
			if err != nil {
				return nil, err
			}
			kind := ast.KindLNumber
			if _, isFloat := v.(float64); isFloat {
				kind = ast.KindDNumber
			}
			return build(kind, r, func(n *ast.Node) {
				n.Value = v
			}), nil
		},
		"Scalar = T_DNUMBER": func(r *lalr.Reduction) (any, error) {
			v, err := parseFloat(textAt(r, 1))
			if err != nil {
				return nil, errors.Wrapf(err, "float literal %s", textAt(r, 1))
			}
			return build(ast.KindDNumber, r, func(n *ast.Node) {
				n.Value = v
			}), nil
		},
		"Scalar = T_CONSTANT_ENCAPSED_STRING": func(r *lalr.Reduction) (any, error) {
			s, err := parseString(textAt(r, 1))
			if err != nil {
				return nil, err
			}
			return build(ast.KindString, r, func(n *ast.Node) {
				n.Value = s
			}), nil
		},
	}

	for _, op := range binaryOperators {
		op := op
		m["Expr = Expr '"+op+"' Expr"] = func(r *lalr.Reduction) (any, error) {
			return build(ast.KindBinaryOp, r, func(n *ast.Node) {
				n.Text = op
				n.Children = []*ast.Node{nodeAt(r, 1), nodeAt(r, 3)}
			}), nil
		}
	}
	for _, op := range []string{"!", "-", "+"} {
		op := op
		m["Expr = '"+op+"' Expr"] = func(r *lalr.Reduction) (any, error) {
			return build(ast.KindUnaryOp, r, func(n *ast.Node) {
				n.Text = op
				n.Expr = nodeAt(r, 2)
			}), nil
		}
	}
	return m
}

func param(r *lalr.Reduction, def *ast.Node) *ast.Node {
	return build(ast.KindParam, r, func(n *ast.Node) {
		n.Type = nodeAt(r, 1)
		n.Text = variableName(textAt(r, 3))
		n.Expr = def
		if variadic, _ := r.Value(2).(bool); variadic {
			n.Flags |= ast.FlagVariadic
		}
	})
}

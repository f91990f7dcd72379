// Package ast defines the syntax tree produced by the PHP parser.
package ast

import (
	"fmt"
	"strings"

	"github.com/dhamidi/phparse/lalr"
)

type Span = lalr.Span

type NodeKind int

const (
	KindError NodeKind = iota

	// Top level
	KindInlineHTML
	KindHaltCompiler
	KindNamespace
	KindUse
	KindUseItem
	KindConst
	KindConstItem
	KindDeclare
	KindDeclareItem

	// Declarations
	KindFunction
	KindParam
	KindClass
	KindInterface
	KindProperty
	KindPropertyItem
	KindClassConst
	KindMethod

	// Statements
	KindEcho
	KindExprStmt
	KindReturn
	KindIf
	KindElseIf
	KindElse
	KindWhile
	KindBlock
	KindTry
	KindCatch
	KindFinally
	KindThrow
	KindNop

	// Names
	KindIdentifier
	KindName
	KindFullyQualifiedName
	KindRelativeName

	// Expressions
	KindVariable
	KindAssign
	KindBinaryOp
	KindUnaryOp
	KindTernary
	KindPropertyFetch
	KindArrayDimFetch
	KindMethodCall
	KindStaticCall
	KindStaticPropertyFetch
	KindClassConstFetch
	KindFuncCall
	KindConstFetch
	KindNew
	KindArray
	KindArrayItem
	KindLNumber
	KindDNumber
	KindString
)

var nodeKindNames = map[NodeKind]string{
	KindError:               "Error",
	KindInlineHTML:          "InlineHTML",
	KindHaltCompiler:        "HaltCompiler",
	KindNamespace:           "Namespace",
	KindUse:                 "Use",
	KindUseItem:             "UseItem",
	KindConst:               "Const",
	KindConstItem:           "ConstItem",
	KindDeclare:             "Declare",
	KindDeclareItem:         "DeclareItem",
	KindFunction:            "Function",
	KindParam:               "Param",
	KindClass:               "Class",
	KindInterface:           "Interface",
	KindProperty:            "Property",
	KindPropertyItem:        "PropertyItem",
	KindClassConst:          "ClassConst",
	KindMethod:              "Method",
	KindEcho:                "Echo",
	KindExprStmt:            "ExprStmt",
	KindReturn:              "Return",
	KindIf:                  "If",
	KindElseIf:              "ElseIf",
	KindElse:                "Else",
	KindWhile:               "While",
	KindBlock:               "Block",
	KindTry:                 "Try",
	KindCatch:               "Catch",
	KindFinally:             "Finally",
	KindThrow:               "Throw",
	KindNop:                 "Nop",
	KindIdentifier:          "Identifier",
	KindName:                "Name",
	KindFullyQualifiedName:  "FullyQualifiedName",
	KindRelativeName:        "RelativeName",
	KindVariable:            "Variable",
	KindAssign:              "Assign",
	KindBinaryOp:            "BinaryOp",
	KindUnaryOp:             "UnaryOp",
	KindTernary:             "Ternary",
	KindPropertyFetch:       "PropertyFetch",
	KindArrayDimFetch:       "ArrayDimFetch",
	KindMethodCall:          "MethodCall",
	KindStaticCall:          "StaticCall",
	KindStaticPropertyFetch: "StaticPropertyFetch",
	KindClassConstFetch:     "ClassConstFetch",
	KindFuncCall:            "FuncCall",
	KindConstFetch:          "ConstFetch",
	KindNew:                 "New",
	KindArray:               "Array",
	KindArrayItem:           "ArrayItem",
	KindLNumber:             "LNumber",
	KindDNumber:             "DNumber",
	KindString:              "String",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsName reports whether k is one of the three name kinds.
func (k NodeKind) IsName() bool {
	return k == KindName || k == KindFullyQualifiedName || k == KindRelativeName
}

// Flags carries modifiers and a few syntactic markers.
type Flags uint16

const (
	FlagPublic Flags = 1 << iota
	FlagProtected
	FlagPrivate
	FlagStatic
	FlagAbstract
	FlagFinal
	FlagReadonly

	// FlagVariadic marks a ...$param.
	FlagVariadic
	// FlagBraced marks a namespace or declare with a { } body, and a method
	// with a body.
	FlagBraced
)

const FlagVisibility = FlagPublic | FlagProtected | FlagPrivate

var modifierNames = []struct {
	flag Flags
	name string
}{
	{FlagPublic, "public"},
	{FlagProtected, "protected"},
	{FlagPrivate, "private"},
	{FlagStatic, "static"},
	{FlagAbstract, "abstract"},
	{FlagFinal, "final"},
	{FlagReadonly, "readonly"},
	{FlagVariadic, "variadic"},
	{FlagBraced, "braced"},
}

// ModifierName returns the keyword of a single modifier flag.
func ModifierName(f Flags) string {
	for _, m := range modifierNames {
		if m.flag == f {
			return m.name
		}
	}
	return "unknown"
}

func (f Flags) Has(other Flags) bool {
	return f&other != 0
}

func (f Flags) String() string {
	var parts []string
	for _, m := range modifierNames {
		if f&m.flag != 0 {
			parts = append(parts, m.name)
		}
	}
	return strings.Join(parts, " ")
}

// Node is a single tree node. Which fields are set depends on Kind:
//
//	Namespace     Name (optional), Stmts, FlagBraced
//	Use           Children: UseItem
//	UseItem       Name, Children: alias Identifier (optional)
//	Const         Children: ConstItem
//	ClassConst    Flags, Children: ConstItem
//	ConstItem     Name, Expr
//	Declare       Children: DeclareItem, Stmts, FlagBraced
//	DeclareItem   Name, Expr
//	Function      Name, Children: Param, Stmts
//	Method        Name, Flags, Children: Param, Stmts
//	Param         Text (variable), Type, Expr (default), FlagVariadic
//	Class         Name, Flags, Type (extends), Children (implements), Stmts
//	Interface     Name, Children (extends), Stmts
//	Property      Flags, Type, Children: PropertyItem
//	PropertyItem  Text, Expr (default)
//	If, ElseIf    Expr, Stmts, Children: ElseIf and Else clauses
//	Try           Stmts, Children: Catch and Finally
//	Catch         Children: caught types, Text (variable), Stmts
//	BinaryOp      Text (operator), Children: left and right
//	UnaryOp       Text (operator), Expr
//	Variable      Text without the leading $
//	Name kinds    Text without a leading \ or namespace\
//	LNumber       Value int64
//	DNumber       Value float64
//	String        Value string
type Node struct {
	Kind     NodeKind
	Span     Span
	Text     string
	Value    any
	Flags    Flags
	Name     *Node
	Type     *Node
	Expr     *Node
	Children []*Node
	Stmts    []*Node
}

func New(kind NodeKind, span Span) *Node {
	return &Node{Kind: kind, Span: span}
}

func (n *Node) AddChild(child *Node) {
	if child != nil {
		n.Children = append(n.Children, child)
	}
}

func (n *Node) IsError() bool {
	return n.Kind == KindError
}

func (n *Node) FirstChildOfKind(kind NodeKind) *Node {
	for _, child := range n.Children {
		if child.Kind == kind {
			return child
		}
	}
	return nil
}

// NameText returns the text of the Name slot, or "".
func (n *Node) NameText() string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.Text
}

// Last returns the last segment of a qualified name.
func (n *Node) Last() string {
	if i := strings.LastIndexByte(n.Text, '\\'); i >= 0 {
		return n.Text[i+1:]
	}
	return n.Text
}

// Parts splits a name into its segments.
func (n *Node) Parts() []string {
	return strings.Split(n.Text, `\`)
}

// Source renders a name the way it was written.
func (n *Node) Source() string {
	switch n.Kind {
	case KindFullyQualifiedName:
		return `\` + n.Text
	case KindRelativeName:
		return `namespace\` + n.Text
	case KindVariable:
		return "$" + n.Text
	}
	return n.Text
}

func (n *Node) String() string {
	return n.stringIndent(0, false)
}

func (n *Node) StringWithPositions() string {
	return n.stringIndent(0, true)
}

func (n *Node) stringIndent(indent int, showPositions bool) string {
	var b strings.Builder
	n.write(&b, indent, "", showPositions)
	return b.String()
}

func (n *Node) write(b *strings.Builder, indent int, label string, showPositions bool) {
	b.WriteString(strings.Repeat("  ", indent))
	if label != "" {
		b.WriteString(label)
		b.WriteString(": ")
	}
	b.WriteString(n.Kind.String())
	if showPositions {
		b.WriteString(" [" + n.Span.String() + "]")
	}
	if n.Flags != 0 {
		b.WriteString(" (" + n.Flags.String() + ")")
	}
	if n.Text != "" {
		b.WriteString(" " + n.Text)
	}
	if n.Value != nil {
		fmt.Fprintf(b, " %#v", n.Value)
	}
	b.WriteString("\n")

	for _, slot := range []struct {
		label string
		node  *Node
	}{{"name", n.Name}, {"type", n.Type}, {"expr", n.Expr}} {
		if slot.node != nil {
			slot.node.write(b, indent+1, slot.label, showPositions)
		}
	}
	for _, child := range n.Children {
		child.write(b, indent+1, "", showPositions)
	}
	for _, stmt := range n.Stmts {
		stmt.write(b, indent+1, "stmt", showPositions)
	}
}

// Dump renders a statement list.
func Dump(stmts []*Node) string {
	var b strings.Builder
	for _, stmt := range stmts {
		stmt.write(&b, 0, "", false)
	}
	return b.String()
}

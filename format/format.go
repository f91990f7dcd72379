package format

import (
	"encoding"

	"github.com/dhamidi/phparse/lalr"
	"github.com/dhamidi/phparse/php/ast"
)

// Document is the outcome of parsing one file.
type Document struct {
	File   string
	Stmts  []*ast.Node
	Errors []*lalr.Error
}

type Encoder interface {
	encoding.TextMarshaler
	Encode(doc *Document) error
}

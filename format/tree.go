package format

import (
	"io"
	"strings"

	"github.com/dhamidi/phparse/php/ast"
)

// TreeEncoder prints the indented node dump, optionally with spans.
type TreeEncoder struct {
	w         io.Writer
	doc       *Document
	Positions bool
}

func NewTreeEncoder(w io.Writer) *TreeEncoder {
	return &TreeEncoder{w: w}
}

func (e *TreeEncoder) Encode(doc *Document) error {
	e.doc = doc
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TreeEncoder) MarshalText() ([]byte, error) {
	if !e.Positions {
		return []byte(ast.Dump(e.doc.Stmts)), nil
	}
	var sb strings.Builder
	for _, stmt := range e.doc.Stmts {
		sb.WriteString(stmt.StringWithPositions())
	}
	return []byte(sb.String()), nil
}

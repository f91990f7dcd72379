package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/phparse/lalr"
	"github.com/dhamidi/phparse/php/ast"
)

type JSONEncoder struct {
	w   io.Writer
	doc *Document
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(doc *Document) error {
	e.doc = doc
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	return json.MarshalIndent(e.buildDocument(), "", "  ")
}

type jsonDocument struct {
	File   string      `json:"file,omitempty"`
	Stmts  []*ast.Node `json:"stmts"`
	Errors []jsonError `json:"errors,omitempty"`
}

type jsonError struct {
	Message string    `json:"message"`
	Span    *jsonSpan `json:"span,omitempty"`
}

type jsonSpan struct {
	Start jsonPosition `json:"start"`
	End   jsonPosition `json:"end"`
}

type jsonPosition struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (e *JSONEncoder) buildDocument() jsonDocument {
	d := e.doc
	data := jsonDocument{
		File:  d.File,
		Stmts: d.Stmts,
	}
	if data.Stmts == nil {
		data.Stmts = []*ast.Node{}
	}
	for _, err := range d.Errors {
		data.Errors = append(data.Errors, errorToJSON(err))
	}
	return data
}

func errorToJSON(err *lalr.Error) jsonError {
	je := jsonError{Message: err.Message}
	if err.Span != nil && err.Span.Start.IsValid() {
		je.Span = &jsonSpan{
			Start: jsonPosition{Line: err.Span.Start.Line, Column: err.Span.Start.Column},
			End:   jsonPosition{Line: err.Span.End.Line, Column: err.Span.End.Column},
		}
	}
	return je
}

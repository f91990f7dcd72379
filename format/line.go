package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/dhamidi/phparse/lalr"
)

// LineEncoder writes one `file:line:col: message` line per diagnostic.
type LineEncoder struct {
	w     io.Writer
	doc   *Document
	Color bool
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(doc *Document) error {
	e.doc = doc
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	location := color.New(color.Bold)
	message := color.New(color.FgRed)
	if !e.Color {
		location.DisableColor()
		message.DisableColor()
	}
	for _, err := range e.doc.Errors {
		fmt.Fprintf(&sb, "%s: %s\n",
			location.Sprint(Location(e.doc.File, err)),
			message.Sprint(err.Message),
		)
	}
	return []byte(sb.String()), nil
}

// Location renders where err starts, falling back to the file name alone.
func Location(file string, err *lalr.Error) string {
	if file == "" {
		file = "-"
	}
	if err.Span == nil || !err.Span.Start.IsValid() {
		return file
	}
	return fmt.Sprintf("%s:%d:%d", file, err.Span.Start.Line, err.Span.Start.Column)
}

package lsp

import (
	"bytes"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/phparse/lalr"
)

// Diagnostics converts parse errors into LSP diagnostics. Errors without a
// span are reported at the start of the document.
func Diagnostics(content []byte, errs []*lalr.Error) []protocol.Diagnostic {
	lines := bytes.Split(content, []byte("\n"))
	severity := protocol.DiagnosticSeverityError
	source := lsName

	diagnostics := make([]protocol.Diagnostic, 0, len(errs))
	for _, err := range errs {
		var rng protocol.Range
		if err.Span != nil && err.Span.Start.IsValid() {
			rng.Start = toPosition(lines, err.Span.Start)
			rng.End = rng.Start
			if err.Span.End.IsValid() {
				rng.End = toPosition(lines, err.Span.End)
			}
		}
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    rng,
			Severity: &severity,
			Source:   &source,
			Message:  err.Message,
		})
	}
	return diagnostics
}

// toPosition maps a 1-based byte column to a 0-based UTF-16 offset.
func toPosition(lines [][]byte, pos lalr.Position) protocol.Position {
	line := pos.Line - 1
	if line < 0 || line >= len(lines) {
		return protocol.Position{Line: protocol.UInteger(max(line, 0))}
	}
	text := lines[line]
	limit := min(pos.Column-1, len(text))

	units := 0
	for i := 0; i < limit; {
		r, size := utf8.DecodeRune(text[i:])
		if r >= 0x10000 {
			units += 2
		} else {
			units++
		}
		i += size
	}
	return protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(units)}
}

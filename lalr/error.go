package lalr

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrUnrecoverable is returned by Parse when error recovery ran out of
	// stack or input, or when a reduction failed fatally. The errors that led
	// there have already been handed to the ErrorHandler.
	ErrUnrecoverable = errors.New("lalr: unable to recover from parse error")

	// ErrInvalidToken is returned when the lexer produces a token id the
	// tables cannot map. It is never passed to the ErrorHandler.
	ErrInvalidToken = errors.New("lalr: lexer returned an invalid token id")

	// ErrCorruptTables signals a table bundle that does not match the engine.
	ErrCorruptTables = errors.New("lalr: corrupt parse tables")
)

// Error is a diagnostic produced while parsing. Its span may be unknown at
// construction time; Attach fills it in once.
type Error struct {
	Message string
	Span    *Span
}

func NewError(msg string) *Error {
	return &Error{Message: msg}
}

func NewErrorAt(msg string, span Span) *Error {
	return &Error{Message: msg, Span: &span}
}

func Errorf(span Span, format string, args ...any) *Error {
	return NewErrorAt(fmt.Sprintf(format, args...), span)
}

// Attach sets the span if none is set yet and reports whether it did.
func (e *Error) Attach(span Span) bool {
	if e.Span != nil {
		return false
	}
	e.Span = &span
	return true
}

// StartLine returns the first line of the error, or -1 when unknown.
func (e *Error) StartLine() int {
	if e.Span == nil || !e.Span.Start.IsValid() {
		return -1
	}
	return e.Span.Start.Line
}

func (e *Error) Error() string {
	if line := e.StartLine(); line >= 0 {
		return fmt.Sprintf("%s on line %d", e.Message, line)
	}
	return e.Message + " on unknown line"
}

// WithColumns renders the message with a line:column range.
func (e *Error) WithColumns() string {
	if e.Span == nil || !e.Span.Start.IsValid() {
		return e.Error()
	}
	return fmt.Sprintf("%s from %d:%d to %d:%d", e.Message,
		e.Span.Start.Line, e.Span.Start.Column, e.Span.End.Line, e.Span.End.Column)
}

// ErrorHandler receives every diagnostic of a parse. Returning a non-nil
// error stops the parse and makes Parse return that error.
type ErrorHandler interface {
	HandleError(err *Error) error
}

type ErrorHandlerFunc func(err *Error) error

func (f ErrorHandlerFunc) HandleError(err *Error) error {
	return f(err)
}

// Throwing aborts the parse on the first error.
type Throwing struct{}

func (Throwing) HandleError(err *Error) error {
	return err
}

// Collecting records every error and lets the parse continue.
type Collecting struct {
	errors []*Error
}

func (c *Collecting) HandleError(err *Error) error {
	c.errors = append(c.errors, err)
	return nil
}

func (c *Collecting) Errors() []*Error {
	return c.errors
}

func (c *Collecting) HasErrors() bool {
	return len(c.errors) > 0
}

func (c *Collecting) Reset() {
	c.errors = nil
}

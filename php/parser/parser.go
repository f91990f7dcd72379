// Package parser parses PHP source into an ast tree using the table driven
// engine in package lalr. The tables are generated from grammar.ebnf the
// first time a Parser is created.
package parser

import (
	"github.com/tliron/commonlog"

	"github.com/dhamidi/phparse/lalr"
	"github.com/dhamidi/phparse/php/ast"
)

var log = commonlog.GetLogger("phparse.parser")

type Option func(*Parser)

func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

// WithErrorHandler routes diagnostics to h. Without it the first error
// aborts the parse.
func WithErrorHandler(h lalr.ErrorHandler) Option {
	return func(p *Parser) {
		p.handler = h
	}
}

// WithMaxExpected bounds the expected-token hint of syntax errors.
func WithMaxExpected(n int) Option {
	return func(p *Parser) {
		p.maxExpected = n
	}
}

// Parser turns PHP source into statements. A Parser can be reused but not
// shared between goroutines.
type Parser struct {
	file        string
	handler     lalr.ErrorHandler
	maxExpected int

	engine *lalr.Engine
	src    *tokenSource
}

func New(opts ...Option) (*Parser, error) {
	t, _, err := Tables()
	if err != nil {
		return nil, err
	}
	p := &Parser{maxExpected: lalr.DefaultMaxExpected}
	for _, opt := range opts {
		opt(p)
	}
	actions, err := bindActions(t, p.ruleActions())
	if err != nil {
		return nil, err
	}
	p.engine = lalr.NewEngine(t, actions)
	p.engine.MaxExpected = p.maxExpected
	return p, nil
}

// Parse parses src. With a non-aborting error handler the statements
// recovered so far are returned together with a nil error; diagnostics go
// to the handler.
func (p *Parser) Parse(src []byte) ([]*ast.Node, error) {
	return p.ParseFile(p.file, src)
}

func (p *Parser) ParseFile(file string, src []byte) ([]*ast.Node, error) {
	p.src = newTokenSource(src, file)
	defer func() {
		p.src = nil
	}()

	v, err := p.engine.Parse(p.src, p.handler)
	if err != nil {
		log.Debugf("parse of %q failed: %s", file, err)
		return nil, err
	}
	stmts, _ := v.([]*ast.Node)
	return stmts, nil
}

// Parse is a shortcut for New followed by Parser.Parse.
func Parse(src []byte, opts ...Option) ([]*ast.Node, error) {
	p, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return p.Parse(src)
}

package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/dhamidi/phparse/lalr"
	"github.com/dhamidi/phparse/php/ast"
)

func sampleDocument() *Document {
	span := lalr.Span{
		Start: lalr.Position{Line: 2, Column: 1, Offset: 6},
		End:   lalr.Position{Line: 2, Column: 8, Offset: 13},
	}
	echo := &ast.Node{Kind: ast.KindEcho, Span: span}
	echo.AddChild(&ast.Node{Kind: ast.KindLNumber, Value: int64(1)})
	return &Document{
		File:  "a.php",
		Stmts: []*ast.Node{echo},
		Errors: []*lalr.Error{
			lalr.NewErrorAt("Syntax error, unexpected ';'", span),
			lalr.NewError("Invalid numeric literal"),
		},
	}
}

func TestJSONEncoder(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONEncoder(&buf).Encode(sampleDocument()); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	var got struct {
		File  string `json:"file"`
		Stmts []struct {
			Kind     string `json:"kind"`
			Children []struct {
				Kind  string `json:"kind"`
				Value int    `json:"value"`
			} `json:"children"`
		} `json:"stmts"`
		Errors []struct {
			Message string `json:"message"`
			Span    *struct {
				Start struct {
					Line   int `json:"line"`
					Column int `json:"column"`
				} `json:"start"`
			} `json:"span"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}

	if got.File != "a.php" {
		t.Errorf("file = %q, want a.php", got.File)
	}
	if len(got.Stmts) != 1 || got.Stmts[0].Kind != "Echo" {
		t.Fatalf("stmts = %+v, want one Echo", got.Stmts)
	}
	if len(got.Stmts[0].Children) != 1 || got.Stmts[0].Children[0].Value != 1 {
		t.Errorf("children = %+v, want LNumber 1", got.Stmts[0].Children)
	}
	if len(got.Errors) != 2 {
		t.Fatalf("errors = %d, want 2", len(got.Errors))
	}
	if got.Errors[0].Span == nil || got.Errors[0].Span.Start.Line != 2 {
		t.Errorf("errors[0].span = %+v, want line 2", got.Errors[0].Span)
	}
	if got.Errors[1].Span != nil {
		t.Errorf("errors[1].span = %+v, want none", got.Errors[1].Span)
	}
}

func TestJSONEncoderEmptyStatements(t *testing.T) {
	enc := NewJSONEncoder(nil)
	enc.doc = &Document{}
	text, err := enc.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText() error = %v", err)
	}
	if !strings.Contains(string(text), `"stmts": []`) {
		t.Errorf("output = %s, want an empty stmts array", text)
	}
}

func TestLineEncoder(t *testing.T) {
	var buf bytes.Buffer
	if err := NewLineEncoder(&buf).Encode(sampleDocument()); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	want := strings.Join([]string{
		"a.php:2:1: Syntax error, unexpected ';'",
		"a.php: Invalid numeric literal",
		"",
	}, "\n")
	if buf.String() != want {
		t.Errorf("output =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestLocation(t *testing.T) {
	tests := []struct {
		name string
		file string
		err  *lalr.Error
		want string
	}{
		{"with span", "x.php", lalr.NewErrorAt("m", lalr.Span{Start: lalr.Position{Line: 3, Column: 4}}), "x.php:3:4"},
		{"without span", "x.php", lalr.NewError("m"), "x.php"},
		{"stdin", "", lalr.NewErrorAt("m", lalr.Span{Start: lalr.Position{Line: 1, Column: 1}}), "-:1:1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Location(tt.file, tt.err); got != tt.want {
				t.Errorf("Location() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeEncoder(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTreeEncoder(&buf).Encode(sampleDocument()); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	want := "Echo\n  LNumber 1\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}

	buf.Reset()
	enc := NewTreeEncoder(&buf)
	enc.Positions = true
	if err := enc.Encode(sampleDocument()); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if !strings.HasPrefix(buf.String(), "Echo [2:1-2:8]\n") {
		t.Errorf("output = %q, want spans", buf.String())
	}
}

package lsp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/phparse/lalr"
)

type published struct {
	method string
	params protocol.PublishDiagnosticsParams
}

func recordingContext(out *[]published) *glsp.Context {
	return &glsp.Context{
		Notify: func(method string, params any) {
			p, _ := params.(protocol.PublishDiagnosticsParams)
			*out = append(*out, published{method: method, params: p})
		},
	}
}

func newServer(t *testing.T) *LSPServer {
	t.Helper()
	ls, err := NewLSPServer("test")
	require.NoError(t, err)
	return ls
}

func TestDidOpenPublishesDiagnostics(t *testing.T) {
	ls := newServer(t)
	var got []published
	ctx := recordingContext(&got)

	err := ls.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:  "file:///tmp/a.php",
			Text: "<?php\nclass self {}\n",
		},
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "textDocument/publishDiagnostics", got[0].method)
	assert.Equal(t, "file:///tmp/a.php", got[0].params.URI)

	diags := got[0].params.Diagnostics
	require.Len(t, diags, 1)
	assert.Equal(t, "Cannot use 'self' as class name as it is reserved", diags[0].Message)
	assert.Equal(t, protocol.Position{Line: 1, Character: 6}, diags[0].Range.Start)
	assert.Equal(t, protocol.Position{Line: 1, Character: 10}, diags[0].Range.End)

	f := ls.workspace.GetFile("/tmp/a.php")
	require.NotNil(t, f)
	assert.Len(t, f.Stmts, 1)
}

func TestDidChangeAndClose(t *testing.T) {
	ls := newServer(t)
	var got []published
	ctx := recordingContext(&got)

	require.NoError(t, ls.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: "file:///tmp/b.php", Text: "<?php echo 1 echo 2;"},
	}))
	require.NoError(t, ls.textDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: "file:///tmp/b.php"},
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: "<?php echo 1;"}},
	}))
	require.NoError(t, ls.textDocumentDidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///tmp/b.php"},
	}))

	require.Len(t, got, 3)
	assert.Len(t, got[0].params.Diagnostics, 1)
	assert.Empty(t, got[1].params.Diagnostics)
	assert.Empty(t, got[2].params.Diagnostics)
	assert.Nil(t, ls.workspace.GetFile("/tmp/b.php"))
}

func TestDidSaveReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.php")
	require.NoError(t, os.WriteFile(path, []byte("<?php try { f(); }"), 0o644))

	ls := newServer(t)
	var got []published
	require.NoError(t, ls.textDocumentDidSave(recordingContext(&got), &protocol.DidSaveTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file://" + filepath.ToSlash(path)},
	}))
	require.Len(t, got, 1)
	require.Len(t, got[0].params.Diagnostics, 1)
	assert.Equal(t, "Cannot use try without catch or finally", got[0].params.Diagnostics[0].Message)
}

func TestWorkspaceFatalParse(t *testing.T) {
	ws, err := NewWorkspace()
	require.NoError(t, err)

	f := ws.UpdateFile("x.php", []byte("<?php class A { public public $x; }"))
	assert.True(t, f.Fatal)
	assert.Nil(t, f.Stmts)
	require.Len(t, f.Errors, 1)

	f = ws.UpdateFile("x.php", []byte("<?php class A { public $x; }"))
	assert.False(t, f.Fatal)
	assert.Empty(t, f.Errors, "errors of the previous parse are dropped")
}

func TestDiagnosticsUTF16Columns(t *testing.T) {
	content := []byte("<?php\n$é😀 = ;\n")
	span := lalr.Span{
		Start: lalr.Position{Line: 2, Column: 9},
		End:   lalr.Position{Line: 2, Column: 10},
	}
	diags := Diagnostics(content, []*lalr.Error{
		lalr.NewErrorAt("Syntax error, unexpected '='", span),
		lalr.NewError("no span"),
	})
	require.Len(t, diags, 2)
	// "$é😀 " is 8 bytes but 5 UTF-16 units.
	assert.Equal(t, protocol.Position{Line: 1, Character: 5}, diags[0].Range.Start)
	assert.Equal(t, protocol.Position{Line: 1, Character: 6}, diags[0].Range.End)
	assert.Equal(t, protocol.Range{}, diags[1].Range)
	require.NotNil(t, diags[0].Severity)
	assert.Equal(t, protocol.DiagnosticSeverityError, *diags[0].Severity)
}

func TestURIToPath(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"file:///home/me/a.php", "/home/me/a.php"},
		{"file:///home/me/with%20space.php", "/home/me/with space.php"},
		{"untitled:1", "untitled:1"},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			got, err := uriToPath(tt.uri)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

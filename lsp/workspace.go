package lsp

import (
	"os"
	"sync"

	"github.com/dhamidi/phparse/lalr"
	"github.com/dhamidi/phparse/php/ast"
	"github.com/dhamidi/phparse/php/parser"
)

// Workspace holds the open documents and their latest parse.
type Workspace struct {
	mu      sync.Mutex
	parser  *parser.Parser
	handler *lalr.Collecting
	files   map[string]*File
}

type File struct {
	Path    string
	Content []byte
	Stmts   []*ast.Node
	Errors  []*lalr.Error
	// Fatal is set when the last parse produced no tree.
	Fatal bool
}

func NewWorkspace(opts ...parser.Option) (*Workspace, error) {
	w := &Workspace{
		handler: &lalr.Collecting{},
		files:   make(map[string]*File),
	}
	p, err := parser.New(append(opts, parser.WithErrorHandler(w.handler))...)
	if err != nil {
		return nil, err
	}
	w.parser = p
	return w, nil
}

func (w *Workspace) ScanFile(path string) (*File, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return w.UpdateFile(path, content), nil
}

// UpdateFile reparses path from content and returns the new state.
func (w *Workspace) UpdateFile(path string, content []byte) *File {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.handler.Reset()
	stmts, err := w.parser.ParseFile(path, content)
	f := &File{
		Path:    path,
		Content: content,
		Stmts:   stmts,
		Errors:  w.handler.Errors(),
		Fatal:   err != nil,
	}
	if err != nil && len(f.Errors) == 0 {
		f.Errors = []*lalr.Error{lalr.NewError(err.Error())}
	}
	w.files[path] = f
	return f
}

func (w *Workspace) RemoveFile(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.files, path)
}

func (w *Workspace) GetFile(path string) *File {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.files[path]
}

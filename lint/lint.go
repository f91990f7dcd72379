// Package lint parses many PHP files concurrently and reports their
// diagnostics.
package lint

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"github.com/dhamidi/phparse/lalr"
	"github.com/dhamidi/phparse/php/ast"
	"github.com/dhamidi/phparse/php/parser"
)

var log = commonlog.GetLogger("phparse.lint")

var errTooManyErrors = errors.New("too many errors")

type Options struct {
	Workers     int
	MaxExpected int
	// MaxErrors stops a file after that many diagnostics. Zero means no
	// limit.
	MaxErrors int
	Exclude   func(path string) bool
}

type Result struct {
	Path   string
	Stmts  []*ast.Node
	Errors []*lalr.Error
	// Fatal is set when the parse could not produce a tree.
	Fatal     bool
	Truncated bool
	// Err holds I/O failures; it is never a diagnostic.
	Err error
}

func (r *Result) OK() bool {
	return r.Err == nil && len(r.Errors) == 0
}

// Expand turns the given files and directories into the list of files to
// parse. Directories contribute their *.php files in walk order; explicitly
// named files are always kept.
func Expand(paths []string, exclude func(string) bool) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, errors.Wrapf(err, "lint %s", path)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if exclude != nil && p != path && exclude(p) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.IsDir() && strings.EqualFold(filepath.Ext(p), ".php") {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "walk %s", path)
		}
	}
	return files, nil
}

// Run parses every file named by paths. Results are in input order. Each
// worker owns one parser; the compiled tables are shared.
func Run(ctx context.Context, paths []string, opts Options) ([]Result, error) {
	files, err := Expand(paths, opts.Exclude)
	if err != nil {
		return nil, err
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > len(files) {
		workers = len(files)
	}
	log.Infof("linting %d files with %d workers", len(files), workers)

	results := make([]Result, len(files))
	jobs := make(chan int)
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		defer close(jobs)
		for i := range files {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			select {
			case jobs <- i:
			case <-groupCtx.Done():
				return groupCtx.Err()
			}
		}
		return nil
	})

	for w := 0; w < workers; w++ {
		group.Go(func() error {
			l, err := newLinter(opts)
			if err != nil {
				return err
			}
			for i := range jobs {
				results[i] = l.lint(files[i])
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

type linter struct {
	parser    *parser.Parser
	errors    []*lalr.Error
	maxErrors int
}

func newLinter(opts Options) (*linter, error) {
	l := &linter{maxErrors: opts.MaxErrors}
	parserOpts := []parser.Option{parser.WithErrorHandler(lalr.ErrorHandlerFunc(l.handle))}
	if opts.MaxExpected > 0 {
		parserOpts = append(parserOpts, parser.WithMaxExpected(opts.MaxExpected))
	}
	p, err := parser.New(parserOpts...)
	if err != nil {
		return nil, err
	}
	l.parser = p
	return l, nil
}

func (l *linter) handle(err *lalr.Error) error {
	l.errors = append(l.errors, err)
	if l.maxErrors > 0 && len(l.errors) >= l.maxErrors {
		return errTooManyErrors
	}
	return nil
}

func (l *linter) lint(path string) Result {
	result := Result{Path: path}
	src, err := os.ReadFile(path)
	if err != nil {
		result.Err = err
		return result
	}
	l.errors = nil
	stmts, err := l.parser.ParseFile(path, src)
	result.Stmts = stmts
	result.Errors = l.errors
	switch {
	case err == nil:
	case errors.Is(err, errTooManyErrors):
		result.Truncated = true
		result.Fatal = true
	case errors.Is(err, lalr.ErrUnrecoverable):
		result.Fatal = true
	default:
		result.Err = err
	}
	log.Debugf("%s: %d diagnostics", path, len(result.Errors))
	return result
}

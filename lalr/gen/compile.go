package gen

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/phparse/lalr"
)

var log = commonlog.GetLogger("phparse.gen")

// Report summarizes a compilation.
type Report struct {
	Terminals      int
	NonTerminals   int
	Rules          int
	LRStates       int
	NonLeafStates  int
	LeafStates     int
	TwoTableStates int
	ActionEntries  int
	GotoEntries    int
	Conflicts      []Conflict
}

func (r *Report) ShiftReduce() int {
	return r.count("shift/reduce")
}

func (r *Report) ReduceReduce() int {
	return r.count("reduce/reduce")
}

func (r *Report) count(kind string) int {
	n := 0
	for _, c := range r.Conflicts {
		if c.Kind == kind {
			n++
		}
	}
	return n
}

// WriteTo prints the report in a human readable form.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "terminals:        %d\n", r.Terminals)
	fmt.Fprintf(&b, "nonterminals:     %d\n", r.NonTerminals)
	fmt.Fprintf(&b, "rules:            %d\n", r.Rules)
	fmt.Fprintf(&b, "LR states:        %d\n", r.LRStates)
	fmt.Fprintf(&b, "non-leaf states:  %d\n", r.NonLeafStates)
	fmt.Fprintf(&b, "leaf states:      %d\n", r.LeafStates)
	fmt.Fprintf(&b, "two-table states: %d\n", r.TwoTableStates)
	fmt.Fprintf(&b, "action entries:   %d\n", r.ActionEntries)
	fmt.Fprintf(&b, "goto entries:     %d\n", r.GotoEntries)
	fmt.Fprintf(&b, "conflicts:        %d shift/reduce, %d reduce/reduce\n", r.ShiftReduce(), r.ReduceReduce())
	for _, c := range r.Conflicts {
		fmt.Fprintf(&b, "  %s\n", c)
	}
	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

// Compile builds LALR(1) tables for g. The returned tables have already
// passed Tables.Validate.
func Compile(g *Grammar, opts Options) (*lalr.Tables, *Report, error) {
	b, err := newBuilder(g, opts)
	if err != nil {
		return nil, nil, err
	}
	b.computeFirst()
	b.buildStates()
	b.computeLookaheads()
	rows, conflicts := b.buildActions()

	report := &Report{
		Terminals:    len(b.terms),
		NonTerminals: len(b.nonterms),
		Rules:        len(b.rules),
		LRStates:     len(b.states),
		Conflicts:    conflicts,
	}
	for _, c := range conflicts {
		log.Debugf("%s", c)
	}
	if len(conflicts) > opts.ExpectConflicts {
		return nil, report, errors.Errorf("grammar has %d conflicts, expected at most %d; first: %s",
			len(conflicts), opts.ExpectConflicts, conflicts[0])
	}

	t := b.pack(rows)
	report.NonLeafStates = t.NumNonLeafStates
	report.LeafStates = len(b.states) - t.NumNonLeafStates
	report.TwoTableStates = t.TwoTableStates
	report.ActionEntries = len(t.Action)
	report.GotoEntries = len(t.Goto)

	if err := t.Validate(); err != nil {
		return nil, report, errors.Wrap(err, "generated tables")
	}
	log.Infof("compiled %d rules into %d states (%d leaf, %d two-table)",
		report.Rules, report.NonLeafStates, report.LeafStates, report.TwoTableStates)
	return t, report, nil
}

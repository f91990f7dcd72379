package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/dhamidi/phparse/config"
)

func writePHP(t *testing.T, name, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseCmd(t *testing.T) {
	path := writePHP(t, "a.php", "<?php echo 1;")
	var out bytes.Buffer
	cmd := newParseCmd(config.Default())
	cmd.SetOut(&out)
	cmd.SetArgs([]string{path})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got, want := out.String(), "Echo\n  LNumber 1\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestParseCmdReportsDiagnostics(t *testing.T) {
	path := writePHP(t, "b.php", "<?php class self {} class parent {}")
	var out, errOut bytes.Buffer
	cmd := newParseCmd(config.Default())
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"--collect", path})
	if err := cmd.Execute(); err != errDiagnostics {
		t.Fatalf("Execute() error = %v, want errDiagnostics", err)
	}
	lines := strings.Split(strings.TrimSpace(errOut.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("diagnostics = %q, want 2 lines", errOut.String())
	}
	if want := path + ":1:13: Cannot use 'self' as class name as it is reserved"; lines[0] != want {
		t.Errorf("line = %q, want %q", lines[0], want)
	}
	if !strings.Contains(out.String(), "Class") {
		t.Errorf("tree = %q, want the recovered classes", out.String())
	}
}

func TestParseCmdUnknownFormat(t *testing.T) {
	path := writePHP(t, "c.php", "<?php echo 1;")
	cmd := newParseCmd(config.Default())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"-f", "xml", path})
	if err := cmd.Execute(); err == nil || !strings.Contains(err.Error(), "unknown format") {
		t.Errorf("Execute() error = %v, want unknown format", err)
	}
}

func TestLintCmd(t *testing.T) {
	good := writePHP(t, "good.php", "<?php echo 1;")
	bad := writePHP(t, "bad.php", "<?php echo 1 echo 2;")

	var out bytes.Buffer
	cmd := newLintCmd(config.Default())
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--no-color", good, bad})
	if err := cmd.ExecuteContext(context.Background()); err != errDiagnostics {
		t.Fatalf("Execute() error = %v, want errDiagnostics", err)
	}
	want := bad + ":1:14: Syntax error, unexpected 'echo'\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestGrammarTablesCmd(t *testing.T) {
	var out bytes.Buffer
	cmd := newGrammarCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"tables"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out.String(), "conflicts:        0 shift/reduce, 0 reduce/reduce") {
		t.Errorf("report = %q, want no conflicts", out.String())
	}
}

func TestGrammarCheckCmd(t *testing.T) {
	path := writePHP(t, "g.ebnf", "S = A | B .\nA = T_STRING .\nB = T_STRING .\n")
	var out bytes.Buffer
	cmd := newGrammarCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"check", path})
	err := cmd.Execute()
	if err == nil {
		t.Fatalf("Execute() error = nil, want a conflict error")
	}
	if !strings.Contains(out.String(), "0 shift/reduce, 1 reduce/reduce") {
		t.Errorf("report = %q, want the conflict listed", out.String())
	}
}

func TestSubcommandsReportTheirOwnErrors(t *testing.T) {
	cfg := config.Default()
	cmds := []*cobra.Command{newParseCmd(cfg), newLintCmd(cfg), newLSPCmd(cfg), newGrammarCmd()}
	cmds = append(cmds, cmds[3].Commands()...)
	for _, cmd := range cmds {
		if !cmd.SilenceUsage || !cmd.SilenceErrors {
			t.Errorf("%s: SilenceUsage = %v, SilenceErrors = %v, want both set", cmd.Name(), cmd.SilenceUsage, cmd.SilenceErrors)
		}
	}
}

func TestGrammarCheckCmdPrintsOnlyTheReport(t *testing.T) {
	path := writePHP(t, "g.ebnf", "S = A | B .\nA = T_STRING .\nB = T_STRING .\n")
	var out, errOut bytes.Buffer
	cmd := newGrammarCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"check", path})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("Execute() error = nil, want a conflict error")
	}
	if strings.Contains(out.String()+errOut.String(), "Usage:") {
		t.Errorf("output = %q, want no usage text", out.String()+errOut.String())
	}
	if errOut.Len() != 0 {
		t.Errorf("stderr = %q, want empty", errOut.String())
	}
}

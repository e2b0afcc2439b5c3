package repl

import (
	"bytes"
	"darix/internal/runner"
	"darix/internal/util"
	"io"
	"strings"
	"syscall"
	"testing"

	"github.com/peterh/liner"
)

type scriptedReader struct {
	lines   []string
	prompts []string
}

func (sr *scriptedReader) Prompt(prompt string) (string, error) {
	sr.prompts = append(sr.prompts, prompt)
	if len(sr.lines) == 0 {
		return "", io.EOF
	}
	line := sr.lines[0]
	sr.lines = sr.lines[1:]
	if line == "^C" {
		return "", liner.ErrPromptAborted
	}
	return line, nil
}

func newTestSession() (*Session, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	config := util.DefaultConfiguration()
	config.Database.Enabled = false
	s := NewSession(runner.New(config, &out, &errOut, nil))
	return s, &out, &errOut
}

func TestLoopPersistsDefinitions(t *testing.T) {
	s, out, errOut := newTestSession()
	defer s.Close()

	var history []string
	s.History = func(entry string) { history = append(history, entry) }

	in := &scriptedReader{lines: []string{
		"var x = 40;",
		"func add(a, b) {",
		"  return a + b;",
		"}",
		"add(x, 2);",
		`"s" + "t";`,
		"null;",
		"print(x);",
	}}
	s.Loop(in)

	if errOut.String() != "" {
		t.Fatalf("unexpected diagnostics: %s", errOut.String())
	}
	if out.String() != "42\n\"st\"\n40\n\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
	if len(history) != 6 || history[1] != "func add(a, b) {   return a + b; }" {
		t.Fatalf("unexpected history %q", history)
	}

	expectedPrompts := []string{PROMPT, PROMPT, CONT_PROMPT, CONT_PROMPT, PROMPT, PROMPT, PROMPT, PROMPT, PROMPT}
	if strings.Join(in.prompts, "|") != strings.Join(expectedPrompts, "|") {
		t.Fatalf("unexpected prompts %q", in.prompts)
	}
}

func TestLoopReportsErrorsAndContinues(t *testing.T) {
	s, out, errOut := newTestSession()
	defer s.Close()

	s.Loop(&scriptedReader{lines: []string{
		"var = 1;",
		"1 % 0;",
		"var y = 1;",
		"y;",
		":quit",
		"y;",
	}})

	if !strings.Contains(errOut.String(), "ParseError [line 1:5]") {
		t.Fatalf("parse error not reported: %s", errOut.String())
	}
	if !strings.Contains(errOut.String(), "ArithmeticError [line 1:3]: division by zero") {
		t.Fatalf("runtime error not reported: %s", errOut.String())
	}
	if out.String() != "1\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestCtrlCDiscardsPendingEntry(t *testing.T) {
	s, out, _ := newTestSession()
	defer s.Close()

	s.Loop(&scriptedReader{lines: []string{
		"func broken() {",
		"^C",
		"1 + 1;",
	}})

	if out.String() != "2\n\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestEnvListsGlobals(t *testing.T) {
	s, out, errOut := newTestSession()
	defer s.Close()

	var history []string
	s.History = func(entry string) { history = append(history, entry) }

	s.Loop(&scriptedReader{lines: []string{
		":env",
		"var b = [1];",
		"func a() {}",
		"class C {}",
		"  :env  ",
	}})

	if errOut.String() != "" {
		t.Fatalf("unexpected diagnostics: %s", errOut.String())
	}
	expected := "C: class\na: function\nb: array\n\n"
	if out.String() != expected {
		t.Fatalf("expected %q, got %q", expected, out.String())
	}
	if len(history) != 3 {
		t.Fatalf(":env should not be recorded in history, got %q", history)
	}
}

func TestExitSignals(t *testing.T) {
	for _, sig := range exitSignals {
		if sig == syscall.SIGHUP || sig == syscall.SIGINT {
			t.Fatalf("session must not subscribe to %v", sig)
		}
	}
	if len(exitSignals) != 1 || exitSignals[0] != syscall.SIGTERM {
		t.Fatalf("expected SIGTERM only, got %v", exitSignals)
	}
}

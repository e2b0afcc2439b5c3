package runner

import (
	"bytes"
	"darix/internal/util"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestRunner(config util.Configuration) (*Runner, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return New(config, &out, &errOut, nil), &out, &errOut
}

func TestRunSource(t *testing.T) {
	tests := []struct {
		input    string
		code     int
		stdout   string
		diagnose []string
	}{
		{
			input:  "var x = 42; print(x);",
			code:   ExitOK,
			stdout: "42\n",
		},
		{
			input:    "print(\"a\");\nvar = 1;",
			code:     ExitSyntax,
			diagnose: []string{"ParseError [line 2:5]"},
		},
		{
			input: "var a = 1 @;\nvar = 2;",
			code:  ExitSyntax,
			diagnose: []string{
				"LexError [line 1:11]: unexpected character '@'",
				"ParseError [line 2:5]",
			},
		},
		{
			input:    "print(\"before\");\n1 % 0;\nprint(\"after\");",
			code:     ExitRuntime,
			stdout:   "before\n",
			diagnose: []string{"ArithmeticError [line 2:3]: division by zero", "  >    2 | 1 % 0;"},
		},
		{
			input:  `try { db_open("nope", ""); } catch (e) { print(e); }`,
			code:   ExitOK,
			stdout: "driver \"nope\" is not enabled\n",
		},
	}

	for i, tt := range tests {
		r, out, errOut := newTestRunner(util.DefaultConfiguration())
		code := r.RunSource(tt.input)
		if code != tt.code {
			t.Fatalf("tests[%d] - expected exit %d, got %d (stderr %q)", i, tt.code, code, errOut.String())
		}
		if out.String() != tt.stdout {
			t.Fatalf("tests[%d] - expected stdout %q, got %q", i, tt.stdout, out.String())
		}
		for _, want := range tt.diagnose {
			if !strings.Contains(errOut.String(), want) {
				t.Fatalf("tests[%d] - stderr missing %q:\n%s", i, want, errOut.String())
			}
		}
	}
}

func TestSyntaxErrorsAreOrdered(t *testing.T) {
	_, err := Compile("var a = 1 @;\nvar = 2;")
	errs, ok := err.(SyntaxErrors)
	if !ok || len(errs) != 2 {
		t.Fatalf("expected 2 syntax errors, got %v", err)
	}
	if line, _ := Position(errs[0]); line != 1 {
		t.Fatalf("lex error should come first: %v", errs)
	}
	if line, _ := Position(errs[1]); line != 2 {
		t.Fatalf("parse error should come second: %v", errs)
	}
}

func TestIncomplete(t *testing.T) {
	tests := []struct {
		input      string
		incomplete bool
	}{
		{"func f() {", true},
		{"var x = [1, 2", true},
		{"if (x) { print(x); } else {", true},
		{"var = ;", false},
		{"\"abc", false},
		{"func f() { @", false},
	}

	for i, tt := range tests {
		_, err := Compile(tt.input)
		errs, ok := err.(SyntaxErrors)
		if !ok {
			t.Fatalf("tests[%d] - expected syntax errors for %q, got %v", i, tt.input, err)
		}
		if errs.Incomplete() != tt.incomplete {
			t.Fatalf("tests[%d] - %q incomplete expected %v", i, tt.input, tt.incomplete)
		}
	}
}

func TestRunFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fib.dx")
	src := "func f(n) { if (n < 2) { return n; } return f(n-1) + f(n-2); }\nprint(f(6));\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	r, out, _ := newTestRunner(util.DefaultConfiguration())
	if code := r.RunFile(path); code != ExitOK {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if out.String() != "8\n" {
		t.Fatalf("unexpected output %q", out.String())
	}

	r, _, errOut := newTestRunner(util.DefaultConfiguration())
	if code := r.RunFile(filepath.Join(dir, "missing.dx")); code != ExitUsage {
		t.Fatalf("expected exit 1 for a missing file, got %d", code)
	}
	if !strings.Contains(errOut.String(), "missing.dx") {
		t.Fatalf("missing file not reported: %q", errOut.String())
	}
}

func TestConfigurationIsApplied(t *testing.T) {
	config := util.DefaultConfiguration()
	config.Database.Enabled = false
	config.MaxCallDepth = 20

	r, out, errOut := newTestRunner(config)
	if code := r.RunSource("print(type(db_open));"); code != ExitOK {
		t.Fatalf("unexpected exit %d: %s", code, errOut.String())
	}
	if out.String() != "null\n" {
		t.Fatalf("db natives installed while disabled: %q", out.String())
	}

	r, _, errOut = newTestRunner(config)
	if code := r.RunSource("func r(n) { return r(n + 1); } r(0);"); code != ExitRuntime {
		t.Fatalf("expected exit 3, got %d", code)
	}
	if !strings.Contains(errOut.String(), "RecursionError") {
		t.Fatalf("expected RecursionError, got %q", errOut.String())
	}
}

func TestDebugAST(t *testing.T) {
	tests := []struct {
		format string
		code   int
		want   string
	}{
		{"text", ExitOK, "var x = (1 + 2)"},
		{"json", ExitOK, `"type": "Program"`},
		{"yaml", ExitOK, "type: Program"},
		{"xml", ExitUsage, "unknown AST dump format"},
	}

	for i, tt := range tests {
		config := util.DefaultConfiguration()
		config.DebugAST = tt.format
		r, _, errOut := newTestRunner(config)
		if code := r.RunSource("var x = 1 + 2;"); code != tt.code {
			t.Fatalf("tests[%d] - expected exit %d, got %d", i, tt.code, code)
		}
		if !strings.Contains(errOut.String(), tt.want) {
			t.Fatalf("tests[%d] - dump missing %q:\n%s", i, tt.want, errOut.String())
		}
	}
}

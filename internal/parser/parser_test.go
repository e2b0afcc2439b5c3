package parser

import (
	"bytes"
	"darix/internal/ast"
	"darix/internal/lexer"
	"errors"
	"strings"
	"testing"
)

func parseSource(t *testing.T, input string) (*ast.Program, ParseErrors) {
	t.Helper()
	tokens, err := lexer.Scan(input)
	if err != nil {
		t.Fatalf("lexer error for %q: %v", input, err)
	}
	p := New(tokens)
	program := p.ParseProgram()
	return program, p.Errors()
}

func mustParse(t *testing.T, input string) *ast.Program {
	t.Helper()
	program, errs := parseSource(t, input)
	if len(errs) != 0 {
		t.Fatalf("parser had %d errors for %q: %v", len(errs), input, errs)
	}
	return program
}

func TestOperatorPrecedenceParsing(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"-a * b;", "((-a) * b);"},
		{"!-a;", "(!(-a));"},
		{"a + b + c;", "((a + b) + c);"},
		{"a - b - c;", "((a - b) - c);"},
		{"a + b * c + d / e - f;", "(((a + (b * c)) + (d / e)) - f);"},
		{"-x % 2;", "((-x) % 2);"},
		{"5 > 4 == 3 < 4;", "((5 > 4) == (3 < 4));"},
		{"a <= b >= c;", "((a <= b) >= c);"},
		{"a || b && c;", "(a || (b && c));"},
		{"a == b || c != d;", "((a == b) || (c != d));"},
		{"1 + (2 + 3) + 4;", "((1 + (2 + 3)) + 4);"},
		{"(5 + 5) * 2;", "((5 + 5) * 2);"},
		{"a = b = c;", "(a = (b = c));"},
		{"a.b = 1 + 2;", "(a.b = (1 + 2));"},
		{"x = y || z;", "(x = (y || z));"},
		{"f()(x).y[0];", "f()(x).y[0];"},
		{"a.b.c(1);", "a.b.c(1);"},
		{"add(a, b * c, -d);", "add(a, (b * c), (-d));"},
		{"a * [1, 2][b];", "(a * [1, 2][b]);"},
		{`x = {"k": 1 + 2, y: []};`, `(x = {"k": (1 + 2), y: []});`},
		{"-f(1);", "(-f(1));"},
		{"true != false;", "(true != false);"},
		{"null;", "null;"},
		{"2.5 * 4;", "(2.5 * 4);"},
	}

	for i, tt := range tests {
		program := mustParse(t, tt.input)
		if actual := program.String(); actual != tt.expected {
			t.Fatalf("tests[%d] - expected=%q, got=%q", i, tt.expected, actual)
		}
	}
}

func TestLiteralValues(t *testing.T) {
	program := mustParse(t, `42; 3.25; "hi"; true; null;`)

	if len(program.Statements) != 5 {
		t.Fatalf("expected 5 statements, got %d", len(program.Statements))
	}

	exprs := make([]ast.Expression, 5)
	for i, s := range program.Statements {
		es, ok := s.(*ast.ExpressionStatement)
		if !ok {
			t.Fatalf("statements[%d] is not *ast.ExpressionStatement, got %T", i, s)
		}
		exprs[i] = es.Expression
	}

	if il, ok := exprs[0].(*ast.IntegerLiteral); !ok || il.Value != 42 {
		t.Fatalf("expected IntegerLiteral 42, got %#v", exprs[0])
	}
	if fl, ok := exprs[1].(*ast.FloatLiteral); !ok || fl.Value != 3.25 {
		t.Fatalf("expected FloatLiteral 3.25, got %#v", exprs[1])
	}
	if sl, ok := exprs[2].(*ast.StringLiteral); !ok || sl.Value != "hi" {
		t.Fatalf("expected StringLiteral hi, got %#v", exprs[2])
	}
	if bl, ok := exprs[3].(*ast.BooleanLiteral); !ok || !bl.Value {
		t.Fatalf("expected BooleanLiteral true, got %#v", exprs[3])
	}
	if _, ok := exprs[4].(*ast.NullLiteral); !ok {
		t.Fatalf("expected NullLiteral, got %#v", exprs[4])
	}
}

func TestVarStatements(t *testing.T) {
	tests := []struct {
		input       string
		name        string
		initializer string
	}{
		{"var x = 5;", "x", "5"},
		{"var y = a + 1;", "y", "(a + 1)"},
		{"var empty;", "empty", ""},
	}

	for i, tt := range tests {
		program := mustParse(t, tt.input)
		stmt, ok := program.Statements[0].(*ast.VarStatement)
		if !ok {
			t.Fatalf("tests[%d] - expected *ast.VarStatement, got %T", i, program.Statements[0])
		}
		if stmt.Name != tt.name {
			t.Fatalf("tests[%d] - name wrong. expected=%q, got=%q", i, tt.name, stmt.Name)
		}
		got := ""
		if stmt.Initializer != nil {
			got = stmt.Initializer.String()
		}
		if got != tt.initializer {
			t.Fatalf("tests[%d] - initializer wrong. expected=%q, got=%q", i, tt.initializer, got)
		}
	}
}

func TestFunctionDeclaration(t *testing.T) {
	program := mustParse(t, "func add(a, b) { return a + b; } func none() { return; }")

	fn, ok := program.Statements[0].(*ast.FunctionDeclaration)
	if !ok {
		t.Fatalf("expected *ast.FunctionDeclaration, got %T", program.Statements[0])
	}
	if fn.Name != "add" || strings.Join(fn.Parameters, ",") != "a,b" {
		t.Fatalf("wrong signature: %s(%v)", fn.Name, fn.Parameters)
	}
	if len(fn.Body) != 1 {
		t.Fatalf("expected 1 body statement, got %d", len(fn.Body))
	}
	ret, ok := fn.Body[0].(*ast.ReturnStatement)
	if !ok || ret.ReturnValue.String() != "(a + b)" {
		t.Fatalf("expected return (a + b), got %s", fn.Body[0])
	}

	none := program.Statements[1].(*ast.FunctionDeclaration)
	if len(none.Parameters) != 0 {
		t.Fatalf("expected no parameters, got %v", none.Parameters)
	}
	if ret := none.Body[0].(*ast.ReturnStatement); ret.ReturnValue != nil {
		t.Fatalf("expected bare return, got %s", ret)
	}
}

func TestClassDeclaration(t *testing.T) {
	input := `
class Point {
  __init__(x, y) { self.x = x; self.y = y; }
  func sum() { return self.x + self.y; }
}`
	program := mustParse(t, input)

	class, ok := program.Statements[0].(*ast.ClassDeclaration)
	if !ok {
		t.Fatalf("expected *ast.ClassDeclaration, got %T", program.Statements[0])
	}
	if class.Name != "Point" {
		t.Fatalf("class name wrong, got %q", class.Name)
	}
	if len(class.Methods) != 2 {
		t.Fatalf("expected 2 methods, got %d", len(class.Methods))
	}
	if class.Methods[0].Name != "__init__" || len(class.Methods[0].Parameters) != 2 {
		t.Fatalf("unexpected first method %s", class.Methods[0])
	}
	if class.Methods[1].Name != "sum" {
		t.Fatalf("unexpected second method %s", class.Methods[1])
	}
	if got := class.Methods[0].Body[0].String(); got != "(self.x = x);" {
		t.Fatalf("unexpected method body %q", got)
	}
}

func TestIfElseChain(t *testing.T) {
	program := mustParse(t, "if (a) { 1; } else if (b) { 2; } else { 3; }")

	stmt, ok := program.Statements[0].(*ast.IfStatement)
	if !ok {
		t.Fatalf("expected *ast.IfStatement, got %T", program.Statements[0])
	}
	if stmt.Condition.String() != "a" || len(stmt.ThenBranch) != 1 {
		t.Fatalf("unexpected if head: %s", stmt)
	}
	if len(stmt.ElseBranch) != 1 {
		t.Fatalf("expected else-if as single else statement, got %d", len(stmt.ElseBranch))
	}
	nested, ok := stmt.ElseBranch[0].(*ast.IfStatement)
	if !ok {
		t.Fatalf("expected nested *ast.IfStatement, got %T", stmt.ElseBranch[0])
	}
	if nested.Condition.String() != "b" || len(nested.ElseBranch) != 1 {
		t.Fatalf("unexpected nested if: %s", nested)
	}
}

func TestWhileAndForStatements(t *testing.T) {
	program := mustParse(t, `
while (i < 10) { i = i + 1; }
for (var i = 0; i < 3; i = i + 1) { print(i); }
for (;;) {}
for (i = 0; ; ) { }`)

	while, ok := program.Statements[0].(*ast.WhileStatement)
	if !ok || while.Condition.String() != "(i < 10)" || len(while.Body) != 1 {
		t.Fatalf("unexpected while: %s", program.Statements[0])
	}

	full := program.Statements[1].(*ast.ForStatement)
	if _, ok := full.Initializer.(*ast.VarStatement); !ok {
		t.Fatalf("expected var initializer, got %T", full.Initializer)
	}
	if full.Condition.String() != "(i < 3)" {
		t.Fatalf("unexpected condition %s", full.Condition)
	}
	if full.Increment.String() != "(i = (i + 1))" {
		t.Fatalf("unexpected increment %s", full.Increment)
	}

	empty := program.Statements[2].(*ast.ForStatement)
	if empty.Initializer != nil || empty.Condition != nil || empty.Increment != nil {
		t.Fatalf("expected empty for header, got %s", empty)
	}

	exprInit := program.Statements[3].(*ast.ForStatement)
	if _, ok := exprInit.Initializer.(*ast.ExpressionStatement); !ok {
		t.Fatalf("expected expression initializer, got %T", exprInit.Initializer)
	}
	if exprInit.Condition != nil || exprInit.Increment != nil {
		t.Fatalf("expected no condition or increment, got %s", exprInit)
	}
}

func TestTryStatements(t *testing.T) {
	tests := []struct {
		input      string
		hasCatch   bool
		catchName  string
		hasFinally bool
	}{
		{`try { risky(); } catch (e) { print(e); }`, true, "e", false},
		{`try { return 1; } finally { print("cleanup"); }`, false, "", true},
		{`try { a; } catch (err) { } finally { b; }`, true, "err", true},
	}

	for i, tt := range tests {
		program := mustParse(t, tt.input)
		stmt, ok := program.Statements[0].(*ast.TryStatement)
		if !ok {
			t.Fatalf("tests[%d] - expected *ast.TryStatement, got %T", i, program.Statements[0])
		}
		if stmt.HasCatch != tt.hasCatch || stmt.CatchName != tt.catchName || stmt.HasFinally != tt.hasFinally {
			t.Fatalf("tests[%d] - got catch=%v(%q) finally=%v", i, stmt.HasCatch, stmt.CatchName, stmt.HasFinally)
		}
	}
}

func TestBlockStatement(t *testing.T) {
	program := mustParse(t, "{ var a = 1; { a; } }")

	block, ok := program.Statements[0].(*ast.BlockStatement)
	if !ok {
		t.Fatalf("expected *ast.BlockStatement, got %T", program.Statements[0])
	}
	if len(block.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(block.Statements))
	}
	if _, ok := block.Statements[1].(*ast.BlockStatement); !ok {
		t.Fatalf("expected nested block, got %T", block.Statements[1])
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input   string
		line    int
		column  int
		message string
	}{
		{"a[0] = 1;", 1, 6, "invalid assignment target a[0]"},
		{"1 + 2 = 3;", 1, 7, "invalid assignment target (1 + 2)"},
		{"f() = 3;", 1, 5, "invalid assignment target f()"},
		{"var 1 = 2;", 1, 5, `expected "IDENTIFIER" after 'var', got number "1" instead`},
		{"x = 1", 1, 6, `expected ";" after expression, got end of input instead`},
		{"try { x; }", 1, 11, "expected 'catch' or 'finally' after try block, got end of input"},
		{"99999999999999999999;", 1, 1, "integer literal 99999999999999999999 is out of range"},
		{"class A { 1 }", 1, 11, `expected method name in class A, got number "1"`},
		{"print(;", 1, 7, `expected expression, got ";"`},
	}

	for i, tt := range tests {
		_, errs := parseSource(t, tt.input)
		if len(errs) != 1 {
			t.Fatalf("tests[%d] - expected 1 error, got %d: %v", i, len(errs), errs)
		}
		got := errs[0]
		if got.Line != tt.line || got.Column != tt.column || got.Message != tt.message {
			t.Fatalf("tests[%d] - expected %d:%d %q, got %d:%d %q",
				i, tt.line, tt.column, tt.message, got.Line, got.Column, got.Message)
		}
	}
}

func TestErrorRecovery(t *testing.T) {
	input := "var = 1;\nvar ok = 2;\nprint(;\nvar x = 3;"

	program, errs := parseSource(t, input)

	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", len(errs), errs)
	}
	if errs[0].Line != 1 || errs[1].Line != 3 {
		t.Fatalf("errors reported out of order or on wrong lines: %v", errs)
	}
	if len(program.Statements) != 2 {
		t.Fatalf("expected 2 recovered statements, got %d: %s", len(program.Statements), program)
	}
	if got := program.String(); got != "var ok = 2;\nvar x = 3;" {
		t.Fatalf("unexpected recovered program %q", got)
	}
}

func TestRecoveryAtStatementKeyword(t *testing.T) {
	program, errs := parseSource(t, "var a = 1 var b = 2;")

	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
	}
	if len(program.Statements) != 1 || program.Statements[0].String() != "var b = 2;" {
		t.Fatalf("expected parser to resume at second var, got %q", program.String())
	}
}

func TestRecoveryInsideBlock(t *testing.T) {
	tests := []string{
		"func f() {\n var = 1;\n}\nvar ok = 2;",
		"if (x) {\n  while (y) {\n    var = 1;\n    print(y);\n  }\n}\nvar ok = 2;",
		"class A {\n  m() { var m = {\"k\": ; }; }\n}\nvar ok = 2;",
		"{ { 1 + ; } }\nvar ok = 2;",
	}

	for i, input := range tests {
		program, errs := parseSource(t, input)
		if len(errs) != 1 {
			t.Fatalf("tests[%d] - expected 1 error, got %d: %v", i, len(errs), errs)
		}
		if got := program.String(); got != "var ok = 2;" {
			t.Fatalf("tests[%d] - expected parser to resume after the block, got %q", i, got)
		}
	}
}

func TestNestingLimit(t *testing.T) {
	tests := []string{
		strings.Repeat("-", 100000) + "1;",
		strings.Repeat("(", 2000) + "1" + strings.Repeat(")", 2000) + ";",
		strings.Repeat("[", 2000) + strings.Repeat("]", 2000) + ";",
		strings.Repeat("{", 2000) + strings.Repeat("}", 2000),
		"var a = " + strings.Repeat("a = ", 2000) + "1;",
	}

	for i, input := range tests {
		_, errs := parseSource(t, input)
		if len(errs) != 1 {
			t.Fatalf("tests[%d] - expected 1 error, got %d", i, len(errs))
		}
		if errs[0].Message != "expression nested too deeply" {
			t.Fatalf("tests[%d] - unexpected error %v", i, errs[0])
		}
		if IsIncomplete(errs) {
			t.Fatalf("tests[%d] - nesting error must not read as incomplete input", i)
		}
	}

	mustParse(t, strings.Repeat("(", 500)+"1"+strings.Repeat(")", 500)+";")
	mustParse(t, strings.Repeat("-", 500)+"1;")
}

func TestParseReturnsParseErrors(t *testing.T) {
	tokens, err := lexer.Scan("var = ;")
	if err != nil {
		t.Fatalf("unexpected lex error: %v", err)
	}

	_, err = Parse(tokens)

	var parseErrs ParseErrors
	if !errors.As(err, &parseErrs) {
		t.Fatalf("expected ParseErrors, got %T", err)
	}
	if !strings.HasPrefix(err.Error(), "ParseError [line 1:5]: ") {
		t.Fatalf("unexpected error text %q", err.Error())
	}
}

func TestIsIncomplete(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"func f() {", true},
		{"print(1", true},
		{"var x = 1", true},
		{"if (a) { 1; ", true},
		{"class A {", true},
		{"var x = ;", false},
		{"a[0] = 1;", false},
		{"var = 1; func f() {", false},
	}

	for i, tt := range tests {
		_, errs := parseSource(t, tt.input)
		if got := IsIncomplete(errs); got != tt.expected {
			t.Fatalf("tests[%d] - IsIncomplete(%q) expected=%v, got=%v (%v)", i, tt.input, tt.expected, got, errs)
		}
	}
}

func TestRenderDumps(t *testing.T) {
	program := mustParse(t, "var x = 1 + 2;\nif (x) { print(x); }")

	text := RenderText(program, 0)
	expectedText := "var x = (1 + 2)\nif x {\n  print(x)\n}"
	if text != expectedText {
		t.Fatalf("text dump wrong.\nexpected=%q\ngot=%q", expectedText, text)
	}

	var js bytes.Buffer
	if err := Render(&js, program, "json"); err != nil {
		t.Fatalf("json dump failed: %v", err)
	}
	for _, want := range []string{`"type": "VarStatement"`, `"operator": "+"`, `"position": "2:1"`} {
		if !strings.Contains(js.String(), want) {
			t.Fatalf("json dump missing %s:\n%s", want, js.String())
		}
	}

	var ym bytes.Buffer
	if err := Render(&ym, program, "yaml"); err != nil {
		t.Fatalf("yaml dump failed: %v", err)
	}
	for _, want := range []string{"type: IfStatement", "name: x", "type: CallExpression"} {
		if !strings.Contains(ym.String(), want) {
			t.Fatalf("yaml dump missing %s:\n%s", want, ym.String())
		}
	}

	if err := Render(&ym, program, "xml"); err == nil {
		t.Fatalf("expected an error for unknown format")
	}
}

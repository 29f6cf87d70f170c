package parser

import (
	"encoding/json"
	"mox-lang/internal/ast"
	"mox-lang/internal/diag"
	"mox-lang/internal/token"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// helper: parse source and return AST + check for no errors
func parseOK(t *testing.T, source string) *ast.Program {
	t.Helper()
	program, diags := Parse(source)
	if len(diags) > 0 {
		t.Fatalf("parse errors: %v", diag.Strings(diags))
	}
	return program
}

// helper: parse and return the errors as rendered strings
func parseErrors(t *testing.T, source string) []string {
	t.Helper()
	_, diags := Parse(source)
	return diag.Strings(diags)
}

// helper: parse a single expression statement and return its expression
func parseExpr(t *testing.T, source string) ast.Expr {
	t.Helper()
	program := parseOK(t, source)
	if len(program.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(program.Statements))
	}
	stmt, ok := program.Statements[0].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("expected ExprStmt, got %T", program.Statements[0])
	}
	return stmt.Expr
}

func TestParseLetStatements(t *testing.T) {
	program := parseOK(t, `
let x = 5;
let y = true;
let foobar = y
`)
	want := []string{"x", "y", "foobar"}
	if len(program.Statements) != len(want) {
		t.Fatalf("expected %d statements, got %d", len(want), len(program.Statements))
	}
	for i, name := range want {
		let, ok := program.Statements[i].(*ast.LetStmt)
		if !ok {
			t.Fatalf("statement %d: expected LetStmt, got %T", i, program.Statements[i])
		}
		if let.Name.Name != name {
			t.Errorf("statement %d: expected name %q, got %q", i, name, let.Name.Name)
		}
	}

	value, ok := program.Statements[0].(*ast.LetStmt).Value.(*ast.IntLiteral)
	if !ok || value.Value != 5 {
		t.Errorf("expected IntLiteral 5, got %#v", program.Statements[0].(*ast.LetStmt).Value)
	}
}

func TestParseReturnAndPrint(t *testing.T) {
	program := parseOK(t, `return 5; return x + 1; print "hi"`)
	if len(program.Statements) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(program.Statements))
	}
	if _, ok := program.Statements[0].(*ast.ReturnStmt); !ok {
		t.Errorf("expected ReturnStmt, got %T", program.Statements[0])
	}
	if got := ast.String(program.Statements[1]); got != "return (x + 1);" {
		t.Errorf("unexpected return statement: %q", got)
	}
	ps, ok := program.Statements[2].(*ast.PrintStmt)
	if !ok {
		t.Fatalf("expected PrintStmt, got %T", program.Statements[2])
	}
	if s, ok := ps.Value.(*ast.StringLiteral); !ok || s.Value != "hi" {
		t.Errorf("expected StringLiteral \"hi\", got %#v", ps.Value)
	}
}

func TestParseLiterals(t *testing.T) {
	if ident, ok := parseExpr(t, "foobar;").(*ast.Ident); !ok || ident.Name != "foobar" {
		t.Errorf("expected Ident foobar")
	}
	if lit, ok := parseExpr(t, "5;").(*ast.IntLiteral); !ok || lit.Value != 5 {
		t.Errorf("expected IntLiteral 5")
	}
	if lit, ok := parseExpr(t, `"hello world";`).(*ast.StringLiteral); !ok || lit.Value != "hello world" {
		t.Errorf("expected StringLiteral")
	}
	if lit, ok := parseExpr(t, "false").(*ast.BoolLiteral); !ok || lit.Value {
		t.Errorf("expected BoolLiteral false")
	}
}

func TestParsePrefixExpr(t *testing.T) {
	tests := []struct {
		input string
		op    token.Kind
		right string
	}{
		{"!5;", token.BANG, "5"},
		{"-15;", token.MINUS, "15"},
		{"!true;", token.BANG, "true"},
	}
	for _, tt := range tests {
		prefix, ok := parseExpr(t, tt.input).(*ast.PrefixExpr)
		if !ok {
			t.Fatalf("%s: expected PrefixExpr", tt.input)
		}
		if prefix.Op != tt.op {
			t.Errorf("%s: expected op %s, got %s", tt.input, tt.op, prefix.Op)
		}
		if got := ast.String(prefix.Right); got != tt.right {
			t.Errorf("%s: expected right %q, got %q", tt.input, tt.right, got)
		}
	}
}

func TestParseOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"-a * b", "((-a) * b)"},
		{"!-a", "(!(-a))"},
		{"a + b + c", "((a + b) + c)"},
		{"a + b - c", "((a + b) - c)"},
		{"a * b * c", "((a * b) * c)"},
		{"a * b / c", "((a * b) / c)"},
		{"a + b / c", "(a + (b / c))"},
		{"a + b * c + d / e - f", "(((a + (b * c)) + (d / e)) - f)"},
		{"3 + 4; -5 * 5", "(3 + 4)((-5) * 5)"},
		{"5 > 4 == 3 < 4", "((5 > 4) == (3 < 4))"},
		{"5 < 4 != 3 > 4", "((5 < 4) != (3 > 4))"},
		{"3 + 4 * 5 == 3 * 1 + 4 * 5", "((3 + (4 * 5)) == ((3 * 1) + (4 * 5)))"},
		{"3 > 5 == false", "((3 > 5) == false)"},
		{"1 + (2 + 3) + 4", "((1 + (2 + 3)) + 4)"},
		{"(5 + 5) * 2", "((5 + 5) * 2)"},
		{"-(5 + 5)", "(-(5 + 5))"},
		{"!(true == true)", "(!(true == true))"},
		{"a + add(b * c) + d", "((a + add((b * c))) + d)"},
		{"add(a, b, 1, 2 * 3, 4 + 5, add(6, 7 * 8))", "add(a, b, 1, (2 * 3), (4 + 5), add(6, (7 * 8)))"},
		{"add(a + b + c * d / f + g)", "add((((a + b) + ((c * d) / f)) + g))"},
		{"a * [1, 2, 3, 4][b * c] * d", "((a * ([1, 2, 3, 4][(b * c)])) * d)"},
		{"add(a * b[2], b[1], 2 * [1, 2][1])", "add((a * (b[2])), (b[1]), (2 * ([1, 2][1])))"},
	}
	for _, tt := range tests {
		program := parseOK(t, tt.input)
		if got := ast.String(program); got != tt.want {
			t.Errorf("%s: expected %q, got %q", tt.input, tt.want, got)
		}
	}
}

func TestParseIfExpr(t *testing.T) {
	expr, ok := parseExpr(t, `if (x < y) { x }`).(*ast.IfExpr)
	if !ok {
		t.Fatalf("expected IfExpr")
	}
	if got := ast.String(expr.Condition); got != "(x < y)" {
		t.Errorf("unexpected condition: %q", got)
	}
	if len(expr.Consequence.Stmts) != 1 {
		t.Errorf("expected 1 consequence statement, got %d", len(expr.Consequence.Stmts))
	}
	if expr.Alternative != nil {
		t.Errorf("expected no alternative, got %s", ast.String(expr.Alternative))
	}
}

func TestParseIfElseExpr(t *testing.T) {
	expr := parseExpr(t, `if (x < y) { x } else { y; z }`)
	if got := ast.String(expr); got != "if (x < y) { x } else { y z }" {
		t.Errorf("unexpected if/else: %q", got)
	}
}

func TestParseFuncLiteral(t *testing.T) {
	fn, ok := parseExpr(t, `fn(x, y) { x + y; }`).(*ast.FuncLiteral)
	if !ok {
		t.Fatalf("expected FuncLiteral")
	}
	var params []string
	for _, p := range fn.Params {
		params = append(params, p.Name)
	}
	if diff := cmp.Diff([]string{"x", "y"}, params); diff != "" {
		t.Errorf("params mismatch (-want +got):\n%s", diff)
	}
	if got := ast.String(fn.Body); got != "{ (x + y) }" {
		t.Errorf("unexpected body: %q", got)
	}
}

func TestParseFuncParams(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"fn() {};", []string{}},
		{"fn(x) {};", []string{"x"}},
		{"fn(x, y, z) {};", []string{"x", "y", "z"}},
	}
	for _, tt := range tests {
		fn := parseExpr(t, tt.input).(*ast.FuncLiteral)
		got := []string{}
		for _, p := range fn.Params {
			got = append(got, p.Name)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("%s: params mismatch (-want +got):\n%s", tt.input, diff)
		}
	}
}

func TestParseCallExpr(t *testing.T) {
	call, ok := parseExpr(t, `add(1, 2 * 3, 4 + 5);`).(*ast.CallExpr)
	if !ok {
		t.Fatalf("expected CallExpr")
	}
	if ident, ok := call.Callee.(*ast.Ident); !ok || ident.Name != "add" {
		t.Errorf("expected callee 'add', got %s", ast.String(call.Callee))
	}
	if len(call.Args) != 3 {
		t.Fatalf("expected 3 args, got %d", len(call.Args))
	}
	if got := ast.String(call.Args[1]); got != "(2 * 3)" {
		t.Errorf("unexpected second arg: %q", got)
	}

	empty := parseExpr(t, `f()`).(*ast.CallExpr)
	if len(empty.Args) != 0 {
		t.Errorf("expected no args, got %d", len(empty.Args))
	}
}

func TestParseArrayAndIndex(t *testing.T) {
	arr, ok := parseExpr(t, `[1, 2 * 2, 3 + 3]`).(*ast.ArrayLiteral)
	if !ok {
		t.Fatalf("expected ArrayLiteral")
	}
	if len(arr.Elements) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(arr.Elements))
	}

	if _, ok := parseExpr(t, `[]`).(*ast.ArrayLiteral); !ok {
		t.Errorf("expected empty ArrayLiteral")
	}

	idx, ok := parseExpr(t, `myArray[1 + 1]`).(*ast.IndexExpr)
	if !ok {
		t.Fatalf("expected IndexExpr")
	}
	if got := ast.String(idx.Index); got != "(1 + 1)" {
		t.Errorf("unexpected index: %q", got)
	}
}

func TestParseHashLiteral(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`{}`, `{}`},
		{`{"one": 1, "two": 2, "three": 3}`, `{"one": 1, "two": 2, "three": 3}`},
		{`{"one": 0 + 1, "two": 10 - 8,}`, `{"one": (0 + 1), "two": (10 - 8)}`},
		{`{1: true, false: "x"}`, `{1: true, false: "x"}`},
	}
	for _, tt := range tests {
		hash, ok := parseExpr(t, tt.input).(*ast.HashLiteral)
		if !ok {
			t.Fatalf("%s: expected HashLiteral", tt.input)
		}
		if got := ast.String(hash); got != tt.want {
			t.Errorf("%s: expected %q, got %q", tt.input, tt.want, got)
		}
	}
}

func TestParseComments(t *testing.T) {
	program := parseOK(t, "// leading\nlet x = 1; // trailing\nx")
	if len(program.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(program.Statements))
	}
}

func TestParseJSONOutput(t *testing.T) {
	program := parseOK(t, `let x = -1;`)
	data, err := json.Marshal(ast.NodeToMap(program))
	if err != nil {
		t.Fatalf("json error: %v", err)
	}

	var got map[string]interface{}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("json error: %v", err)
	}
	want := map[string]interface{}{
		"kind": "Program", "line": 1.0, "col": 1.0,
		"statements": []interface{}{
			map[string]interface{}{
				"kind": "LetStmt", "line": 1.0, "col": 1.0,
				"name": "x",
				"value": map[string]interface{}{
					"kind": "PrefixExpr", "line": 1.0, "col": 9.0,
					"op": "-",
					"right": map[string]interface{}{
						"kind": "IntLiteral", "line": 1.0, "col": 10.0,
						"value": 1.0,
					},
				},
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("json mismatch (-want +got):\n%s", diff)
	}
}

func TestParseLetError(t *testing.T) {
	errs := parseErrors(t, `let 5 = x;`)
	want := []string{"[line 1] error: expected identifier after 'let', got '5'"}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestParseErrorRecovery(t *testing.T) {
	source := "let = 1;\nlet y 2;\nlet z = 3;"
	program, diags := Parse(source)

	want := []string{
		"[line 1] error: expected identifier after 'let', got '='",
		"[line 2] error: expected '=' after identifier, got '2'",
	}
	if diff := cmp.Diff(want, diag.Strings(diags)); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}
	// the valid statement after the broken ones still parses
	if len(program.Statements) != 1 {
		t.Fatalf("expected 1 recovered statement, got %d", len(program.Statements))
	}
	if got := ast.String(program.Statements[0]); got != "let z = 3;" {
		t.Errorf("unexpected recovered statement: %q", got)
	}
}

func TestParseErrorRecoveryInBlock(t *testing.T) {
	program, diags := Parse("fn() { let = 1; 2 }")
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %v", diag.Strings(diags))
	}
	fn := program.Statements[0].(*ast.ExprStmt).Expr.(*ast.FuncLiteral)
	if got := ast.String(fn.Body); got != "{ 2 }" {
		t.Errorf("unexpected body: %q", got)
	}
}

func TestParseNoPrefixFn(t *testing.T) {
	errs := parseErrors(t, `1 +;`)
	want := []string{"[line 1] error: no prefix parse function for ';'"}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestParseMissingDelimiters(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"(1 + 2", "expected ')' after grouped expression, got 'EOF'"},
		{"[1, 2", "expected ']' after list of expressions, got 'EOF'"},
		{"f(1, 2", "expected ')' after list of expressions, got 'EOF'"},
		{`{"a" 1}`, "expected ':' after hash key, got '1'"},
		{"if x { 1 }", "expected '(' after 'if', got 'x'"},
		{"fn(1) {}", "expected parameter name, got '1'"},
	}
	for _, tt := range tests {
		errs := parseErrors(t, tt.input)
		if len(errs) == 0 {
			t.Errorf("%s: expected an error", tt.input)
			continue
		}
		if !strings.HasSuffix(errs[0], tt.want) {
			t.Errorf("%s: expected error ending in %q, got %q", tt.input, tt.want, errs[0])
		}
	}
}

func TestParseIntegerOverflow(t *testing.T) {
	errs := parseErrors(t, `99999999999999999999`)
	want := []string{`[line 1] error: could not parse "99999999999999999999" as integer`}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestParseLexErrorsFirst(t *testing.T) {
	errs := parseErrors(t, "let x = @;")
	want := []string{
		"[line 1] error: unexpected character '@'",
		"[line 1] error: no prefix parse function for '@'",
	}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestParseErrorLine(t *testing.T) {
	errs := parseErrors(t, "let a = 1;\nlet b = 2;\nlet 3 = c;")
	if len(errs) != 1 || !strings.HasPrefix(errs[0], "[line 3] error:") {
		t.Errorf("expected one error on line 3, got %v", errs)
	}
}

func TestParseEmpty(t *testing.T) {
	program := parseOK(t, "")
	if len(program.Statements) != 0 {
		t.Errorf("expected no statements, got %d", len(program.Statements))
	}

	program, diags := New(nil).ParseProgram()
	if len(diags) != 0 || len(program.Statements) != 0 {
		t.Errorf("expected empty program from nil tokens")
	}
}

package parser

import (
	"testing"

	"github.com/kristofer/tinyimp/pkg/ast"
)

// parseExprString lexes and parses a bare expression by wrapping it in a
// throwaway declaration, since parseExpr is only reachable through Decl or
// a statement form.
func parseExprString(t *testing.T, src string) ast.Expr {
	t.Helper()
	prog, err := Parse(mustLex(t, "int t = "+src))
	if err != nil {
		t.Fatalf("Parse(%q) returned error: %v", src, err)
	}
	return prog.Decls[0].Init
}

// TestPrecedenceTimesOverPlus confirms `*` binds tighter than `+` (§4.2
// priorities: Times=3, Plus=2): "2 + 3 * 4" parses as "2 + (3 * 4)".
func TestPrecedenceTimesOverPlus(t *testing.T) {
	e := parseExprString(t, "2 + 3 * 4").(*ast.Binary)
	if e.Op != ast.Plus {
		t.Fatalf("top-level op = %v, want Plus", e.Op)
	}
	if _, ok := e.Left.(*ast.IntLit); !ok {
		t.Fatalf("left = %#v, want IntLit(2)", e.Left)
	}
	right, ok := e.Right.(*ast.Binary)
	if !ok || right.Op != ast.Times {
		t.Fatalf("right = %#v, want Times(3, 4)", e.Right)
	}
}

// TestPrecedenceLeftAssociative confirms same-priority operators combine
// left to right: "2 * 3 * 4" parses as "(2 * 3) * 4".
func TestPrecedenceLeftAssociative(t *testing.T) {
	e := parseExprString(t, "2 * 3 * 4").(*ast.Binary)
	if e.Op != ast.Times {
		t.Fatalf("top-level op = %v, want Times", e.Op)
	}
	left, ok := e.Left.(*ast.Binary)
	if !ok || left.Op != ast.Times {
		t.Fatalf("left = %#v, want Times(2, 3)", e.Left)
	}
	if _, ok := e.Right.(*ast.IntLit); !ok {
		t.Fatalf("right = %#v, want IntLit(4)", e.Right)
	}
}

// TestPrecedenceComparisonIsNotCommutative pins down the shunting-yard
// combine rule (first pop is the right operand, second pop is the left
// operand, §4.2): swapping operand order for a non-commutative operator
// must swap Left/Right, not just re-derive the same tree.
func TestPrecedenceComparisonIsNotCommutative(t *testing.T) {
	gt := parseExprString(t, "2 > 1").(*ast.Binary)
	if gt.Op != ast.GT {
		t.Fatalf("op = %v, want GT", gt.Op)
	}
	if gt.Left.(*ast.IntLit).Value != 2 || gt.Right.(*ast.IntLit).Value != 1 {
		t.Fatalf("2 > 1 parsed as %#v, want Left=2 Right=1", gt)
	}

	lt := parseExprString(t, "1 > 2").(*ast.Binary)
	if lt.Left.(*ast.IntLit).Value != 1 || lt.Right.(*ast.IntLit).Value != 2 {
		t.Fatalf("1 > 2 parsed as %#v, want Left=1 Right=2", lt)
	}
}

// TestPrecedenceMixedComparisonAndArithmetic confirms arithmetic binds
// tighter than comparison (Times/Plus > Equals/GT/LT): "x + 1 > y" parses
// as "(x + 1) > y".
func TestPrecedenceMixedComparisonAndArithmetic(t *testing.T) {
	e := parseExprString(t, "x + 1 > y").(*ast.Binary)
	if e.Op != ast.GT {
		t.Fatalf("top-level op = %v, want GT", e.Op)
	}
	left, ok := e.Left.(*ast.Binary)
	if !ok || left.Op != ast.Plus {
		t.Fatalf("left = %#v, want Plus(x, 1)", e.Left)
	}
	if _, ok := e.Right.(*ast.Name); !ok {
		t.Fatalf("right = %#v, want Name(y)", e.Right)
	}
}

// TestPrecedenceSingleOperand confirms a bare leaf (no operator at all)
// still parses.
func TestPrecedenceSingleOperand(t *testing.T) {
	e := parseExprString(t, "42")
	lit, ok := e.(*ast.IntLit)
	if !ok || lit.Value != 42 {
		t.Fatalf("expr = %#v, want IntLit(42)", e)
	}
}

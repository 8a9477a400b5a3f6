package ast

import (
	"strconv"
	"strings"
)

// PrettyPrint renders p in the canonical text form used for golden testing
// (§4.3). The shape is grounded directly in the original implementation's
// `Program::to_string` (`_examples/original_source/src/parser/program.rs`):
// one decl/stmt per line, wrapped in `Program { ... }`.
func PrettyPrint(p *Program) string {
	var b strings.Builder
	b.WriteString("Program {\n")
	for _, d := range p.Decls {
		b.WriteString(printDecl(d))
		b.WriteString("\n")
	}
	for _, s := range p.Stmts {
		b.WriteString(printStmt(s))
		b.WriteString("\n")
	}
	b.WriteString("}")
	return b.String()
}

func printDecl(d *Decl) string {
	return d.Type.String() + " " + d.Name + " = " + printExpr(d.Init)
}

func printStmt(s Stmt) string {
	switch s := s.(type) {
	case *Print:
		return "print(" + printExpr(s.Expr) + ")"
	case *Assign:
		return "assign " + s.Name + " = " + printExpr(s.Expr)
	case *Control:
		var b strings.Builder
		b.WriteString(s.Kind.String())
		b.WriteString("(")
		b.WriteString(printExpr(s.Cond))
		b.WriteString("){")
		for _, d := range s.Decls {
			b.WriteString(printDecl(d))
			b.WriteString("\n")
		}
		for _, inner := range s.Stmts {
			b.WriteString(printStmt(inner))
			b.WriteString("\n")
		}
		b.WriteString("}")
		return b.String()
	default:
		return "<unknown stmt>"
	}
}

// printExpr renders an expression: binary nodes as `(L OP R)`, unary leaves
// as their literal value or identifier (§4.3).
func printExpr(e Expr) string {
	switch e := e.(type) {
	case *IntLit:
		return strconv.Itoa(int(e.Value))
	case *StrLit:
		return e.Value
	case *Name:
		return e.Name
	case *Binary:
		return "(" + printExpr(e.Left) + " " + e.Op.Symbol() + " " + printExpr(e.Right) + ")"
	default:
		return "<unknown expr>"
	}
}

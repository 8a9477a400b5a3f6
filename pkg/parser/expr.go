package parser

import (
	"github.com/kristofer/tinyimp/pkg/ast"
	"github.com/kristofer/tinyimp/pkg/lexer"
)

// parseExpr parses a binary expression tree via shunting-yard (§4.2
// "Expressions"), grounded in the original's expr.rs operand/operator
// stack algorithm. It reports ok=false and rewinds p if the first expected
// operand is missing — this is the one point where expression parsing
// itself participates in the statement-level rewind protocol, since an
// absent operand means "this isn't an expression at all", not a malformed
// one.
func (p *Parser) parseExpr() (ast.Expr, bool) {
	save := p.pos

	var operands []ast.Expr
	var operators []ast.Op
	expectOperator := false

	for {
		tok := p.cur()
		if !expectOperator {
			leaf, ok := operandFor(tok)
			if !ok {
				break
			}
			operands = append(operands, leaf)
			expectOperator = true
			p.pos++
			continue
		}

		op, ok := operatorFor(tok.Kind)
		if !ok {
			break
		}
		for len(operators) > 0 && operators[len(operators)-1].Priority() >= op.Priority() {
			combine(&operands, &operators)
		}
		operators = append(operators, op)
		expectOperator = false
		p.pos++
	}

	if len(operands) == 0 {
		p.pos = save
		return nil, false
	}

	for len(operators) > 0 {
		combine(&operands, &operators)
	}

	return operands[0], true
}

// combine pops one operator and its two operands off the stacks and
// pushes the resulting Binary node. Per §4.2 "Combine rule": the first
// pop is the right operand (it was pushed most recently), the second pop
// is the left operand.
func combine(operands *[]ast.Expr, operators *[]ast.Op) {
	n := len(*operators)
	op := (*operators)[n-1]
	*operators = (*operators)[:n-1]

	m := len(*operands)
	right := (*operands)[m-1]
	left := (*operands)[m-2]
	*operands = (*operands)[:m-2]

	*operands = append(*operands, &ast.Binary{Op: op, Left: left, Right: right})
}

// operandFor recognizes the three expression leaves (§3: IntLit, StrLit,
// Name).
func operandFor(tok lexer.Token) (ast.Expr, bool) {
	switch tok.Kind {
	case lexer.INTLIT:
		return &ast.IntLit{Value: tok.IntValue}, true
	case lexer.STRINGLIT:
		return &ast.StrLit{Value: tok.Literal}, true
	case lexer.NAME:
		return &ast.Name{Name: tok.Literal}, true
	default:
		return nil, false
	}
}

// operatorFor recognizes the five binary operators (§3) and maps the
// lexer's EQ/GT/LT/PLUS/STAR token kinds onto ast.Op.
func operatorFor(k lexer.Kind) (ast.Op, bool) {
	switch k {
	case lexer.PLUS:
		return ast.Plus, true
	case lexer.STAR:
		return ast.Times, true
	case lexer.EQ:
		return ast.Equals, true
	case lexer.GT:
		return ast.GT, true
	case lexer.LT:
		return ast.LT, true
	default:
		return 0, false
	}
}

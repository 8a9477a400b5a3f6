// Package parser implements the recursive-descent parser for tinyimp
// (spec.md §4.2): Program := Decls? Stmts?.
//
// Unlike smog's parser (_examples/kristofer-smog/pkg/parser/parser.go), which
// accumulates a slice of errors across the whole token stream and keeps
// going, tinyimp's parser is fatal-on-first-error (spec.md §7 kind 2):
// there is exactly one syntax error to report, and the driver aborts on it.
// What tinyimp keeps from smog's shape is the two-part structure (a small
// dispatch loop backed by per-form parse attempts) and the heavy doc
// comments on each entry point.
//
// The parser carries a single mutable position index into the token slice
// (spec.md §9 "Parser rewind: the original threads a mutable position index
// p ... through all parsing functions, saving and restoring it around
// backtracking attempts"). Statement-form disambiguation tries Print, then
// Control, then Assign in that order; each attempt saves p, and any failure
// — whether the leading token never matched or the form turned out to be
// malformed partway through — rewinds p and falls through to the next
// attempt. This mirrors the original's stmts.rs: a malformed `if` does not
// itself report "bad if", it simply fails to parse as any statement, and
// parsing of the statement list ends at that token; the surrounding
// Program check (current token must be EOF) is what turns that into the
// single reported fatal syntax error, naming the offending token.
//
// A Decl, by contrast, is committed the moment its leading type keyword is
// seen — there is no sibling form to fall back to — so a malformed Decl
// panics with a *cerr.Error immediately. Parse recovers that panic at the
// top level, the same two-phase "commit then panic on hard failure, caller
// recovers" shape xsharp's single-file parser uses
// (_examples/RoiRomem-xsharp/main.go).
package parser

import (
	"github.com/kristofer/tinyimp/pkg/ast"
	"github.com/kristofer/tinyimp/pkg/cerr"
	"github.com/kristofer/tinyimp/pkg/lexer"
)

// Parser holds the token stream and the current position index.
type Parser struct {
	toks []lexer.Token
	pos  int
}

// New constructs a Parser over a complete token stream, as produced by
// lexer.Lex (which always ends with exactly one EOF token).
func New(toks []lexer.Token) *Parser {
	return &Parser{toks: toks}
}

// Parse consumes the whole token stream and returns the root Program node.
// Per spec.md §4.2, "Program succeeds iff, after both blocks, the current
// token is EOF"; any other token remaining is a single fatal syntax error.
func Parse(toks []lexer.Token) (prog *ast.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			if ce, ok := r.(*cerr.Error); ok {
				err = ce
				return
			}
			panic(r)
		}
	}()

	p := New(toks)
	decls := p.parseDecls()
	stmts := p.parseStmts()
	if p.cur().Kind != lexer.EOF {
		return nil, cerr.Syntax("unexpected "+p.cur().String()+", expected end of input", p.cur().Line, p.cur().Column)
	}
	return &ast.Program{Decls: decls, Stmts: stmts}, nil
}

func (p *Parser) cur() lexer.Token {
	return p.toks[p.pos]
}

// parseDecls parses the optional leading declaration block. "Decls begins
// iff the current token is a type keyword" (§4.2); it ends — without
// error — the first time the current token is not one.
func (p *Parser) parseDecls() []*ast.Decl {
	var decls []*ast.Decl
	for p.cur().Kind.IsTypeKeyword() {
		decls = append(decls, p.parseDecl())
	}
	return decls
}

// parseDecl parses one `TYPE Name = Expr` declaration. See the package doc
// for why this form panics on mismatch instead of returning ok=false.
func (p *Parser) parseDecl() *ast.Decl {
	typTok := p.cur()
	typ := typeFromKeyword(typTok.Kind)
	p.pos++

	nameTok := p.cur()
	if nameTok.Kind != lexer.NAME {
		panic(cerr.Syntax("expected identifier after '"+typTok.String()+"', got "+nameTok.String(), nameTok.Line, nameTok.Column))
	}
	p.pos++

	assignTok := p.cur()
	if assignTok.Kind != lexer.ASSIGN {
		panic(cerr.Syntax("expected '=' in declaration of '"+nameTok.Literal+"', got "+assignTok.String(), assignTok.Line, assignTok.Column))
	}
	p.pos++

	init, ok := p.parseExpr()
	if !ok {
		errTok := p.cur()
		panic(cerr.Syntax("expected initializer expression for '"+nameTok.Literal+"', got "+errTok.String(), errTok.Line, errTok.Column))
	}

	return &ast.Decl{Type: typ, Name: nameTok.Literal, Init: init}
}

func typeFromKeyword(k lexer.Kind) ast.Type {
	switch k {
	case lexer.STR:
		return ast.Str
	case lexer.BOOL:
		return ast.Bool
	default:
		return ast.Int
	}
}

// parseStmts parses the optional trailing statement block, trying Print,
// then Control, then Assign at each position (§4.2). The list ends —
// again without error — the first time none of the three forms parses;
// whatever token is left there is validated by the caller (Program's final
// EOF check).
func (p *Parser) parseStmts() []ast.Stmt {
	var stmts []ast.Stmt
	for {
		if s, ok := p.tryPrint(); ok {
			stmts = append(stmts, s)
			continue
		}
		if s, ok := p.tryControl(); ok {
			stmts = append(stmts, s)
			continue
		}
		if s, ok := p.tryAssign(); ok {
			stmts = append(stmts, s)
			continue
		}
		return stmts
	}
}

// tryPrint attempts `print ( Expr )`.
func (p *Parser) tryPrint() (ast.Stmt, bool) {
	save := p.pos
	if p.cur().Kind != lexer.PRINT {
		return nil, false
	}
	p.pos++
	if p.cur().Kind != lexer.LPAREN {
		p.pos = save
		return nil, false
	}
	p.pos++
	e, ok := p.parseExpr()
	if !ok {
		p.pos = save
		return nil, false
	}
	if p.cur().Kind != lexer.RPAREN {
		p.pos = save
		return nil, false
	}
	p.pos++
	return &ast.Print{Expr: e}, true
}

// tryControl attempts `(if|while) ( Expr ) { Decls? Stmts? }`.
func (p *Parser) tryControl() (ast.Stmt, bool) {
	save := p.pos
	var kind ast.ControlKind
	switch p.cur().Kind {
	case lexer.IF:
		kind = ast.If
	case lexer.WHILE:
		kind = ast.While
	default:
		return nil, false
	}
	p.pos++

	if p.cur().Kind != lexer.LPAREN {
		p.pos = save
		return nil, false
	}
	p.pos++

	cond, ok := p.parseExpr()
	if !ok {
		p.pos = save
		return nil, false
	}

	if p.cur().Kind != lexer.RPAREN {
		p.pos = save
		return nil, false
	}
	p.pos++

	if p.cur().Kind != lexer.LBRACE {
		p.pos = save
		return nil, false
	}
	p.pos++

	decls := p.parseDecls()
	stmts := p.parseStmts()

	if p.cur().Kind != lexer.RBRACE {
		p.pos = save
		return nil, false
	}
	p.pos++

	return &ast.Control{Kind: kind, Cond: cond, Decls: decls, Stmts: stmts}, true
}

// tryAssign attempts `Name = Expr`.
func (p *Parser) tryAssign() (ast.Stmt, bool) {
	save := p.pos
	nameTok := p.cur()
	if nameTok.Kind != lexer.NAME {
		return nil, false
	}
	p.pos++
	if p.cur().Kind != lexer.ASSIGN {
		p.pos = save
		return nil, false
	}
	p.pos++
	e, ok := p.parseExpr()
	if !ok {
		p.pos = save
		return nil, false
	}
	return &ast.Assign{Name: nameTok.Literal, Expr: e}, true
}

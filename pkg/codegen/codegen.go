// Package codegen lowers a tinyimp *ast.Program to LLVM IR (spec.md §4.4).
//
// The shape is grounded in two places. The symbol-table-plus-switch
// lowering structure (one method per AST node kind, a flat name→storage
// map threaded through every call) is smog's pkg/compiler/compiler.go,
// adapted from smog's stack-machine bytecode target to an SSA target.
// The actual lowering semantics — one `alloca` per declared variable, a
// void `main` function, an external `print_int(i16)` the generated code
// calls for every Print statement, i16 as the sole integer width — is
// grounded in the original implementation's
// _examples/original_source/src/code_gen/compile.rs and src/io.rs.
//
// IR construction itself is delegated to github.com/llir/llvm
// (_examples/other_examples/manifests/ccuetoh-maqui-lang/go.mod), a pure-Go
// LLVM IR builder: this package only ever builds *ir.Module values and
// leaves verification, optimization and object emission to the
// Verifier/PassPipeline interfaces in optpipeline.go and to pkg/driver.
package codegen

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/kristofer/tinyimp/pkg/ast"
	"github.com/kristofer/tinyimp/pkg/cerr"
)

// Generator lowers one Program into one LLVM module. It is single-use: a
// fresh Generator is built per compilation by Generate.
type Generator struct {
	module   *ir.Module
	printInt *ir.Func
	syms     *symtab
	block    *ir.Block
}

// Generate lowers prog to an LLVM module containing a single void `main`
// function plus the declaration of the external `print_int(i16)` runtime
// entry point (runtime/print_int.c). Any reference to an unimplemented
// feature (Str/Bool declarations, code paths the current core does not
// lower) surfaces as a *cerr.Error of kind codegen.
func Generate(prog *ast.Program, moduleName string) (m *ir.Module, err error) {
	defer func() {
		if r := recover(); r != nil {
			if ce, ok := r.(*cerr.Error); ok {
				err = ce
				return
			}
			panic(r)
		}
	}()

	g := &Generator{
		module: ir.NewModule(),
		syms:   newSymtab(),
	}
	g.module.SourceFilename = moduleName

	g.printInt = g.module.NewFunc("print_int", types.Void, ir.NewParam("v", types.I16))

	mainFn := g.module.NewFunc("main", types.Void)
	entry := mainFn.NewBlock("entry")
	g.block = entry

	g.lowerDecls(prog.Decls)
	g.lowerStmts(prog.Stmts)

	if g.block.Term == nil {
		g.block.NewRet(nil)
	}

	return g.module, nil
}

func (g *Generator) lowerDecls(decls []*ast.Decl) {
	for _, d := range decls {
		g.lowerDecl(d)
	}
}

func (g *Generator) lowerDecl(d *ast.Decl) {
	if d.Type != ast.Int {
		panic(cerr.Codegen(fmt.Sprintf("declaration of '%s': type %s is not yet lowered", d.Name, d.Type)))
	}
	init := g.lowerExpr(d.Init)
	slot := g.block.NewAlloca(types.I16)
	slot.SetName(d.Name)
	g.block.NewStore(init, slot)
	g.syms.define(d.Name, slot)
}

func (g *Generator) lowerStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		g.lowerStmt(s)
	}
}

func (g *Generator) lowerStmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.Print:
		v := g.lowerExpr(s.Expr)
		g.block.NewCall(g.printInt, v)
	case *ast.Assign:
		slot, ok := g.syms.lookup(s.Name)
		if !ok {
			panic(cerr.Codegen("assignment to undeclared name '" + s.Name + "'"))
		}
		v := g.lowerExpr(s.Expr)
		g.block.NewStore(v, slot)
	case *ast.Control:
		g.lowerControl(s)
	default:
		panic(cerr.Codegen(fmt.Sprintf("unsupported statement type %T", s)))
	}
}

// lowerControl lowers `if` and `while`. Per spec.md §4.4 and the §9 design
// note this preserves, `while`'s generated control flow tests the
// condition at the BOTTOM of the loop body, not the top: the body always
// runs once unconditionally and the condition only gates repetition. This
// is a literal, deliberately-kept bottom-tested ("do-while") loop, not a
// bug — see DESIGN.md for the Open Question this resolves.
func (g *Generator) lowerControl(c *ast.Control) {
	mainFn := g.block.Parent

	switch c.Kind {
	case ast.If:
		// §4.4 "If" calls for three fresh blocks even though the grammar has
		// no else clause: then, else, cont. The else block is always just an
		// unconditional branch to cont (§9 "Missing else") — kept so the CFG
		// has the shape a generator with a real else would produce, rather
		// than special-casing the two-successor case.
		thenBlock := mainFn.NewBlock(blockName(mainFn, "if.then"))
		elseBlock := mainFn.NewBlock(blockName(mainFn, "if.else"))
		contBlock := mainFn.NewBlock(blockName(mainFn, "if.cont"))

		cond := g.lowerCond(c.Cond)
		g.block.NewCondBr(cond, thenBlock, elseBlock)

		g.block = thenBlock
		g.lowerDecls(c.Decls)
		g.lowerStmts(c.Stmts)
		if g.block.Term == nil {
			g.block.NewBr(contBlock)
		}

		elseBlock.NewBr(contBlock)

		g.block = contBlock

	case ast.While:
		bodyBlock := mainFn.NewBlock(blockName(mainFn, "while.body"))
		contBlock := mainFn.NewBlock(blockName(mainFn, "while.cont"))

		g.block.NewBr(bodyBlock)

		g.block = bodyBlock
		g.lowerDecls(c.Decls)
		g.lowerStmts(c.Stmts)
		if g.block.Term == nil {
			cond := g.lowerCond(c.Cond)
			g.block.NewCondBr(cond, bodyBlock, contBlock)
		}

		g.block = contBlock
	}
}

func blockName(fn *ir.Func, prefix string) string {
	return fmt.Sprintf("%s.%d", prefix, len(fn.Blocks))
}

// lowerCond lowers a condition expression and, unless it is already an i1,
// turns it into one by comparing it against zero (`icmp ne`).
func (g *Generator) lowerCond(e ast.Expr) value.Value {
	v := g.lowerExpr(e)
	if v.Type().Equal(types.I1) {
		return v
	}
	return g.block.NewICmp(enum.IPredNE, v, constant.NewInt(types.I16, 0))
}

func (g *Generator) lowerExpr(e ast.Expr) value.Value {
	switch e := e.(type) {
	case *ast.IntLit:
		return constant.NewInt(types.I16, int64(e.Value))
	case *ast.StrLit:
		panic(cerr.Codegen("string literals are not yet lowered"))
	case *ast.Name:
		slot, ok := g.syms.lookup(e.Name)
		if !ok {
			panic(cerr.Codegen("reference to undeclared name '" + e.Name + "'"))
		}
		return g.block.NewLoad(types.I16, slot)
	case *ast.Binary:
		return g.lowerBinary(e)
	default:
		panic(cerr.Codegen(fmt.Sprintf("unsupported expression type %T", e)))
	}
}

// lowerBinary lowers the five binary operators (§3, §4.4). Comparisons
// produce i1 in LLVM; since the language's only integer domain is i16,
// every comparison result is immediately widened back to i16 so it can be
// stored, printed or combined with arithmetic the same way a plain value
// can.
func (g *Generator) lowerBinary(e *ast.Binary) value.Value {
	l := g.lowerExpr(e.Left)
	r := g.lowerExpr(e.Right)

	switch e.Op {
	case ast.Plus:
		return g.block.NewAdd(l, r)
	case ast.Times:
		return g.block.NewMul(l, r)
	case ast.Equals:
		return g.widenBool(g.block.NewICmp(enum.IPredEQ, l, r))
	case ast.GT:
		return g.widenBool(g.block.NewICmp(enum.IPredSGT, l, r))
	case ast.LT:
		return g.widenBool(g.block.NewICmp(enum.IPredSLT, l, r))
	default:
		panic(cerr.Codegen(fmt.Sprintf("unsupported operator %v", e.Op)))
	}
}

func (g *Generator) widenBool(cmp value.Value) value.Value {
	return g.block.NewZExt(cmp, types.I16)
}

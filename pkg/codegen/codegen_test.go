package codegen

import (
	"strings"
	"testing"

	"github.com/kristofer/tinyimp/pkg/ast"
	"github.com/kristofer/tinyimp/pkg/lexer"
	"github.com/kristofer/tinyimp/pkg/parser"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	toks, err := lexer.New(src).Lex()
	if err != nil {
		t.Fatalf("Lex returned error: %v", err)
	}
	prog, err := parser.Parse(toks)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	return prog
}

func mustGenerate(t *testing.T, src string) string {
	t.Helper()
	m, err := Generate(mustParse(t, src), "test.tiny")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	return m.String()
}

func TestGenerateDeclaresPrintIntAndMain(t *testing.T) {
	ir := mustGenerate(t, "int x = 1 print(x)")
	if !strings.Contains(ir, "declare void @print_int(i16") {
		t.Fatalf("IR missing print_int declaration:\n%s", ir)
	}
	if !strings.Contains(ir, "define void @main()") {
		t.Fatalf("IR missing main definition:\n%s", ir)
	}
}

func TestGeneratePrintCallsRuntime(t *testing.T) {
	ir := mustGenerate(t, "int x = 41 print(x)")
	if !strings.Contains(ir, "call void @print_int") {
		t.Fatalf("IR missing call to print_int:\n%s", ir)
	}
}

func TestGenerateArithmetic(t *testing.T) {
	ir := mustGenerate(t, "int x = 2 + 3 * 4")
	if !strings.Contains(ir, "mul") || !strings.Contains(ir, "add") {
		t.Fatalf("IR missing expected arithmetic instructions:\n%s", ir)
	}
}

func TestGenerateIfProducesThreeBlocks(t *testing.T) {
	ir := mustGenerate(t, "int x = 1 if(x > 0){print(x)}")
	for _, want := range []string{"if.then", "if.else", "if.cont"} {
		if !strings.Contains(ir, want) {
			t.Fatalf("IR missing block %q:\n%s", want, ir)
		}
	}
}

func TestGenerateWhileIsBottomTested(t *testing.T) {
	// §4.4 / §9: the generated loop branches unconditionally into the body
	// block first, and only the body's own exit re-tests the condition.
	ir := mustGenerate(t, "int x = 0 while(x < 3){print(x) x = x + 1}")
	entryToBody := strings.Index(ir, "entry:")
	bodyIdx := strings.Index(ir, "while.body")
	if entryToBody == -1 || bodyIdx == -1 || bodyIdx < entryToBody {
		t.Fatalf("expected entry to branch unconditionally into while.body:\n%s", ir)
	}
	if strings.Contains(ir[entryToBody:bodyIdx], "icmp") {
		t.Fatalf("entry block tests the loop condition before entering while.body:\n%s", ir)
	}
	if !strings.Contains(ir, "while.cont") {
		t.Fatalf("IR missing while.cont block:\n%s", ir)
	}
}

func TestGenerateStrDeclIsFatal(t *testing.T) {
	if _, err := Generate(mustParse(t, `str s = "hi"`), "test.tiny"); err == nil {
		t.Fatal("Generate succeeded on a str declaration, want error")
	}
}

func TestGenerateUndeclaredNameIsFatal(t *testing.T) {
	if _, err := Generate(mustParse(t, "print(x)"), "test.tiny"); err == nil {
		t.Fatal("Generate succeeded referencing an undeclared name, want error")
	}
}

func TestNoopPipelineNeverFails(t *testing.T) {
	m, err := Generate(mustParse(t, "int x = 1"), "test.tiny")
	_ = m
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	var v Verifier = NoopPipeline{}
	var p PassPipeline = NoopPipeline{}
	if err := v.Verify(nil); err != nil {
		t.Fatalf("NoopPipeline.Verify returned error: %v", err)
	}
	if err := p.Run(nil); err != nil {
		t.Fatalf("NoopPipeline.Run returned error: %v", err)
	}
}

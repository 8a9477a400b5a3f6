package lexer

import "testing"

func TestLexBasicTokens(t *testing.T) {
	input := `( ) { } ; = == > < * +`

	tests := []struct {
		kind    Kind
		literal string
	}{
		{LPAREN, "("},
		{RPAREN, ")"},
		{LBRACE, "{"},
		{RBRACE, "}"},
		{SEMI, ";"},
		{ASSIGN, "="},
		{EQ, "=="},
		{GT, ">"},
		{LT, "<"},
		{STAR, "*"},
		{PLUS, "+"},
		{EOF, ""},
	}

	toks, err := New(input).Lex()
	if err != nil {
		t.Fatalf("Lex returned error: %v", err)
	}
	if len(toks) != len(tests) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(tests), toks)
	}
	for i, tt := range tests {
		if toks[i].Kind != tt.kind {
			t.Fatalf("tests[%d] - kind wrong. expected=%s, got=%s", i, tt.kind, toks[i].Kind)
		}
		if toks[i].Literal != tt.literal {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q", i, tt.literal, toks[i].Literal)
		}
	}
}

func TestLexKeywordsWinOverName(t *testing.T) {
	input := `int str bool while print if intx`

	tests := []struct {
		kind    Kind
		literal string
	}{
		{INT, "int"},
		{STR, "str"},
		{BOOL, "bool"},
		{WHILE, "while"},
		{PRINT, "print"},
		{IF, "if"},
		{NAME, "intx"},
		{EOF, ""},
	}

	toks, err := New(input).Lex()
	if err != nil {
		t.Fatalf("Lex returned error: %v", err)
	}
	for i, tt := range tests {
		if toks[i].Kind != tt.kind || toks[i].Literal != tt.literal {
			t.Fatalf("tests[%d] - expected {%s %q}, got {%s %q}", i, tt.kind, tt.literal, toks[i].Kind, toks[i].Literal)
		}
	}
}

func TestLexIntLit(t *testing.T) {
	toks, err := New(`42`).Lex()
	if err != nil {
		t.Fatalf("Lex returned error: %v", err)
	}
	if toks[0].Kind != INTLIT || toks[0].IntValue != 42 {
		t.Fatalf("expected IntLit(42), got %+v", toks[0])
	}
}

func TestLexNegativeIntLit(t *testing.T) {
	// See DESIGN.md: negative literals are a single IntLit token, not a
	// unary-minus operator applied to a positive literal.
	toks, err := New(`-1`).Lex()
	if err != nil {
		t.Fatalf("Lex returned error: %v", err)
	}
	if toks[0].Kind != INTLIT || toks[0].IntValue != -1 {
		t.Fatalf("expected IntLit(-1), got %+v", toks[0])
	}
}

func TestLexIntLitOverflowIsFatal(t *testing.T) {
	_, err := New(`99999`).Lex()
	if err == nil {
		t.Fatalf("expected overflow to be a fatal lex error")
	}
}

func TestLexStringLit(t *testing.T) {
	toks, err := New(`"hello\nworld"`).Lex()
	if err != nil {
		t.Fatalf("Lex returned error: %v", err)
	}
	if toks[0].Kind != STRINGLIT || toks[0].Literal != "hello\nworld" {
		t.Fatalf("expected StringLit(hello\\nworld), got %+v", toks[0])
	}
}

func TestLexWhitespaceDropped(t *testing.T) {
	toks, err := New("  \t\n  42  ").Lex()
	if err != nil {
		t.Fatalf("Lex returned error: %v", err)
	}
	if len(toks) != 2 {
		t.Fatalf("expected [IntLit, EOF], got %v", toks)
	}
	if toks[0].Kind != INTLIT || toks[1].Kind != EOF {
		t.Fatalf("expected [IntLit, EOF], got %v", toks)
	}
}

func TestLexEndsWithExactlyOneEOF(t *testing.T) {
	toks, err := New(`int x = 1`).Lex()
	if err != nil {
		t.Fatalf("Lex returned error: %v", err)
	}
	eofCount := 0
	for i, tok := range toks {
		if tok.Kind == EOF {
			eofCount++
			if i != len(toks)-1 {
				t.Fatalf("EOF not last token: %v", toks)
			}
		}
	}
	if eofCount != 1 {
		t.Fatalf("expected exactly one EOF token, got %d", eofCount)
	}
}

func TestLexIllegalCharacterIsFatal(t *testing.T) {
	_, err := New(`@`).Lex()
	if err == nil {
		t.Fatalf("expected illegal character to be a fatal lex error")
	}
}

func TestLexProgram(t *testing.T) {
	input := `int x = 2 + 3 * 4 print(x)`
	toks, err := New(input).Lex()
	if err != nil {
		t.Fatalf("Lex returned error: %v", err)
	}
	want := []Kind{INT, NAME, ASSIGN, INTLIT, PLUS, INTLIT, STAR, INTLIT, PRINT, LPAREN, NAME, RPAREN, EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Fatalf("tok[%d]: expected %s, got %s", i, k, toks[i].Kind)
		}
	}
}

// Package lexer implements the tokenizer for the tinyimp source language.
//
// Unlike a hand-rolled character-class scanner, this lexer recognizes tokens
// by incremental regex probing: it grows a candidate buffer one input
// character at a time and asks, at every step, whether the buffer as a whole
// matches one of a fixed, ordered bank of anchored patterns. This mirrors the
// original implementation's use of a regex set (see DESIGN.md) rather than
// smog's byte-at-a-time switch, and is the algorithm spec.md §4.1 specifies.
//
// Matching walk:
//
//	prev := ""
//	for each input byte c:
//	    new := prev + c
//	    if new matches some pattern:        prev := new           // keep growing
//	    else if prev matches some pattern:   emit(prev); prev := c  // close out, restart
//	    else:                                prev := new           // not a match yet either way, keep growing
//	at EOF, emit(prev) if it matches; otherwise fatal lex error.
//
// Whitespace tokens are recognized (so the "no pattern matches" case above
// never misfires on a lone space) but dropped before reaching the caller.
package lexer

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/kristofer/tinyimp/pkg/cerr"
)

// pattern is one anchored entry in the probe table. Patterns are tried in
// table order; the first one matching the whole candidate buffer wins, which
// is how keywords are made to win over Name (§4.1: "listing keywords before
// Name in the probe order").
type pattern struct {
	name string
	re   *regexp.Regexp
	kind Kind
}

// table is the ordered pattern bank described in spec.md §4.1. The
// leading '-' in the neg-int-lit pattern is tinyimp's resolution of the
// "negative literals" open question — see DESIGN.md.
var table = []pattern{
	{"int", regexp.MustCompile(`^int$`), INT},
	{"str", regexp.MustCompile(`^str$`), STR},
	{"bool", regexp.MustCompile(`^bool$`), BOOL},
	{"while", regexp.MustCompile(`^while$`), WHILE},
	{"print", regexp.MustCompile(`^print$`), PRINT},
	{"if", regexp.MustCompile(`^if$`), IF},
	{"string-lit", regexp.MustCompile(`^"([^"\\]|\\.)*"$`), STRINGLIT},
	{"neg-int-lit", regexp.MustCompile(`^-[0-9]+$`), INTLIT},
	{"int-lit", regexp.MustCompile(`^[0-9]+$`), INTLIT},
	{"lparen", regexp.MustCompile(`^\($`), LPAREN},
	{"rparen", regexp.MustCompile(`^\)$`), RPAREN},
	{"lbrace", regexp.MustCompile(`^\{$`), LBRACE},
	{"rbrace", regexp.MustCompile(`^\}$`), RBRACE},
	{"semi", regexp.MustCompile(`^;$`), SEMI},
	{"assign", regexp.MustCompile(`^=$`), ASSIGN},
	{"eq", regexp.MustCompile(`^==$`), EQ},
	{"gt", regexp.MustCompile(`^>$`), GT},
	{"lt", regexp.MustCompile(`^<$`), LT},
	{"star", regexp.MustCompile(`^\*$`), STAR},
	{"plus", regexp.MustCompile(`^\+$`), PLUS},
	{"whitespace", regexp.MustCompile(`^[ \t\n\r]$`), ILLEGAL}, // see whitespaceIdx
	{"name", regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*$`), NAME},
}

// whitespaceIdx is the table index of the whitespace pattern; matchAny uses
// it to report a whitespace match distinctly from ILLEGAL.
const whitespaceIdx = 20

// matchAny returns the kind of the first pattern (in table order) that
// fully matches s, and whether s is the whitespace pattern.
func matchAny(s string) (kind Kind, isWhitespace, ok bool) {
	for i, p := range table {
		if p.re.MatchString(s) {
			return p.kind, i == whitespaceIdx, true
		}
	}
	return ILLEGAL, false, false
}

// Lexer tokenizes an entire source buffer in one pass.
type Lexer struct {
	input []byte
	log   *logrus.Entry
}

// New creates a Lexer over the given source text.
func New(src string) *Lexer {
	return &Lexer{
		input: []byte(src),
		log:   logrus.WithField("stage", "lexer"),
	}
}

// Lex tokenizes the whole input and returns the token sequence terminated by
// a single EOF token. No whitespace token is ever returned (§8 invariant).
func (l *Lexer) Lex() ([]Token, error) {
	var tokens []Token

	prev := ""
	line, col := 1, 1
	startLine, startCol := 1, 1

	flush := func(buf string) error {
		if buf == "" {
			return nil
		}
		kind, isWS, ok := matchAny(buf)
		if !ok {
			return cerr.Lex(fmt.Sprintf("unrecognized token %q", buf), startLine, startCol, nil)
		}
		if isWS {
			return nil
		}
		tok, err := makeToken(kind, buf, startLine, startCol)
		if err != nil {
			return err
		}
		tokens = append(tokens, tok)
		return nil
	}

	for _, b := range l.input {
		c := string(b)
		next := prev + c

		switch {
		case matches(next):
			prev = next
		case matches(prev):
			if err := flush(prev); err != nil {
				return nil, err
			}
			prev = c
			startLine, startCol = line, col
		default:
			// Neither the grown buffer nor prev alone matches any pattern
			// yet (§4.1 step 4): keep growing regardless. This is what lets
			// a string literal's opening quote, or a negative literal's
			// leading '-', survive past their first character — neither is
			// a complete match by itself, but both are valid prefixes. A
			// genuinely unrecognizable buffer is only caught once growth
			// stops, by flush (mid-stream restart above, or EOF below).
			prev = next
		}

		if b == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}

	if err := flush(prev); err != nil {
		return nil, err
	}

	tokens = append(tokens, Token{Kind: EOF, Line: line, Column: col})
	l.log.Debugf("produced %d tokens", len(tokens))
	return tokens, nil
}

// matches reports whether s fully matches any pattern in the table.
func matches(s string) bool {
	_, _, ok := matchAny(s)
	return ok
}

// makeToken builds the final Token for a matched buffer, doing the
// kind-specific literal decoding (§4.1 "Recognized patterns").
func makeToken(kind Kind, buf string, line, col int) (Token, error) {
	tok := Token{Kind: kind, Line: line, Column: col}
	switch kind {
	case NAME:
		tok.Literal = buf
	case STRINGLIT:
		tok.Literal = unescapeString(buf[1 : len(buf)-1])
	case INTLIT:
		n, err := strconv.ParseInt(buf, 10, 16)
		if err != nil {
			return Token{}, cerr.Lex(fmt.Sprintf("integer literal %q out of i16 range", buf), line, col, err)
		}
		tok.IntValue = int16(n)
		tok.Literal = buf
	default:
		tok.Literal = buf
	}
	return tok, nil
}

// unescapeString processes the standard backslash escapes allowed inside a
// StringLit (§3): \n, \t, \r, \\, \".
func unescapeString(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i == len(s)-1 {
			out = append(out, s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			out = append(out, '\n')
		case 't':
			out = append(out, '\t')
		case 'r':
			out = append(out, '\r')
		case '\\':
			out = append(out, '\\')
		case '"':
			out = append(out, '"')
		default:
			out = append(out, '\\', s[i])
		}
	}
	return string(out)
}

// Package cerr defines the fatal error kinds the tinyimp pipeline can raise
// (spec.md §7). Every stage signals failure through exactly one of these
// types; none are recovered locally. pkg/driver returns them unchanged, and
// the command (cmd/tinyimp) is the only place that turns one into a
// diagnostic and a process exit code.
//
// The shape follows smog's pkg/vm/errors.go (a RuntimeError carrying
// structured context and a formatted Error() string) generalized to the
// five kinds spec.md names: lex, syntax, code-gen, verifier, backend.
package cerr

import "fmt"

// Stage names the pipeline stage that raised an error.
type Stage string

const (
	StageLexer    Stage = "lexer"
	StageParser   Stage = "parser"
	StageCodegen  Stage = "codegen"
	StageVerifier Stage = "verifier"
	StageBackend  Stage = "backend"
)

// Error is a fatal compilation error tagged with the stage that raised it.
// All five error kinds in spec.md §7 (lex, syntax, code-gen, verifier,
// backend) are represented by this one type distinguished by Stage, rather
// than five parallel Go types, since the driver treats all of them
// identically: print the diagnostic, abort, exit non-zero.
type Error struct {
	Stage Stage
	Msg   string
	Line  int // 0 when not applicable (code-gen/verifier/backend errors)
	Col   int
	Cause error
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s error at line %d, column %d: %s", e.Stage, e.Line, e.Col, e.Msg)
	}
	return fmt.Sprintf("%s error: %s", e.Stage, e.Msg)
}

func (e *Error) Unwrap() error { return e.Cause }

// Lex reports a fatal lexical error (§7 kind 1).
func Lex(msg string, line, col int, cause error) *Error {
	return &Error{Stage: StageLexer, Msg: msg, Line: line, Col: col, Cause: cause}
}

// Syntax reports a fatal grammar mismatch (§7 kind 2).
func Syntax(msg string, line, col int) *Error {
	return &Error{Stage: StageParser, Msg: msg, Line: line, Col: col}
}

// Codegen reports use of an unsupported feature or a missing symbol
// (§7 kind 3).
func Codegen(msg string) *Error {
	return &Error{Stage: StageCodegen, Msg: msg}
}

// Verifier reports that emitted IR failed module verification (§7 kind 4).
func Verifier(msg string, cause error) *Error {
	return &Error{Stage: StageVerifier, Msg: msg, Cause: cause}
}

// Backend reports an object-emission or linker failure (§7 kind 5).
func Backend(msg string, cause error) *Error {
	return &Error{Stage: StageBackend, Msg: msg, Cause: cause}
}

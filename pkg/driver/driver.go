// Package driver orchestrates one compilation end to end (spec.md §6):
// read source, lex, parse, generate IR, verify, optimize, and either emit
// textual IR or hand off to an object writer and linker. It reads the
// source file, writes the output, and runs the object writer and linker
// (clang/cc). The lexer, parser and code generator are pure functions from
// source text to tokens to AST to IR; the verifier and optimizer it calls
// (pkg/codegen's ExternalOpt) shell out to `opt`.
//
// Orchestration is a thin dispatch over the already-staged pipeline
// packages, the same "main does the wiring, each stage is a standalone
// package" shape smog's cmd/smog/main.go uses (runFile loads bytes, then
// calls lexer.New, parser.New, compiler.New, vm.New in sequence).
package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/kristofer/tinyimp/pkg/cerr"
	"github.com/kristofer/tinyimp/pkg/codegen"
	"github.com/kristofer/tinyimp/pkg/lexer"
	"github.com/kristofer/tinyimp/pkg/parser"
)

// Options configures one compilation run.
type Options struct {
	// SourcePath is the tinyimp source file to compile.
	SourcePath string
	// OutPath is the output path: an executable, unless EmitIR is set,
	// in which case it is a path to write textual LLVM IR to.
	OutPath string
	// EmitIR stops the pipeline after code generation and writes the
	// module's textual IR to OutPath instead of linking an executable.
	EmitIR bool
	// RuntimePath is the compiled runtime object (or source, for a
	// linker that accepts it directly) providing print_int. Required
	// unless EmitIR is set.
	RuntimePath string

	Verifier codegen.Verifier
	Pipeline codegen.PassPipeline
	Writer   ObjectWriter
	Linker   Linker
	Log      *logrus.Entry
}

func (o *Options) applyDefaults() {
	if o.Verifier == nil {
		o.Verifier = codegen.ExternalOpt{}
	}
	if o.Pipeline == nil {
		o.Pipeline = codegen.ExternalOpt{}
	}
	if o.Writer == nil {
		o.Writer = ClangObjectWriter{}
	}
	if o.Linker == nil {
		o.Linker = CCLinker{}
	}
	if o.Log == nil {
		o.Log = logrus.NewEntry(logrus.StandardLogger())
	}
}

// Compile runs the full lex → parse → codegen → verify → optimize →
// emit/link pipeline described by opts. Any stage failure is returned as
// a *cerr.Error naming which of spec.md §7's five kinds it is; Compile
// itself never logs the full diagnostic, it only annotates progress — the
// caller (cmd/tinyimp) is responsible for presenting the final error.
func Compile(opts Options) error {
	opts.applyDefaults()
	log := opts.Log.WithField("source", opts.SourcePath)

	src, err := os.ReadFile(opts.SourcePath)
	if err != nil {
		return cerr.Backend("cannot read source file: "+err.Error(), err)
	}

	log.Debug("lexing")
	toks, err := lexer.New(string(src)).Lex()
	if err != nil {
		return err
	}

	log.Debug("parsing")
	prog, err := parser.Parse(toks)
	if err != nil {
		return err
	}

	log.Debug("generating IR")
	moduleName := filepath.Base(opts.SourcePath)
	mod, err := codegen.Generate(prog, moduleName)
	if err != nil {
		return err
	}

	log.Debug("verifying IR")
	if err := opts.Verifier.Verify(mod); err != nil {
		return err
	}

	log.Debug("running optimization pipeline")
	if err := opts.Pipeline.Run(mod); err != nil {
		return err
	}

	if opts.EmitIR {
		log.WithField("out", opts.OutPath).Debug("writing textual IR")
		return os.WriteFile(opts.OutPath, []byte(mod.String()), 0o644)
	}

	if opts.RuntimePath == "" {
		return cerr.Backend("RuntimePath is required when EmitIR is false", nil)
	}

	objPath := strings.TrimSuffix(opts.OutPath, filepath.Ext(opts.OutPath)) + ".o"
	log.WithField("obj", objPath).Debug("writing object file")
	if err := opts.Writer.WriteObject(mod, objPath); err != nil {
		return err
	}
	defer os.Remove(objPath)

	log.WithField("out", opts.OutPath).Debug("linking executable")
	if err := opts.Linker.Link([]string{objPath, opts.RuntimePath}, opts.OutPath); err != nil {
		return err
	}

	log.Info(fmt.Sprintf("compiled %s -> %s", opts.SourcePath, opts.OutPath))
	return nil
}

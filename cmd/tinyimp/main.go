// Command tinyimp compiles tinyimp source files (spec.md §1, §6).
//
// smog's entrypoint (_examples/kristofer-smog/cmd/smog/main.go) dispatches
// on a hand-rolled os.Args switch with a REPL default. tinyimp has no REPL
// — spec.md's driver is ahead-of-time only — so the CLI is rebuilt on
// cobra instead (_examples/other_examples/manifests/rami3l-golox/go.mod),
// giving `build`/`run` subcommands proper flag parsing and help text for
// free rather than hand-rolling printUsage the way smog does.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kristofer/tinyimp/pkg/codegen"
	"github.com/kristofer/tinyimp/pkg/driver"
)

var (
	outPath   string
	emitIR    bool
	optPasses string
	runtimeC  string
	verbose   bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "tinyimp",
		Short:         "tinyimp compiles the tiny imperative language to native executables",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.AddCommand(newBuildCmd(), newRunCmd())
	return root
}

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build <source>",
		Short: "compile a tinyimp source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(args[0])
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output path (defaults to <source name without extension>, plus .ll with --emit-ir, in the current directory)")
	cmd.Flags().BoolVar(&emitIR, "emit-ir", false, "stop after code generation and write textual LLVM IR")
	cmd.Flags().StringVar(&optPasses, "opt", codegen.DefaultPasses, "comma-separated optimization passes to run (empty disables optimization)")
	cmd.Flags().StringVar(&runtimeC, "runtime", "", "path to the compiled print_int runtime object (defaults to runtime/print_int.c built on the fly)")
	return cmd
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <source>",
		Short: "compile and immediately execute a tinyimp source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAndExecute(args[0])
		},
	}
	cmd.Flags().StringVar(&optPasses, "opt", codegen.DefaultPasses, "comma-separated optimization passes to run (empty disables optimization)")
	cmd.Flags().StringVar(&runtimeC, "runtime", "", "path to the compiled print_int runtime object")
	return cmd
}

func runBuild(source string) error {
	out := resolveOutPath(source)
	opts := buildOptions(source, out)
	if err := driver.Compile(opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	fmt.Println(out)
	return nil
}

func runAndExecute(source string) error {
	tmp, err := os.MkdirTemp("", "tinyimp-run-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmp)

	out := filepath.Join(tmp, "a.out")
	opts := buildOptions(source, out)
	if err := driver.Compile(opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}

	run := exec.Command(out)
	run.Stdout = os.Stdout
	run.Stderr = os.Stderr
	run.Stdin = os.Stdin
	return run.Run()
}

func buildOptions(source, out string) driver.Options {
	runtimeObj := runtimeC
	if runtimeObj == "" {
		runtimeObj = defaultRuntimePath()
	}
	return driver.Options{
		SourcePath:  source,
		OutPath:     out,
		EmitIR:      emitIR,
		RuntimePath: runtimeObj,
		Pipeline:    codegen.ExternalOpt{Passes: optPasses},
		Log:         logrus.WithField("cmd", "tinyimp"),
	}
}

func resolveOutPath(source string) string {
	if outPath != "" {
		return outPath
	}
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	if emitIR {
		return base + ".ll"
	}
	return base
}

func defaultRuntimePath() string {
	return filepath.Join("runtime", "print_int.c")
}

package driver

import (
	"bytes"
	"os/exec"

	"github.com/llir/llvm/ir"

	"github.com/kristofer/tinyimp/pkg/cerr"
)

// ObjectWriter turns a verified, optimized LLVM module into a native
// object file (spec.md §6 "emit an object file", §1's driver/backend
// treated as an external collaborator).
type ObjectWriter interface {
	WriteObject(m *ir.Module, outPath string) error
}

// ClangObjectWriter shells out to clang to assemble textual LLVM IR
// straight to an object file, the same "build an intermediate artifact,
// invoke an external toolchain binary via exec.Command" shape
// g-dx-helloworld's main.go uses for its own assembler step
// (_examples/other_examples/7c429740_g-dx-helloworld__main.go.go).
type ClangObjectWriter struct {
	// ClangPath defaults to "clang" on the PATH when empty.
	ClangPath string
}

func (c ClangObjectWriter) clangPath() string {
	if c.ClangPath != "" {
		return c.ClangPath
	}
	return "clang"
}

func (c ClangObjectWriter) WriteObject(m *ir.Module, outPath string) error {
	cmd := exec.Command(c.clangPath(), "-x", "ir", "-c", "-o", outPath, "-")
	cmd.Stdin = bytes.NewBufferString(m.String())
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return cerr.Backend("clang failed to assemble object file: "+stderr.String(), err)
	}
	return nil
}

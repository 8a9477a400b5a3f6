package driver

import (
	"bytes"
	"os/exec"

	"github.com/kristofer/tinyimp/pkg/cerr"
)

// Linker links one or more object files (the compiled program plus the
// runtime/print_int.c support object) into a native executable.
type Linker interface {
	Link(objPaths []string, outPath string) error
}

// CCLinker shells out to a C compiler driver to link, the same
// exec.Command invocation of an external linker g-dx-helloworld's
// main.go performs with `gcc`.
type CCLinker struct {
	// CCPath defaults to "cc" on the PATH when empty.
	CCPath string
}

func (c CCLinker) ccPath() string {
	if c.CCPath != "" {
		return c.CCPath
	}
	return "cc"
}

func (c CCLinker) Link(objPaths []string, outPath string) error {
	args := append(append([]string{}, objPaths...), "-o", outPath)
	cmd := exec.Command(c.ccPath(), args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return cerr.Backend("link failed: "+stderr.String(), err)
	}
	return nil
}

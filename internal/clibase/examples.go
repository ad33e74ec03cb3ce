// internal/clibase/examples.go
package clibase

import (
	"errors"
	"fmt"
	"io"
)

// ErrPrintedAndExitOK means --examples was handled; the caller exits 0.
var ErrPrintedAndExitOK = errors.New("examples requested")

// PrintExamples writes the --examples screen: body between a title line
// and a closing hint about the environment overrides.
func PrintExamples(out io.Writer, name string, body func(io.Writer)) {
	if out == nil {
		return
	}
	_, _ = fmt.Fprintf(out, "%s: quickstart\n\n", name)
	if body != nil {
		body(out)
	}
	_, _ = fmt.Fprintln(out, "\nQCRULES_POLICY and QCRULES_LOG_LEVEL (or a ./.env file) set --policy and --log-level.")
}

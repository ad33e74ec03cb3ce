// internal/appshell/shell.go
package appshell

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// Runner is the entry point every tool exposes as RunContext.
type Runner func(ctx context.Context, argv []string, stdout, stderr io.Writer) int

// ExitCanceled is returned when SIGINT or SIGTERM stopped the run.
const ExitCanceled = 130

// Main runs the tool with a signal-aware context and exits with its code.
func Main(run Runner) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := Exec(ctx, run, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// Exec runs the tool, showing help when argv is empty. A run that reports
// success after the context was canceled still exits with ExitCanceled.
func Exec(ctx context.Context, run Runner, argv []string, stdout, stderr io.Writer) int {
	if len(argv) == 0 {
		argv = []string{"--help"}
	}
	code := run(ctx, argv, stdout, stderr)
	if ctx.Err() != nil && code == 0 {
		code = ExitCanceled
	}
	return code
}

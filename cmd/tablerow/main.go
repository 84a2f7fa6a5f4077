// Package main provides the tablerow CLI, a command line front end for the
// demo user tables.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mesh-intelligence/tablerow/internal/demo"
	"github.com/mesh-intelligence/tablerow/pkg/types"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "v0.1.0"

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one command line and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(&app{stdout: stdout, stderr: stderr})
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return exitSuccess
	}
	fmt.Fprintln(stderr, "tablerow:", err)

	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	// Flag and argument errors from cobra.
	return exitUserError
}

// exitError pairs an error with the exit code it maps to.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

// userErrors are caused by the command line rather than the environment.
var userErrors = []error{
	demo.ErrUnknownTable,
	types.ErrNoSuchID,
	types.ErrInvalidKey,
	types.ErrInvalidData,
	types.ErrInvalidFilter,
	types.ErrInvalidConjunction,
	types.ErrKeyless,
	types.ErrMissingColumn,
	types.ErrUnknownColumn,
	types.ErrMissingSetter,
	types.ErrUnsupportedValue,
	errUsage,
}

// errUsage marks malformed arguments.
var errUsage = errors.New("usage")

// fail wraps err with op and the exit code its category maps to.
func fail(op string, err error) error {
	code := exitSysError
	for _, target := range userErrors {
		if errors.Is(err, target) {
			code = exitUserError
			break
		}
	}
	return &exitError{code: code, err: fmt.Errorf("%s: %w", op, err)}
}

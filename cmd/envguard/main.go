package main

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Exit codes
const (
	exitOK       = 0
	exitInvalid  = 1
	exitUsage    = 2
	exitSchema   = 3
	exitEnvFile  = 4
	exitNoExec   = 126
	exitNotFound = 127
)

func main() {
	os.Exit(run(os.Args[1:], os.Environ(), ".", os.Stdout, os.Stderr))
}

// exitError carries the process exit code for a failed command
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func exitWith(code int, err error) error {
	return &exitError{code: code, err: err}
}

// run executes the command line and returns the exit code.
// It is separated from main() so tests can drive it with their own
// environment, working directory and writers.
func run(args []string, environ []string, dir string, stdout, stderr io.Writer) int {
	root := newRootCmd(&app{
		environ: environ,
		dir:     dir,
		stdout:  stdout,
		stderr:  stderr,
	})
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err == nil {
		return exitOK
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		if exitErr.err != nil {
			fmt.Fprintln(stderr, "Error:", exitErr.err)
		}
		return exitErr.code
	}

	// flag and argument errors from cobra
	fmt.Fprintln(stderr, "Error:", err)
	return exitUsage
}

package main

import (
	"fmt"
	"io"
	"os"
)

// Verbosity controls how much of the CLI's output reaches the user.
type Verbosity int

const (
	QuietLevel Verbosity = iota
	InfoLevel
	DebugLevel
)

// CLI is the pgmt.IO implementation the core engine logs through, plus
// a couple of CLI-only conveniences (machine-readable Printf, Exitf).
type CLI struct {
	stdout io.Writer
	stderr io.Writer

	verbosity Verbosity
}

func (cli *CLI) SetVerbosity(v Verbosity) {
	cli.verbosity = v
}

func (cli CLI) write(w io.Writer, level Verbosity, format string, args ...interface{}) (int, error) {
	if cli.verbosity < level {
		return 0, nil
	}
	return fmt.Fprintf(w, format+"\n", args...)
}

// Exitf prints a message to stderr regardless of verbosity and exits
// the process with code.
func (cli CLI) Exitf(code int, format string, args ...interface{}) {
	_, _ = fmt.Fprintf(cli.stderr, format+"\n", args...)
	os.Exit(code)
}

// Infof implements pgmt.IO.
func (cli CLI) Infof(format string, args ...interface{}) (int, error) {
	return cli.write(cli.stderr, InfoLevel, format, args...)
}

// Debugf implements pgmt.IO.
func (cli CLI) Debugf(format string, args ...interface{}) (int, error) {
	return cli.write(cli.stderr, DebugLevel, format, args...)
}

// Printf always writes to stdout, for output meant to be captured or
// piped (a created file's path, a rendered table).
func (cli CLI) Printf(format string, args ...interface{}) (int, error) {
	return fmt.Fprintf(cli.stdout, format+"\n", args...)
}

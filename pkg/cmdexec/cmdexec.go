// Package cmdexec is the single chokepoint for spawning external system
// tools. Every partitioning, encryption, bootstrap and chroot command the
// installer issues goes through a Runner, which keeps dry-run, logging and
// test fakes in one place.
package cmdexec

import (
	"context"
	"strings"
)

// Cmd describes one external command invocation.
type Cmd struct {
	// Argv is the full argument vector, Argv[0] being the binary name.
	Argv []string

	// Stdin, when non-empty, is fed to the process on standard input.
	// Passphrases travel this way so they never appear in argv.
	Stdin string

	// Dir is the working directory; empty means inherit.
	Dir string

	// Sensitive marks invocations whose stdin must never reach a log.
	Sensitive bool
}

// Result carries the outcome of a completed command.
type Result struct {
	// Output is the combined stdout+stderr of the process.
	Output string

	// ExitCode is the process exit status, 0 on success.
	ExitCode int
}

// Runner executes external commands.
type Runner interface {
	Run(ctx context.Context, cmd Cmd) (Result, error)
}

// String renders the command for logs and dry-run listings.
func (c Cmd) String() string {
	return strings.Join(c.Argv, " ")
}

// outputTail returns at most n trailing lines of s, for error context.
func outputTail(s string, n int) string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}

package cmdexec

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"strings"

	"github.com/archup/archup/pkg/errors"
	"github.com/archup/archup/pkg/logging"
	"github.com/rs/zerolog"
)

const errorTailLines = 15

// OSRunner executes commands on the live system via os/exec.
type OSRunner struct {
	logger zerolog.Logger

	// Stream, when set, receives the live combined output of every
	// command (pacstrap progress, mkfs output) in addition to capture.
	Stream io.Writer
}

// NewOSRunner creates a runner that executes commands for real.
func NewOSRunner() *OSRunner {
	return &OSRunner{logger: logging.GetLogger("cmdexec")}
}

// Run executes the command and captures its combined output. A non-zero
// exit status is returned as an ErrCmdRun carrying the argv and the tail
// of the output, which is what the user needs to see on failure.
func (r *OSRunner) Run(ctx context.Context, cmd Cmd) (Result, error) {
	if len(cmd.Argv) == 0 {
		return Result{}, errors.New(errors.ErrInternal, "empty command")
	}

	r.logger.Debug().
		Strs("argv", cmd.Argv).
		Bool("stdin", cmd.Stdin != "").
		Msg("Executing command")

	execCmd := exec.CommandContext(ctx, cmd.Argv[0], cmd.Argv[1:]...)
	execCmd.Dir = cmd.Dir

	if cmd.Stdin != "" {
		execCmd.Stdin = strings.NewReader(cmd.Stdin)
	}

	var buf bytes.Buffer
	var out io.Writer = &buf
	if r.Stream != nil {
		out = io.MultiWriter(&buf, r.Stream)
	}
	execCmd.Stdout = out
	execCmd.Stderr = out

	err := execCmd.Run()
	result := Result{Output: buf.String()}

	if execCmd.ProcessState != nil {
		result.ExitCode = execCmd.ProcessState.ExitCode()
	}

	if err != nil {
		if _, ok := err.(*exec.ExitError); !ok {
			// Binary missing, context cancelled, and friends.
			return result, errors.Wrapf(err, errors.ErrCmdStart, "failed to start %s", cmd.Argv[0])
		}

		r.logger.Error().
			Strs("argv", cmd.Argv).
			Int("exitCode", result.ExitCode).
			Msg("Command failed")

		runErr := errors.Wrapf(err, errors.ErrCmdRun, "%s exited with status %d", cmd.String(), result.ExitCode)
		if tail := outputTail(result.Output, errorTailLines); tail != "" && !cmd.Sensitive {
			runErr = runErr.WithDetail("output", tail)
		}
		return result, runErr
	}

	return result, nil
}

// LookPath reports whether the named binary is available, for preflight.
func LookPath(name string) error {
	_, err := exec.LookPath(name)
	return err
}

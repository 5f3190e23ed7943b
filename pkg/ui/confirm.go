package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/archup/archup/pkg/errors"
)

// Confirm prints warning and requires the literal answer YES; anything
// else aborts. assumeYes skips the prompt for unattended runs.
func Confirm(in io.Reader, out io.Writer, warning string, assumeYes bool) error {
	if assumeYes {
		return nil
	}

	fmt.Fprintf(out, "\n%s\n", warning)
	fmt.Fprint(out, "Type YES to continue: ")

	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return errors.Wrap(err, errors.ErrAborted, "failed to read confirmation")
	}

	if strings.TrimSpace(line) != "YES" {
		return errors.New(errors.ErrAborted, "aborted: confirmation not given")
	}
	return nil
}

// ConfirmWipe is the gate in front of every destructive operation. It
// names the disk about to be destroyed.
func ConfirmWipe(in io.Reader, out io.Writer, disk string, assumeYes bool) error {
	return Confirm(in, out, fmt.Sprintf("ALL DATA ON %s WILL BE DESTROYED.", disk), assumeYes)
}

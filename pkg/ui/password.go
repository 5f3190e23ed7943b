package ui

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/archup/archup/pkg/errors"
)

// maxPassphraseAttempts bounds the confirm-twice loop.
const maxPassphraseAttempts = 3

// PasswordReader abstracts hidden terminal input so prompts are testable.
type PasswordReader interface {
	ReadPassword(prompt string) (string, error)
}

// TerminalPasswordReader reads from the controlling terminal with echo
// disabled.
type TerminalPasswordReader struct{}

// ReadPassword implements PasswordReader via x/term.
func (TerminalPasswordReader) ReadPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInvalidInput, "failed to read passphrase")
	}
	return string(raw), nil
}

// CollectPassphrase prompts for a new secret twice until both entries
// match, up to maxPassphraseAttempts. Used for the LUKS passphrase and
// the user account password.
func CollectPassphrase(r PasswordReader, what string) (string, error) {
	for attempt := 1; attempt <= maxPassphraseAttempts; attempt++ {
		first, err := r.ReadPassword(fmt.Sprintf("Enter %s: ", what))
		if err != nil {
			return "", err
		}
		if first == "" {
			fmt.Fprintf(os.Stderr, "%s must not be empty.\n", what)
			continue
		}

		second, err := r.ReadPassword(fmt.Sprintf("Confirm %s: ", what))
		if err != nil {
			return "", err
		}
		if first == second {
			return first, nil
		}
		fmt.Fprintln(os.Stderr, "Entries do not match, try again.")
	}
	return "", errors.Newf(errors.ErrInvalidInput, "no matching %s after %d attempts", what, maxPassphraseAttempts)
}

package system

import (
	"context"
	"fmt"

	"github.com/archup/archup/pkg/cmdexec"
	"github.com/archup/archup/pkg/errors"
)

// LuksFormat creates a LUKS2 header on the partition. The passphrase is
// fed on stdin; it must never appear in argv or logs.
func LuksFormat(ctx context.Context, r cmdexec.Runner, device, passphrase string, iterTimeMs int) error {
	argv := []string{
		"cryptsetup", "luksFormat",
		"--type", "luks2",
		"--iter-time", fmt.Sprintf("%d", iterTimeMs),
		"--batch-mode",
		"--key-file", "-",
		device,
	}
	_, err := r.Run(ctx, cmdexec.Cmd{Argv: argv, Stdin: passphrase, Sensitive: true})
	if err != nil {
		return errors.Wrapf(err, errors.ErrLuksFormat, "cryptsetup luksFormat failed on %s", device)
	}
	return nil
}

// LuksOpen unlocks the partition under /dev/mapper/<mapper>. A wrong
// passphrase surfaces as ErrLuksOpen; the caller owns the retry loop.
func LuksOpen(ctx context.Context, r cmdexec.Runner, device, mapper, passphrase string) error {
	argv := []string{"cryptsetup", "open", "--key-file", "-", device, mapper}
	_, err := r.Run(ctx, cmdexec.Cmd{Argv: argv, Stdin: passphrase, Sensitive: true})
	if err != nil {
		return errors.Wrapf(err, errors.ErrLuksOpen, "cryptsetup open failed on %s", device)
	}
	return nil
}

// LuksClose tears down the device-mapper mapping.
func LuksClose(ctx context.Context, r cmdexec.Runner, mapper string) error {
	if _, err := r.Run(ctx, cmdexec.Cmd{Argv: []string{"cryptsetup", "close", mapper}}); err != nil {
		return errors.Wrapf(err, errors.ErrLuksClose, "cryptsetup close failed for %s", mapper)
	}
	return nil
}

// LuksAddKeyfile enrolls the keyfile at keyfilePath (a path on the live
// system, typically inside the mounted target) into the LUKS header, so
// the initramfs can unlock without a second passphrase prompt.
func LuksAddKeyfile(ctx context.Context, r cmdexec.Runner, device, keyfilePath, passphrase string) error {
	argv := []string{"cryptsetup", "luksAddKey", "--key-file", "-", device, keyfilePath}
	_, err := r.Run(ctx, cmdexec.Cmd{Argv: argv, Stdin: passphrase, Sensitive: true})
	if err != nil {
		return errors.Wrapf(err, errors.ErrKeyfile, "failed to enroll keyfile on %s", device)
	}
	return nil
}

// LuksMappingActive reports whether /dev/mapper/<mapper> is currently
// open, by asking cryptsetup rather than statting the node.
func LuksMappingActive(ctx context.Context, r cmdexec.Runner, mapper string) bool {
	_, err := r.Run(ctx, cmdexec.Cmd{Argv: []string{"cryptsetup", "status", mapper}})
	return err == nil
}

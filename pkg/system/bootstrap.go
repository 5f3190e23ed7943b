package system

import (
	"context"

	"github.com/archup/archup/pkg/cmdexec"
	"github.com/archup/archup/pkg/errors"
)

// Pacstrap bootstraps the base system into the mounted target. -K seeds
// a fresh pacman keyring inside the target.
func Pacstrap(ctx context.Context, r cmdexec.Runner, target string, packages []string) error {
	argv := append([]string{"pacstrap", "-K", target}, packages...)
	if _, err := r.Run(ctx, cmdexec.Cmd{Argv: argv}); err != nil {
		return errors.Wrap(err, errors.ErrPacstrap, "pacstrap failed")
	}
	return nil
}

// Genfstab produces the fstab content for the mounted target, keyed by
// UUID. The caller appends it to <target>/etc/fstab.
func Genfstab(ctx context.Context, r cmdexec.Runner, target string) (string, error) {
	result, err := r.Run(ctx, cmdexec.Cmd{Argv: []string{"genfstab", "-U", target}})
	if err != nil {
		return "", errors.Wrap(err, errors.ErrFstab, "genfstab failed")
	}
	return result.Output, nil
}

// RefreshMirrors rewrites the live ISO mirrorlist with reflector before
// pacstrap, when a mirror country is configured.
func RefreshMirrors(ctx context.Context, r cmdexec.Runner, country string) error {
	argv := []string{
		"reflector",
		"--country", country,
		"--protocol", "https",
		"--latest", "10",
		"--sort", "rate",
		"--save", "/etc/pacman.d/mirrorlist",
	}
	if _, err := r.Run(ctx, cmdexec.Cmd{Argv: argv}); err != nil {
		return errors.Wrap(err, errors.ErrPacstrap, "reflector failed")
	}
	return nil
}

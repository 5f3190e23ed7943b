package system

import (
	"context"
	"strings"

	"github.com/archup/archup/pkg/cmdexec"
	"github.com/archup/archup/pkg/errors"
)

// Mount mounts device on dir with the given options.
func Mount(ctx context.Context, r cmdexec.Runner, device, dir string, options ...string) error {
	argv := []string{"mount"}
	if len(options) > 0 {
		argv = append(argv, "-o", strings.Join(options, ","))
	}
	argv = append(argv, device, dir)
	if _, err := r.Run(ctx, cmdexec.Cmd{Argv: argv}); err != nil {
		return errors.Wrapf(err, errors.ErrMount, "failed to mount %s on %s", device, dir)
	}
	return nil
}

// MountSubvolume mounts one Btrfs subvolume, combining the shared mount
// options with subvol=<name>.
func MountSubvolume(ctx context.Context, r cmdexec.Runner, device, dir, subvol string, baseOptions []string) error {
	options := make([]string, 0, len(baseOptions)+1)
	options = append(options, baseOptions...)
	options = append(options, "subvol="+subvol)
	return Mount(ctx, r, device, dir, options...)
}

// UnmountRecursive unmounts dir and everything below it.
func UnmountRecursive(ctx context.Context, r cmdexec.Runner, dir string) error {
	if _, err := r.Run(ctx, cmdexec.Cmd{Argv: []string{"umount", "-R", dir}}); err != nil {
		return errors.Wrapf(err, errors.ErrUnmount, "failed to unmount %s", dir)
	}
	return nil
}

// SwapoffAll disables all active swap, including a zram device left over
// from a previous attempt.
func SwapoffAll(ctx context.Context, r cmdexec.Runner) error {
	if _, err := r.Run(ctx, cmdexec.Cmd{Argv: []string{"swapoff", "-a"}}); err != nil {
		return errors.Wrap(err, errors.ErrTeardown, "swapoff -a failed")
	}
	return nil
}

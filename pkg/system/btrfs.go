package system

import (
	"context"
	"path/filepath"

	"github.com/archup/archup/pkg/cmdexec"
	"github.com/archup/archup/pkg/errors"
)

// MkfsVfat formats the ESP as FAT32.
func MkfsVfat(ctx context.Context, r cmdexec.Runner, device string) error {
	if _, err := r.Run(ctx, cmdexec.Cmd{Argv: []string{"mkfs.fat", "-F32", "-n", "EFI", device}}); err != nil {
		return errors.Wrapf(err, errors.ErrMkfs, "mkfs.fat failed on %s", device)
	}
	return nil
}

// MkfsBtrfs formats the opened LUKS mapping as Btrfs.
func MkfsBtrfs(ctx context.Context, r cmdexec.Runner, device, label string) error {
	if _, err := r.Run(ctx, cmdexec.Cmd{Argv: []string{"mkfs.btrfs", "-f", "-L", label, device}}); err != nil {
		return errors.Wrapf(err, errors.ErrMkfs, "mkfs.btrfs failed on %s", device)
	}
	return nil
}

// CreateSubvolume creates one Btrfs subvolume under the mounted
// filesystem root.
func CreateSubvolume(ctx context.Context, r cmdexec.Runner, fsRoot, name string) error {
	path := filepath.Join(fsRoot, name)
	if _, err := r.Run(ctx, cmdexec.Cmd{Argv: []string{"btrfs", "subvolume", "create", path}}); err != nil {
		return errors.Wrapf(err, errors.ErrSubvolume, "failed to create subvolume %s", name)
	}
	return nil
}

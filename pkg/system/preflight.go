package system

import (
	"context"
	"os"

	"github.com/archup/archup/pkg/cmdexec"
	"github.com/archup/archup/pkg/errors"
)

// efivarsPath is the presence marker for a UEFI boot of the live ISO.
const efivarsPath = "/sys/firmware/efi/efivars"

// requiredTools is everything the install plan may invoke on the live
// system. Checked up front so a missing binary fails before any
// destructive step.
var requiredTools = []string{
	"sgdisk",
	"wipefs",
	"partprobe",
	"udevadm",
	"blkid",
	"cryptsetup",
	"mkfs.fat",
	"mkfs.btrfs",
	"btrfs",
	"mount",
	"umount",
	"swapoff",
	"pacstrap",
	"genfstab",
	"arch-chroot",
}

// CheckRoot verifies the installer runs with euid 0.
func CheckRoot() error {
	if os.Geteuid() != 0 {
		return errors.New(errors.ErrNotRoot, "the installer must run as root")
	}
	return nil
}

// CheckUEFI verifies the live system booted in UEFI mode. Both supported
// bootloaders install UEFI-only.
func CheckUEFI() error {
	if _, err := os.Stat(efivarsPath); err != nil {
		return errors.New(errors.ErrNotUEFI, "system is not booted in UEFI mode (no efivars)")
	}
	return nil
}

// CheckTools verifies all required binaries are on PATH.
func CheckTools() error {
	for _, tool := range requiredTools {
		if err := cmdexec.LookPath(tool); err != nil {
			return errors.Newf(errors.ErrToolMissing, "required tool %s not found in PATH", tool)
		}
	}
	return nil
}

// CheckDevice verifies the target block device exists.
func CheckDevice(device string) error {
	info, err := os.Stat(device)
	if err != nil {
		return errors.Newf(errors.ErrDeviceNotFound, "block device %s not found", device)
	}
	if info.Mode()&os.ModeDevice == 0 {
		return errors.Newf(errors.ErrDeviceNotFound, "%s is not a device node", device)
	}
	return nil
}

// CheckNetwork verifies the Arch mirrors are reachable, since pacstrap
// downloads everything. A single ping keeps it cheap.
func CheckNetwork(ctx context.Context, r cmdexec.Runner) error {
	argv := []string{"ping", "-c", "1", "-W", "3", "archlinux.org"}
	if _, err := r.Run(ctx, cmdexec.Cmd{Argv: argv}); err != nil {
		return errors.Wrap(err, errors.ErrNoNetwork, "archlinux.org is unreachable")
	}
	return nil
}

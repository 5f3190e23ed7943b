// Package system wraps the external Linux tools the installer drives:
// sgdisk, cryptsetup, mkfs, mount, pacstrap, arch-chroot and friends.
// Every function goes through a cmdexec.Runner so the whole package is
// dry-runnable and testable without a block device.
package system

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/archup/archup/pkg/cmdexec"
	"github.com/archup/archup/pkg/errors"
)

// GPT type codes used for the two-partition layout.
const (
	typeEFI       = "ef00"
	typeLinuxLUKS = "8309"
)

// PartitionPath returns the device node of partition n on disk. Devices
// whose name ends in a digit (nvme0n1, mmcblk0) get a "p" separator.
func PartitionPath(disk string, n int) string {
	if disk == "" {
		return ""
	}
	last := rune(disk[len(disk)-1])
	if unicode.IsDigit(last) {
		return fmt.Sprintf("%sp%d", disk, n)
	}
	return fmt.Sprintf("%s%d", disk, n)
}

// ZapDisk destroys all partition tables and filesystem signatures on the
// disk. This is the point of no return.
func ZapDisk(ctx context.Context, r cmdexec.Runner, disk string) error {
	if _, err := r.Run(ctx, cmdexec.Cmd{Argv: []string{"sgdisk", "--zap-all", disk}}); err != nil {
		return errors.Wrapf(err, errors.ErrPartition, "failed to zap %s", disk)
	}
	if _, err := r.Run(ctx, cmdexec.Cmd{Argv: []string{"wipefs", "--all", disk}}); err != nil {
		return errors.Wrapf(err, errors.ErrPartition, "failed to wipe signatures on %s", disk)
	}
	return nil
}

// CreatePartitions writes the GPT layout: an ESP of espSizeMiB followed by
// a LUKS partition spanning the rest of the disk.
func CreatePartitions(ctx context.Context, r cmdexec.Runner, disk string, espSizeMiB int) error {
	argv := []string{
		"sgdisk",
		"--new", fmt.Sprintf("1:0:+%dM", espSizeMiB),
		"--typecode", "1:" + typeEFI,
		"--change-name", "1:EFI",
		"--new", "2:0:0",
		"--typecode", "2:" + typeLinuxLUKS,
		"--change-name", "2:cryptroot",
		disk,
	}
	if _, err := r.Run(ctx, cmdexec.Cmd{Argv: argv}); err != nil {
		return errors.Wrapf(err, errors.ErrPartition, "failed to partition %s", disk)
	}
	return nil
}

// SettlePartitions re-reads the partition table and waits for udev to
// create the new device nodes.
func SettlePartitions(ctx context.Context, r cmdexec.Runner, disk string) error {
	if _, err := r.Run(ctx, cmdexec.Cmd{Argv: []string{"partprobe", disk}}); err != nil {
		return errors.Wrapf(err, errors.ErrPartition, "partprobe failed on %s", disk)
	}
	if _, err := r.Run(ctx, cmdexec.Cmd{Argv: []string{"udevadm", "settle"}}); err != nil {
		return errors.Wrap(err, errors.ErrPartition, "udevadm settle failed")
	}
	return nil
}

// BlkidUUID returns the filesystem or LUKS UUID of the device.
func BlkidUUID(ctx context.Context, r cmdexec.Runner, device string) (string, error) {
	result, err := r.Run(ctx, cmdexec.Cmd{Argv: []string{"blkid", "-s", "UUID", "-o", "value", device}})
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrDeviceNotFound, "failed to read UUID of %s", device)
	}
	uuid := strings.TrimSpace(result.Output)
	if uuid == "" {
		return "", errors.Newf(errors.ErrDeviceNotFound, "no UUID on %s", device)
	}
	return uuid, nil
}

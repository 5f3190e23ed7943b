package system

import (
	"context"

	"github.com/archup/archup/pkg/cmdexec"
	"github.com/archup/archup/pkg/errors"
)

// BootctlInstall installs systemd-boot into the ESP. Runs in the chroot
// so bootctl sees the target's /boot.
func BootctlInstall(ctx context.Context, chroot cmdexec.Runner) error {
	if _, err := chroot.Run(ctx, cmdexec.Cmd{Argv: []string{"bootctl", "install"}}); err != nil {
		return errors.Wrap(err, errors.ErrBootloader, "bootctl install failed")
	}
	return nil
}

// GrubInstall installs GRUB for UEFI into the ESP.
func GrubInstall(ctx context.Context, chroot cmdexec.Runner) error {
	argv := []string{
		"grub-install",
		"--target=x86_64-efi",
		"--efi-directory=/boot",
		"--bootloader-id=GRUB",
	}
	if _, err := chroot.Run(ctx, cmdexec.Cmd{Argv: argv}); err != nil {
		return errors.Wrap(err, errors.ErrBootloader, "grub-install failed")
	}
	return nil
}

// GrubMkconfig regenerates grub.cfg after /etc/default/grub was written.
func GrubMkconfig(ctx context.Context, chroot cmdexec.Runner) error {
	argv := []string{"grub-mkconfig", "-o", "/boot/grub/grub.cfg"}
	if _, err := chroot.Run(ctx, cmdexec.Cmd{Argv: argv}); err != nil {
		return errors.Wrap(err, errors.ErrBootloader, "grub-mkconfig failed")
	}
	return nil
}

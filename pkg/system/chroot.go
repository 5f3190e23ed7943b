package system

import (
	"context"
	"fmt"

	"github.com/archup/archup/pkg/cmdexec"
	"github.com/archup/archup/pkg/errors"
)

// The functions below expect a Runner that already executes inside the
// target, i.e. a cmdexec.ChrootRunner.

// SetTimezone links /etc/localtime and syncs the hardware clock.
func SetTimezone(ctx context.Context, chroot cmdexec.Runner, timezone string) error {
	zone := "/usr/share/zoneinfo/" + timezone
	if _, err := chroot.Run(ctx, cmdexec.Cmd{Argv: []string{"ln", "-sf", zone, "/etc/localtime"}}); err != nil {
		return errors.Wrapf(err, errors.ErrChroot, "failed to set timezone %s", timezone)
	}
	if _, err := chroot.Run(ctx, cmdexec.Cmd{Argv: []string{"hwclock", "--systohc"}}); err != nil {
		return errors.Wrap(err, errors.ErrChroot, "hwclock --systohc failed")
	}
	return nil
}

// GenerateLocales runs locale-gen after /etc/locale.gen has been written.
func GenerateLocales(ctx context.Context, chroot cmdexec.Runner) error {
	if _, err := chroot.Run(ctx, cmdexec.Cmd{Argv: []string{"locale-gen"}}); err != nil {
		return errors.Wrap(err, errors.ErrChroot, "locale-gen failed")
	}
	return nil
}

// CreateUser adds the wheel-group login user.
func CreateUser(ctx context.Context, chroot cmdexec.Runner, username string) error {
	argv := []string{"useradd", "-m", "-G", "wheel", "-s", "/bin/bash", username}
	if _, err := chroot.Run(ctx, cmdexec.Cmd{Argv: argv}); err != nil {
		return errors.Wrapf(err, errors.ErrChroot, "failed to create user %s", username)
	}
	return nil
}

// SetPassword sets an account password via chpasswd on stdin.
func SetPassword(ctx context.Context, chroot cmdexec.Runner, username, password string) error {
	cmd := cmdexec.Cmd{
		Argv:      []string{"chpasswd"},
		Stdin:     fmt.Sprintf("%s:%s\n", username, password),
		Sensitive: true,
	}
	if _, err := chroot.Run(ctx, cmd); err != nil {
		return errors.Wrapf(err, errors.ErrChroot, "failed to set password for %s", username)
	}
	return nil
}

// EnableServices enables systemd units in the target. systemctl enable
// works offline in a chroot by creating the wants symlinks.
func EnableServices(ctx context.Context, chroot cmdexec.Runner, units []string) error {
	if len(units) == 0 {
		return nil
	}
	argv := append([]string{"systemctl", "enable"}, units...)
	if _, err := chroot.Run(ctx, cmdexec.Cmd{Argv: argv}); err != nil {
		return errors.Wrap(err, errors.ErrChroot, "systemctl enable failed")
	}
	return nil
}

// Mkinitcpio regenerates all initramfs presets after mkinitcpio.conf has
// been rewritten.
func Mkinitcpio(ctx context.Context, chroot cmdexec.Runner) error {
	if _, err := chroot.Run(ctx, cmdexec.Cmd{Argv: []string{"mkinitcpio", "-P"}}); err != nil {
		return errors.Wrap(err, errors.ErrInitramfs, "mkinitcpio -P failed")
	}
	return nil
}

// SnapperCreateConfig registers the root filesystem with snapper.
// --no-dbus is required inside the chroot.
func SnapperCreateConfig(ctx context.Context, chroot cmdexec.Runner) error {
	argv := []string{"snapper", "--no-dbus", "-c", "root", "create-config", "/"}
	if _, err := chroot.Run(ctx, cmdexec.Cmd{Argv: argv}); err != nil {
		return errors.Wrap(err, errors.ErrChroot, "snapper create-config failed")
	}
	return nil
}

package steps

import (
	"context"
	"crypto/rand"

	"github.com/archup/archup/pkg/errors"
	"github.com/archup/archup/pkg/render"
	"github.com/archup/archup/pkg/system"
)

// Stock file content used as dry-run stand-ins for files pacstrap would
// have installed.
const stockMkinitcpioConf = `MODULES=()
BINARIES=()
FILES=()
HOOKS=(base udev autodetect microcode modconf kms keyboard keymap consolefont block filesystems fsck)
`

const stockGrubDefault = `GRUB_DEFAULT=0
GRUB_TIMEOUT=5
GRUB_CMDLINE_LINUX_DEFAULT="loglevel=3 quiet"
GRUB_CMDLINE_LINUX=""
#GRUB_ENABLE_CRYPTODISK=y
`

// stepSystemConfig applies timezone, locales, keymap and hostname: the
// file writes happen through the FS on the mounted target, the commands
// through the chroot runner.
func stepSystemConfig(ctx context.Context, env *Env) error {
	profile := env.Profile

	if err := system.SetTimezone(ctx, env.Chroot, profile.System.Timezone); err != nil {
		return err
	}

	localeGen, err := env.readTargetFile("/etc/locale.gen", "")
	if err != nil {
		return errors.Wrap(err, errors.ErrFileRead, "failed to read locale.gen")
	}
	writes := []struct {
		rel     string
		content string
	}{
		{"/etc/locale.gen", render.LocaleGen(localeGen, profile.System.Locales)},
		{"/etc/locale.conf", render.LocaleConf(profile)},
		{"/etc/vconsole.conf", render.VconsoleConf(profile)},
		{"/etc/hostname", render.Hostname(profile)},
		{"/etc/hosts", render.Hosts(profile)},
	}
	for _, w := range writes {
		if err := env.FS.WriteFile(env.targetPath(w.rel), []byte(w.content), 0644); err != nil {
			return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", w.rel)
		}
	}

	return system.GenerateLocales(ctx, env.Chroot)
}

// stepUsers creates the wheel user, sets both passwords and drops in the
// sudoers rule.
func stepUsers(ctx context.Context, env *Env) error {
	username := env.Profile.System.Username

	if err := system.CreateUser(ctx, env.Chroot, username); err != nil {
		return err
	}
	if err := system.SetPassword(ctx, env.Chroot, "root", env.Secrets.UserPassword); err != nil {
		return err
	}
	if err := system.SetPassword(ctx, env.Chroot, username, env.Secrets.UserPassword); err != nil {
		return err
	}

	sudoers := env.targetPath("/etc/sudoers.d/10-wheel")
	if err := env.FS.WriteFile(sudoers, []byte(render.SudoersWheel()), 0440); err != nil {
		return errors.Wrap(err, errors.ErrFileWrite, "failed to write sudoers drop-in")
	}
	return nil
}

// stepInitramfs rewrites mkinitcpio.conf for sd-encrypt, enrolls the
// keyfile variant when configured, and regenerates all presets.
func stepInitramfs(ctx context.Context, env *Env) error {
	profile := env.Profile

	if profile.LUKS.Keyfile {
		if err := writeKeyfile(ctx, env); err != nil {
			return err
		}
	}

	content, err := env.readTargetFile("/etc/mkinitcpio.conf", stockMkinitcpioConf)
	if err != nil {
		return errors.Wrap(err, errors.ErrFileRead, "failed to read mkinitcpio.conf")
	}
	rewritten, err := render.Mkinitcpio(content, profile)
	if err != nil {
		return err
	}
	if err := env.FS.WriteFile(env.targetPath("/etc/mkinitcpio.conf"), []byte(rewritten), 0644); err != nil {
		return errors.Wrap(err, errors.ErrFileWrite, "failed to write mkinitcpio.conf")
	}

	return system.Mkinitcpio(ctx, env.Chroot)
}

// writeKeyfile generates a random keyfile inside the target, enrolls it
// in the LUKS header and records it in crypttab. The initramfs then
// unlocks without a second passphrase prompt.
func writeKeyfile(ctx context.Context, env *Env) error {
	profile := env.Profile
	keyPath := env.targetPath(profile.LUKS.KeyfilePath)

	key := make([]byte, 64)
	if _, err := rand.Read(key); err != nil {
		return errors.Wrap(err, errors.ErrKeyfile, "failed to generate keyfile")
	}

	if err := env.FS.MkdirAll(env.targetPath("/etc/cryptsetup-keys.d"), 0700); err != nil {
		return errors.Wrap(err, errors.ErrKeyfile, "failed to create keyfile directory")
	}
	if err := env.FS.WriteFile(keyPath, key, 0600); err != nil {
		return errors.Wrap(err, errors.ErrKeyfile, "failed to write keyfile")
	}

	if err := system.LuksAddKeyfile(ctx, env.Runner, env.Facts.LuksPath, keyPath, env.Secrets.LuksPassphrase); err != nil {
		return err
	}

	crypttab := render.Crypttab(profile, env.Facts.LuksUUID)
	if err := env.FS.WriteFile(env.targetPath("/etc/crypttab"), []byte(crypttab), 0600); err != nil {
		return errors.Wrap(err, errors.ErrFileWrite, "failed to write crypttab")
	}
	return nil
}

// stepSystemdBoot installs systemd-boot and writes loader.conf plus the
// default and fallback entries.
func stepSystemdBoot(ctx context.Context, env *Env) error {
	if err := system.BootctlInstall(ctx, env.Chroot); err != nil {
		return err
	}

	cmdline := render.KernelCmdline(env.Profile, env.Facts.LuksUUID)

	if err := env.FS.MkdirAll(env.targetPath("/boot/loader/entries"), 0755); err != nil {
		return errors.Wrap(err, errors.ErrBootloader, "failed to create loader entries directory")
	}
	if err := env.FS.WriteFile(env.targetPath("/boot/loader/loader.conf"), []byte(render.LoaderConf()), 0644); err != nil {
		return errors.Wrap(err, errors.ErrFileWrite, "failed to write loader.conf")
	}

	entry, err := render.LoaderEntry(env.Profile, cmdline, false)
	if err != nil {
		return err
	}
	if err := env.FS.WriteFile(env.targetPath("/boot/loader/entries/arch.conf"), []byte(entry), 0644); err != nil {
		return errors.Wrap(err, errors.ErrFileWrite, "failed to write arch.conf")
	}

	fallback, err := render.LoaderEntry(env.Profile, cmdline, true)
	if err != nil {
		return err
	}
	if err := env.FS.WriteFile(env.targetPath("/boot/loader/entries/arch-fallback.conf"), []byte(fallback), 0644); err != nil {
		return errors.Wrap(err, errors.ErrFileWrite, "failed to write arch-fallback.conf")
	}
	return nil
}

// stepGrub rewrites /etc/default/grub, installs GRUB into the ESP and
// regenerates grub.cfg.
func stepGrub(ctx context.Context, env *Env) error {
	content, err := env.readTargetFile("/etc/default/grub", stockGrubDefault)
	if err != nil {
		return errors.Wrap(err, errors.ErrFileRead, "failed to read /etc/default/grub")
	}

	cmdline := render.KernelCmdline(env.Profile, env.Facts.LuksUUID)
	rewritten := render.GrubDefault(content, cmdline)
	if err := env.FS.WriteFile(env.targetPath("/etc/default/grub"), []byte(rewritten), 0644); err != nil {
		return errors.Wrap(err, errors.ErrFileWrite, "failed to write /etc/default/grub")
	}

	if err := system.GrubInstall(ctx, env.Chroot); err != nil {
		return err
	}
	return system.GrubMkconfig(ctx, env.Chroot)
}

// stepZram writes the zram-generator swap configuration.
func stepZram(_ context.Context, env *Env) error {
	content, err := render.ZramGenerator(env.Profile)
	if err != nil {
		return err
	}
	if err := env.FS.WriteFile(env.targetPath("/etc/systemd/zram-generator.conf"), []byte(content), 0644); err != nil {
		return errors.Wrap(err, errors.ErrFileWrite, "failed to write zram-generator.conf")
	}
	return nil
}

// stepSnapper registers the root config and applies the timeline limits.
func stepSnapper(ctx context.Context, env *Env) error {
	if err := system.SnapperCreateConfig(ctx, env.Chroot); err != nil {
		return err
	}

	content, err := render.SnapperConfig(env.Profile)
	if err != nil {
		return err
	}
	if err := env.FS.MkdirAll(env.targetPath("/etc/snapper/configs"), 0755); err != nil {
		return errors.Wrap(err, errors.ErrFileWrite, "failed to create snapper config directory")
	}
	if err := env.FS.WriteFile(env.targetPath("/etc/snapper/configs/root"), []byte(content), 0644); err != nil {
		return errors.Wrap(err, errors.ErrFileWrite, "failed to write snapper config")
	}

	return system.EnableServices(ctx, env.Chroot, []string{"snapper-timeline.timer", "snapper-cleanup.timer"})
}

// stepServices enables the configured systemd units.
func stepServices(ctx context.Context, env *Env) error {
	return system.EnableServices(ctx, env.Chroot, env.Profile.Services.Enable)
}

// stepFinalize copies the install log into the target and, unless the
// user asked to keep the mounts for a manual chroot, unmounts everything
// and closes the mapping.
func stepFinalize(ctx context.Context, env *Env) error {
	if env.LogPath != "" {
		if raw, err := env.FS.ReadFile(env.LogPath); err == nil {
			_ = env.FS.MkdirAll(env.targetPath("/var/log"), 0755)
			_ = env.FS.WriteFile(env.targetPath("/var/log/archup-install.log"), raw, 0600)
		}
	}

	if env.KeepMounts || env.DryRun {
		return nil
	}

	if err := system.UnmountRecursive(ctx, env.Runner, env.Target); err != nil {
		return err
	}
	return system.LuksClose(ctx, env.Runner, env.Profile.LUKS.Mapper)
}

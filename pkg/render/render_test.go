package render_test

import (
	"strings"
	"testing"

	"github.com/archup/archup/pkg/config"
	"github.com/archup/archup/pkg/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUUID = "1b2c3d4e-aaaa-bbbb-cccc-123456789abc"

func testProfile(t *testing.T) *config.Profile {
	t.Helper()
	profile, err := config.Load("")
	require.NoError(t, err)
	profile.Disk.Device = "/dev/vda"
	profile.System.Username = "alice"
	require.NoError(t, profile.Validate())
	return profile
}

func TestKernelCmdline_Basic(t *testing.T) {
	profile := testProfile(t)
	cmdline := render.KernelCmdline(profile, testUUID)

	assert.Equal(t,
		"rd.luks.name="+testUUID+"=cryptroot root=/dev/mapper/cryptroot rootflags=subvol=@ rw",
		cmdline)
}

func TestKernelCmdline_NvidiaAndExtra(t *testing.T) {
	profile := testProfile(t)
	profile.Packages.Nvidia = true
	profile.Boot.ExtraCmdline = "quiet loglevel=3"

	cmdline := render.KernelCmdline(profile, testUUID)
	assert.True(t, strings.HasSuffix(cmdline, "rw nvidia_drm.modeset=1 quiet loglevel=3"), cmdline)
}

const stockMkinitcpio = `# vim:set ft=sh
# MODULES
MODULES=()

# BINARIES
BINARIES=()

# FILES
FILES=()

# HOOKS
HOOKS=(base udev autodetect microcode modconf kms keyboard keymap consolefont block filesystems fsck)
`

func TestMkinitcpio_RewritesHooks(t *testing.T) {
	profile := testProfile(t)

	out, err := render.Mkinitcpio(stockMkinitcpio, profile)
	require.NoError(t, err)

	assert.Contains(t, out,
		"HOOKS=(base systemd autodetect microcode modconf kms keyboard sd-vconsole block sd-encrypt filesystems fsck)")
	// Untouched lines survive.
	assert.Contains(t, out, "# vim:set ft=sh")
	assert.Contains(t, out, "BINARIES=()")
	// Without the toggles, MODULES and FILES stay stock.
	assert.Contains(t, out, "MODULES=()")
	assert.Contains(t, out, "FILES=()")
	// sd-encrypt must come after block.
	assert.Less(t, strings.Index(out, " block "), strings.Index(out, " sd-encrypt "))
}

func TestMkinitcpio_NvidiaModules(t *testing.T) {
	profile := testProfile(t)
	profile.Packages.Nvidia = true

	out, err := render.Mkinitcpio(stockMkinitcpio, profile)
	require.NoError(t, err)
	assert.Contains(t, out, "MODULES=(nvidia nvidia_modeset nvidia_uvm nvidia_drm)")
}

func TestMkinitcpio_KeyfileInFiles(t *testing.T) {
	profile := testProfile(t)
	profile.LUKS.Keyfile = true

	out, err := render.Mkinitcpio(stockMkinitcpio, profile)
	require.NoError(t, err)
	assert.Contains(t, out, "FILES=(/etc/cryptsetup-keys.d/cryptroot.key)")
}

func TestMkinitcpio_PreservesExistingModules(t *testing.T) {
	profile := testProfile(t)
	profile.Packages.Nvidia = true

	content := strings.Replace(stockMkinitcpio, "MODULES=()", "MODULES=(btrfs nvidia)", 1)
	out, err := render.Mkinitcpio(content, profile)
	require.NoError(t, err)
	assert.Contains(t, out, "MODULES=(btrfs nvidia nvidia_modeset nvidia_uvm nvidia_drm)")
}

func TestMkinitcpio_MissingHooksLine(t *testing.T) {
	profile := testProfile(t)
	_, err := render.Mkinitcpio("MODULES=()\n", profile)
	require.Error(t, err)
}

func TestLoaderEntry(t *testing.T) {
	profile := testProfile(t)
	cmdline := render.KernelCmdline(profile, testUUID)

	entry, err := render.LoaderEntry(profile, cmdline, false)
	require.NoError(t, err)

	assert.Contains(t, entry, "title Arch Linux\n")
	assert.Contains(t, entry, "linux /vmlinuz-linux\n")
	assert.Contains(t, entry, "initrd /initramfs-linux.img\n")
	assert.Contains(t, entry, "options rd.luks.name="+testUUID+"=cryptroot")
}

func TestLoaderEntry_Fallback(t *testing.T) {
	profile := testProfile(t)

	entry, err := render.LoaderEntry(profile, "root=/dev/mapper/cryptroot", true)
	require.NoError(t, err)
	assert.Contains(t, entry, "title Arch Linux (fallback initramfs)")
	assert.Contains(t, entry, "initrd /initramfs-linux-fallback.img")
}

func TestLoaderConf(t *testing.T) {
	conf := render.LoaderConf()
	assert.Contains(t, conf, "default arch.conf")
	assert.Contains(t, conf, "editor no")
}

const stockGrubDefault = `GRUB_DEFAULT=0
GRUB_TIMEOUT=5
GRUB_CMDLINE_LINUX_DEFAULT="loglevel=3 quiet"
GRUB_CMDLINE_LINUX=""
#GRUB_ENABLE_CRYPTODISK=y
`

func TestGrubDefault(t *testing.T) {
	out := render.GrubDefault(stockGrubDefault, "root=/dev/mapper/cryptroot rw")

	assert.Contains(t, out, `GRUB_CMDLINE_LINUX="root=/dev/mapper/cryptroot rw"`)
	assert.Contains(t, out, "GRUB_ENABLE_CRYPTODISK=y")
	assert.NotContains(t, out, "#GRUB_ENABLE_CRYPTODISK")
	// The _DEFAULT line must not be clobbered by the _LINUX rewrite.
	assert.Contains(t, out, `GRUB_CMDLINE_LINUX_DEFAULT="loglevel=3 quiet"`)
}

func TestGrubDefault_AppendsCryptodiskWhenAbsent(t *testing.T) {
	out := render.GrubDefault("GRUB_DEFAULT=0\nGRUB_CMDLINE_LINUX=\"\"", "rw")
	assert.Contains(t, out, "GRUB_ENABLE_CRYPTODISK=y")
}

func TestCrypttab(t *testing.T) {
	profile := testProfile(t)
	line := render.Crypttab(profile, testUUID)
	assert.Equal(t,
		"cryptroot UUID="+testUUID+" /etc/cryptsetup-keys.d/cryptroot.key luks,discard\n",
		line)
}

func TestLocaleGen(t *testing.T) {
	content := `# Comment header
#de_DE.UTF-8 UTF-8
#en_US.UTF-8 UTF-8
#en_US ISO-8859-1
`
	out := render.LocaleGen(content, []string{"en_US.UTF-8 UTF-8", "ja_JP.UTF-8 UTF-8"})

	assert.Contains(t, out, "\nen_US.UTF-8 UTF-8\n")
	assert.Contains(t, out, "#de_DE.UTF-8 UTF-8")
	assert.Contains(t, out, "#en_US ISO-8859-1")
	// Unknown locale gets appended.
	assert.Contains(t, out, "ja_JP.UTF-8 UTF-8")
}

func TestHostsAndHostname(t *testing.T) {
	profile := testProfile(t)
	profile.System.Hostname = "arche"

	assert.Equal(t, "arche\n", render.Hostname(profile))
	hosts := render.Hosts(profile)
	assert.Contains(t, hosts, "127.0.0.1\tlocalhost")
	assert.Contains(t, hosts, "arche.localdomain")
}

func TestLocaleAndVconsole(t *testing.T) {
	profile := testProfile(t)
	assert.Equal(t, "LANG=en_US.UTF-8\n", render.LocaleConf(profile))
	assert.Equal(t, "KEYMAP=us\n", render.VconsoleConf(profile))
}

func TestZramGenerator(t *testing.T) {
	profile := testProfile(t)
	out, err := render.ZramGenerator(profile)
	require.NoError(t, err)

	assert.Contains(t, out, "[zram0]")
	assert.Contains(t, out, "zram-size = min(ram * 0.5, 8192)")
	assert.Contains(t, out, "compression-algorithm = zstd")
}

func TestSnapperConfig(t *testing.T) {
	profile := testProfile(t)
	out, err := render.SnapperConfig(profile)
	require.NoError(t, err)

	assert.Contains(t, out, `SUBVOLUME="/"`)
	assert.Contains(t, out, `ALLOW_USERS="alice"`)
	assert.Contains(t, out, `TIMELINE_LIMIT_HOURLY="5"`)
	assert.Contains(t, out, `TIMELINE_LIMIT_DAILY="7"`)
}

func TestSudoersWheel(t *testing.T) {
	assert.Equal(t, "%wheel ALL=(ALL:ALL) ALL\n", render.SudoersWheel())
}

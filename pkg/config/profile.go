// Package config loads and validates the install profile. The profile
// replaces the per-variant edits of the original install scripts: the
// bootloader choice, LUKS unlock mode, subvolume layout and package sets
// are all configuration, layered from embedded defaults, profile files
// and ARCHUP_* environment variables.
package config

import (
	"regexp"
	"strings"

	"github.com/archup/archup/pkg/errors"
)

// Bootloader choices supported by the install plan.
const (
	LoaderSystemdBoot = "systemd-boot"
	LoaderGrub        = "grub"
)

// Profile is the fully resolved install configuration.
type Profile struct {
	Disk     DiskConfig     `koanf:"disk" toml:"disk"`
	System   SystemConfig   `koanf:"system" toml:"system"`
	Boot     BootConfig     `koanf:"boot" toml:"boot"`
	LUKS     LUKSConfig     `koanf:"luks" toml:"luks"`
	Btrfs    BtrfsConfig    `koanf:"btrfs" toml:"btrfs"`
	Zram     ZramConfig     `koanf:"zram" toml:"zram"`
	Snapper  SnapperConfig  `koanf:"snapper" toml:"snapper"`
	Packages PackagesConfig `koanf:"packages" toml:"packages"`
	Services ServicesConfig `koanf:"services" toml:"services"`
}

// DiskConfig names the target block device and the ESP geometry.
type DiskConfig struct {
	Device        string `koanf:"device" toml:"device"`
	EspSizeMiB    int    `koanf:"esp_size_mib" toml:"esp_size_mib"`
	FirmwareCheck bool   `koanf:"firmware_check" toml:"firmware_check"`
}

// SystemConfig holds identity and locale settings applied in the chroot.
type SystemConfig struct {
	Hostname string   `koanf:"hostname" toml:"hostname"`
	Username string   `koanf:"username" toml:"username"`
	Timezone string   `koanf:"timezone" toml:"timezone"`
	Locales  []string `koanf:"locales" toml:"locales"`
	Lang     string   `koanf:"lang" toml:"lang"`
	Keymap   string   `koanf:"keymap" toml:"keymap"`

	// PasswordEnv names an environment variable holding the user's
	// initial password for unattended runs; empty means prompt
	// interactively.
	PasswordEnv string `koanf:"password_env" toml:"password_env"`
}

// BootConfig selects the bootloader and kernel.
type BootConfig struct {
	Loader       string `koanf:"loader" toml:"loader"`
	Kernel       string `koanf:"kernel" toml:"kernel"`
	ExtraCmdline string `koanf:"extra_cmdline" toml:"extra_cmdline"`
}

// LUKSConfig controls root partition encryption.
type LUKSConfig struct {
	Mapper      string `koanf:"mapper" toml:"mapper"`
	Keyfile     bool   `koanf:"keyfile" toml:"keyfile"`
	KeyfilePath string `koanf:"keyfile_path" toml:"keyfile_path"`
	IterTimeMs  int    `koanf:"iter_time_ms" toml:"iter_time_ms"`

	// PassphraseEnv names an environment variable holding the passphrase
	// for unattended runs; empty means prompt interactively.
	PassphraseEnv string `koanf:"passphrase_env" toml:"passphrase_env"`
}

// Subvolume is one Btrfs subvolume and where it mounts in the target.
type Subvolume struct {
	Name       string `koanf:"name" toml:"name"`
	Mountpoint string `koanf:"mountpoint" toml:"mountpoint"`
}

// BtrfsConfig describes the root filesystem layout.
type BtrfsConfig struct {
	Label        string      `koanf:"label" toml:"label"`
	MountOptions []string    `koanf:"mount_options" toml:"mount_options"`
	Subvolumes   []Subvolume `koanf:"subvolumes" toml:"subvolumes"`
}

// ZramConfig controls the zram-generator swap configuration.
type ZramConfig struct {
	Enabled    bool    `koanf:"enabled" toml:"enabled"`
	Fraction   float64 `koanf:"fraction" toml:"fraction"`
	MaxSizeMiB int     `koanf:"max_size_mib" toml:"max_size_mib"`
	Algorithm  string  `koanf:"algorithm" toml:"algorithm"`
}

// SnapperConfig controls snapshot configuration for the root subvolume.
type SnapperConfig struct {
	Enabled             bool `koanf:"enabled" toml:"enabled"`
	TimelineLimitHourly int  `koanf:"timeline_limit_hourly" toml:"timeline_limit_hourly"`
	TimelineLimitDaily  int  `koanf:"timeline_limit_daily" toml:"timeline_limit_daily"`
	TimelineLimitWeekly int  `koanf:"timeline_limit_weekly" toml:"timeline_limit_weekly"`
	TimelineLimitMonth  int  `koanf:"timeline_limit_monthly" toml:"timeline_limit_monthly"`
}

// PackagesConfig lists what pacstrap and the chroot install. The lists are
// plain values on purpose; curating them is out of scope here.
type PackagesConfig struct {
	Base          []string `koanf:"base" toml:"base"`
	Extra         []string `koanf:"extra" toml:"extra"`
	Desktop       []string `koanf:"desktop" toml:"desktop"`
	Nvidia        bool     `koanf:"nvidia" toml:"nvidia"`
	MirrorCountry string   `koanf:"mirror_country" toml:"mirror_country"`
}

// ServicesConfig lists systemd units enabled in the chroot.
type ServicesConfig struct {
	Enable []string `koanf:"enable" toml:"enable"`
}

var hostnameRe = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?$`)
var usernameRe = regexp.MustCompile(`^[a-z_][a-z0-9_-]{0,31}$`)

// Validate checks the profile for values the install plan cannot work
// with. It reports the first problem found.
func (p *Profile) Validate() error {
	if p.Disk.Device == "" {
		return errors.New(errors.ErrConfigValid, "disk.device is required (e.g. /dev/nvme0n1)")
	}
	if !strings.HasPrefix(p.Disk.Device, "/dev/") {
		return errors.Newf(errors.ErrConfigValid, "disk.device must be an absolute /dev path, got %q", p.Disk.Device)
	}
	if p.Disk.EspSizeMiB < 256 {
		return errors.Newf(errors.ErrConfigValid, "disk.esp_size_mib must be at least 256, got %d", p.Disk.EspSizeMiB)
	}
	if !hostnameRe.MatchString(p.System.Hostname) {
		return errors.Newf(errors.ErrConfigValid, "system.hostname %q is not a valid hostname", p.System.Hostname)
	}
	if p.System.Username == "" {
		return errors.New(errors.ErrConfigValid, "system.username is required")
	}
	if !usernameRe.MatchString(p.System.Username) {
		return errors.Newf(errors.ErrConfigValid, "system.username %q is not a valid user name", p.System.Username)
	}
	if p.Boot.Loader != LoaderSystemdBoot && p.Boot.Loader != LoaderGrub {
		return errors.Newf(errors.ErrConfigValid, "boot.loader must be %q or %q, got %q", LoaderSystemdBoot, LoaderGrub, p.Boot.Loader)
	}
	if p.LUKS.Mapper == "" {
		return errors.New(errors.ErrConfigValid, "luks.mapper is required")
	}
	if p.LUKS.Keyfile && p.LUKS.KeyfilePath == "" {
		return errors.New(errors.ErrConfigValid, "luks.keyfile_path is required when luks.keyfile is enabled")
	}
	if len(p.System.Locales) == 0 {
		return errors.New(errors.ErrConfigValid, "system.locales must list at least one locale")
	}
	if p.Zram.Enabled && (p.Zram.Fraction <= 0 || p.Zram.Fraction > 1) {
		return errors.Newf(errors.ErrConfigValid, "zram.fraction must be in (0, 1], got %v", p.Zram.Fraction)
	}
	if err := p.validateSubvolumes(); err != nil {
		return err
	}
	return nil
}

func (p *Profile) validateSubvolumes() error {
	if len(p.Btrfs.Subvolumes) == 0 {
		return errors.New(errors.ErrConfigValid, "btrfs.subvolumes must list at least the root subvolume")
	}
	seen := make(map[string]bool)
	hasRoot := false
	for _, sv := range p.Btrfs.Subvolumes {
		if sv.Name == "" || !strings.HasPrefix(sv.Name, "@") {
			return errors.Newf(errors.ErrConfigValid, "subvolume name %q must start with @", sv.Name)
		}
		if sv.Mountpoint == "" || !strings.HasPrefix(sv.Mountpoint, "/") {
			return errors.Newf(errors.ErrConfigValid, "subvolume %s mountpoint %q must be absolute", sv.Name, sv.Mountpoint)
		}
		if seen[sv.Name] {
			return errors.Newf(errors.ErrConfigValid, "duplicate subvolume %s", sv.Name)
		}
		seen[sv.Name] = true
		if sv.Mountpoint == "/" {
			hasRoot = true
		}
	}
	if !hasRoot {
		return errors.New(errors.ErrConfigValid, "one subvolume must mount at /")
	}
	// Snapper assumes a @snapshots subvolume mounted at /.snapshots.
	if p.Snapper.Enabled {
		if _, ok := seen["@snapshots"]; !ok {
			return errors.New(errors.ErrConfigValid, "snapper.enabled requires a @snapshots subvolume")
		}
	}
	return nil
}

// RootSubvolume returns the subvolume mounted at /. Validate guarantees
// one exists.
func (p *Profile) RootSubvolume() Subvolume {
	for _, sv := range p.Btrfs.Subvolumes {
		if sv.Mountpoint == "/" {
			return sv
		}
	}
	return Subvolume{Name: "@", Mountpoint: "/"}
}

// AllPackages returns the merged pacstrap package list: base, extras,
// desktop set, plus NVIDIA drivers when enabled.
func (p *Profile) AllPackages() []string {
	pkgs := make([]string, 0, len(p.Packages.Base)+len(p.Packages.Extra)+len(p.Packages.Desktop)+3)
	pkgs = append(pkgs, p.Packages.Base...)
	pkgs = append(pkgs, p.Packages.Extra...)
	pkgs = append(pkgs, p.Packages.Desktop...)
	if p.Packages.Nvidia {
		pkgs = append(pkgs, "nvidia", "nvidia-utils", "nvidia-settings")
	}
	if p.Zram.Enabled {
		pkgs = append(pkgs, "zram-generator")
	}
	if p.Snapper.Enabled {
		pkgs = append(pkgs, "snapper")
	}
	if p.Boot.Loader == LoaderGrub {
		pkgs = append(pkgs, "grub", "efibootmgr")
	}
	return dedupe(pkgs)
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// Package render generates the configuration files the installed system
// needs: bootloader entries, crypttab, mkinitcpio.conf edits, zram and
// snapper configs, locale and hostname files. Everything here is pure
// string work, which makes it the best-tested part of the installer.
package render

import (
	"strings"

	"github.com/archup/archup/pkg/config"
)

// KernelCmdline assembles the kernel command line for the encrypted
// Btrfs root. The sd-encrypt initramfs hook consumes rd.luks.name.
func KernelCmdline(profile *config.Profile, luksUUID string) string {
	parts := []string{
		"rd.luks.name=" + luksUUID + "=" + profile.LUKS.Mapper,
		"root=/dev/mapper/" + profile.LUKS.Mapper,
		"rootflags=subvol=" + profile.RootSubvolume().Name,
		"rw",
	}
	if profile.Packages.Nvidia {
		parts = append(parts, "nvidia_drm.modeset=1")
	}
	if extra := strings.TrimSpace(profile.Boot.ExtraCmdline); extra != "" {
		parts = append(parts, extra)
	}
	return strings.Join(parts, " ")
}

package render

import (
	"strings"

	"github.com/archup/archup/pkg/config"
	"github.com/archup/archup/pkg/errors"
)

// systemdHooks is the initramfs hook order for sd-encrypt unlocking.
// keyboard before sd-vconsole, sd-encrypt after block, as mkinitcpio(8)
// requires.
var systemdHooks = []string{
	"base", "systemd", "autodetect", "microcode", "modconf", "kms",
	"keyboard", "sd-vconsole", "block", "sd-encrypt", "filesystems", "fsck",
}

// nvidiaModules are the early-KMS modules for the proprietary driver.
var nvidiaModules = []string{"nvidia", "nvidia_modeset", "nvidia_uvm", "nvidia_drm"}

// Mkinitcpio rewrites the stock /etc/mkinitcpio.conf content for the
// encrypted install: the HOOKS line switches to the systemd hook set,
// MODULES gains the NVIDIA stack when enabled, and FILES gains the LUKS
// keyfile when keyfile unlock is configured. All other lines, comments
// included, pass through untouched.
func Mkinitcpio(content string, profile *config.Profile) (string, error) {
	lines := strings.Split(content, "\n")
	sawHooks := false

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "HOOKS="):
			lines[i] = "HOOKS=(" + strings.Join(systemdHooks, " ") + ")"
			sawHooks = true
		case strings.HasPrefix(trimmed, "MODULES=") && profile.Packages.Nvidia:
			lines[i] = "MODULES=(" + strings.Join(mergeShellArray(trimmed, nvidiaModules), " ") + ")"
		case strings.HasPrefix(trimmed, "FILES=") && profile.LUKS.Keyfile:
			lines[i] = "FILES=(" + strings.Join(mergeShellArray(trimmed, []string{profile.LUKS.KeyfilePath}), " ") + ")"
		}
	}

	if !sawHooks {
		return "", errors.New(errors.ErrFileRender, "mkinitcpio.conf has no HOOKS line")
	}
	return strings.Join(lines, "\n"), nil
}

// mergeShellArray parses a KEY=(a b c) line and appends the extra values,
// preserving existing entries and dropping duplicates.
func mergeShellArray(line string, extra []string) []string {
	_, value, _ := strings.Cut(line, "=")
	value = strings.TrimPrefix(strings.TrimSuffix(strings.TrimSpace(value), ")"), "(")

	seen := make(map[string]bool)
	var out []string
	for _, field := range strings.Fields(value) {
		if !seen[field] {
			seen[field] = true
			out = append(out, field)
		}
	}
	for _, field := range extra {
		if !seen[field] {
			seen[field] = true
			out = append(out, field)
		}
	}
	return out
}

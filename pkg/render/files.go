package render

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/archup/archup/pkg/config"
	"github.com/archup/archup/pkg/errors"
)

// Crypttab renders the /etc/crypttab line for keyfile unlock. With
// sd-encrypt handling the root device from the kernel command line, the
// crypttab entry only matters for the keyfile variant.
func Crypttab(profile *config.Profile, luksUUID string) string {
	return fmt.Sprintf("%s UUID=%s %s luks,discard\n",
		profile.LUKS.Mapper, luksUUID, profile.LUKS.KeyfilePath)
}

// Hostname renders /etc/hostname.
func Hostname(profile *config.Profile) string {
	return profile.System.Hostname + "\n"
}

// Hosts renders /etc/hosts with the localhost entries the scripts always
// wrote.
func Hosts(profile *config.Profile) string {
	h := profile.System.Hostname
	return fmt.Sprintf("127.0.0.1\tlocalhost\n::1\t\tlocalhost\n127.0.1.1\t%s.localdomain\t%s\n", h, h)
}

// LocaleConf renders /etc/locale.conf.
func LocaleConf(profile *config.Profile) string {
	return "LANG=" + profile.System.Lang + "\n"
}

// VconsoleConf renders /etc/vconsole.conf.
func VconsoleConf(profile *config.Profile) string {
	return "KEYMAP=" + profile.System.Keymap + "\n"
}

// LocaleGen uncomments the configured locales in the stock
// /etc/locale.gen content. A locale that has no commented line in the
// file is appended, so custom locales still generate.
func LocaleGen(content string, locales []string) string {
	lines := strings.Split(content, "\n")
	found := make(map[string]bool, len(locales))

	for i, line := range lines {
		trimmed := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "#"))
		for _, locale := range locales {
			if trimmed == locale {
				lines[i] = locale
				found[locale] = true
			}
		}
	}

	for _, locale := range locales {
		if !found[locale] {
			lines = append(lines, locale)
		}
	}
	return strings.Join(lines, "\n")
}

// SudoersWheel renders the /etc/sudoers.d drop-in granting wheel.
func SudoersWheel() string {
	return "%wheel ALL=(ALL:ALL) ALL\n"
}

var zramTemplate = template.Must(template.New("zram").Parse(
	`[zram0]
zram-size = min(ram * {{.Fraction}}, {{.MaxSizeMiB}})
compression-algorithm = {{.Algorithm}}
swap-priority = 100
fs-type = swap
`))

// ZramGenerator renders /etc/systemd/zram-generator.conf.
func ZramGenerator(profile *config.Profile) (string, error) {
	var b strings.Builder
	err := zramTemplate.Execute(&b, profile.Zram)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrFileRender, "failed to render zram-generator.conf")
	}
	return b.String(), nil
}

var snapperTemplate = template.Must(template.New("snapper").Parse(
	`# subvolume to snapshot
SUBVOLUME="/"

# users allowed to work with the config
ALLOW_USERS="{{.Username}}"
SYNC_ACL="yes"

# automatic timeline snapshots
TIMELINE_CREATE="yes"
TIMELINE_CLEANUP="yes"
TIMELINE_LIMIT_HOURLY="{{.Hourly}}"
TIMELINE_LIMIT_DAILY="{{.Daily}}"
TIMELINE_LIMIT_WEEKLY="{{.Weekly}}"
TIMELINE_LIMIT_MONTHLY="{{.Monthly}}"
TIMELINE_LIMIT_YEARLY="0"

# cleanup of pacman pre/post snapshots
NUMBER_CLEANUP="yes"
NUMBER_LIMIT="20"
`))

type snapperData struct {
	Username string
	Hourly   int
	Daily    int
	Weekly   int
	Monthly  int
}

// SnapperConfig renders /etc/snapper/configs/root over what snapper
// create-config produced, applying the profile's timeline limits.
func SnapperConfig(profile *config.Profile) (string, error) {
	data := snapperData{
		Username: profile.System.Username,
		Hourly:   profile.Snapper.TimelineLimitHourly,
		Daily:    profile.Snapper.TimelineLimitDaily,
		Weekly:   profile.Snapper.TimelineLimitWeekly,
		Monthly:  profile.Snapper.TimelineLimitMonth,
	}
	var b strings.Builder
	if err := snapperTemplate.Execute(&b, data); err != nil {
		return "", errors.Wrap(err, errors.ErrFileRender, "failed to render snapper config")
	}
	return b.String(), nil
}

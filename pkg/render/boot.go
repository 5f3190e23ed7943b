package render

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/archup/archup/pkg/config"
	"github.com/archup/archup/pkg/errors"
)

var loaderConfTemplate = template.Must(template.New("loader.conf").Parse(
	`default arch.conf
timeout 3
console-mode max
editor no
`))

var loaderEntryTemplate = template.Must(template.New("entry").Parse(
	`title {{.Title}}
linux /vmlinuz-{{.Kernel}}
{{- range .Initrds}}
initrd {{.}}
{{- end}}
options {{.Cmdline}}
`))

type loaderEntryData struct {
	Title   string
	Kernel  string
	Initrds []string
	Cmdline string
}

// LoaderConf renders /boot/loader/loader.conf for systemd-boot.
func LoaderConf() string {
	var b strings.Builder
	// Static template, cannot fail.
	_ = loaderConfTemplate.Execute(&b, nil)
	return b.String()
}

// LoaderEntry renders a /boot/loader/entries/*.conf file. fallback picks
// the fallback initramfs image.
func LoaderEntry(profile *config.Profile, cmdline string, fallback bool) (string, error) {
	kernel := profile.Boot.Kernel
	data := loaderEntryData{
		Title:   "Arch Linux",
		Kernel:  kernel,
		Initrds: []string{fmt.Sprintf("/initramfs-%s.img", kernel)},
		Cmdline: cmdline,
	}
	if fallback {
		data.Title = "Arch Linux (fallback initramfs)"
		data.Initrds = []string{fmt.Sprintf("/initramfs-%s-fallback.img", kernel)}
	}

	var b strings.Builder
	if err := loaderEntryTemplate.Execute(&b, data); err != nil {
		return "", errors.Wrap(err, errors.ErrFileRender, "failed to render loader entry")
	}
	return b.String(), nil
}

// GrubDefault rewrites /etc/default/grub content: the kernel command line
// moves into GRUB_CMDLINE_LINUX and cryptodisk support is switched on so
// grub-mkconfig emits the right root. Other lines pass through.
func GrubDefault(content, cmdline string) string {
	lines := strings.Split(content, "\n")
	sawCryptodisk := false

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "GRUB_CMDLINE_LINUX="):
			lines[i] = fmt.Sprintf("GRUB_CMDLINE_LINUX=%q", cmdline)
		case strings.HasPrefix(trimmed, "GRUB_ENABLE_CRYPTODISK=") ||
			strings.HasPrefix(trimmed, "#GRUB_ENABLE_CRYPTODISK="):
			lines[i] = "GRUB_ENABLE_CRYPTODISK=y"
			sawCryptodisk = true
		}
	}

	if !sawCryptodisk {
		lines = append(lines, "GRUB_ENABLE_CRYPTODISK=y")
	}
	return strings.Join(lines, "\n")
}

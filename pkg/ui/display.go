package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/pterm/pterm"

	"github.com/archup/archup/pkg/config"
)

// PrintPlan renders the resolved step list, numbered in execution order.
func PrintPlan(out io.Writer, format Format, stepNames []string) {
	if format == FormatTerminal {
		items := make([]pterm.BulletListItem, len(stepNames))
		for i, name := range stepNames {
			items[i] = pterm.BulletListItem{
				Level:  0,
				Text:   name,
				Bullet: fmt.Sprintf("%2d.", i+1),
			}
		}
		_ = pterm.DefaultBulletList.WithItems(items).WithWriter(out).Render()
		return
	}

	for i, name := range stepNames {
		fmt.Fprintf(out, "%2d. %s\n", i+1, name)
	}
}

// PrintProfileSummary renders the key profile values the user should eye
// before typing YES.
func PrintProfileSummary(out io.Writer, format Format, profile *config.Profile) {
	rows := [][]string{
		{"Disk", profile.Disk.Device},
		{"Bootloader", profile.Boot.Loader},
		{"Hostname", profile.System.Hostname},
		{"Username", profile.System.Username},
		{"Timezone", profile.System.Timezone},
		{"Filesystem", fmt.Sprintf("btrfs (%d subvolumes, LUKS2 mapper %s)", len(profile.Btrfs.Subvolumes), profile.LUKS.Mapper)},
	}

	if format == FormatTerminal {
		data := pterm.TableData{{"Setting", "Value"}}
		data = append(data, rows...)
		_ = pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(out).Render()
		return
	}

	for _, row := range rows {
		fmt.Fprintf(out, "%-12s %s\n", row[0]+":", row[1])
	}
}

var summaryStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("10")).
	Padding(0, 2)

// PrintCompletion renders the end-of-install message.
func PrintCompletion(out io.Writer, format Format, profile *config.Profile, elapsed time.Duration, logPath string) {
	msg := fmt.Sprintf("Installation of %s on %s finished in %s.\nLog: %s\nRemove the install medium and reboot.",
		profile.System.Hostname, profile.Disk.Device, elapsed.Round(time.Second), logPath)

	if format == FormatTerminal {
		fmt.Fprintln(out, summaryStyle.Render(msg))
		return
	}
	fmt.Fprintln(out, msg)
}

// StepSpinner shows per-step progress, degrading to plain lines when the
// output is not a terminal.
type StepSpinner struct {
	spinner *pterm.SpinnerPrinter
	out     io.Writer
	name    string
}

// StartStep begins progress display for one step.
func StartStep(out io.Writer, format Format, name string) *StepSpinner {
	if format != FormatTerminal {
		fmt.Fprintf(out, "==> %s\n", name)
		return &StepSpinner{out: out, name: name}
	}
	spinner, err := pterm.DefaultSpinner.WithWriter(out).Start(name)
	if err != nil {
		return &StepSpinner{out: out, name: name}
	}
	return &StepSpinner{spinner: spinner, out: out, name: name}
}

// Done finishes the step display with success or failure.
func (s *StepSpinner) Done(err error) {
	if s.spinner == nil {
		if err != nil {
			fmt.Fprintf(s.out, "==> %s: FAILED\n", s.name)
		}
		return
	}
	if err != nil {
		s.spinner.Fail(fmt.Sprintf("%s: %v", s.name, err))
		return
	}
	s.spinner.Success(s.name)
}

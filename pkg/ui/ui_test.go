package ui_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/archup/archup/pkg/config"
	"github.com/archup/archup/pkg/errors"
	"github.com/archup/archup/pkg/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirmWipe_AcceptsLiteralYES(t *testing.T) {
	var out bytes.Buffer
	err := ui.ConfirmWipe(strings.NewReader("YES\n"), &out, "/dev/vda", false)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "/dev/vda")
	assert.Contains(t, out.String(), "Type YES")
}

func TestConfirmWipe_RejectsEverythingElse(t *testing.T) {
	for _, answer := range []string{"yes\n", "y\n", "Y\n", "no\n", "\n", "YES!\n"} {
		t.Run(strings.TrimSpace(answer)+"_rejected", func(t *testing.T) {
			var out bytes.Buffer
			err := ui.ConfirmWipe(strings.NewReader(answer), &out, "/dev/vda", false)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrAborted))
		})
	}
}

func TestConfirmWipe_AssumeYesSkipsPrompt(t *testing.T) {
	var out bytes.Buffer
	err := ui.ConfirmWipe(strings.NewReader(""), &out, "/dev/vda", true)
	require.NoError(t, err)
	assert.Empty(t, out.String())
}

// fakePasswordReader returns scripted answers in order.
type fakePasswordReader struct {
	answers []string
	reads   int
}

func (f *fakePasswordReader) ReadPassword(string) (string, error) {
	if f.reads >= len(f.answers) {
		return "", errors.New(errors.ErrInvalidInput, "out of scripted answers")
	}
	answer := f.answers[f.reads]
	f.reads++
	return answer, nil
}

func TestCollectPassphrase_MatchFirstTry(t *testing.T) {
	r := &fakePasswordReader{answers: []string{"hunter2", "hunter2"}}
	pass, err := ui.CollectPassphrase(r, "LUKS passphrase")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", pass)
	assert.Equal(t, 2, r.reads)
}

func TestCollectPassphrase_RetriesOnMismatch(t *testing.T) {
	r := &fakePasswordReader{answers: []string{"first", "second", "hunter2", "hunter2"}}
	pass, err := ui.CollectPassphrase(r, "LUKS passphrase")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", pass)
}

func TestCollectPassphrase_EmptyNotAccepted(t *testing.T) {
	r := &fakePasswordReader{answers: []string{"", "hunter2", "hunter2"}}
	pass, err := ui.CollectPassphrase(r, "LUKS passphrase")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", pass)
}

func TestCollectPassphrase_GivesUpAfterThreeAttempts(t *testing.T) {
	r := &fakePasswordReader{answers: []string{"a", "b", "c", "d", "e", "f"}}
	_, err := ui.CollectPassphrase(r, "LUKS passphrase")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestParseFormat(t *testing.T) {
	for input, expected := range map[string]ui.Format{
		"":         ui.FormatAuto,
		"auto":     ui.FormatAuto,
		"term":     ui.FormatTerminal,
		"terminal": ui.FormatTerminal,
		"text":     ui.FormatText,
		"plain":    ui.FormatText,
	} {
		format, err := ui.ParseFormat(input)
		require.NoError(t, err)
		assert.Equal(t, expected, format, "input %q", input)
	}

	_, err := ui.ParseFormat("xml")
	require.Error(t, err)
}

func testProfile(t *testing.T) *config.Profile {
	t.Helper()
	profile, err := config.Load("")
	require.NoError(t, err)
	profile.Disk.Device = "/dev/vda"
	profile.System.Username = "alice"
	return profile
}

func TestPrintPlan_TextFormat(t *testing.T) {
	var out bytes.Buffer
	ui.PrintPlan(&out, ui.FormatText, []string{"Partition disk", "Encrypt root"})

	assert.Contains(t, out.String(), " 1. Partition disk")
	assert.Contains(t, out.String(), " 2. Encrypt root")
}

func TestPrintProfileSummary_TextFormat(t *testing.T) {
	var out bytes.Buffer
	ui.PrintProfileSummary(&out, ui.FormatText, testProfile(t))

	assert.Contains(t, out.String(), "/dev/vda")
	assert.Contains(t, out.String(), "systemd-boot")
	assert.Contains(t, out.String(), "alice")
}

func TestPrintCompletion_TextFormat(t *testing.T) {
	var out bytes.Buffer
	ui.PrintCompletion(&out, ui.FormatText, testProfile(t), 125*time.Second, "/tmp/archup.log")

	assert.Contains(t, out.String(), "2m5s")
	assert.Contains(t, out.String(), "/tmp/archup.log")
}

func TestStepSpinner_TextFallback(t *testing.T) {
	var out bytes.Buffer
	spinner := ui.StartStep(&out, ui.FormatText, "Partition disk")
	spinner.Done(nil)
	assert.Equal(t, "==> Partition disk\n", out.String())

	out.Reset()
	spinner = ui.StartStep(&out, ui.FormatText, "Encrypt root")
	spinner.Done(errors.New(errors.ErrLuksFormat, "boom"))
	assert.Contains(t, out.String(), "FAILED")
}

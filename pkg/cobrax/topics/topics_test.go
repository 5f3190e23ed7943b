package topics_test

import (
	"bytes"
	"testing"
	"testing/fstest"

	"github.com/archup/archup/pkg/cobrax/topics"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"encryption.md":      {Data: []byte("# Encryption\n\nHow the disk is encrypted.\n")},
		"disk-layout.txt":    {Data: []byte("Partition layout details.\n")},
		"option-dry-run.txt": {Data: []byte("What --dry-run does.\n")},
		"notes.rst":          {Data: []byte("ignored, unsupported extension\n")},
	}
}

func TestNew_LoadsSupportedExtensions(t *testing.T) {
	tm, err := topics.New(testFS(), topics.Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"disk-layout", "encryption", "option-dry-run"}, tm.ListTopics())

	_, exists := tm.GetTopic("notes")
	assert.False(t, exists)
}

func TestGetTopic_FlagStyleNames(t *testing.T) {
	tm, err := topics.New(testFS(), topics.Options{})
	require.NoError(t, err)

	topic, exists := tm.GetTopic("--dry-run")
	require.True(t, exists)
	assert.Equal(t, "option-dry-run", topic.Name)

	topic, exists = tm.GetTopic("encryption")
	require.True(t, exists)
	assert.Contains(t, topic.Content, "How the disk is encrypted")
}

func TestInitialize_HelpCommandServesTopics(t *testing.T) {
	rootCmd := &cobra.Command{Use: "testcli"}
	require.NoError(t, topics.Initialize(rootCmd, testFS(), topics.Options{}))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"help", "disk-layout"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "Partition layout details.")

	out.Reset()
	rootCmd.SetArgs([]string{"help", "topics"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "disk-layout")
	assert.Contains(t, out.String(), "--dry-run")
}

func TestPlainRenderer_PassesThrough(t *testing.T) {
	r := &topics.PlainRenderer{}
	assert.Equal(t, "# raw\n", r.Render("# raw\n", ".md"))
}

func TestGlamourRenderer_NonMarkdownPassesThrough(t *testing.T) {
	r := topics.NewGlamourRenderer()
	assert.Equal(t, "plain text\n", r.Render("plain text\n", ".txt"))
}

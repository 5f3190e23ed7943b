// Package commands wires the archup CLI: the root command, its
// subcommands and the topic-based help system.
package commands

import (
	"embed"
	"fmt"
	"io/fs"
	"os"

	"github.com/archup/archup/internal/version"
	"github.com/archup/archup/pkg/cobrax/topics"
	"github.com/archup/archup/pkg/config"
	"github.com/archup/archup/pkg/logging"
	"github.com/archup/archup/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

//go:embed docs
var docsFS embed.FS

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	var verbosity int

	rootCmd := &cobra.Command{
		Use:     "archup",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringP("config", "c", "", MsgFlagConfig)
	rootCmd.PersistentFlags().String("format", "auto", MsgFlagFormat)

	// Disable automatic help command (replaced by the topics help)
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	rootCmd.AddGroup(&cobra.Group{
		ID:    "install",
		Title: "INSTALLATION:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})

	rootCmd.AddCommand(newInstallCmd())
	rootCmd.AddCommand(newPlanCmd())
	rootCmd.AddCommand(newTeardownCmd())
	rootCmd.AddCommand(newGenConfigCmd())
	rootCmd.AddCommand(newTopicsCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())

	// Topic-based help from the embedded docs directory.
	if docs, err := fs.Sub(docsFS, "docs"); err == nil {
		opts := topics.Options{
			Extensions: []string{".txt", ".md"},
			Renderer:   topics.NewGlamourRenderer(),
		}
		if err := topics.Initialize(rootCmd, docs, opts); err != nil {
			log.Warn().Err(err).Msg("Failed to initialize help topics")
		}
	}

	return rootCmd
}

// loadProfile resolves the profile for a command invocation, honoring
// the persistent --config flag.
func loadProfile(cmd *cobra.Command) (*config.Profile, error) {
	path, _ := cmd.Root().PersistentFlags().GetString("config")
	profile, err := config.LoadValidated(path)
	if err != nil {
		return nil, fmt.Errorf(MsgErrLoadProfile, err)
	}
	return profile, nil
}

// resolveFormat collapses the --format flag against the actual terminal.
func resolveFormat(cmd *cobra.Command) ui.Format {
	raw, _ := cmd.Root().PersistentFlags().GetString("format")
	format, err := ui.ParseFormat(raw)
	if err != nil {
		format = ui.FormatAuto
	}
	return format.Resolve(os.Stdout)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "archup version %s\n", version.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", version.Commit)
			fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			return nil
		},
	}
}

func newManCmd() *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:     "man",
		Short:   MsgManShort,
		GroupID: "misc",
		Hidden:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			header := &doc.GenManHeader{
				Title:   "ARCHUP",
				Section: "1",
			}
			return doc.GenManTree(cmd.Root(), header, outDir)
		},
	}
	cmd.Flags().StringVar(&outDir, "output", "/tmp", "Directory to write man pages to")
	return cmd
}

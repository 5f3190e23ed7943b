package commands

import (
	"fmt"
	"os"

	"github.com/archup/archup/pkg/config"
	"github.com/spf13/cobra"
)

func newGenConfigCmd() *cobra.Command {
	var (
		writePath string
		resolved  bool
	)

	cmd := &cobra.Command{
		Use:     "gen-config",
		Aliases: []string{"genconfig"},
		Short:   MsgGenConfigShort,
		Long:    MsgGenConfigLong,
		Example: MsgGenConfigExample,
		GroupID: "install",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var content string
			if resolved {
				profile, err := loadProfile(cmd)
				if err != nil {
					return err
				}
				marshaled, err := config.Marshal(profile)
				if err != nil {
					return err
				}
				content = marshaled
			} else {
				content = config.GetDefaultProfileContent()
			}

			if writePath == "" {
				fmt.Fprint(cmd.OutOrStdout(), content)
				return nil
			}
			if err := os.WriteFile(writePath, []byte(content), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", writePath, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", writePath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&writePath, "write", "w", "", MsgFlagWrite)
	cmd.Flags().BoolVar(&resolved, "resolved", false, MsgFlagResolved)
	return cmd
}

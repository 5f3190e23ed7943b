package commands

import (
	"fmt"
	"time"

	"github.com/archup/archup/pkg/cmdexec"
	"github.com/archup/archup/pkg/filesystem"
	"github.com/archup/archup/pkg/logging"
	"github.com/archup/archup/pkg/steps"
	"github.com/archup/archup/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newInstallCmd() *cobra.Command {
	var (
		dryRun     bool
		assumeYes  bool
		keepMounts bool
	)

	cmd := &cobra.Command{
		Use:     "install",
		Short:   MsgInstallShort,
		Long:    MsgInstallLong,
		Example: MsgInstallExample,
		GroupID: "install",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := loadProfile(cmd)
			if err != nil {
				return err
			}

			log.Info().
				Str("disk", profile.Disk.Device).
				Str("loader", profile.Boot.Loader).
				Bool("dry_run", dryRun).
				Msg("Starting installation")

			plan := steps.BuildPlan(profile)
			env := &steps.Env{
				Profile:    profile,
				FS:         filesystem.NewOS(),
				Target:     steps.DefaultTarget,
				In:         cmd.InOrStdin(),
				Out:        cmd.OutOrStdout(),
				Format:     resolveFormat(cmd),
				Passwords:  ui.TerminalPasswordReader{},
				AssumeYes:  assumeYes,
				KeepMounts: keepMounts,
				DryRun:     dryRun,
				LogPath:    logging.LogFilePath(),
			}
			if dryRun {
				// A dry run records commands instead of executing them
				// and writes generated files into memory.
				recorder := cmdexec.NewDryRunner()
				env.Runner = recorder
				env.Chroot = cmdexec.NewChrootRunner(recorder, env.Target)
				env.FS = filesystem.NewMemory()

				if err := steps.NewExecutor().Run(cmd.Context(), plan, env); err != nil {
					return fmt.Errorf(MsgErrInstall, err)
				}
				fmt.Fprint(cmd.OutOrStdout(), recorder.Transcript())
				fmt.Fprintln(cmd.OutOrStdout(), MsgDryRunNotice)
				return nil
			}

			runner := cmdexec.NewOSRunner()
			env.Runner = runner
			env.Chroot = cmdexec.NewChrootRunner(runner, env.Target)

			started := time.Now()
			if err := steps.NewExecutor().Run(cmd.Context(), plan, env); err != nil {
				return fmt.Errorf(MsgErrInstall, err)
			}

			ui.PrintCompletion(cmd.OutOrStdout(), env.Format, profile, time.Since(started), env.LogPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, MsgFlagDryRun)
	cmd.Flags().BoolVar(&assumeYes, "yes", false, MsgFlagYes)
	cmd.Flags().BoolVar(&keepMounts, "keep-mounts", false, MsgFlagKeepMounts)
	return cmd
}

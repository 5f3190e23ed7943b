package commands

import (
	"fmt"

	"github.com/archup/archup/pkg/cmdexec"
	"github.com/archup/archup/pkg/filesystem"
	"github.com/archup/archup/pkg/steps"
	"github.com/archup/archup/pkg/ui"
	"github.com/spf13/cobra"
)

func newPlanCmd() *cobra.Command {
	var showCommands bool

	cmd := &cobra.Command{
		Use:     "plan",
		Short:   MsgPlanShort,
		Long:    MsgPlanLong,
		Example: MsgPlanExample,
		GroupID: "install",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := loadProfile(cmd)
			if err != nil {
				return err
			}

			plan := steps.BuildPlan(profile)
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, MsgPlanHeading, profile.Disk.Device, len(plan))
			ui.PrintPlan(out, resolveFormat(cmd), steps.PlanNames(plan))

			if !showCommands {
				return nil
			}

			// Simulate the plan against a recording runner and an
			// in-memory filesystem; nothing touches the system.
			recorder := cmdexec.NewDryRunner()
			env := &steps.Env{
				Profile: profile,
				Runner:  recorder,
				Chroot:  cmdexec.NewChrootRunner(recorder, steps.DefaultTarget),
				FS:      filesystem.NewMemory(),
				Target:  steps.DefaultTarget,
				In:      cmd.InOrStdin(),
				Out:     out,
				Format:  ui.FormatText,
				DryRun:  true,
			}
			if err := steps.NewExecutor().Run(cmd.Context(), plan, env); err != nil {
				return err
			}

			fmt.Fprint(out, MsgCommandHeading)
			fmt.Fprint(out, recorder.Transcript())
			return nil
		},
	}

	cmd.Flags().BoolVar(&showCommands, "commands", false, "Also print every external command the plan would run")
	return cmd
}

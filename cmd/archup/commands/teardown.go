package commands

import (
	"fmt"

	"github.com/archup/archup/pkg/cmdexec"
	"github.com/archup/archup/pkg/filesystem"
	"github.com/archup/archup/pkg/state"
	"github.com/archup/archup/pkg/steps"
	"github.com/archup/archup/pkg/system"
	"github.com/archup/archup/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newTeardownCmd() *cobra.Command {
	var assumeYes bool

	cmd := &cobra.Command{
		Use:     "teardown",
		Short:   MsgTeardownShort,
		Long:    MsgTeardownLong,
		Example: MsgTeardownExample,
		GroupID: "install",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := loadProfile(cmd)
			if err != nil {
				return err
			}
			if err := system.CheckRoot(); err != nil {
				return err
			}

			runner := cmdexec.NewOSRunner()
			out := cmd.OutOrStdout()

			left, err := state.Probe(cmd.Context(), runner, filesystem.NewOS(), steps.DefaultTarget, profile.LUKS.Mapper)
			if err != nil {
				return fmt.Errorf(MsgErrTeardown, err)
			}
			if left.Empty() {
				fmt.Fprintln(out, MsgNothingToTear)
				return nil
			}

			for _, m := range left.Mounts {
				fmt.Fprintf(out, "  mounted: %s on %s\n", m.Device, m.Dir)
			}
			if left.MapperActive {
				fmt.Fprintf(out, "  open LUKS mapping: /dev/mapper/%s\n", profile.LUKS.Mapper)
			}
			if left.SwapActive {
				fmt.Fprintln(out, "  active swap")
			}

			warning := fmt.Sprintf("The state above will be unmounted and closed under %s.", steps.DefaultTarget)
			if err := ui.Confirm(cmd.InOrStdin(), out, warning, assumeYes); err != nil {
				return err
			}

			log.Info().Int("mounts", len(left.Mounts)).Bool("mapper", left.MapperActive).Msg("Tearing down leftovers")
			if err := state.Teardown(cmd.Context(), runner, steps.DefaultTarget, profile.LUKS.Mapper, left); err != nil {
				return fmt.Errorf(MsgErrTeardown, err)
			}

			fmt.Fprintln(out, MsgTeardownDone)
			return nil
		},
	}

	cmd.Flags().BoolVar(&assumeYes, "yes", false, MsgFlagYes)
	return cmd
}

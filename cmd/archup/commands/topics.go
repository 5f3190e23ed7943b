package commands

import (
	"fmt"
	"io/fs"

	"github.com/archup/archup/pkg/cobrax/topics"
	"github.com/spf13/cobra"
)

func newTopicsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "topics [name]",
		Short:   MsgTopicsShort,
		Long:    MsgTopicsLong,
		GroupID: "misc",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := fs.Sub(docsFS, "docs")
			if err != nil {
				return err
			}
			tm, err := topics.New(docs, topics.Options{
				Renderer: topics.NewGlamourRenderer(),
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(args) == 0 {
				fmt.Fprintln(out, "Available topics:")
				for _, name := range tm.ListTopics() {
					fmt.Fprintf(out, "  %s\n", name)
				}
				fmt.Fprintf(out, "\nUse '%s topics <name>' to read one.\n", cmd.Root().Name())
				return nil
			}

			topic, exists := tm.GetTopic(args[0])
			if !exists {
				return fmt.Errorf("unknown topic: %s", args[0])
			}
			fmt.Fprint(out, tm.Render(topic))
			return nil
		},
	}
}

package commands

import (
	"fmt"

	"github.com/leapstack-labs/leapgantt/internal/tui"
	"github.com/spf13/cobra"
)

// NewViewCommand creates the view command.
func NewViewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view FILE",
		Short: "Show a schedule as a timeline in the terminal",
		Long: `Open a full-screen timeline of the schedule: one line per row, tasks as
bars and milestones as diamonds, colored by resource.

Keys: arrows/pgup/pgdn scroll, q or esc quits.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, cleanup, err := NewCommandContext(cmd, "")
			if err != nil {
				return err
			}
			defer cleanup()

			report, err := cc.Engine.BuildFile(args[0])
			if err != nil {
				return err
			}
			if !cc.Renderer.IsTTY() {
				// Nothing to scroll; print the timeline once.
				_, err := fmt.Fprintln(cmd.OutOrStdout(), tui.RenderTimeline(report, 100, nil))
				return err
			}
			return tui.Run(report, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	return cmd
}

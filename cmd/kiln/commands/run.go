package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/kiln/internal/app"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [tasks...]",
		Short: "Run specified tasks",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				// Display command usage help without returning an error
				_ = cmd.Help()
				return nil
			}
			series, _ := cmd.Flags().GetBool("series")

			return c.app.Run(cmd.Context(), args, app.RunOptions{
				Series: series,
				Color:  colorMode(cmd),
			})
		},
	}
	cmd.Flags().BoolP("series", "s", false, "Run the tasks one after another instead of in parallel")
	return cmd
}

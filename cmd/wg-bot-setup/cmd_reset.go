package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var flagResetConfig bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear completion markers so steps run again",
	Long: `Reset removes the step completion markers. The next run re-executes
every step. With --config the environment file is deleted too; deployed
files, the service user, and the systemd unit are left in place.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := newContext()
		if err != nil {
			return err
		}

		if !ctx.UI.IsNonInteractive() {
			confirm, err := ctx.UI.PromptYesNo("Remove all completion markers?", false)
			if err != nil {
				return err
			}
			if !confirm {
				ctx.UI.Info("Reset cancelled")
				return nil
			}
		}

		if err := ctx.Markers.RemoveAll(); err != nil {
			return fmt.Errorf("failed to remove markers: %w", err)
		}
		ctx.UI.Successf("Markers cleared from %s", ctx.Markers.Dir())

		if flagResetConfig {
			if err := os.Remove(ctx.Env.FilePath()); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to remove env file: %w", err)
			}
			ctx.UI.Successf("Removed %s", ctx.Env.FilePath())
		}
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVar(&flagResetConfig, "config", false, "also delete the environment file")
}

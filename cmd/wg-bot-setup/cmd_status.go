package main

import (
	"github.com/spf13/cobra"

	"github.com/mvolkov/wg-peer-bot/internal/cli"
	"github.com/mvolkov/wg-peer-bot/internal/steps"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show setup progress and service state",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := newContext()
		if err != nil {
			return err
		}

		cli.PrintStatus(ctx)

		ctx.UI.Print("")
		if missing := ctx.Env.MissingBotKeys(); len(missing) > 0 {
			ctx.UI.Warningf("Environment file %s is missing: %v", ctx.Env.FilePath(), missing)
		} else {
			ctx.UI.Successf("Environment file %s is complete", ctx.Env.FilePath())
		}

		active, err := ctx.Services.IsActive(steps.ServiceName)
		if err != nil {
			ctx.UI.Warningf("Could not determine service state: %v", err)
		} else if active {
			ctx.UI.Successf("Service %s is running", steps.ServiceName)
		} else {
			ctx.UI.Warningf("Service %s is not running", steps.ServiceName)
		}
		return nil
	},
}

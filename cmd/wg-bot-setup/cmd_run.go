package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mvolkov/wg-peer-bot/internal/cli"
	"github.com/mvolkov/wg-peer-bot/internal/steps"
)

var (
	flagBotBinary   string
	flagBotToken    string
	flagServerIP    string
	flagAdminChatID string
	flagInterface   string
	flagPort        string
	flagApplyPeer   string
)

func answersFromFlags() steps.ConfigureAnswers {
	return steps.ConfigureAnswers{
		BotToken:    flagBotToken,
		ServerIP:    flagServerIP,
		AdminChatID: flagAdminChatID,
		Interface:   flagInterface,
		Port:        flagPort,
		ApplyPeer:   flagApplyPeer,
	}
}

func stepNames() string {
	var names []string
	for _, info := range cli.AllSteps() {
		names = append(names, info.ShortName)
	}
	return strings.Join(names, ", ")
}

var runCmd = &cobra.Command{
	Use:   "run [step|all]",
	Short: "Run a single setup step or the full installation",
	Long: `Run executes setup steps without the interactive menu. With 'all'
(or no argument) every step runs in order; with a step name only that
step runs. Completed steps are skipped unless their marker is reset.

Available steps: ` + stepNames(),
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := newContext()
		if err != nil {
			return err
		}

		target := "all"
		if len(args) == 1 {
			target = args[0]
		}
		if target == "all" {
			return ctx.RunAll()
		}
		return ctx.RunStep(target)
	},
}

func init() {
	runCmd.Flags().StringVar(&flagBotBinary, "bot-binary", "", "path to the wg-bot binary to deploy (default: next to the installer)")
	runCmd.Flags().StringVar(&flagBotToken, "bot-token", "", "Telegram bot token")
	runCmd.Flags().StringVar(&flagServerIP, "server-ip", "", "public IPv4 address clients connect to")
	runCmd.Flags().StringVar(&flagAdminChatID, "admin-chat-id", "", "Telegram chat id allowed to manage peers (empty disables the gate)")
	runCmd.Flags().StringVar(&flagInterface, "interface", "", "WireGuard interface name (default wg0)")
	runCmd.Flags().StringVar(&flagPort, "port", "", "WireGuard listen port (default 51820)")
	runCmd.Flags().StringVar(&flagApplyPeer, "apply-peer", "", "apply peers to the live interface, true or false (default true)")

	// Catch obviously wrong step names before building the context
	runCmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 || args[0] == "all" {
			return nil
		}
		for _, info := range cli.AllSteps() {
			if info.ShortName == args[0] {
				return nil
			}
		}
		return fmt.Errorf("unknown step %q (available: %s)", args[0], stepNames())
	}
}

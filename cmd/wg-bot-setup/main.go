// wg-bot-setup installs the WireGuard Telegram bot on a Debian-family
// host: packages, service account, files, configuration, systemd unit.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvolkov/wg-peer-bot/internal/cli"
	"github.com/mvolkov/wg-peer-bot/pkg/version"
)

var (
	flagNonInteractive bool
	flagEnvFile        string
	flagMarkerDir      string
)

var rootCmd = &cobra.Command{
	Use:   "wg-bot-setup",
	Short: "Installer for the WireGuard Telegram bot",
	Long: `wg-bot-setup provisions a host to run the wg-bot Telegram service:
it installs WireGuard tooling, creates the service account, deploys the
bot binary, collects the bot configuration into an environment file, and
registers the systemd unit.

Run without arguments for the interactive menu, or use 'run' for
scripted installs.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := newContext()
		if err != nil {
			return err
		}
		return cli.RunMenu(ctx)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Info())
	},
}

func newContext() (*cli.SetupContext, error) {
	return cli.NewSetupContext(cli.Options{
		NonInteractive: flagNonInteractive,
		EnvFilePath:    flagEnvFile,
		MarkerDir:      flagMarkerDir,
		BotBinary:      flagBotBinary,
		Answers:        answersFromFlags(),
	})
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagNonInteractive, "non-interactive", false, "never prompt; use flags and defaults")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", "", "environment file path (default /etc/wg-bot/wg-bot.env)")
	rootCmd.PersistentFlags().StringVar(&flagMarkerDir, "marker-dir", "", "completion marker directory (default /var/lib/wg-bot-setup)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(peerCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mvolkov/wg-peer-bot/internal/cli"
	"github.com/mvolkov/wg-peer-bot/internal/common"
	"github.com/mvolkov/wg-peer-bot/internal/config"
	"github.com/mvolkov/wg-peer-bot/internal/wireguard"
)

var peerCmd = &cobra.Command{
	Use:   "peer",
	Short: "Manage WireGuard clients from the command line",
	Long: `Peer provisions and revokes clients directly on the server using the
same environment file and client store as the bot. Useful when Telegram
is unreachable or for scripting.`,
}

var peerAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a client and print its config",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if err := common.ValidateClientName(name); err != nil {
			return err
		}

		ctx, manager, err := peerManager()
		if err != nil {
			return err
		}

		client, err := manager.CreateClient(name)
		if err != nil {
			return err
		}

		ctx.UI.Successf("Client %s created (%s)", client.Name, client.Address)
		ctx.UI.Infof("Config saved to %s", client.Path)
		ctx.UI.Print("")
		ctx.UI.Print(client.Conf)
		return nil
	},
}

var peerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List provisioned clients",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, manager, err := peerManager()
		if err != nil {
			return err
		}

		names, err := manager.ListClients()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			ctx.UI.Info("No clients provisioned")
			return nil
		}
		for _, name := range names {
			ctx.UI.Printf("  %s", name)
		}
		return nil
	},
}

var peerRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Revoke a client",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if err := common.ValidateClientName(name); err != nil {
			return err
		}

		ctx, manager, err := peerManager()
		if err != nil {
			return err
		}

		if err := manager.RevokeClient(name); err != nil {
			return err
		}
		ctx.UI.Successf("Client %s revoked", name)
		return nil
	},
}

// peerManager builds a wireguard.Manager from the installed environment
// file, the same wiring the bot uses at startup.
func peerManager() (*cli.SetupContext, *wireguard.Manager, error) {
	ctx, err := newContext()
	if err != nil {
		return nil, nil, err
	}

	if missing := ctx.Env.MissingBotKeys(); len(missing) > 0 {
		return nil, nil, fmt.Errorf("environment file %s is incomplete (missing %v); run the configure step first",
			ctx.Env.FilePath(), missing)
	}

	serverKey, err := ctx.Env.Get(config.KeyServerPublicKey)
	if err != nil {
		return nil, nil, err
	}
	serverIP, err := ctx.Env.Get(config.KeyServerPublicIP)
	if err != nil {
		return nil, nil, err
	}

	manager, err := wireguard.NewManager(wireguard.ManagerParams{
		Store:           wireguard.NewStore(""),
		Device:          wireguard.NewDevice(ctx.Env.GetOrDefault(config.KeyServerInterface, "wg0")),
		ServerPublicKey: serverKey,
		ServerIP:        serverIP,
		ServerPort:      ctx.Env.GetOrDefault(config.KeyServerWGPort, "51820"),
		ApplyPeer:       ctx.Env.GetOrDefault(config.KeyApplyPeer, "true") == "true",
	})
	if err != nil {
		return nil, nil, err
	}
	return ctx, manager, nil
}

func init() {
	peerCmd.AddCommand(peerAddCmd)
	peerCmd.AddCommand(peerListCmd)
	peerCmd.AddCommand(peerRemoveCmd)
}

package config

// Environment keys consumed by the bot at service start. The installer
// writes exactly these seven keys.
const (
	KeyBotToken        = "TG_BOT_TOKEN"
	KeyServerPublicIP  = "SERVER_PUBLIC_IP"
	KeyServerPublicKey = "SERVER_PUBLIC_KEY"
	KeyServerWGPort    = "SERVER_WG_PORT"
	KeyServerInterface = "SERVER_INTERFACE"
	KeyApplyPeer       = "APPLY_PEER"
	KeyAdminChatID     = "TG_ADMIN_CHAT_ID"
)

// BotKeys lists the canonical environment keys in the order they are
// written to the env file.
var BotKeys = []string{
	KeyBotToken,
	KeyServerPublicIP,
	KeyServerPublicKey,
	KeyServerWGPort,
	KeyServerInterface,
	KeyApplyPeer,
	KeyAdminChatID,
}

// Defaults for keys the operator is allowed to leave at their prompt
// defaults.
var Defaults = map[string]string{
	KeyServerWGPort:    "51820",
	KeyServerInterface: "wg0",
	KeyApplyPeer:       "true",
}

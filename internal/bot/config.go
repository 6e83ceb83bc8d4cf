// Package bot implements the Telegram bot runtime. Configuration comes
// from the environment file the installer writes, injected by systemd.
package bot

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mvolkov/wg-peer-bot/internal/common"
	"github.com/mvolkov/wg-peer-bot/internal/config"
)

// Config holds the bot runtime configuration.
type Config struct {
	BotToken        string
	ServerPublicIP  string
	ServerPublicKey string
	ServerWGPort    string
	ServerInterface string
	ApplyPeer       bool
	AdminChatID     int64 // 0 means no admin gate
	ClientDir       string
}

// LoadConfig reads the configuration from the process environment. The
// bot refuses to start without the keys that end up inside every client
// config.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		BotToken:        os.Getenv(config.KeyBotToken),
		ServerPublicIP:  os.Getenv(config.KeyServerPublicIP),
		ServerPublicKey: os.Getenv(config.KeyServerPublicKey),
		ServerWGPort:    envOrDefault(config.KeyServerWGPort),
		ServerInterface: envOrDefault(config.KeyServerInterface),
		ClientDir:       "", // store default
	}

	if cfg.BotToken == "" {
		return nil, fmt.Errorf("%s is not set", config.KeyBotToken)
	}
	if cfg.ServerPublicIP == "" {
		return nil, fmt.Errorf("%s is not set", config.KeyServerPublicIP)
	}
	if cfg.ServerPublicKey == "" {
		return nil, fmt.Errorf("%s is not set", config.KeyServerPublicKey)
	}
	if err := common.ValidatePort(cfg.ServerWGPort); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", config.KeyServerWGPort, err)
	}

	cfg.ApplyPeer = strings.EqualFold(envOrDefault(config.KeyApplyPeer), "true")

	if raw := os.Getenv(config.KeyAdminChatID); raw != "" {
		chatID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", config.KeyAdminChatID, err)
		}
		cfg.AdminChatID = chatID
	}

	return cfg, nil
}

func envOrDefault(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return config.Defaults[key]
}

// Package common holds input validation shared by the installer prompts,
// the CLI peer commands, and the bot command handlers.
package common

import (
	"fmt"
	"net"
	"path/filepath"
	"strconv"
	"strings"
)

// ValidateIP validates an IPv4 address
func ValidateIP(ip string) error {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return fmt.Errorf("invalid IP address: %s", ip)
	}

	if parsed.To4() == nil {
		return fmt.Errorf("not a valid IPv4 address: %s", ip)
	}

	return nil
}

// ValidatePort validates a port number (1-65535)
func ValidatePort(port string) error {
	p, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("invalid port number: %s", port)
	}

	if p < 1 || p > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got: %d", p)
	}

	return nil
}

// ValidatePath validates that a path is absolute
func ValidatePath(path string) error {
	if !filepath.IsAbs(path) {
		return fmt.Errorf("path must be absolute: %s", path)
	}
	return nil
}

// ValidateInterfaceName validates a network interface name (IFNAMSIZ limit,
// no separators or whitespace).
func ValidateInterfaceName(name string) error {
	if name == "" {
		return fmt.Errorf("interface name cannot be empty")
	}
	if len(name) > 15 {
		return fmt.Errorf("interface name too long (max 15 characters): %s", name)
	}
	if strings.ContainsAny(name, "/ \t\n") {
		return fmt.Errorf("interface name contains invalid character: %s", name)
	}
	return nil
}

// ValidateClientName validates a WireGuard client name. The name becomes a
// file name under the client config directory, so it is restricted to a
// conservative character set.
func ValidateClientName(name string) error {
	if name == "" {
		return fmt.Errorf("client name cannot be empty")
	}
	if len(name) > 32 {
		return fmt.Errorf("client name too long (max 32 characters): %s", name)
	}

	for _, c := range name {
		if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' || c == '-') {
			return fmt.Errorf("client name may only contain letters, digits, '_' and '-': %s", name)
		}
	}

	return nil
}

// ValidateBotToken performs a shape check on a Telegram bot token
// (numeric id, colon, secret part).
func ValidateBotToken(token string) error {
	if token == "" {
		return fmt.Errorf("bot token cannot be empty")
	}

	parts := strings.SplitN(token, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return fmt.Errorf("bot token must look like <bot-id>:<secret>")
	}
	if _, err := strconv.ParseInt(parts[0], 10, 64); err != nil {
		return fmt.Errorf("bot token must start with a numeric bot id")
	}

	return nil
}

// ValidateChatID validates a Telegram chat id. The empty string is allowed:
// an unset admin chat disables the admin gate.
func ValidateChatID(chatID string) error {
	if chatID == "" {
		return nil
	}
	if _, err := strconv.ParseInt(chatID, 10, 64); err != nil {
		return fmt.Errorf("chat id must be an integer: %s", chatID)
	}
	return nil
}

// ValidateNotEmpty validates that a string is not empty
func ValidateNotEmpty(value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("value cannot be empty")
	}
	return nil
}

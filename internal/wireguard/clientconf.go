package wireguard

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// ClientParams describes one client tunnel configuration.
type ClientParams struct {
	PrivateKey      string
	Address         string // CIDR, e.g. 10.0.0.2/32
	DNS             string
	ServerPublicKey string
	Endpoint        string // host:port
	AllowedIPs      string
	Keepalive       int
}

// DefaultDNS is handed to clients that route all traffic through the tunnel.
const DefaultDNS = "1.1.1.1"

// DefaultKeepalive keeps NAT mappings alive for roaming clients.
const DefaultKeepalive = 25

var clientConfTemplate = template.Must(template.New("client").Parse(`[Interface]
PrivateKey = {{ .PrivateKey }}
Address = {{ .Address }}
DNS = {{ .DNS }}

[Peer]
PublicKey = {{ .ServerPublicKey }}
Endpoint = {{ .Endpoint }}
AllowedIPs = {{ .AllowedIPs }}
PersistentKeepalive = {{ .Keepalive }}
`))

// RenderClientConf renders a client configuration file. Zero-valued
// optional fields fall back to full-tunnel defaults.
func RenderClientConf(params ClientParams) (string, error) {
	if params.PrivateKey == "" {
		return "", fmt.Errorf("client private key is required")
	}
	if params.Address == "" {
		return "", fmt.Errorf("client address is required")
	}
	if params.ServerPublicKey == "" {
		return "", fmt.Errorf("server public key is required")
	}
	if params.Endpoint == "" {
		return "", fmt.Errorf("server endpoint is required")
	}
	if params.DNS == "" {
		params.DNS = DefaultDNS
	}
	if params.AllowedIPs == "" {
		params.AllowedIPs = "0.0.0.0/0"
	}
	if params.Keepalive == 0 {
		params.Keepalive = DefaultKeepalive
	}

	var buf bytes.Buffer
	if err := clientConfTemplate.Execute(&buf, params); err != nil {
		return "", fmt.Errorf("failed to render client config: %w", err)
	}
	return buf.String(), nil
}

// ParseConfValue extracts a single "Key = Value" entry from a config.
// Section headers are ignored; the first match wins.
func ParseConfValue(conf, key string) (string, bool) {
	for _, line := range strings.Split(conf, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "[") {
			continue
		}
		parts := strings.SplitN(trimmed, "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.TrimSpace(parts[0]) == key {
			return strings.TrimSpace(parts[1]), true
		}
	}
	return "", false
}

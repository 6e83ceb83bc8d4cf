package bot

import (
	"bytes"
	"errors"
	"image/png"
	"testing"

	"github.com/cenkalti/backoff/v4"
	tele "gopkg.in/telebot.v3"

	"github.com/mvolkov/wg-peer-bot/internal/config"
)

func TestIsAdmin(t *testing.T) {
	tests := []struct {
		name        string
		adminChatID int64
		chatID      int64
		want        bool
	}{
		{"no gate configured", 0, 12345, true},
		{"admin chat matches", 777, 777, true},
		{"other chat rejected", 777, 12345, false},
		{"negative group id matches", -100123, -100123, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Bot{adminChatID: tt.adminChatID}
			if got := b.isAdmin(tt.chatID); got != tt.want {
				t.Errorf("isAdmin(%d) with admin %d = %v, want %v", tt.chatID, tt.adminChatID, got, tt.want)
			}
		})
	}
}

func TestClassifyConnectError(t *testing.T) {
	// An API answer like 401 Unauthorized must stop the retry loop: a bad
	// token does not get better with time
	apiErr := &tele.Error{Code: 401, Description: "Unauthorized"}
	classified := classifyConnectError(apiErr)

	var permanent *backoff.PermanentError
	if !errors.As(classified, &permanent) {
		t.Fatalf("API error not marked permanent: %v", classified)
	}
	if !errors.Is(classified, apiErr) {
		t.Error("permanent wrapper lost the original API error")
	}

	// Transport errors stay retryable
	netErr := errors.New("dial tcp 149.154.167.220:443: i/o timeout")
	if got := classifyConnectError(netErr); got != netErr {
		t.Errorf("transport error changed: %v", got)
	}
	if errors.As(classifyConnectError(netErr), &permanent) {
		t.Error("transport error marked permanent")
	}
}

func TestConfQRCode(t *testing.T) {
	conf := "[Interface]\nPrivateKey = test\nAddress = 10.0.0.2/32\n"

	data, err := ConfQRCode(conf)
	if err != nil {
		t.Fatalf("ConfQRCode failed: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("QR output is not a valid PNG: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != qrImageSize || bounds.Dy() != qrImageSize {
		t.Errorf("QR image is %dx%d, want %dx%d", bounds.Dx(), bounds.Dy(), qrImageSize, qrImageSize)
	}
}

func setBotEnv(t *testing.T, values map[string]string) {
	t.Helper()
	for _, key := range config.BotKeys {
		t.Setenv(key, "")
	}
	for key, value := range values {
		t.Setenv(key, value)
	}
}

func TestLoadConfig(t *testing.T) {
	setBotEnv(t, map[string]string{
		config.KeyBotToken:        "123:abc",
		config.KeyServerPublicIP:  "203.0.113.10",
		config.KeyServerPublicKey: "serverpub=",
		config.KeyAdminChatID:     "42",
	})

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.ServerWGPort != "51820" {
		t.Errorf("ServerWGPort = %s, want default 51820", cfg.ServerWGPort)
	}
	if cfg.ServerInterface != "wg0" {
		t.Errorf("ServerInterface = %s, want default wg0", cfg.ServerInterface)
	}
	if !cfg.ApplyPeer {
		t.Error("ApplyPeer should default to true")
	}
	if cfg.AdminChatID != 42 {
		t.Errorf("AdminChatID = %d, want 42", cfg.AdminChatID)
	}
}

func TestLoadConfigMissingRequired(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing token", map[string]string{
			config.KeyServerPublicIP:  "203.0.113.10",
			config.KeyServerPublicKey: "serverpub=",
		}},
		{"missing server ip", map[string]string{
			config.KeyBotToken:        "123:abc",
			config.KeyServerPublicKey: "serverpub=",
		}},
		{"missing server key", map[string]string{
			config.KeyBotToken:       "123:abc",
			config.KeyServerPublicIP: "203.0.113.10",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBotEnv(t, tt.env)
			if _, err := LoadConfig(); err == nil {
				t.Error("LoadConfig succeeded, want error")
			}
		})
	}
}

func TestLoadConfigApplyPeerDisabled(t *testing.T) {
	setBotEnv(t, map[string]string{
		config.KeyBotToken:        "123:abc",
		config.KeyServerPublicIP:  "203.0.113.10",
		config.KeyServerPublicKey: "serverpub=",
		config.KeyApplyPeer:       "false",
	})

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.ApplyPeer {
		t.Error("ApplyPeer = true, want false")
	}
}

func TestLoadConfigBadAdminChatID(t *testing.T) {
	setBotEnv(t, map[string]string{
		config.KeyBotToken:        "123:abc",
		config.KeyServerPublicIP:  "203.0.113.10",
		config.KeyServerPublicKey: "serverpub=",
		config.KeyAdminChatID:     "not-a-number",
	})

	if _, err := LoadConfig(); err == nil {
		t.Error("LoadConfig accepted a non-numeric admin chat id")
	}
}

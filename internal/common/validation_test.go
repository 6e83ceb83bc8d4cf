package common

import "testing"

func TestValidateIP(t *testing.T) {
	tests := []struct {
		name    string
		ip      string
		wantErr bool
	}{
		{"valid public IPv4", "203.0.113.10", false},
		{"valid private IPv4", "10.0.0.1", false},
		{"IPv6 rejected", "2001:db8::1", true},
		{"hostname rejected", "vpn.example.com", true},
		{"empty", "", true},
		{"garbage", "not-an-ip", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIP(tt.ip)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateIP(%q) error = %v, wantErr %v", tt.ip, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePort(t *testing.T) {
	tests := []struct {
		name    string
		port    string
		wantErr bool
	}{
		{"default wireguard port", "51820", false},
		{"port 1", "1", false},
		{"port 65535", "65535", false},
		{"port 0", "0", true},
		{"port too large", "65536", true},
		{"not a number", "wg", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePort(tt.port)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePort(%q) error = %v, wantErr %v", tt.port, err, tt.wantErr)
			}
		})
	}
}

func TestValidateClientName(t *testing.T) {
	tests := []struct {
		name       string
		clientName string
		wantErr    bool
	}{
		{"simple", "laptop", false},
		{"with digits and dash", "phone-2", false},
		{"with underscore", "work_vpn", false},
		{"empty", "", true},
		{"path traversal", "../etc/passwd", true},
		{"slash", "a/b", true},
		{"space", "my laptop", true},
		{"dot", "laptop.conf", true},
		{"too long", "abcdefghijklmnopqrstuvwxyz0123456789", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateClientName(tt.clientName)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateClientName(%q) error = %v, wantErr %v", tt.clientName, err, tt.wantErr)
			}
		})
	}
}

func TestValidateBotToken(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{"typical token", "123456789:AAHdqTcvCH1vGWJxfSeofSAs0K5PALDsaw", false},
		{"empty", "", true},
		{"no colon", "123456789", true},
		{"non-numeric id", "abc:secret", true},
		{"missing secret", "123456789:", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBotToken(tt.token)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateBotToken(%q) error = %v, wantErr %v", tt.token, err, tt.wantErr)
			}
		})
	}
}

func TestValidateChatID(t *testing.T) {
	tests := []struct {
		name    string
		chatID  string
		wantErr bool
	}{
		{"empty is allowed", "", false},
		{"positive id", "123456789", false},
		{"negative group id", "-1001234567890", false},
		{"not a number", "admin", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChatID(tt.chatID)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateChatID(%q) error = %v, wantErr %v", tt.chatID, err, tt.wantErr)
			}
		})
	}
}

func TestValidateInterfaceName(t *testing.T) {
	tests := []struct {
		name    string
		iface   string
		wantErr bool
	}{
		{"wg0", "wg0", false},
		{"empty", "", true},
		{"too long", "wg0123456789abcd", true},
		{"with slash", "wg/0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInterfaceName(tt.iface)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateInterfaceName(%q) error = %v, wantErr %v", tt.iface, err, tt.wantErr)
			}
		})
	}
}

package wireguard

import (
	"fmt"
	"net"

	"golang.zx2c4.com/wireguard/wgctrl"
	"golang.zx2c4.com/wireguard/wgctrl/wgtypes"
)

// Device controls a kernel WireGuard interface through wgctrl.
type Device struct {
	iface string
}

// NewDevice creates a Device for the named interface.
func NewDevice(iface string) *Device {
	return &Device{iface: iface}
}

// Interface returns the interface name.
func (d *Device) Interface() string {
	return d.iface
}

// PublicKey reads the interface's public key. An unconfigured interface
// (all-zero key) is an error: the server cannot hand out client configs
// without a key to put in them.
func (d *Device) PublicKey() (string, error) {
	client, err := wgctrl.New()
	if err != nil {
		return "", fmt.Errorf("failed to open wireguard control client: %w", err)
	}
	defer client.Close()

	dev, err := client.Device(d.iface)
	if err != nil {
		return "", fmt.Errorf("failed to read wireguard interface %s: %w", d.iface, err)
	}

	if dev.PublicKey == (wgtypes.Key{}) {
		return "", fmt.Errorf("wireguard interface %s has no public key", d.iface)
	}
	return dev.PublicKey.String(), nil
}

// ApplyPeer adds (or updates) a peer on the interface, restricting it to
// the given tunnel address in CIDR form.
func (d *Device) ApplyPeer(publicKey, allowedIP string) error {
	key, err := wgtypes.ParseKey(publicKey)
	if err != nil {
		return fmt.Errorf("invalid peer public key: %w", err)
	}

	_, ipNet, err := net.ParseCIDR(allowedIP)
	if err != nil {
		return fmt.Errorf("invalid allowed IP %s: %w", allowedIP, err)
	}

	client, err := wgctrl.New()
	if err != nil {
		return fmt.Errorf("failed to open wireguard control client: %w", err)
	}
	defer client.Close()

	cfg := wgtypes.Config{
		Peers: []wgtypes.PeerConfig{{
			PublicKey:         key,
			ReplaceAllowedIPs: true,
			AllowedIPs:        []net.IPNet{*ipNet},
		}},
	}
	if err := client.ConfigureDevice(d.iface, cfg); err != nil {
		return fmt.Errorf("failed to apply peer to %s: %w", d.iface, err)
	}
	return nil
}

// RemovePeer drops a peer from the interface. Removing a peer that is not
// configured is not an error.
func (d *Device) RemovePeer(publicKey string) error {
	key, err := wgtypes.ParseKey(publicKey)
	if err != nil {
		return fmt.Errorf("invalid peer public key: %w", err)
	}

	client, err := wgctrl.New()
	if err != nil {
		return fmt.Errorf("failed to open wireguard control client: %w", err)
	}
	defer client.Close()

	cfg := wgtypes.Config{
		Peers: []wgtypes.PeerConfig{{
			PublicKey: key,
			Remove:    true,
		}},
	}
	if err := client.ConfigureDevice(d.iface, cfg); err != nil {
		return fmt.Errorf("failed to remove peer from %s: %w", d.iface, err)
	}
	return nil
}

// Package wireguard implements the peer-management core: key generation,
// client config rendering, the on-disk client store, and the kernel device
// control via wgctrl.
package wireguard

import (
	"fmt"

	"golang.zx2c4.com/wireguard/wgctrl/wgtypes"
)

// GenerateKeyPair generates a new private/public key pair.
func GenerateKeyPair() (privateKey, publicKey string, err error) {
	privKey, err := wgtypes.GeneratePrivateKey()
	if err != nil {
		return "", "", fmt.Errorf("failed to generate private key: %w", err)
	}
	return privKey.String(), privKey.PublicKey().String(), nil
}

// DerivePublicKey derives the public key from a private key.
func DerivePublicKey(privateKey string) (string, error) {
	key, err := wgtypes.ParseKey(privateKey)
	if err != nil {
		return "", fmt.Errorf("invalid private key: %w", err)
	}
	return key.PublicKey().String(), nil
}

// ValidateKey checks that a string is a well-formed WireGuard key.
func ValidateKey(key string) error {
	if _, err := wgtypes.ParseKey(key); err != nil {
		return fmt.Errorf("invalid WireGuard key: %w", err)
	}
	return nil
}

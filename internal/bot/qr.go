package bot

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// qrImageSize is the edge length in pixels of generated QR PNGs. Large
// enough for phone cameras to scan a full client config.
const qrImageSize = 512

// ConfQRCode renders a client config as a PNG QR code, the same payload
// the official WireGuard mobile apps import.
func ConfQRCode(conf string) ([]byte, error) {
	png, err := qrcode.Encode(conf, qrcode.Medium, qrImageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config QR code: %w", err)
	}
	return png, nil
}

// Package qr encodes verification URLs as inline PNG images suitable for
// embedding directly into an HTML document.
package qr

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// Size is the pixel width of generated QR images.
const Size = 300

// DataURL encodes url as a QR code and returns it as a base64 PNG data URL.
// Output is deterministic for a given url.
func DataURL(url string) (string, error) {
	png, err := qrcode.Encode(url, qrcode.Medium, Size)
	if err != nil {
		return "", fmt.Errorf("encode qr code: %w", err)
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

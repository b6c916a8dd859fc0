package webhooks

import (
	"encoding/base64"

	"github.com/skip2/go-qrcode"
	apperrors "hooklog/internal/pkg/errors"
)

const (
	defaultQRSize = 256
	minQRSize     = 128
	maxQRSize     = 2048
)

// GenerateQRCode renders ingestURL as a PNG data URI.
func GenerateQRCode(ingestURL string, size int) (string, error) {
	if size == 0 {
		size = defaultQRSize
	}

	if size < minQRSize || size > maxQRSize {
		return "", apperrors.Validation("size must be between 128 and 2048")
	}

	qr, err := qrcode.New(ingestURL, qrcode.Medium)
	if err != nil {
		return "", err
	}

	png, err := qr.PNG(size)
	if err != nil {
		return "", err
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

func IngestURL(publicURL, endpoint string) string {
	for len(publicURL) > 0 && publicURL[len(publicURL)-1] == '/' {
		publicURL = publicURL[:len(publicURL)-1]
	}
	return publicURL + "/webhook/" + endpoint
}

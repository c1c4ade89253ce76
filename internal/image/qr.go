package imagepkg

import (
	"errors"
	"image"

	qrcode "github.com/skip2/go-qrcode"
)

// GenerateQRPNG returns PNG bytes of a QR code for the given text.
func GenerateQRPNG(text string, size int) ([]byte, error) {
	if text == "" {
		return nil, errors.New("qr: empty text")
	}
	return qrcode.Encode(text, qrcode.Medium, size)
}

// GenerateQRImage returns the QR code as an image for composition.
func GenerateQRImage(text string, size int) (image.Image, error) {
	if text == "" {
		return nil, errors.New("qr: empty text")
	}
	q, err := qrcode.New(text, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	return q.Image(size), nil
}

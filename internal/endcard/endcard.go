// Package endcard builds the closing QR overlay pointing at the story's
// web edition.
package endcard

import (
	"fmt"
	"image"
	"image/draw"

	qrcode "github.com/skip2/go-qrcode"
)

// Build renders link as a size×size QR code on an opaque white card.
func Build(link string, size int) (*image.NRGBA, error) {
	if link == "" {
		return nil, fmt.Errorf("empty end card link")
	}
	if size < 64 {
		size = 64
	}

	qr, err := qrcode.New(link, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("building qr code: %w", err)
	}

	src := qr.Image(size)
	card := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.Draw(card, card.Bounds(), src, src.Bounds().Min, draw.Src)
	return card, nil
}

package text

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

var (
	parseOnce   sync.Once
	regularFont *sfnt.Font
	boldFont    *sfnt.Font
	parseErr    error
)

func parseFonts() {
	regularFont, parseErr = opentype.Parse(goregular.TTF)
	if parseErr != nil {
		return
	}
	boldFont, parseErr = opentype.Parse(gobold.TTF)
}

// RegularFace returns a caption face at the given pixel size.
func RegularFace(sizePx float64) (font.Face, error) {
	return newFace(func() *sfnt.Font { return regularFont }, sizePx)
}

// BoldFace returns a title face at the given pixel size.
func BoldFace(sizePx float64) (font.Face, error) {
	return newFace(func() *sfnt.Font { return boldFont }, sizePx)
}

func newFace(pick func() *sfnt.Font, sizePx float64) (font.Face, error) {
	parseOnce.Do(parseFonts)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing embedded font: %w", parseErr)
	}
	// 72 DPI makes the point size equal to the pixel size.
	face, err := opentype.NewFace(pick(), &opentype.FaceOptions{
		Size:    sizePx,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("building font face: %w", err)
	}
	return face, nil
}

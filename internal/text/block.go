package text

import (
	"image"
	"image/color"
	"log"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Block is a rasterized multi-line run of text, ready to be composed onto
// a panel.
type Block struct {
	Image  *image.NRGBA
	Width  int
	Height int
	Lines  []string
}

// RenderBlock draws wrapped text into a tightly sized NRGBA buffer. The
// buffer width is the widest line, the height is lineHeight times the line
// count. Text that measures to a zero-sized buffer is dropped with a
// diagnostic and nil is returned; the scene goes on without it.
func RenderBlock(wrapped string, face font.Face, col color.Color) *Block {
	lines := strings.Split(strings.TrimRight(wrapped, "\n"), "\n")

	metrics := face.Metrics()
	lineHeight := (metrics.Ascent + metrics.Descent).Ceil()

	width := 0
	for _, line := range lines {
		if w := font.MeasureString(face, line).Ceil(); w > width {
			width = w
		}
	}
	height := lineHeight * len(lines)

	if width <= 0 || height <= 0 {
		log.Printf("[!] Text block %q measured to %dx%d, dropping", firstLine(lines), width, height)
		return nil
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
	}
	for i, line := range lines {
		drawer.Dot = fixed.Point26_6{
			X: 0,
			Y: fixed.I(i*lineHeight) + metrics.Ascent,
		}
		drawer.DrawString(line)
	}

	return &Block{Image: img, Width: width, Height: height, Lines: lines}
}

func firstLine(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return lines[0]
}

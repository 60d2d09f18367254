package text

import (
	"image"
	"image/color"
	"math"

	"github.com/ivlev/story2video/internal/config"
)

// GradientPanel builds an NRGBA panel whose alpha ramps linearly along the
// direction axis: fully opaque (scaled by maxOpacity) at the dir edge,
// fully transparent at the opposite edge. Color channels stay constant;
// NRGBA keeps the alpha straight, which is what PNG overlays need.
// Non-positive sizes return a transparent 1x1 panel.
func GradientPanel(w, h int, dir config.Direction, base color.NRGBA, maxOpacity float64) *image.NRGBA {
	if w <= 0 || h <= 0 {
		return image.NewNRGBA(image.Rect(0, 0, 1, 1))
	}
	if maxOpacity < 0 {
		maxOpacity = 0
	} else if maxOpacity > 1 {
		maxOpacity = 1
	}

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	spanX := float64(w - 1)
	spanY := float64(h - 1)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var ramp float64
			switch dir {
			case config.DirLeft:
				ramp = 1 - axis(float64(x), spanX)
			case config.DirRight:
				ramp = axis(float64(x), spanX)
			case config.DirTop:
				ramp = 1 - axis(float64(y), spanY)
			case config.DirBottom:
				ramp = axis(float64(y), spanY)
			default:
				ramp = 1 - axis(float64(x), spanX)
			}
			alpha := uint8(math.Round(ramp * 255 * maxOpacity))
			img.SetNRGBA(x, y, color.NRGBA{R: base.R, G: base.G, B: base.B, A: alpha})
		}
	}
	return img
}

func axis(pos, span float64) float64 {
	if span <= 0 {
		return 1
	}
	return pos / span
}

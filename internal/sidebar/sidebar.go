// Package sidebar composes the per-scene text panel: a directional alpha
// gradient with the wrapped title and caption drawn over it.
package sidebar

import (
	"image"
	"image/color"
	"image/draw"
	"log"

	"github.com/ivlev/story2video/internal/config"
	"github.com/ivlev/story2video/internal/text"
)

const (
	// Fixed vertical gap between the title and caption blocks.
	titleCaptionGap = 20

	panelOversize = 1.2
	textColumn    = 0.8
	paddingRatio  = 0.1

	gradientOpacity = 0.65
)

var (
	panelColor   = color.NRGBA{R: 8, G: 8, B: 12}
	titleColor   = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	captionColor = color.NRGBA{R: 225, G: 225, B: 230, A: 255}
)

// Overlay is the finished panel plus its dimensions, which the sequencer
// needs for slide geometry.
type Overlay struct {
	Image  *image.NRGBA
	Width  int
	Height int
}

// Build renders the sidebar for the requested w×h region. Left/right
// panels grow 20% wider than requested so the gradient bleeds past the
// text; top/bottom panels grow 20% taller. The text column takes 80% of
// the requested width and anchors with a padding of 10% of the requested
// height. Returns nil when both strings are empty or nothing rasterized.
func Build(w, h int, dir config.Direction, title, caption string, titleSize, captionSize int) *Overlay {
	if title == "" && caption == "" {
		return nil
	}

	panelW, panelH := w, h
	switch dir {
	case config.DirLeft, config.DirRight:
		panelW = int(panelOversize * float64(w))
	case config.DirTop, config.DirBottom:
		panelH = int(panelOversize * float64(h))
	}
	if panelW <= 0 || panelH <= 0 {
		return nil
	}

	textWidth := int(textColumn * float64(w))
	pad := int(paddingRatio * float64(h))

	var titleBlock, captionBlock *text.Block
	if title != "" {
		face, err := text.BoldFace(float64(titleSize))
		if err != nil {
			log.Printf("[!] Title face unavailable: %v", err)
		} else {
			titleBlock = text.RenderBlock(text.Wrap(title, textWidth, titleSize), face, titleColor)
		}
	}
	if caption != "" {
		face, err := text.RegularFace(float64(captionSize))
		if err != nil {
			log.Printf("[!] Caption face unavailable: %v", err)
		} else {
			captionBlock = text.RenderBlock(text.Wrap(caption, textWidth, captionSize), face, captionColor)
		}
	}
	if titleBlock == nil && captionBlock == nil {
		return nil
	}

	panel := text.GradientPanel(panelW, panelH, dir, panelColor, gradientOpacity)

	totalTextH := 0
	if titleBlock != nil {
		totalTextH += titleBlock.Height
	}
	if captionBlock != nil {
		if titleBlock != nil {
			totalTextH += titleCaptionGap
		}
		totalTextH += captionBlock.Height
	}

	// Bottom panels hang the text above the lower padding edge, everything
	// else hangs it below the upper one.
	y := pad
	if dir == config.DirBottom {
		y = panelH - pad - totalTextH
	}

	if titleBlock != nil {
		compose(panel, titleBlock, dir, panelW, pad, y)
		y += titleBlock.Height + titleCaptionGap
	}
	if captionBlock != nil {
		compose(panel, captionBlock, dir, panelW, pad, y)
	}

	return &Overlay{Image: panel, Width: panelW, Height: panelH}
}

func compose(panel *image.NRGBA, block *text.Block, dir config.Direction, panelW, pad, y int) {
	x := pad
	if dir == config.DirRight {
		x = panelW - block.Width - pad
	}
	r := image.Rect(x, y, x+block.Width, y+block.Height)
	draw.Draw(panel, r, block.Image, image.Point{}, draw.Over)
}

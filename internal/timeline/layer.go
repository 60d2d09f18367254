package timeline

import (
	"image"

	"github.com/ivlev/story2video/internal/geometry"
)

// LayerKind tells the renderer what a layer is backed by.
type LayerKind int

const (
	// KindBackground is the opaque canvas the whole movie sits on. The
	// renderer synthesizes it; the sequencer never emits one.
	KindBackground LayerKind = iota
	// KindFreezeFrame holds the first frame of a scene's clip during the
	// intro animation.
	KindFreezeFrame
	// KindVideo is the scene's clip itself, possibly looped to cover its
	// narration.
	KindVideo
	// KindSidebar is a pre-rendered image overlay: the text panel or the
	// closing QR card.
	KindSidebar
)

// Layer is one time-positioned element of the movie. Layers are immutable
// descriptions; nothing is decoded or rendered until the render stage
// materializes the whole list in a single pass.
type Layer struct {
	Kind     LayerKind
	Start    float64
	Duration float64

	// Video-backed layers.
	Source           string
	Crop             geometry.CropPlan
	LoopCount        int // extra whole copies of the clip
	Audio            string
	UseEmbeddedAudio bool

	// Image-backed layers.
	Image *image.NRGBA

	// Docked position on the canvas and the way the layer arrives there.
	X, Y   float64
	FadeIn float64
	Slide  *Slide
}

// End is the absolute time the layer leaves the canvas.
func (l Layer) End() float64 {
	return l.Start + l.Duration
}

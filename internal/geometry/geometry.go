package geometry

import (
	"fmt"
	"math"
)

// CropPlan describes how to bring a source frame to the target canvas:
// scale to ScaleW×ScaleH, then cut a CropW×CropH window at (OffsetX, OffsetY).
// The window always equals the target size, so there is never letterboxing.
type CropPlan struct {
	ScaleW, ScaleH   int
	CropW, CropH     int
	OffsetX, OffsetY int
	identity         bool
}

// Fit computes the aspect-fill plan for a srcW×srcH frame on a dstW×dstH
// canvas. A wider-than-target source is scaled to the target height and
// center-cropped horizontally; a taller or equally proportioned source is
// scaled to the target width and center-cropped vertically. Degenerate
// sizes yield an identity plan.
func Fit(srcW, srcH, dstW, dstH int) CropPlan {
	if srcW <= 0 || srcH <= 0 || dstW <= 0 || dstH <= 0 {
		return CropPlan{identity: true}
	}

	srcAspect := float64(srcW) / float64(srcH)
	dstAspect := float64(dstW) / float64(dstH)

	var scaleW, scaleH int
	if srcAspect > dstAspect {
		scaleH = dstH
		scaleW = int(math.Round(float64(srcW) * float64(dstH) / float64(srcH)))
		if scaleW < dstW {
			scaleW = dstW
		}
	} else {
		scaleW = dstW
		scaleH = int(math.Round(float64(srcH) * float64(dstW) / float64(srcW)))
		if scaleH < dstH {
			scaleH = dstH
		}
	}

	return CropPlan{
		ScaleW:  scaleW,
		ScaleH:  scaleH,
		CropW:   dstW,
		CropH:   dstH,
		OffsetX: (scaleW - dstW) / 2,
		OffsetY: (scaleH - dstH) / 2,
	}
}

// Identity reports whether the plan leaves the frame untouched. The zero
// value is an identity plan.
func (p CropPlan) Identity() bool {
	return p.identity || p.CropW <= 0 || p.CropH <= 0
}

// Filter renders the plan as an FFmpeg scale,crop chain. Identity plans
// render as an empty string so callers can splice it conditionally.
func (p CropPlan) Filter() string {
	if p.Identity() {
		return ""
	}
	return fmt.Sprintf("scale=%d:%d,crop=%d:%d:%d:%d",
		p.ScaleW, p.ScaleH, p.CropW, p.CropH, p.OffsetX, p.OffsetY)
}

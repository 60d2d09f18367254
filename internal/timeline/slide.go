package timeline

import (
	"fmt"

	"github.com/ivlev/story2video/internal/config"
)

// Slide is a linear move from an off-canvas start to the docked position,
// finished Window seconds after the layer appears. Keeping the endpoints
// explicit (instead of capturing them in a closure) makes the animation
// inspectable and lets the renderer translate it into filter expressions.
type Slide struct {
	StartX, FinalX float64
	StartY, FinalY float64
	Window         float64
}

// At returns the position elapsed seconds after the layer's start. Before
// zero it clamps to the start point, after Window to the final one.
func (s Slide) At(elapsed float64) (x, y float64) {
	if s.Window <= 0 || elapsed >= s.Window {
		return s.FinalX, s.FinalY
	}
	if elapsed <= 0 {
		return s.StartX, s.StartY
	}
	f := elapsed / s.Window
	return s.StartX + (s.FinalX-s.StartX)*f, s.StartY + (s.FinalY-s.StartY)*f
}

// ExprX renders the horizontal position as an FFmpeg overlay expression in
// absolute stream time, given the layer's start on the timeline.
func (s Slide) ExprX(layerStart float64) string {
	return axisExpr(s.StartX, s.FinalX, layerStart, s.Window)
}

// ExprY is ExprX for the vertical axis.
func (s Slide) ExprY(layerStart float64) string {
	return axisExpr(s.StartY, s.FinalY, layerStart, s.Window)
}

func axisExpr(start, final, t0, window float64) string {
	if start == final || window <= 0 {
		return fmt.Sprintf("%.2f", final)
	}
	return fmt.Sprintf("if(lt(t-%.4f\\,%.4f)\\,%.2f+%.2f*(t-%.4f)/%.4f\\,%.2f)",
		t0, window, start, final-start, t0, window, final)
}

// slideIn builds the arrival animation for a w×h layer docked at
// (dockX, dockY) on a canvasW×canvasH canvas, entering from the dir edge.
func slideIn(dir config.Direction, w, h, canvasW, canvasH int, dockX, dockY, window float64) *Slide {
	s := &Slide{StartX: dockX, FinalX: dockX, StartY: dockY, FinalY: dockY, Window: window}
	switch dir {
	case config.DirLeft:
		s.StartX = -float64(w)
	case config.DirRight:
		s.StartX = float64(canvasW)
	case config.DirTop:
		s.StartY = -float64(h)
	case config.DirBottom:
		s.StartY = float64(canvasH)
	}
	return s
}

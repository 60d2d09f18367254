package sidebar

import (
	"testing"

	"github.com/ivlev/story2video/internal/config"
)

func TestBuildLeftPanelSize(t *testing.T) {
	o := Build(300, 1000, config.DirLeft, "Headline", "A short caption.", 40, 28)
	if o == nil {
		t.Fatal("expected an overlay")
	}
	if o.Width != 360 {
		t.Errorf("panel width = %d, want 360 (1.2x requested)", o.Width)
	}
	if o.Height != 1000 {
		t.Errorf("panel height = %d, want 1000", o.Height)
	}
}

func TestBuildBottomPanelSize(t *testing.T) {
	o := Build(1000, 300, config.DirBottom, "Headline", "", 40, 28)
	if o == nil {
		t.Fatal("expected an overlay")
	}
	if o.Width != 1000 {
		t.Errorf("panel width = %d, want 1000", o.Width)
	}
	if o.Height != 360 {
		t.Errorf("panel height = %d, want 360 (1.2x requested)", o.Height)
	}
}

func TestBuildNoText(t *testing.T) {
	if o := Build(300, 1000, config.DirLeft, "", "", 40, 28); o != nil {
		t.Error("panel without any text should not be built")
	}
}

func TestBuildTitleOnly(t *testing.T) {
	o := Build(300, 1000, config.DirRight, "Just a title", "", 40, 28)
	if o == nil {
		t.Fatal("title-only panel should be built")
	}

	// Text must land somewhere on the panel.
	painted := false
	for y := 0; y < o.Height && !painted; y++ {
		for x := 0; x < o.Width; x++ {
			px := o.Image.NRGBAAt(x, y)
			if px.R > 200 && px.A > 200 {
				painted = true
				break
			}
		}
	}
	if !painted {
		t.Error("no title pixels found on the panel")
	}
}

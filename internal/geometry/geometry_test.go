package geometry

import "testing"

func TestFitWiderSource(t *testing.T) {
	// 4K landscape into a vertical canvas: scale to target height, crop width.
	p := Fit(3840, 2160, 1080, 1920)

	if p.ScaleH != 1920 {
		t.Errorf("ScaleH = %d, want 1920", p.ScaleH)
	}
	if p.ScaleW < 1080 {
		t.Errorf("ScaleW = %d, must cover target width", p.ScaleW)
	}
	if p.CropW != 1080 || p.CropH != 1920 {
		t.Errorf("crop window = %dx%d, want 1080x1920", p.CropW, p.CropH)
	}
	if p.OffsetX != (p.ScaleW-1080)/2 {
		t.Errorf("crop not centered: offset %d of %d", p.OffsetX, p.ScaleW)
	}
	if p.OffsetY != 0 {
		t.Errorf("OffsetY = %d, want 0", p.OffsetY)
	}
}

func TestFitTallerSource(t *testing.T) {
	// Portrait phone clip into a 16:9 canvas: scale to target width, crop height.
	p := Fit(1080, 1920, 1920, 1080)

	if p.ScaleW != 1920 {
		t.Errorf("ScaleW = %d, want 1920", p.ScaleW)
	}
	if p.ScaleH < 1080 {
		t.Errorf("ScaleH = %d, must cover target height", p.ScaleH)
	}
	if p.OffsetY != (p.ScaleH-1080)/2 {
		t.Errorf("crop not centered vertically")
	}
	if p.OffsetX != 0 {
		t.Errorf("OffsetX = %d, want 0", p.OffsetX)
	}
}

func TestFitEqualAspect(t *testing.T) {
	p := Fit(1280, 720, 1920, 1080)

	if p.ScaleW != 1920 || p.ScaleH != 1080 {
		t.Errorf("scale = %dx%d, want exact 1920x1080", p.ScaleW, p.ScaleH)
	}
	if p.OffsetX != 0 || p.OffsetY != 0 {
		t.Errorf("equal aspect should need no crop offset")
	}
}

func TestFitDegenerate(t *testing.T) {
	for _, c := range [][4]int{
		{0, 0, 1920, 1080},
		{1920, 0, 1920, 1080},
		{1920, 1080, 1920, 0},
	} {
		p := Fit(c[0], c[1], c[2], c[3])
		if !p.Identity() {
			t.Errorf("Fit(%v) should be identity", c)
		}
		if p.Filter() != "" {
			t.Errorf("identity plan should render an empty filter")
		}
	}
}

func TestFilter(t *testing.T) {
	p := Fit(3840, 2160, 1080, 1920)
	want := "scale=3413:1920,crop=1080:1920:1166:0"
	if got := p.Filter(); got != want {
		t.Errorf("Filter() = %q, want %q", got, want)
	}
}

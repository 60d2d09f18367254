package poster

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewNRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadImagePoster(t *testing.T) {
	path := writePNG(t, t.TempDir(), "poster.png", 32, 48)

	img, err := Load(path, 150)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 32 || b.Dy() != 48 {
		t.Errorf("poster = %dx%d, want 32x48", b.Dx(), b.Dy())
	}
}

func TestImagePosterSinglePage(t *testing.T) {
	path := writePNG(t, t.TempDir(), "poster.png", 8, 8)

	src, err := Open(path, 150)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	if src.PageCount() != 1 {
		t.Errorf("PageCount = %d, want 1", src.PageCount())
	}
	if _, err := src.Render(1); err == nil {
		t.Error("expected error for out-of-range page")
	}
}

func TestLoadMissingPoster(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.png"), 150); err == nil {
		t.Error("expected error for a missing poster")
	}
}

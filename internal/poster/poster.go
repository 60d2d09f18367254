// Package poster loads the still a scene was built from. Posters are
// either plain images or PDF pages: newsletters arrive as PDFs, so the
// first page at a readable DPI is a first-class poster source.
package poster

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// Source yields poster images by page index. Plain images are a
// single-page source.
type Source interface {
	PageCount() int
	Render(index int) (image.Image, error)
	Close() error
}

// Open picks a source by extension.
func Open(path string, dpi int) (Source, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return openPDF(path, dpi)
	}
	return &imageSource{path: path}, nil
}

// Load is the common case: the first (usually only) page of a poster.
func Load(path string, dpi int) (image.Image, error) {
	src, err := Open(path, dpi)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	if src.PageCount() == 0 {
		return nil, fmt.Errorf("poster %s has no pages", path)
	}
	return src.Render(0)
}

type pdfSource struct {
	doc *fitz.Document
	dpi int
}

func openPDF(path string, dpi int) (*pdfSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("opening pdf poster %s: %w", path, err)
	}
	return &pdfSource{doc: doc, dpi: dpi}, nil
}

func (p *pdfSource) PageCount() int {
	return p.doc.NumPage()
}

func (p *pdfSource) Render(index int) (image.Image, error) {
	return p.doc.ImageDPI(index, float64(p.dpi))
}

func (p *pdfSource) Close() error {
	return p.doc.Close()
}

type imageSource struct {
	path string
}

func (s *imageSource) PageCount() int {
	return 1
}

func (s *imageSource) Render(index int) (image.Image, error) {
	if index != 0 {
		return nil, fmt.Errorf("image poster %s has a single page", s.path)
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding poster %s: %w", s.path, err)
	}
	return img, nil
}

func (s *imageSource) Close() error {
	return nil
}

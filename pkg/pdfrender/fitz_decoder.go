package pdfrender

import (
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
)

// baseDPI is the resolution a scale factor of 1.0 maps to.
const baseDPI = 72.0

// FitzDecoder decodes PDF bytes through MuPDF.
type FitzDecoder struct{}

func NewFitzDecoder() *FitzDecoder {
	return &FitzDecoder{}
}

func (d *FitzDecoder) Open(data []byte) (Document, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	return &fitzDocument{doc: doc}, nil
}

type fitzDocument struct {
	doc *fitz.Document
}

func (f *fitzDocument) PageCount() int {
	return f.doc.NumPage()
}

func (f *fitzDocument) PageSize(page int) (float64, float64, error) {
	if page < 1 || page > f.doc.NumPage() {
		return 0, 0, fmt.Errorf("page %d out of range", page)
	}
	bound, err := f.doc.Bound(page - 1)
	if err != nil {
		return 0, 0, fmt.Errorf("page bounds: %w", err)
	}
	return float64(bound.Dx()), float64(bound.Dy()), nil
}

func (f *fitzDocument) RenderPage(page int, scale float64) (image.Image, error) {
	if page < 1 || page > f.doc.NumPage() {
		return nil, fmt.Errorf("page %d out of range", page)
	}
	if scale <= 0 {
		scale = 1.0
	}
	img, err := f.doc.ImageDPI(page-1, baseDPI*scale)
	if err != nil {
		return nil, fmt.Errorf("render page %d: %w", page, err)
	}
	return img, nil
}

func (f *fitzDocument) Close() error {
	return f.doc.Close()
}

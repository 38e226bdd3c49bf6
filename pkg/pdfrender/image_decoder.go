package pdfrender

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// ImageDecoder treats a raster image (JPEG, PNG, WebP) as a single-page document
// so the viewer can handle scanned documents through the same pipeline.
type ImageDecoder struct{}

func NewImageDecoder() *ImageDecoder {
	return &ImageDecoder{}
}

func (d *ImageDecoder) Open(data []byte) (Document, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return &imageDocument{img: img}, nil
}

type imageDocument struct {
	img image.Image
}

func (d *imageDocument) PageCount() int {
	return 1
}

func (d *imageDocument) PageSize(page int) (float64, float64, error) {
	if page != 1 {
		return 0, 0, fmt.Errorf("page %d out of range", page)
	}
	bounds := d.img.Bounds()
	return float64(bounds.Dx()), float64(bounds.Dy()), nil
}

func (d *imageDocument) RenderPage(page int, scale float64) (image.Image, error) {
	if page != 1 {
		return nil, fmt.Errorf("page %d out of range", page)
	}
	if scale <= 0 {
		scale = 1.0
	}
	bounds := d.img.Bounds()
	if scale == 1.0 {
		return d.img, nil
	}
	w := int(float64(bounds.Dx()) * scale)
	h := int(float64(bounds.Dy()) * scale)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), d.img, bounds, xdraw.Over, nil)
	return dst, nil
}

func (d *imageDocument) Close() error {
	d.img = nil
	return nil
}

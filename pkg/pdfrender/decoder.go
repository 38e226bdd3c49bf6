// Package pdfrender wraps the document-decoding collaborator used by the
// viewer: parse raw bytes, expose page count and natural page sizes, and
// rasterize a single page at a given scale.
package pdfrender

import (
	"image"
)

// Document is a decoded, paginated document. Pages are 1-based. The handle
// owns decoder resources and must be released with Close exactly once.
type Document interface {
	// PageCount returns the total number of pages.
	PageCount() int
	// PageSize returns the natural (unscaled) size of a page in points.
	PageSize(page int) (width, height float64, err error)
	// RenderPage rasterizes one page at the given scale factor, where 1.0
	// means the natural page size.
	RenderPage(page int, scale float64) (image.Image, error)
	// Close releases the decoder resources held by the document.
	Close() error
}

// Decoder turns raw file bytes into a Document.
type Decoder interface {
	Open(data []byte) (Document, error)
}

const (
	// FitViewportFraction is the share of the viewport a page is fitted
	// into, leaving a margin around the rendered page.
	FitViewportFraction = 0.9

	// SupersampleFactor is the extra scale applied at render time so the
	// raster stays sharp on high-density displays.
	SupersampleFactor = 2.0
)

// FitScale computes the largest scale factor that fits a page within 90% of
// the viewport while preserving aspect ratio.
func FitScale(pageW, pageH float64, viewportW, viewportH int) float64 {
	if pageW <= 0 || pageH <= 0 || viewportW <= 0 || viewportH <= 0 {
		return 1.0
	}
	scaleW := float64(viewportW) / pageW
	scaleH := float64(viewportH) / pageH
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	return scale * FitViewportFraction
}

// RenderScale is the scale actually handed to the rasterizer for a page
// fitted to the given viewport.
func RenderScale(pageW, pageH float64, viewportW, viewportH int) float64 {
	return FitScale(pageW, pageH, viewportW, viewportH) * SupersampleFactor
}

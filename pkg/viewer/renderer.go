package viewer

import (
	"medvault-be/pkg/pdfrender"
)

// Render failure messages surfaced to the user. The underlying decoder
// errors are logged by the caller, not shown.
const (
	msgLoadFailed   = "unable to display this document"
	msgRenderFailed = "failed to render this page"
)

// Renderer drives document decoding and page rasterization for a session.
// Its methods run the work synchronously; callers wanting async behavior run
// them in a goroutine and rely on the generation check to drop stale results.
type Renderer struct {
	pdf pdfrender.Decoder
	img pdfrender.Decoder
}

func NewRenderer() *Renderer {
	return &Renderer{
		pdf: pdfrender.NewFitzDecoder(),
		img: pdfrender.NewImageDecoder(),
	}
}

// NewRendererWith builds a renderer around explicit decoders.
func NewRendererWith(pdf, img pdfrender.Decoder) *Renderer {
	return &Renderer{pdf: pdf, img: img}
}

// Load decodes raw file bytes for the load issued at gen and renders the
// first page. Decoding failures fail the whole load; a first-page render
// failure leaves the document open with a page-scoped error.
func (r *Renderer) Load(s *Session, gen uint64, data []byte) {
	dec := r.pdf
	if s.Snapshot().Kind == KindImage {
		dec = r.img
	}
	doc, err := dec.Open(data)
	if err != nil {
		s.FailLoad(gen, msgLoadFailed)
		return
	}
	if !s.AttachDocument(gen, doc) {
		return
	}
	r.RenderPage(s, gen, 1)
}

// RenderPage rasterizes one page fitted to the session viewport and checks
// the result back in under gen.
func (r *Renderer) RenderPage(s *Session, gen uint64, page int) {
	doc, _, ok := s.Document()
	if !ok {
		return
	}
	vw, vh := s.Viewport()
	pw, ph, err := doc.PageSize(page)
	if err != nil {
		s.FailPage(gen, page, msgRenderFailed)
		return
	}
	img, err := doc.RenderPage(page, pdfrender.RenderScale(pw, ph, vw, vh))
	if err != nil {
		s.FailPage(gen, page, msgRenderFailed)
		return
	}
	s.ApplyPage(gen, page, img)
}

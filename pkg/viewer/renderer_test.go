package viewer

import (
	"errors"
	"testing"

	"medvault-be/pkg/pdfrender"

	"github.com/stretchr/testify/assert"
)

type fakeDecoder struct {
	doc *fakeDoc
	err error
}

func (d *fakeDecoder) Open(data []byte) (pdfrender.Document, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.doc, nil
}

func TestRendererLoadRendersFirstPage(t *testing.T) {
	doc := &fakeDoc{pages: 4}
	r := NewRendererWith(&fakeDecoder{doc: doc}, &fakeDecoder{err: errors.New("not an image")})

	s := New("sess-1", "report.pdf", KindPDF)
	s.SetViewport(800, 600)
	gen := s.Open()

	r.Load(s, gen, []byte("%PDF-1.7"))

	st := s.Snapshot()
	assert.Equal(t, StateReady, st.LoadState)
	assert.Equal(t, 4, st.TotalPages)
	assert.Equal(t, []int{1}, doc.rendered)

	img, ok := s.Page()
	assert.True(t, ok)
	assert.NotNil(t, img)
}

func TestRendererLoadDecodeFailure(t *testing.T) {
	r := NewRendererWith(&fakeDecoder{err: errors.New("bad header")}, &fakeDecoder{err: errors.New("bad header")})

	s := New("sess-1", "broken.pdf", KindPDF)
	gen := s.Open()

	r.Load(s, gen, []byte("garbage"))

	st := s.Snapshot()
	assert.Equal(t, StateFailed, st.LoadState)
	assert.Equal(t, "unable to display this document", st.Failure)
}

func TestRendererLoadUsesImageDecoderForImages(t *testing.T) {
	imgDoc := &fakeDoc{pages: 1}
	r := NewRendererWith(&fakeDecoder{err: errors.New("not a pdf")}, &fakeDecoder{doc: imgDoc})

	s := New("sess-img", "scan.png", KindImage)
	s.SetViewport(800, 600)
	gen := s.Open()

	r.Load(s, gen, []byte{0x89, 'P', 'N', 'G'})

	assert.Equal(t, StateReady, s.Snapshot().LoadState)
	assert.Equal(t, []int{1}, imgDoc.rendered)
}

func TestRendererStaleLoadDiscarded(t *testing.T) {
	doc := &fakeDoc{pages: 2}
	r := NewRendererWith(&fakeDecoder{doc: doc}, nil)

	s := New("sess-1", "report.pdf", KindPDF)
	gen := s.Open()
	s.Close()

	r.Load(s, gen, []byte("%PDF-1.7"))

	assert.Equal(t, StateClosed, s.Snapshot().LoadState)
	assert.True(t, doc.closed, "stale load must release its document")
	assert.Empty(t, doc.rendered)
}

func TestRendererPageFailureIsPageScoped(t *testing.T) {
	doc := &fakeDoc{pages: 3, failPages: map[int]bool{2: true}}
	r := NewRendererWith(&fakeDecoder{doc: doc}, nil)

	s := New("sess-1", "report.pdf", KindPDF)
	s.SetViewport(800, 600)
	gen := s.Open()
	r.Load(s, gen, []byte("%PDF-1.7"))

	page, gen, changed := s.SetPage(2)
	assert.True(t, changed)
	r.RenderPage(s, gen, page)

	st := s.Snapshot()
	assert.Equal(t, StateReady, st.LoadState)
	assert.Equal(t, "failed to render this page", st.PageError)

	// Other pages still render fine.
	page, gen, changed = s.SetPage(3)
	assert.True(t, changed)
	r.RenderPage(s, gen, page)

	st = s.Snapshot()
	assert.Empty(t, st.PageError)
	assert.Equal(t, 3, st.CurrentPage)
}

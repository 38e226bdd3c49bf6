package viewer

import (
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeDoc is an in-memory document with a fixed page count. Pages render as
// tiny rasters unless the page number is in failPages.
type fakeDoc struct {
	pages     int
	failPages map[int]bool
	closed    bool
	rendered  []int
}

func (d *fakeDoc) PageCount() int { return d.pages }

func (d *fakeDoc) PageSize(page int) (float64, float64, error) {
	if page < 1 || page > d.pages {
		return 0, 0, errors.New("page out of range")
	}
	return 612, 792, nil
}

func (d *fakeDoc) RenderPage(page int, scale float64) (image.Image, error) {
	if d.failPages[page] {
		return nil, errors.New("render failed")
	}
	d.rendered = append(d.rendered, page)
	return image.NewRGBA(image.Rect(0, 0, 10, 10)), nil
}

func (d *fakeDoc) Close() error {
	d.closed = true
	return nil
}

func readySession(t *testing.T, pages int) (*Session, *fakeDoc, uint64) {
	t.Helper()
	s := New("sess-1", "report.pdf", KindPDF)
	s.SetViewport(800, 600)
	gen := s.Open()
	doc := &fakeDoc{pages: pages}
	if !s.AttachDocument(gen, doc) {
		t.Fatal("AttachDocument rejected the current generation")
	}
	if !s.ApplyPage(gen, 1, image.NewRGBA(image.Rect(0, 0, 1, 1))) {
		t.Fatal("ApplyPage rejected the current generation")
	}
	return s, doc, gen
}

func TestSessionLifecycle(t *testing.T) {
	s := New("sess-1", "report.pdf", KindPDF)
	assert.Equal(t, StateIdle, s.Snapshot().LoadState)

	gen := s.Open()
	st := s.Snapshot()
	assert.Equal(t, StateLoading, st.LoadState)
	assert.Equal(t, 1.0, st.Zoom)
	assert.Equal(t, 1, st.CurrentPage)

	doc := &fakeDoc{pages: 3}
	assert.True(t, s.AttachDocument(gen, doc))
	st = s.Snapshot()
	assert.Equal(t, 3, st.TotalPages)
	assert.True(t, st.Rendering)

	assert.True(t, s.ApplyPage(gen, 1, image.NewRGBA(image.Rect(0, 0, 1, 1))))
	st = s.Snapshot()
	assert.Equal(t, StateReady, st.LoadState)
	assert.False(t, st.Rendering)

	s.Close()
	assert.Equal(t, StateClosed, s.Snapshot().LoadState)
	assert.True(t, doc.closed)

	// Close is idempotent
	s.Close()
	assert.Equal(t, StateClosed, s.Snapshot().LoadState)
}

func TestSessionStaleResultsDropped(t *testing.T) {
	s := New("sess-1", "report.pdf", KindPDF)
	gen := s.Open()

	// A reopen invalidates everything issued under the old generation.
	s.Open()

	stale := &fakeDoc{pages: 3}
	assert.False(t, s.AttachDocument(gen, stale))
	assert.True(t, stale.closed, "stale document handle must be released")

	assert.False(t, s.FailLoad(gen, "too late"))
	assert.Equal(t, StateLoading, s.Snapshot().LoadState)
}

func TestSessionStalePageRenderDropped(t *testing.T) {
	s, _, _ := readySession(t, 5)

	_, oldGen, _ := s.Document()
	page, newGen, changed := s.SetPage(2)
	assert.True(t, changed)
	assert.Equal(t, 2, page)
	assert.NotEqual(t, oldGen, newGen)

	// A raster finished under the old generation must not land.
	assert.False(t, s.ApplyPage(oldGen, 1, image.NewRGBA(image.Rect(0, 0, 1, 1))))
	assert.True(t, s.Snapshot().Rendering)

	// The current generation's raster for the current page lands.
	assert.True(t, s.ApplyPage(newGen, 2, image.NewRGBA(image.Rect(0, 0, 1, 1))))
	assert.False(t, s.Snapshot().Rendering)
}

func TestSessionFailLoad(t *testing.T) {
	s := New("sess-1", "broken.pdf", KindPDF)
	gen := s.Open()
	assert.True(t, s.FailLoad(gen, "unable to display this document"))

	st := s.Snapshot()
	assert.Equal(t, StateFailed, st.LoadState)
	assert.Equal(t, "unable to display this document", st.Failure)
}

func TestSessionFailPageKeepsDocumentOpen(t *testing.T) {
	s, _, _ := readySession(t, 3)

	page, gen, changed := s.SetPage(2)
	assert.True(t, changed)
	assert.True(t, s.FailPage(gen, page, "failed to render this page"))

	st := s.Snapshot()
	assert.Equal(t, StateReady, st.LoadState)
	assert.Equal(t, "failed to render this page", st.PageError)
	assert.Equal(t, 2, st.CurrentPage)

	// Navigating away clears the page error.
	page, gen, changed = s.SetPage(3)
	assert.True(t, changed)
	assert.Empty(t, s.Snapshot().PageError)
	assert.True(t, s.ApplyPage(gen, page, image.NewRGBA(image.Rect(0, 0, 1, 1))))
}

func TestSessionZoomClamp(t *testing.T) {
	s, _, _ := readySession(t, 1)

	for i := 0; i < 30; i++ {
		s.AdjustZoom(ZoomStep)
	}
	assert.Equal(t, MaxZoom, s.Snapshot().Zoom)

	for i := 0; i < 60; i++ {
		s.AdjustZoom(-ZoomStep)
	}
	assert.Equal(t, MinZoom, s.Snapshot().Zoom)
}

func TestSessionZoomOutResetsPan(t *testing.T) {
	s, _, _ := readySession(t, 1)

	s.AdjustZoom(ZoomStep) // 1.25
	assert.True(t, s.Pan(40, -25))
	st := s.Snapshot()
	assert.Equal(t, 40.0, st.PosX)
	assert.Equal(t, -25.0, st.PosY)

	// Dropping to 1.0 or below recenters.
	s.AdjustZoom(-ZoomStep)
	st = s.Snapshot()
	assert.Equal(t, 1.0, st.Zoom)
	assert.Equal(t, 0.0, st.PosX)
	assert.Equal(t, 0.0, st.PosY)
}

func TestSessionPanRequiresZoom(t *testing.T) {
	s, _, _ := readySession(t, 1)

	assert.False(t, s.Pan(10, 10), "pan at zoom 1.0 must be rejected")
	st := s.Snapshot()
	assert.Equal(t, 0.0, st.PosX)
	assert.Equal(t, 0.0, st.PosY)
}

func TestSessionResetZoom(t *testing.T) {
	s, _, _ := readySession(t, 1)

	s.AdjustZoom(2.0)
	s.Pan(100, 100)
	s.ResetZoom()

	st := s.Snapshot()
	assert.Equal(t, 1.0, st.Zoom)
	assert.Equal(t, 0.0, st.PosX)
	assert.Equal(t, 0.0, st.PosY)

	// Reset is idempotent
	s.ResetZoom()
	assert.Equal(t, 1.0, s.Snapshot().Zoom)
}

func TestSessionSetPageClamping(t *testing.T) {
	s, _, gen := readySession(t, 3)

	tests := []struct {
		name     string
		target   int
		wantPage int
		changed  bool
	}{
		{name: "past last page clamps to last", target: 5, wantPage: 3, changed: true},
		{name: "below first page clamps to first", target: 0, wantPage: 1, changed: true},
		{name: "same page is a no-op", target: 1, wantPage: 1, changed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, g, changed := s.SetPage(tt.target)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.changed, changed)
			if changed {
				gen = g
				assert.True(t, s.ApplyPage(gen, page, image.NewRGBA(image.Rect(0, 0, 1, 1))))
			}
		})
	}
}

func TestSessionSetPageSupersedesInFlightRender(t *testing.T) {
	s, _, _ := readySession(t, 5)

	_, genA, changed := s.SetPage(2)
	assert.True(t, changed)

	// Navigating again while page 2 is still rendering supersedes it.
	pageB, genB, changed := s.SetPage(3)
	assert.True(t, changed)
	assert.Equal(t, 3, pageB)
	assert.Greater(t, genB, genA)
	assert.Equal(t, 3, s.Snapshot().CurrentPage)

	// Page 2's late raster is discarded; page 3's lands.
	assert.False(t, s.ApplyPage(genA, 2, image.NewRGBA(image.Rect(0, 0, 1, 1))))
	assert.Equal(t, 3, s.Snapshot().CurrentPage)
	assert.True(t, s.Snapshot().Rendering)
	assert.True(t, s.ApplyPage(genB, 3, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	assert.False(t, s.Snapshot().Rendering)
}

func TestSessionSetPageNoopForImages(t *testing.T) {
	s := New("sess-img", "scan.png", KindImage)
	gen := s.Open()
	assert.True(t, s.AttachDocument(gen, &fakeDoc{pages: 1}))
	assert.True(t, s.ApplyPage(gen, 1, image.NewRGBA(image.Rect(0, 0, 1, 1))))

	_, _, changed := s.SetPage(2)
	assert.False(t, changed)
	assert.Equal(t, 1, s.Snapshot().CurrentPage)
}

func TestSessionReopenResetsViewState(t *testing.T) {
	s, doc, _ := readySession(t, 3)

	s.AdjustZoom(1.5)
	s.Pan(30, 30)
	s.ToggleFullscreen()
	s.SetPage(2)

	s.Open()
	st := s.Snapshot()
	assert.Equal(t, StateLoading, st.LoadState)
	assert.Equal(t, 1.0, st.Zoom)
	assert.Equal(t, 0.0, st.PosX)
	assert.False(t, st.Fullscreen)
	assert.Equal(t, 1, st.CurrentPage)
	assert.True(t, doc.closed, "reopen must release the old document")
}

func TestHandleKeyZoom(t *testing.T) {
	s, _, _ := readySession(t, 1)

	res := s.HandleKey("+")
	assert.True(t, res.Handled)
	assert.Equal(t, 1.25, s.Snapshot().Zoom)

	res = s.HandleKey("=")
	assert.True(t, res.Handled)
	assert.Equal(t, 1.5, s.Snapshot().Zoom)

	res = s.HandleKey("-")
	assert.True(t, res.Handled)
	assert.Equal(t, 1.25, s.Snapshot().Zoom)

	res = s.HandleKey("0")
	assert.True(t, res.Handled)
	assert.Equal(t, 1.0, s.Snapshot().Zoom)
}

func TestHandleKeyEscape(t *testing.T) {
	s, _, _ := readySession(t, 1)

	s.ToggleFullscreen()
	res := s.HandleKey("Escape")
	assert.True(t, res.Handled)
	assert.False(t, res.CloseRequested, "first escape only exits fullscreen")
	assert.False(t, s.Snapshot().Fullscreen)

	res = s.HandleKey("Escape")
	assert.True(t, res.Handled)
	assert.True(t, res.CloseRequested)
}

func TestHandleKeyArrows(t *testing.T) {
	s, _, _ := readySession(t, 3)

	res := s.HandleKey("ArrowRight")
	assert.True(t, res.Handled)
	assert.True(t, res.PageChanged)
	assert.Equal(t, 2, res.Page)
	assert.True(t, s.ApplyPage(res.Generation, res.Page, image.NewRGBA(image.Rect(0, 0, 1, 1))))

	res = s.HandleKey("ArrowLeft")
	assert.True(t, res.PageChanged)
	assert.Equal(t, 1, res.Page)
	assert.True(t, s.ApplyPage(res.Generation, res.Page, image.NewRGBA(image.Rect(0, 0, 1, 1))))

	// Already at the first page
	res = s.HandleKey("ArrowLeft")
	assert.True(t, res.Handled)
	assert.False(t, res.PageChanged)
}

func TestHandleKeyUnknown(t *testing.T) {
	s, _, _ := readySession(t, 1)
	res := s.HandleKey("x")
	assert.False(t, res.Handled)
}

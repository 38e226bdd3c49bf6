// Package viewer implements the document viewing session: load lifecycle,
// zoom and pan state, page navigation, fullscreen, keyboard handling, and
// gesture translation. Async load and render results carry the generation
// they were issued under and are dropped when the session has moved on.
package viewer

import (
	"image"
	"math"
	"sync"

	"medvault-be/pkg/pdfrender"
)

// SourceKind distinguishes paginated documents from single raster images.
type SourceKind int

const (
	KindPDF SourceKind = iota
	KindImage
)

// LoadState is the lifecycle state of a session.
type LoadState int

const (
	StateIdle LoadState = iota
	StateLoading
	StateReady
	StateFailed
	StateClosed
)

func (s LoadState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Zoom bounds and step sizes. Keyboard zoom steps by ZoomStep, wheel zoom by
// WheelZoomStep per tick, pinch zoom by PinchZoomFactor per distance unit.
const (
	MinZoom         = 0.25
	MaxZoom         = 5.0
	ZoomStep        = 0.25
	WheelZoomStep   = 0.1
	PinchZoomFactor = 0.01
)

// Session holds the view state for one open document. All methods are safe
// for concurrent use.
type Session struct {
	mu sync.Mutex

	id       string
	fileName string
	kind     SourceKind

	state      LoadState
	failure    string
	generation uint64

	zoom       float64
	posX, posY float64
	fullscreen bool

	currentPage int
	totalPages  int
	rendering   bool
	pageErr     string

	viewportW, viewportH int

	doc  pdfrender.Document
	page image.Image
}

// State is an immutable snapshot of a session, safe to hand to callers.
type State struct {
	ID          string
	FileName    string
	Kind        SourceKind
	LoadState   LoadState
	Failure     string
	Zoom        float64
	PosX, PosY  float64
	Fullscreen  bool
	CurrentPage int
	TotalPages  int
	Rendering   bool
	PageError   string
	Generation  uint64
}

func New(id, fileName string, kind SourceKind) *Session {
	return &Session{
		id:          id,
		fileName:    fileName,
		kind:        kind,
		state:       StateIdle,
		zoom:        1.0,
		currentPage: 1,
		totalPages:  1,
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		ID:          s.id,
		FileName:    s.fileName,
		Kind:        s.kind,
		LoadState:   s.state,
		Failure:     s.failure,
		Zoom:        s.zoom,
		PosX:        s.posX,
		PosY:        s.posY,
		Fullscreen:  s.fullscreen,
		CurrentPage: s.currentPage,
		TotalPages:  s.totalPages,
		Rendering:   s.rendering,
		PageError:   s.pageErr,
		Generation:  s.generation,
	}
}

// SetViewport records the viewport the session renders into.
func (s *Session) SetViewport(w, h int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w > 0 {
		s.viewportW = w
	}
	if h > 0 {
		s.viewportH = h
	}
}

func (s *Session) Viewport() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewportW, s.viewportH
}

// Open resets the session to its initial view state, moves it to loading,
// and returns the generation the load was issued under. Any in-flight work
// from a previous generation becomes stale.
func (s *Session) Open() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.state = StateLoading
	s.failure = ""
	s.pageErr = ""
	s.zoom = 1.0
	s.posX, s.posY = 0, 0
	s.fullscreen = false
	s.currentPage = 1
	s.totalPages = 1
	s.rendering = false
	s.page = nil
	if s.doc != nil {
		s.doc.Close()
		s.doc = nil
	}
	return s.generation
}

// Close tears the session down and releases the document handle. Further
// async results are discarded.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateClosed {
		return
	}
	s.generation++
	s.state = StateClosed
	s.rendering = false
	s.page = nil
	if s.doc != nil {
		s.doc.Close()
		s.doc = nil
	}
}

// AttachDocument installs a decoded document for the load issued at gen.
// A stale or closed session releases the handle and reports false.
func (s *Session) AttachDocument(gen uint64, doc pdfrender.Document) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation || s.state != StateLoading {
		doc.Close()
		return false
	}
	s.doc = doc
	s.totalPages = doc.PageCount()
	if s.totalPages < 1 {
		s.totalPages = 1
	}
	s.currentPage = 1
	s.rendering = true
	return true
}

// FailLoad marks the load issued at gen as failed with a user-facing message.
func (s *Session) FailLoad(gen uint64, msg string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation || s.state != StateLoading {
		return false
	}
	s.state = StateFailed
	s.failure = msg
	s.rendering = false
	return true
}

// ApplyPage installs the rendered raster for a page render issued at gen.
// Only the latest raster is retained.
func (s *Session) ApplyPage(gen uint64, page int, img image.Image) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation || s.state == StateClosed || s.state == StateFailed {
		return false
	}
	if page != s.currentPage {
		return false
	}
	s.page = img
	s.pageErr = ""
	s.rendering = false
	s.state = StateReady
	return true
}

// FailPage records a render failure scoped to one page. The document stays
// open and the user can navigate to other pages.
func (s *Session) FailPage(gen uint64, page int, msg string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation || s.state == StateClosed || s.state == StateFailed {
		return false
	}
	if page != s.currentPage {
		return false
	}
	s.pageErr = msg
	s.rendering = false
	s.state = StateReady
	return true
}

// Page returns the most recently rendered raster, if any.
func (s *Session) Page() (image.Image, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page, s.page != nil
}

// Document returns the attached document handle together with the current
// generation, for render work that must be checked back in via ApplyPage.
func (s *Session) Document() (pdfrender.Document, uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return nil, 0, false
	}
	return s.doc, s.generation, true
}

// AdjustZoom shifts the zoom by delta, clamped to [MinZoom, MaxZoom]. When
// the resulting zoom is at or below 1.0 the pan offset resets so the page
// stays centered.
func (s *Session) AdjustZoom(delta float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady {
		return
	}
	s.zoom = clampZoom(s.zoom + delta)
	if s.zoom <= 1.0 {
		s.posX, s.posY = 0, 0
	}
}

// ResetZoom restores zoom 1.0 and a centered position.
func (s *Session) ResetZoom() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady {
		return
	}
	s.zoom = 1.0
	s.posX, s.posY = 0, 0
}

// Pan moves the view offset. Panning only applies while zoomed in past 1.0.
func (s *Session) Pan(x, y float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady || s.zoom <= 1.0 {
		return false
	}
	s.posX = x
	s.posY = y
	return true
}

func (s *Session) zoomedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateReady && s.zoom > 1.0
}

// SetPage navigates to page n, clamped to [1, totalPages]. Navigation is a
// no-op for single-image sources or when the clamped target equals the
// current page. On change it bumps the generation and reports that a
// re-render is due; a render still in flight for the previous page is
// superseded and its late result discarded at check-in.
func (s *Session) SetPage(n int) (page int, gen uint64, changed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady || s.kind != KindPDF {
		return s.currentPage, s.generation, false
	}
	if n < 1 {
		n = 1
	}
	if n > s.totalPages {
		n = s.totalPages
	}
	if n == s.currentPage {
		return s.currentPage, s.generation, false
	}
	s.generation++
	s.currentPage = n
	s.pageErr = ""
	s.rendering = true
	return s.currentPage, s.generation, true
}

// ToggleFullscreen flips fullscreen mode and returns the new value.
func (s *Session) ToggleFullscreen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fullscreen = !s.fullscreen
	return s.fullscreen
}

func clampZoom(z float64) float64 {
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	// Steps of 0.25 and 0.1 accumulate float error; keep the value tidy.
	return math.Round(z*1000) / 1000
}

package viewer

// KeyResult reports what a key press did and whether the caller owes a
// follow-up: closing the viewer, or re-rendering after a page change.
type KeyResult struct {
	Handled        bool
	CloseRequested bool
	PageChanged    bool
	Page           int
	Generation     uint64
}

// HandleKey applies the viewer keyboard contract. Escape exits fullscreen
// when active, otherwise requests close. Plus and minus step the zoom by
// ZoomStep, zero resets it, and the horizontal arrows page through PDFs.
func (s *Session) HandleKey(key string) KeyResult {
	switch key {
	case "Escape":
		s.mu.Lock()
		if s.fullscreen {
			s.fullscreen = false
			s.mu.Unlock()
			return KeyResult{Handled: true}
		}
		s.mu.Unlock()
		return KeyResult{Handled: true, CloseRequested: true}
	case "+", "=":
		s.AdjustZoom(ZoomStep)
		return KeyResult{Handled: true}
	case "-":
		s.AdjustZoom(-ZoomStep)
		return KeyResult{Handled: true}
	case "0":
		s.ResetZoom()
		return KeyResult{Handled: true}
	case "ArrowLeft":
		return s.pageKey(-1)
	case "ArrowRight":
		return s.pageKey(+1)
	default:
		return KeyResult{}
	}
}

func (s *Session) pageKey(direction int) KeyResult {
	s.mu.Lock()
	target := s.currentPage + direction
	s.mu.Unlock()
	page, gen, changed := s.SetPage(target)
	return KeyResult{Handled: true, PageChanged: changed, Page: page, Generation: gen}
}

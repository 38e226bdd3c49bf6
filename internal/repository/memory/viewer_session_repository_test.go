package memory

import (
	"testing"

	"medvault-be/pkg/viewer"

	"github.com/stretchr/testify/assert"
)

func TestViewerSessionRepository(t *testing.T) {
	repo := NewViewerSessionRepository()

	s := viewer.New("user-1:sess-1", "report.pdf", viewer.KindPDF)
	repo.Save(s)

	got, found := repo.Get("user-1:sess-1")
	assert.True(t, found)
	assert.Same(t, s, got)

	_, found = repo.Get("user-2:sess-1")
	assert.False(t, found)
}

func TestViewerSessionRepositoryDeleteClosesNothing(t *testing.T) {
	repo := NewViewerSessionRepository()

	s := viewer.New("user-1:sess-1", "report.pdf", viewer.KindPDF)
	s.Open()
	repo.Save(s)
	repo.Delete("user-1:sess-1")

	_, found := repo.Get("user-1:sess-1")
	assert.False(t, found)

	// Eviction closes the session; the service closed it already, and Close
	// is idempotent, so double-close is safe either way.
	s.Close()
	assert.Equal(t, viewer.StateClosed, s.Snapshot().LoadState)
}

package memory

import (
	"time"

	"medvault-be/pkg/viewer"

	"github.com/patrickmn/go-cache"
)

// ViewerSessionRepository keeps open viewer sessions in memory. Sessions that
// go untouched for an hour are evicted; eviction releases the decoded
// document so an abandoned viewer cannot leak decoder resources.
type ViewerSessionRepository struct {
	cache *cache.Cache
}

func NewViewerSessionRepository() *ViewerSessionRepository {
	c := cache.New(1*time.Hour, 10*time.Minute)
	c.OnEvicted(func(_ string, v interface{}) {
		if s, ok := v.(*viewer.Session); ok {
			s.Close()
		}
	})
	return &ViewerSessionRepository{
		cache: c,
	}
}

func (r *ViewerSessionRepository) Save(session *viewer.Session) {
	r.cache.Set(session.ID(), session, cache.DefaultExpiration)
}

func (r *ViewerSessionRepository) Get(sessionID string) (*viewer.Session, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*viewer.Session), true
	}
	return nil, false
}

func (r *ViewerSessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}

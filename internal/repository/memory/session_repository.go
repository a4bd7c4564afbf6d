package memory

import (
	"time"

	builder "sitebuilder-be/internal/builder/session"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps live editing sessions in memory with a sliding
// TTL, so abandoned browser tabs eventually release their document state.
type SessionRepository struct {
	cache *cache.Cache
	ttl   time.Duration
}

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = 4 * time.Hour
	}
	c := cache.New(ttl, 10*time.Minute)
	return &SessionRepository{cache: c, ttl: ttl}
}

func (r *SessionRepository) Save(s *builder.Session) {
	r.cache.Set(s.ID(), s, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(sessionID string) (*builder.Session, bool) {
	if x, found := r.cache.Get(sessionID); found {
		// Refresh the TTL on access.
		r.cache.Set(sessionID, x, cache.DefaultExpiration)
		return x.(*builder.Session), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}

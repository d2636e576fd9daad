package memory

import (
	"time"

	"github.com/patrickmn/go-cache"

	"ai-triage-be/pkg/triage/session"
)

// SessionCache holds the hot working state of active conversation sessions,
// keyed by contact. The database row is the source of truth; the cache only
// spares a read on the happy path.
type SessionCache struct {
	cache *cache.Cache
}

func NewSessionCache(ttl time.Duration) *SessionCache {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	c := cache.New(ttl, 10*time.Minute)
	return &SessionCache{
		cache: c,
	}
}

func (r *SessionCache) Save(contact string, st *session.State) {
	r.cache.Set(contact, st, cache.DefaultExpiration)
}

func (r *SessionCache) Get(contact string) (*session.State, bool) {
	if x, found := r.cache.Get(contact); found {
		return x.(*session.State), true
	}
	return nil, false
}

func (r *SessionCache) Delete(contact string) {
	r.cache.Delete(contact)
}

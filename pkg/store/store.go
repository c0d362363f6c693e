package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

const tombstoneRetention = 10 * time.Minute

// SessionStore owns every live session. It is backed by a TTL cache whose
// janitor is the periodic eviction sweep; lazy expiry on access comes for
// free because an expired entry is reported as absent even before the
// janitor removes it. Re-setting the entry on every touch re-arms the TTL
// window.
type SessionStore struct {
	sessions   *cache.Cache
	tombstones *cache.Cache
	ttl        time.Duration
	maxDocs    int

	onExpired func(sessionID string)
}

// NewSessionStore creates a store with the given idle TTL and sweep interval.
func NewSessionStore(ttl, sweepInterval time.Duration, maxDocs int) *SessionStore {
	s := &SessionStore{
		sessions:   cache.New(ttl, sweepInterval),
		tombstones: cache.New(tombstoneRetention, sweepInterval),
		ttl:        ttl,
		maxDocs:    maxDocs,
	}
	s.sessions.OnEvicted(func(id string, value interface{}) {
		s.tombstones.Set(id, time.Now(), cache.DefaultExpiration)
		if s.onExpired != nil {
			s.onExpired(id)
		}
	})
	return s
}

// SetOnExpired registers a callback fired when the sweep reclaims a session.
func (s *SessionStore) SetOnExpired(fn func(sessionID string)) {
	s.onExpired = fn
}

// Create allocates a fresh session. Ids are generated here, never supplied
// by clients, so two sessions can never share an id.
func (s *SessionStore) Create() *Session {
	now := time.Now()
	session := newSession(uuid.NewString(), s.ttl, now)
	s.sessions.Set(session.ID, session, cache.DefaultExpiration)
	return session
}

// Get returns a live session and refreshes its TTL window. Absent and
// expired sessions are indistinguishable: both report not found.
func (s *SessionStore) Get(sessionID string) (*Session, bool) {
	x, found := s.sessions.Get(sessionID)
	if !found {
		return nil, false
	}
	session := x.(*Session)
	session.Touch(time.Now())
	s.sessions.Set(sessionID, session, cache.DefaultExpiration)
	return session, true
}

// Peek returns a live session without touching it. Used by the status
// endpoint so that polling does not keep a session alive forever.
func (s *SessionStore) Peek(sessionID string) (*Session, bool) {
	x, found := s.sessions.Get(sessionID)
	if !found {
		return nil, false
	}
	return x.(*Session), true
}

// Touch refreshes the session's TTL window. Returns false when the session
// is absent or expired.
func (s *SessionStore) Touch(sessionID string) bool {
	_, found := s.Get(sessionID)
	return found
}

// Refresh re-arms the TTL and reports the full remaining window.
func (s *SessionStore) Refresh(sessionID string) (time.Duration, bool) {
	session, found := s.Get(sessionID)
	if !found {
		return 0, false
	}
	return session.Remaining(time.Now()), true
}

// AddDocument inserts a document into a live session. The second return
// value is false when the session is absent or expired; the third is false
// when the session is at its document limit.
func (s *SessionStore) AddDocument(sessionID string, doc *Document) (found, added bool) {
	session, ok := s.Get(sessionID)
	if !ok {
		return false, false
	}
	return true, session.AddDocument(doc, s.maxDocs)
}

// RemoveDocument removes a document from a live session.
func (s *SessionStore) RemoveDocument(sessionID, docID string) (found, removed bool) {
	session, ok := s.Get(sessionID)
	if !ok {
		return false, false
	}
	return true, session.RemoveDocument(docID)
}

// Expired reports whether the sweep recently reclaimed this session id.
// Health checks use it to answer 410 instead of 404 shortly after expiry.
func (s *SessionStore) Expired(sessionID string) bool {
	_, found := s.tombstones.Get(sessionID)
	return found
}

// Count returns the number of tracked sessions. The count may briefly
// include sessions that expired but have not been swept yet.
func (s *SessionStore) Count() int {
	return s.sessions.ItemCount()
}

// EvictExpired forces a sweep pass. The janitor normally does this on its
// own interval; tests and shutdown call it directly.
func (s *SessionStore) EvictExpired() {
	s.sessions.DeleteExpired()
}

// TTL returns the configured idle time-to-live.
func (s *SessionStore) TTL() time.Duration {
	return s.ttl
}

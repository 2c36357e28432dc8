package auth

import (
	"sync"
	"time"
)

// DefaultSessionCacheTTL bounds how long a validated session skips the store.
const DefaultSessionCacheTTL = 5 * time.Minute

// SessionCache keeps recently validated sessions in memory.
type SessionCache struct {
	mu       sync.RWMutex
	sessions map[string]*cachedSession
	ttl      time.Duration
	now      func() time.Time
}

type cachedSession struct {
	session  *Session
	cachedAt time.Time
}

// NewSessionCache creates a session cache. A zero ttl uses DefaultSessionCacheTTL.
func NewSessionCache(ttl time.Duration) *SessionCache {
	if ttl <= 0 {
		ttl = DefaultSessionCacheTTL
	}
	return &SessionCache{
		sessions: make(map[string]*cachedSession),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns the cached session unless the cache entry or the session itself expired.
func (c *SessionCache) Get(token string) (*Session, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cached, ok := c.sessions[token]
	if !ok {
		return nil, false
	}
	now := c.now()
	if now.After(cached.cachedAt.Add(c.ttl)) || cached.session.Expired(now) {
		return nil, false
	}
	return cached.session, true
}

// Set stores a session.
func (c *SessionCache) Set(s *Session) {
	if s == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[s.Token] = &cachedSession{session: s, cachedAt: c.now()}
}

// Delete removes a session.
func (c *SessionCache) Delete(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, token)
}

// DeleteByUserID removes all sessions for a user.
func (c *SessionCache) DeleteByUserID(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for token, cached := range c.sessions {
		if cached.session.UserID == userID {
			delete(c.sessions, token)
		}
	}
}

// Size returns the number of cached sessions.
func (c *SessionCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sessions)
}

// Cleanup removes expired entries and returns how many were dropped.
func (c *SessionCache) Cleanup() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	n := 0
	for token, cached := range c.sessions {
		if now.After(cached.cachedAt.Add(c.ttl)) || cached.session.Expired(now) {
			delete(c.sessions, token)
			n++
		}
	}
	return n
}

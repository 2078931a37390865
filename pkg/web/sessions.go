package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"

	"github.com/goliatone/go-formwalk/pkg/flow"
	"github.com/goliatone/go-formwalk/pkg/store"
)

const sessionMaxAge = 30 * 24 * 60 * 60

// session is one participant's check-in. mu serializes requests of the same
// participant; the flow itself is not safe for concurrent use.
type session struct {
	mu       sync.Mutex
	id       string
	flow     *flow.Flow
	store    store.Store
	lastSeen time.Time
}

// sessionSet holds at most MaxSessions sessions. The least recently used one
// is dropped when the set is full, and sessions idle for longer than ttl are
// dropped on the next insert. Dropping only forgets the in-memory flow;
// persisted blobs stay in the store.
type sessionSet struct {
	mu      sync.Mutex
	cache   *lru.Cache
	ttl     time.Duration
	now     func() time.Time
	evicted func(*session)
}

func newSessionSet(size int, ttl time.Duration, now func() time.Time, evicted func(*session)) (*sessionSet, error) {
	set := &sessionSet{ttl: ttl, now: now, evicted: evicted}
	cache, err := lru.NewWithEvict(size, func(_, value interface{}) {
		if sess, ok := value.(*session); ok && set.evicted != nil {
			set.evicted(sess)
		}
	})
	if err != nil {
		return nil, err
	}
	set.cache = cache
	return set, nil
}

func (set *sessionSet) get(id string) (*session, bool) {
	set.mu.Lock()
	defer set.mu.Unlock()
	value, ok := set.cache.Get(id)
	if !ok {
		return nil, false
	}
	sess := value.(*session)
	if set.expired(sess) {
		set.cache.Remove(id)
		return nil, false
	}
	sess.lastSeen = set.now()
	return sess, true
}

func (set *sessionSet) put(sess *session) {
	set.mu.Lock()
	defer set.mu.Unlock()
	set.sweep()
	sess.lastSeen = set.now()
	set.cache.Add(sess.id, sess)
}

// sweep drops expired sessions, oldest first.
func (set *sessionSet) sweep() {
	if set.ttl <= 0 {
		return
	}
	for _, key := range set.cache.Keys() {
		value, ok := set.cache.Peek(key)
		if !ok {
			continue
		}
		if !set.expired(value.(*session)) {
			return
		}
		set.cache.Remove(key)
	}
}

func (set *sessionSet) expired(sess *session) bool {
	return set.ttl > 0 && set.now().Sub(sess.lastSeen) > set.ttl
}

func (set *sessionSet) len() int {
	set.mu.Lock()
	defer set.mu.Unlock()
	return set.cache.Len()
}

// lookup returns the caller's session, or false when the cookie is missing,
// unknown or expired.
func (s *Server) lookup(c *gin.Context) (*session, bool) {
	id, err := c.Cookie(SessionCookie)
	if err != nil || id == "" {
		return nil, false
	}
	return s.sessions.get(id)
}

// draft is a throwaway flow on the greeting stage, rendered for callers
// without a session. It is never stored.
func (s *Server) draft() (*session, error) {
	f, err := flow.New(s.questions, append([]flow.Option{flow.WithStore(store.NewMemory())}, s.flowOptions...)...)
	if err != nil {
		return nil, err
	}
	return &session{flow: f}, nil
}

// startSession creates a session with a fresh id and sets its cookie. Only
// answering the greeting starts one, so plain page views hold no memory.
func (s *Server) startSession(c *gin.Context) (*session, error) {
	id := s.newID()
	st := store.WithPrefix(s.store, "sessions/"+id)
	opts := []flow.Option{
		flow.WithStore(st),
		flow.WithLogger(s.logger.With(zap.String("session", id))),
	}
	if s.metrics != nil {
		opts = append(opts, flow.WithObserver("web", s.metrics))
	}
	opts = append(opts, s.flowOptions...)
	f, err := flow.New(s.questions, opts...)
	if err != nil {
		return nil, err
	}

	sess := &session{id: id, flow: f, store: st}
	s.sessions.put(sess)
	if s.metrics != nil {
		s.metrics.ActiveSessions.Inc()
	}
	s.logger.Debug("session started", zap.String("session", id))

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, id, sessionMaxAge, "/", "", s.cfg.CookieSecure, true)
	return sess, nil
}

func (s *Server) sessionEvicted(sess *session) {
	if s.metrics != nil {
		s.metrics.ActiveSessions.Dec()
	}
	s.logger.Debug("session released", zap.String("session", sess.id))
}

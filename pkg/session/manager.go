package session

import (
	"container/list"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/vango-dev/adminkit/pkg/drawer"
	"github.com/vango-dev/adminkit/pkg/metrics"
)

// Session is one browser session and its drawer stack.
type Session struct {
	// ID is the session identifier carried by the cookie.
	ID string

	// Store is the session's drawer stack.
	Store *drawer.Store

	// CreatedAt is when the session was created.
	CreatedAt time.Time

	lastActive atomic.Int64
}

// LastActive returns when the session was last used.
func (s *Session) LastActive() time.Time { return time.Unix(0, s.lastActive.Load()) }

func (s *Session) touch(t time.Time) { s.lastActive.Store(t.UnixNano()) }

// ManagerConfig configures the session manager.
type ManagerConfig struct {
	// CookieName is the name of the session cookie.
	// Default: "adminkit_session".
	CookieName string

	// CookieSecure marks the cookie Secure.
	CookieSecure bool

	// MaxSessions caps the number of live sessions. The least recently
	// used session is evicted to make room. Zero means unlimited.
	// Default: 10000.
	MaxSessions int

	// IdleTimeout is how long an unused session survives.
	// Default: 30 minutes.
	IdleTimeout time.Duration

	// CleanupInterval is how often idle sessions are swept.
	// Default: 1 minute.
	CleanupInterval time.Duration
}

// DefaultManagerConfig returns a ManagerConfig with sensible defaults.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		CookieName:      "adminkit_session",
		MaxSessions:     10000,
		IdleTimeout:     30 * time.Minute,
		CleanupInterval: 1 * time.Minute,
	}
}

// ErrManagerStopped is returned when operations are attempted on a stopped manager.
var ErrManagerStopped = errors.New("session manager is stopped")

// Option configures a Manager.
type Option func(*Manager)

// WithMetrics records session counts on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(mgr *Manager) { mgr.metrics = m }
}

// WithStoreOptions applies opts to every drawer store the manager creates.
func WithStoreOptions(opts ...drawer.StoreOption) Option {
	return func(mgr *Manager) { mgr.storeOpts = append(mgr.storeOpts, opts...) }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(mgr *Manager) { mgr.now = now }
}

// WithIDGenerator overrides the session id source.
func WithIDGenerator(fn func() string) Option {
	return func(mgr *Manager) { mgr.newID = fn }
}

// Manager owns all live sessions.
type Manager struct {
	mu sync.Mutex

	// Sessions in LRU order (front = most recently used)
	lru   *list.List
	index map[string]*list.Element

	config    ManagerConfig
	logger    *slog.Logger
	metrics   *metrics.Metrics
	storeOpts []drawer.StoreOption
	now       func() time.Time
	newID     func() string

	done    chan struct{}
	wg      sync.WaitGroup
	stopped bool
}

// NewManager creates a manager and starts its cleanup loop. Call Shutdown
// to stop it.
func NewManager(config ManagerConfig, logger *slog.Logger, opts ...Option) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	defaults := DefaultManagerConfig()
	if config.CookieName == "" {
		config.CookieName = defaults.CookieName
	}
	if config.IdleTimeout <= 0 {
		config.IdleTimeout = defaults.IdleTimeout
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = defaults.CleanupInterval
	}

	m := &Manager{
		lru:    list.New(),
		index:  make(map[string]*list.Element),
		config: config,
		logger: logger.With("component", "session_manager"),
		now:    time.Now,
		newID:  uuid.NewString,
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.wg.Add(1)
	go m.cleanupLoop()
	return m
}

// Config returns the effective configuration.
func (m *Manager) Config() ManagerConfig { return m.config }

// Get returns a live session and marks it used.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.index[id]
	if !ok {
		return nil, false
	}
	sess := el.Value.(*Session)
	sess.touch(m.now())
	m.lru.MoveToFront(el)
	return sess, true
}

// GetOrCreate returns the session with id, creating it when id is empty,
// malformed or unknown. The returned session may carry a different id.
func (m *Manager) GetOrCreate(id string) (*Session, bool, error) {
	if id != "" && uuid.Validate(id) == nil {
		if sess, ok := m.Get(id); ok {
			return sess, false, nil
		}
	}
	sess, err := m.Create()
	return sess, err == nil, err
}

// Create starts a new session, evicting the least recently used one when
// the limit is reached.
func (m *Manager) Create() (*Session, error) {
	now := m.now()
	sess := &Session{
		ID:        m.newID(),
		Store:     drawer.NewStore(m.storeOpts...),
		CreatedAt: now,
	}
	sess.touch(now)

	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return nil, ErrManagerStopped
	}
	var evicted []*Session
	for m.config.MaxSessions > 0 && m.lru.Len() >= m.config.MaxSessions {
		evicted = append(evicted, m.removeLocked(m.lru.Back()))
	}
	m.index[sess.ID] = m.lru.PushFront(sess)
	m.mu.Unlock()

	for _, old := range evicted {
		m.logger.Debug("session evicted (capacity)", "session_id", old.ID)
		m.metrics.SessionEnded(true)
	}
	m.metrics.SessionStarted()
	m.logger.Debug("session created", "session_id", sess.ID)
	return sess, nil
}

// Remove ends a session. Unknown ids are ignored.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	el, ok := m.index[id]
	if ok {
		m.removeLocked(el)
	}
	m.mu.Unlock()

	if ok {
		m.metrics.SessionEnded(false)
	}
}

func (m *Manager) removeLocked(el *list.Element) *Session {
	sess := m.lru.Remove(el).(*Session)
	delete(m.index, sess.ID)
	return sess
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lru.Len()
}

// FromRequest returns the session named by the request cookie, creating
// one (and setting the cookie) when needed. After Shutdown it returns a
// detached session that is not tracked.
func (m *Manager) FromRequest(w http.ResponseWriter, r *http.Request) *Session {
	var id string
	if c, err := r.Cookie(m.config.CookieName); err == nil {
		id = c.Value
	}
	sess, created, err := m.GetOrCreate(id)
	if err != nil {
		m.logger.Warn("session manager stopped, serving detached session", "error", err)
		return &Session{ID: "", Store: drawer.NewStore(m.storeOpts...), CreatedAt: m.now()}
	}
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     m.config.CookieName,
			Value:    sess.ID,
			Path:     "/",
			HttpOnly: true,
			Secure:   m.config.CookieSecure,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return sess
}

// Lookup returns the session named by the request cookie without creating
// one.
func (m *Manager) Lookup(r *http.Request) (*Session, bool) {
	c, err := r.Cookie(m.config.CookieName)
	if err != nil {
		return nil, false
	}
	return m.Get(c.Value)
}

// cleanupLoop periodically evicts idle sessions.
func (m *Manager) cleanupLoop() {
	defer m.wg.Done()
	ticker := time.NewTicker(m.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.cleanupIdle()
		case <-m.done:
			return
		}
	}
}

// cleanupIdle evicts sessions idle for longer than IdleTimeout. It returns
// the number of evicted sessions.
func (m *Manager) cleanupIdle() int {
	cutoff := m.now().Add(-m.config.IdleTimeout)

	m.mu.Lock()
	var evicted []*Session
	for el := m.lru.Back(); el != nil; {
		sess := el.Value.(*Session)
		if sess.LastActive().After(cutoff) {
			break
		}
		prev := el.Prev()
		evicted = append(evicted, m.removeLocked(el))
		el = prev
	}
	m.mu.Unlock()

	for _, sess := range evicted {
		m.metrics.SessionEnded(true)
		m.logger.Debug("session evicted (idle)", "session_id", sess.ID)
	}
	if len(evicted) > 0 {
		m.logger.Info("evicted idle sessions", "count", len(evicted))
	}
	return len(evicted)
}

// Shutdown stops the cleanup loop and drops every session. It is safe to
// call more than once.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return nil
	}
	m.stopped = true
	close(m.done)
	n := m.lru.Len()
	m.lru.Init()
	m.index = make(map[string]*list.Element)
	m.mu.Unlock()

	for i := 0; i < n; i++ {
		m.metrics.SessionEnded(false)
	}

	stopped := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(stopped)
	}()
	select {
	case <-stopped:
		m.logger.Info("session manager stopped", "sessions", n)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats is a point-in-time view of the manager.
type Stats struct {
	Sessions    int           `json:"sessions"`
	MaxSessions int           `json:"maxSessions"`
	IdleTimeout time.Duration `json:"idleTimeout"`
	OpenDrawers int           `json:"openDrawers"`
}

// Stats returns current manager statistics.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	sessions := make([]*Session, 0, m.lru.Len())
	for el := m.lru.Front(); el != nil; el = el.Next() {
		sessions = append(sessions, el.Value.(*Session))
	}
	m.mu.Unlock()

	st := Stats{
		Sessions:    len(sessions),
		MaxSessions: m.config.MaxSessions,
		IdleTimeout: m.config.IdleTimeout,
	}
	for _, s := range sessions {
		st.OpenDrawers += s.Store.Len()
	}
	return st
}

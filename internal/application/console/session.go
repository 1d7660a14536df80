package console

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Session is one operator's console: exactly one shell, never shared.
type Session struct {
	ID    string
	Shell *Shell

	lastSeen time.Time
}

// SessionObserver is told how many sessions are live after every change.
type SessionObserver interface {
	SetActiveSessions(n int)
}

// SessionsConfig configures a session registry.
type SessionsConfig struct {
	IdleTTL  time.Duration
	NewShell func() *Shell
	Observer SessionObserver
	Logger   *zap.Logger
	Now      func() time.Time
}

// Sessions is the registry of live sessions. Idle sessions are evicted and their shells closed.
type Sessions struct {
	ttl      time.Duration
	newShell func() *Shell
	observer SessionObserver
	log      *zap.Logger
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewSessions creates an empty registry.
func NewSessions(cfg SessionsConfig) *Sessions {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Sessions{
		ttl:      cfg.IdleTTL,
		newShell: cfg.NewShell,
		observer: cfg.Observer,
		log:      cfg.Logger.Named("sessions"),
		now:      cfg.Now,
		sessions: make(map[string]*Session),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Create starts a session with a fresh shell.
func (s *Sessions) Create() *Session {
	sess := &Session{ID: uuid.NewString(), Shell: s.newShell()}

	s.mu.Lock()
	sess.lastSeen = s.now()
	s.sessions[sess.ID] = sess
	n := len(s.sessions)
	s.mu.Unlock()

	s.report(n)
	return sess
}

// Get returns a live session and marks it as seen.
func (s *Sessions) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	if s.expired(sess) {
		return nil, false
	}
	sess.lastSeen = s.now()
	return sess, true
}

// Len is the number of sessions held.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Sessions) expired(sess *Session) bool {
	return s.ttl > 0 && s.now().Sub(sess.lastSeen) > s.ttl
}

// Sweep evicts idle sessions and returns how many were removed.
func (s *Sessions) Sweep() int {
	var evicted []*Session

	s.mu.Lock()
	for id, sess := range s.sessions {
		if s.expired(sess) {
			evicted = append(evicted, sess)
			delete(s.sessions, id)
		}
	}
	n := len(s.sessions)
	s.mu.Unlock()

	for _, sess := range evicted {
		sess.Shell.Close()
	}
	if len(evicted) > 0 {
		s.log.Debug("Evicted idle sessions", zap.Int("evicted", len(evicted)), zap.Int("remaining", n))
		s.report(n)
	}
	return len(evicted)
}

// StartJanitor sweeps every interval until Close.
func (s *Sessions) StartJanitor(interval time.Duration) {
	if interval <= 0 {
		close(s.done)
		return
	}
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Sweep()
			case <-s.stop:
				return
			}
		}
	}()
}

// Close stops the janitor and closes every shell.
func (s *Sessions) Close() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})

	s.mu.Lock()
	all := s.sessions
	s.sessions = make(map[string]*Session)
	s.mu.Unlock()

	for _, sess := range all {
		sess.Shell.Close()
	}
	s.report(0)
}

// Wait blocks until the janitor has exited. Only valid after StartJanitor.
func (s *Sessions) Wait() {
	<-s.done
}

func (s *Sessions) report(n int) {
	if s.observer != nil {
		s.observer.SetActiveSessions(n)
	}
}

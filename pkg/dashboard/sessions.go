package dashboard

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wallet-dash/pkg/viewport"
)

// session is one browser chart. Events for a session are applied one at a
// time under its own lock.
type session struct {
	mu      sync.Mutex
	id      string
	subject string
	ctrl    *viewport.Controller
	seen    time.Time
}

type sessions struct {
	mu   sync.Mutex
	byID map[string]*session
	ttl  time.Duration
	now  func() time.Time
}

func newSessions(ttl time.Duration) *sessions {
	return &sessions{byID: map[string]*session{}, ttl: ttl, now: time.Now}
}

func (s *sessions) create(subject string, ctrl *viewport.Controller) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	sess := &session{id: uuid.NewString(), subject: subject, ctrl: ctrl, seen: s.now()}
	s.byID[sess.id] = sess
	return sess
}

func (s *sessions) get(id string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byID[id]
	if ok {
		sess.seen = s.now()
	}
	return sess, ok
}

func (s *sessions) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

// sweepLocked drops sessions idle for longer than ttl.
func (s *sessions) sweepLocked() {
	cutoff := s.now().Add(-s.ttl)
	for id, sess := range s.byID {
		if sess.seen.Before(cutoff) {
			delete(s.byID, id)
		}
	}
}

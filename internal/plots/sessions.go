package plots

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("plot session not found")

// session is one open plot dialog. Fields are guarded by mu; network calls are
// made with mu released and their results are dropped once closed is set.
type session struct {
	id uuid.UUID

	mu         sync.Mutex
	state      State
	feed       *DeviceFeed
	tracker    *Tracker
	lastActive time.Time
	closed     bool
}

// apply runs the reducer. Callers hold mu.
func (s *session) apply(action Action, now time.Time) {
	s.state = Reduce(s.state, action)
	s.lastActive = now
}

func (s *session) view() *View {
	return &View{ID: s.id, State: s.state}
}

// SessionStore indexes open sessions
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[uuid.UUID]*session)}
}

func (st *SessionStore) put(s *session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[s.id] = s
}

func (st *SessionStore) get(id uuid.UUID) (*session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (st *SessionStore) remove(id uuid.UUID) (*session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	delete(st.sessions, id)
	return s, ok
}

func (st *SessionStore) all() []*session {
	st.mu.RLock()
	defer st.mu.RUnlock()
	out := make([]*session, 0, len(st.sessions))
	for _, s := range st.sessions {
		out = append(out, s)
	}
	return out
}

// Len returns the number of open sessions.
func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

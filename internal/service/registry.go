package service

import (
	"sync"

	"lexibot/internal/domain"
)

// SessionRegistry holds at most one active quiz session per user.
//
// Session fields may only be read or changed while holding the user's lock
// from Lock. Presence in the registry is what makes a session active.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[int64]*domain.QuizSession
	locks    map[int64]*sync.Mutex
}

// NewSessionRegistry creates an empty registry
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[int64]*domain.QuizSession),
		locks:    make(map[int64]*sync.Mutex),
	}
}

// Lock acquires the user's lock and returns the function releasing it.
// Operations on different users never contend on it.
func (r *SessionRegistry) Lock(userID int64) func() {
	r.mu.Lock()
	lock, exists := r.locks[userID]
	if !exists {
		lock = &sync.Mutex{}
		r.locks[userID] = lock
	}
	r.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// Get returns the user's active session
func (r *SessionRegistry) Get(userID int64) (*domain.QuizSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[userID]
	return s, ok
}

// Put stores an active session. It refuses to replace an existing one.
func (r *SessionRegistry) Put(s *domain.QuizSession) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[s.UserID]; exists {
		return false
	}
	s.Active = true
	r.sessions[s.UserID] = s
	return true
}

// Remove deactivates and drops the user's session
func (r *SessionRegistry) Remove(userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[userID]; ok {
		s.Active = false
		delete(r.sessions, userID)
	}
}

// IsActive reports whether the user has a quiz in progress
func (r *SessionRegistry) IsActive(userID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.sessions[userID]
	return ok
}

// UserIDs lists users with an active session
func (r *SessionRegistry) UserIDs() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]int64, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	return ids
}

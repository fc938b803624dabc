package store

import (
	"sync"

	"github.com/cmlabs-hris/hris-agent-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-agent-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-agent-go/internal/domain/user"
)

// Store is the process-wide cache of server-owned state: the logged-in user,
// their leave balances, and the open-session mirror. It is constructed at
// the composition root and injected; nothing imports a package-level
// instance. Writers interleave from request callbacks, hence the mutex.
type Store struct {
	mu       sync.RWMutex
	user     *user.User
	balances leave.Balances
	session  *attendance.Session
}

func New() *Store {
	return &Store{}
}

// SetUser caches the logged-in user and their balances.
func (s *Store) SetUser(u user.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &u
	s.balances = u.Leaves.Clone()
}

// User returns the cached user, if any.
func (s *Store) User() (user.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return user.User{}, false
	}
	return *s.user, true
}

// Balances returns a copy of the cached leave balances.
func (s *Store) Balances() leave.Balances {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balances.Clone()
}

// SetBalances overwrites the cached balances with an authoritative fetch.
func (s *Store) SetBalances(b leave.Balances) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances = b.Clone()
}

// DecrementBalance applies the speculative local decrement after an accepted
// leave application. The next SetBalances overwrites it with server truth.
func (s *Store) DecrementBalance(t leave.Type, days int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.balances == nil {
		return
	}
	key := leave.BalanceKey(t)
	remaining := s.balances[key] - days
	if remaining < 0 {
		remaining = 0
	}
	s.balances[key] = remaining
}

// SetSession caches the open-session mirror.
func (s *Store) SetSession(sess attendance.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = &sess
}

// Session returns the cached session mirror, if any.
func (s *Store) Session() (attendance.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return attendance.Session{}, false
	}
	return *s.session, true
}

// ClearSession discards the local session mirror (check-out or logout).
func (s *Store) ClearSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
}

// Reset drops all cached state. Called on logout.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.balances = nil
	s.session = nil
}

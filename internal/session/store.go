package session

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrInvalidTransition indicates that a requested state transition is not allowed.
var ErrInvalidTransition = errors.New("invalid state transition")

// TransitionObserver is notified after every state change.
type TransitionObserver func(from, to State)

// Store describes the session operations used by the bot.
type Store interface {
	// Get returns the session for chatID, creating an idle one on first use.
	Get(chatID int64) Session
	// Reset moves the session back to idle.
	Reset(chatID int64)
	// Await moves the session into one of the awaiting states.
	Await(chatID int64, target State) error
	// Snapshot returns the number of sessions per state.
	Snapshot() map[State]int
}

// Option configures a MemoryStore.
type Option func(*MemoryStore)

// WithClock overrides the clock used for UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithObserver registers a transition observer.
func WithObserver(observer TransitionObserver) Option {
	return func(s *MemoryStore) {
		s.observer = observer
	}
}

// MemoryStore is a process-local Store. Sessions live as long as the process.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
	now      func() time.Time
	observer TransitionObserver
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		sessions: make(map[int64]*Session),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Get returns a copy of the chat session.
func (s *MemoryStore) Get(chatID int64) Session {
	s.mu.RLock()
	existing, ok := s.sessions[chatID]
	if ok {
		current := *existing
		s.mu.RUnlock()
		return current
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	return *s.getOrCreateLocked(chatID)
}

// Reset sets the chat session to idle.
func (s *MemoryStore) Reset(chatID int64) {
	s.mu.Lock()
	sess := s.getOrCreateLocked(chatID)
	from := sess.State
	sess.State = StateIdle
	sess.UpdatedAt = s.now()
	s.mu.Unlock()

	s.notify(from, StateIdle)
}

// Await moves the chat session into target, which must be an awaiting state.
func (s *MemoryStore) Await(chatID int64, target State) error {
	if target == StateIdle || !target.Valid() {
		return fmt.Errorf("%w: cannot await %q", ErrInvalidTransition, target)
	}

	s.mu.Lock()
	sess := s.getOrCreateLocked(chatID)
	from := sess.State
	if !IsTransitionAllowed(from, target) {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, target)
	}
	sess.State = target
	sess.UpdatedAt = s.now()
	s.mu.Unlock()

	s.notify(from, target)
	return nil
}

// Snapshot counts sessions per state. Every known state is present in the result.
func (s *MemoryStore) Snapshot() map[State]int {
	counts := make(map[State]int, len(States))
	for _, st := range States {
		counts[st] = 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sess := range s.sessions {
		counts[sess.State]++
	}

	return counts
}

// Len returns the number of known sessions.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.sessions)
}

func (s *MemoryStore) getOrCreateLocked(chatID int64) *Session {
	sess, ok := s.sessions[chatID]
	if !ok {
		sess = &Session{
			ChatID:    chatID,
			State:     StateIdle,
			UpdatedAt: s.now(),
		}
		s.sessions[chatID] = sess
	}

	return sess
}

func (s *MemoryStore) notify(from, to State) {
	if s.observer != nil {
		s.observer(from, to)
	}
}

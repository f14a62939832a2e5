// Package session keeps authentication sessions in memory. A session maps an
// unguessable id to a user id until it expires.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/juju/clock"
)

// ErrInvalid is returned for ids that are unknown, destroyed or expired.
var ErrInvalid = errors.New("session invalid or expired")

type Session struct {
	ID        string
	UserID    int64
	ExpiresAt time.Time
}

// SweepObserver is told how many sessions a sweep removed and how many remain.
type SweepObserver func(removed, active int)

type Option func(*Store)

func WithSweepObserver(fn SweepObserver) Option {
	return func(s *Store) {
		s.observer = fn
	}
}

type Store struct {
	clock    clock.Clock
	ttl      time.Duration
	observer SweepObserver

	mu       sync.Mutex
	sessions map[string]Session
}

func NewStore(clk clock.Clock, ttl time.Duration, opts ...Option) *Store {
	s := &Store{
		clock:    clk,
		ttl:      ttl,
		sessions: make(map[string]Session),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Create starts a session for userID that expires ttl from now.
func (s *Store) Create(userID int64) (Session, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return Session{}, fmt.Errorf("generating session id: %w", err)
	}

	sess := Session{
		ID:        id.String(),
		UserID:    userID,
		ExpiresAt: s.clock.Now().Add(s.ttl),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return sess, nil
}

// Resolve returns the user id behind id. Expired sessions are removed on the
// spot and reported as ErrInvalid.
func (s *Store) Resolve(id string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return 0, ErrInvalid
	}

	if !s.clock.Now().Before(sess.ExpiresAt) {
		delete(s.sessions, id)
		return 0, ErrInvalid
	}

	return sess.UserID, nil
}

// Destroy removes the session. Unknown ids are ignored.
func (s *Store) Destroy(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Active returns the number of stored sessions, including expired ones not
// yet swept.
func (s *Store) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sessions)
}

// Sweep removes every expired session and returns how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()

	now := s.clock.Now()
	removed := 0

	for id, sess := range s.sessions {
		if !now.Before(sess.ExpiresAt) {
			delete(s.sessions, id)
			removed++
		}
	}

	active := len(s.sessions)
	s.mu.Unlock()

	if s.observer != nil {
		s.observer(removed, active)
	}

	return removed
}

// Run sweeps every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.clock.After(interval):
			if n := s.Sweep(); n > 0 {
				slog.Info("swept expired sessions", "count", n)
			}
		}
	}
}

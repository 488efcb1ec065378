package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ndc-analytics/ndcsearch/internal/domain"
	"github.com/ndc-analytics/ndcsearch/internal/domain/chat"
)

// Session is one conversation with its transcript.
type Session struct {
	ID        string
	History   chat.History
	CreatedAt time.Time
	LastSeen  time.Time
}

// Store keeps conversations in memory. Sessions expire after the TTL of
// inactivity and are swept in the background.
type Store struct {
	ttl    time.Duration
	logger *zap.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewStore creates a session store.
func NewStore(ttl time.Duration, logger *zap.Logger) *Store {
	return &Store{
		ttl:      ttl,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Create starts a new empty conversation and returns it.
func (s *Store) Create() *Session {
	now := time.Now()
	sess := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		LastSeen:  now,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return sess
}

// Get returns the session with the given ID, refreshing its expiry.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok || time.Since(sess.LastSeen) > s.ttl {
		delete(s.sessions, id)
		return nil, domain.ErrSessionNotFound
	}
	sess.LastSeen = time.Now()
	return sess, nil
}

// AppendTurn records a completed question/answer exchange. The stored
// transcript keeps only the most recent messages.
func (s *Store) AppendTurn(id, question, answer string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	sess.History.Append(chat.NewMessage(chat.RoleUser, question))
	sess.History.Append(chat.NewMessage(chat.RoleAssistant, answer))
	sess.History.Truncate()
	sess.LastSeen = time.Now()
	return nil
}

// Sweep runs until ctx is cancelled, dropping expired sessions periodically.
func (s *Store) Sweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweepOnce()
		}
	}
}

func (s *Store) sweepOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()

	var dropped int
	for id, sess := range s.sessions {
		if time.Since(sess.LastSeen) > s.ttl {
			delete(s.sessions, id)
			dropped++
		}
	}
	if dropped > 0 {
		s.logger.Debug("Swept expired sessions", zap.Int("dropped", dropped))
	}
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

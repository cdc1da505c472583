package bot

import (
	"context"
	"sync"
	"time"

	"github.com/mrmalikoffl/movies-req-bot/internal/indexer"
)

// State is the position of a user inside a multi-step conversation.
type State int

const (
	StateNone State = iota
	StateAwaitThumbnail
	StateAwaitPrefix
	StateAwaitCaption
	StateAwaitIndexMode
	StateAwaitForward
	StateIndexing
)

const sessionTTL = 10 * time.Minute

type Session struct {
	State     State
	IndexMode indexer.Mode

	// Cancel stops a running indexing job for this chat.
	Cancel context.CancelFunc

	expiresAt time.Time
}

// sessionStore keeps per-chat conversation state in memory. Sessions expire
// after sessionTTL of inactivity so an abandoned /setprefix does not swallow
// search queries forever. Indexing sessions are exempt: a batch scan can run
// well past the TTL and Clear would fire its cancel func.
type sessionStore struct {
	mu   sync.RWMutex
	data map[int64]*Session
}

func newSessionStore() *sessionStore {
	return &sessionStore{data: make(map[int64]*Session)}
}

func (s *sessionStore) Get(chatID int64) *Session {
	s.mu.RLock()
	sess, ok := s.data[chatID]
	s.mu.RUnlock()
	if !ok {
		return nil
	}
	if time.Now().After(sess.expiresAt) && sess.State != StateIndexing {
		s.Clear(chatID)
		return nil
	}
	return sess
}

func (s *sessionStore) Set(chatID int64, sess *Session) {
	sess.expiresAt = time.Now().Add(sessionTTL)
	s.mu.Lock()
	s.data[chatID] = sess
	s.mu.Unlock()
}

func (s *sessionStore) Clear(chatID int64) {
	s.mu.Lock()
	sess, ok := s.data[chatID]
	delete(s.data, chatID)
	s.mu.Unlock()
	if ok && sess.Cancel != nil {
		sess.Cancel()
	}
}

// State returns StateNone for unknown or expired sessions.
func (s *sessionStore) StateOf(chatID int64) State {
	if sess := s.Get(chatID); sess != nil {
		return sess.State
	}
	return StateNone
}

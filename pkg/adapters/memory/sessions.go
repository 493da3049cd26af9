package memory

import (
	"sync"
	"time"

	"github.com/aretw0/intervista/pkg/domain"
)

// StoredSession is a saved practice conversation as returned by the sessions endpoint.
type StoredSession struct {
	ID int64 `json:"id"`
	domain.SessionRecord
	CreatedAt time.Time `json:"created_at"`
}

// SessionStore keeps saved practice sessions per owner in memory.
// Safe for concurrent use.
type SessionStore struct {
	mu     sync.RWMutex
	nextID int64
	data   map[string][]StoredSession
	now    func() time.Time
}

// NewSessionStore creates an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		data: make(map[string][]StoredSession),
		now:  time.Now,
	}
}

// Create stores record for owner and returns the stored copy.
// A blank title defaults to "Untitled Session".
func (s *SessionStore) Create(owner string, record domain.SessionRecord) StoredSession {
	if record.Title == "" {
		record.Title = "Untitled Session"
	}
	history := make([]domain.Message, len(record.ConversationHistory))
	copy(history, record.ConversationHistory)
	record.ConversationHistory = history

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	stored := StoredSession{
		ID:            s.nextID,
		SessionRecord: record,
		CreatedAt:     s.now().UTC(),
	}
	s.data[owner] = append(s.data[owner], stored)
	return stored
}

// List returns the owner's sessions, newest first.
func (s *SessionStore) List(owner string) []StoredSession {
	s.mu.RLock()
	defer s.mu.RUnlock()

	src := s.data[owner]
	out := make([]StoredSession, 0, len(src))
	for i := len(src) - 1; i >= 0; i-- {
		out = append(out, src[i])
	}
	return out
}

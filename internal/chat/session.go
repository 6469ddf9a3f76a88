package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// maxSessionMessages caps the turns kept per session.
const maxSessionMessages = 20

// SessionStore keeps chat sessions in memory. Sessions are ephemeral and
// scoped to one process; the mobile client owns the durable transcript.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewSessionStore constructs a SessionStore.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*Session)}
}

// GetOrCreate returns the session with the given id, creating a fresh one
// when the id is empty or unknown.
func (s *SessionStore) GetOrCreate(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != "" {
		if session, ok := s.sessions[id]; ok {
			return session
		}
	}

	now := time.Now().UTC()
	session := &Session{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
	s.sessions[session.ID] = session
	return session
}

// Append adds a message to the session, evicting the oldest turns beyond
// the cap. Returns the stored message.
func (s *SessionStore) Append(sessionID, role, content string) (Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return Message{}, false
	}

	msg := Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	session.Messages = append(session.Messages, msg)
	if len(session.Messages) > maxSessionMessages {
		session.Messages = session.Messages[len(session.Messages)-maxSessionMessages:]
	}
	session.UpdatedAt = msg.CreatedAt
	return msg, true
}

// History returns a copy of the session transcript.
func (s *SessionStore) History(sessionID string) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}
	return append([]Message(nil), session.Messages...)
}

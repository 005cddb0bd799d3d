package core

import (
	"sync"
	"time"
)

// Session is the durable state of one conversation. History grows
// monotonically: the only mutation is AppendTurn, applied once per completed
// turn. It is safe for concurrent reads; the dispatcher above this layer is
// expected to serialize turns per conversation id.
type Session struct {
	ID              string    `json:"id"`
	History         []Message `json:"history"`
	LastActiveAgent string    `json:"last_active_agent,omitempty"`
	AwaitingUser    bool      `json:"awaiting_user"`
	Created         time.Time `json:"created"`
	Updated         time.Time `json:"updated"`

	mu sync.RWMutex
}

// NewSession creates an empty session for the given conversation id.
func NewSession(id string) *Session {
	now := time.Now().UTC()
	return &Session{ID: id, History: []Message{}, Created: now, Updated: now}
}

// Turn is the committed outcome of one conversational turn: the user message
// that triggered it, the transcript produced while resolving it, and the
// derived routing state.
type Turn struct {
	UserMessage  Message
	Transcript   []Message
	FinalAgent   string
	AwaitingUser bool
}

// AppendTurn commits a completed turn to the session. The user message and
// the full transcript are appended in order; LastActiveAgent is set to the
// last agent that produced a user-facing message during the turn.
func (s *Session) AppendTurn(t Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.History = append(s.History, t.UserMessage)
	s.History = append(s.History, t.Transcript...)
	if t.FinalAgent != "" {
		s.LastActiveAgent = t.FinalAgent
	}
	s.AwaitingUser = t.AwaitingUser
	s.Updated = time.Now().UTC()
}

// ConversationHistory returns the messages suitable as model context:
// user, assistant and tool roles, in order.
func (s *Session) ConversationHistory() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]Message, 0, len(s.History))
	for _, m := range s.History {
		switch m.Role {
		case RoleUser, RoleAssistant, RoleTool:
			res = append(res, m)
		}
	}
	return res
}

// LastAgent returns the name of the agent that last produced a user-facing
// message, or empty if no turn has completed yet.
func (s *Session) LastAgent() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastActiveAgent
}

// Len returns the number of messages in the history.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.History)
}

// Clone returns a deep copy safe for independent mutation.
func (s *Session) Clone() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	clone := &Session{
		ID:              s.ID,
		History:         make([]Message, len(s.History)),
		LastActiveAgent: s.LastActiveAgent,
		AwaitingUser:    s.AwaitingUser,
		Created:         s.Created,
		Updated:         s.Updated,
	}
	copy(clone.History, s.History)
	return clone
}

// SessionStore persists sessions and their turn history.
type SessionStore interface {
	// Get returns the session for the conversation id, creating it lazily.
	Get(id string) (*Session, error)
	// Create forces creation of a fresh session, replacing any existing one.
	Create(id string) (*Session, error)
	// CommitTurn appends a completed turn to the stored session.
	CommitTurn(id string, t Turn) error
}

package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"chat-relay/internal/domain"
)

// MessageStore holds room histories and direct-conversation histories
// in memory. Absent keys read as empty, never as an error. Logs are
// append-only for the lifetime of the process.
type MessageStore struct {
	mu     sync.RWMutex
	rooms  map[string][]domain.Message
	direct map[string][]domain.Message
}

func NewMessageStore() *MessageStore {
	return &MessageStore{
		rooms:  make(map[string][]domain.Message),
		direct: make(map[string][]domain.Message),
	}
}

// AppendRoom appends to the room's log, creating it if absent.
func (s *MessageStore) AppendRoom(room string, msg domain.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room] = append(s.rooms[room], msg)
	log.Debug().Str("module", "app.store").Str("room", room).Int("count", len(s.rooms[room])).Msg("room message appended")
}

// AppendDirect appends to the conversation log for the canonicalized
// name pair, creating it if absent.
func (s *MessageStore) AppendDirect(nameA, nameB string, msg domain.Message) {
	key := domain.ConversationKey(nameA, nameB)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.direct[key] = append(s.direct[key], msg)
	log.Debug().Str("module", "app.store").Str("conversation", key).Int("count", len(s.direct[key])).Msg("direct message appended")
}

// RoomMessages returns a copy of the room's log, empty if none exists.
func (s *MessageStore) RoomMessages(room string) []domain.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyLog(s.rooms[room])
}

// DirectMessages returns a copy of the conversation log for the pair,
// canonicalized the same way AppendDirect stores it.
func (s *MessageStore) DirectMessages(nameA, nameB string) []domain.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyLog(s.direct[domain.ConversationKey(nameA, nameB)])
}

func copyLog(msgs []domain.Message) []domain.Message {
	out := make([]domain.Message, len(msgs))
	copy(out, msgs)
	return out
}

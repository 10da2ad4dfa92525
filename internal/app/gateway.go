package app

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"chat-relay/internal/core"
	"chat-relay/internal/domain"
)

// Gateway routes every inbound event: it resolves the sender identity,
// mutates the store and room membership, computes the recipient set and
// pushes outbound events to live connections. One mutex serializes the
// mutating handlers, so no event observes a partially applied prior
// event.
type Gateway struct {
	mu    sync.Mutex
	store *MessageStore
	reg   *Registry
	rooms *Rooms
	conns map[core.ConnID]core.Connection
}

func NewGateway(store *MessageStore, reg *Registry, rooms *Rooms) *Gateway {
	return &Gateway{
		store: store,
		reg:   reg,
		rooms: rooms,
		conns: make(map[core.ConnID]core.Connection),
	}
}

type messageEvent struct {
	Type    string         `json:"type"`
	Message domain.Message `json:"message"`
}

type typingEvent struct {
	Type     string `json:"type"`
	Name     string `json:"name"`
	IsTyping bool   `json:"isTyping"`
}

type directNotification struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	From    string `json:"from"`
}

type onlineUsersEvent struct {
	Type  string              `json:"type"`
	Users []domain.OnlineUser `json:"users"`
}

// Connect records the connection as live. No presence broadcast: the
// connection is invisible until it identifies via Join.
func (g *Gateway) Connect(id core.ConnID, conn core.Connection) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.conns[id] = conn
	log.Info().Str("module", "app.gateway").Str("sid", string(id)).Msg("connected")
}

// Disconnect drops the connection from every room, destroys its
// identity binding and broadcasts the new presence snapshot.
func (g *Gateway) Disconnect(id core.ConnID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.conns, id)
	g.rooms.LeaveAll(id)
	g.reg.Remove(id)
	g.broadcastPresence()
	log.Info().Str("module", "app.gateway").Str("sid", string(id)).Msg("disconnected")
}

// Join binds the display name to the connection, adds it to the room,
// broadcasts presence to every connection (presence is global, not
// per-room) and returns the room's history.
func (g *Gateway) Join(id core.ConnID, name, room string) []domain.Message {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reg.Identify(id, name)
	g.rooms.Join(room, id)
	g.broadcastPresence()
	log.Info().Str("module", "app.gateway").Str("sid", string(id)).Str("name", name).Str("room", room).Msg("join")
	return g.store.RoomMessages(room)
}

// LeaveRoom removes the room membership and destroys the identity
// binding: a connection that leaves a room goes offline in presence
// terms even though its socket stays up.
func (g *Gateway) LeaveRoom(id core.ConnID, room string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rooms.Leave(room, id)
	g.reg.Remove(id)
	g.broadcastPresence()
	log.Info().Str("module", "app.gateway").Str("sid", string(id)).Str("room", room).Msg("leave room")
}

// CreateMessage builds and routes one message. The routing target is
// decided once from the DTO. A message with no target is returned to
// the caller but never stored or delivered.
func (g *Gateway) CreateMessage(id core.ConnID, dto domain.CreateMessage) domain.Message {
	g.mu.Lock()
	defer g.mu.Unlock()
	senderName, _ := g.reg.ResolveName(id)
	msg := domain.Message{
		Name:          senderName,
		Text:          dto.Text,
		RecipientID:   dto.RecipientID,
		SenderID:      dto.SenderID,
		Room:          dto.Room,
		RecipientName: dto.RecipientName,
		SenderName:    senderName,
	}
	switch target := dto.Target(); target.Kind {
	case domain.TargetDirect:
		g.store.AppendDirect(senderName, target.Recipient, msg)
		g.deliverDirect(id, senderName, target.Recipient, msg)
	case domain.TargetRoom:
		g.store.AppendRoom(target.Room, msg)
		g.broadcastRoom(target.Room, messageEvent{Type: "message", Message: msg}, "")
	case domain.TargetNone:
		log.Debug().Str("module", "app.gateway").Str("sid", string(id)).Msg("message without target dropped")
	}
	return msg
}

// deliverDirect pushes a privateMessage to the recipient's resolved
// connection and echoes it to the sender. An unresolved recipient keeps
// the stored message but gets no live delivery. The extra notification
// fires only when the two connections share no room.
func (g *Gateway) deliverDirect(sender core.ConnID, senderName, recipient string, msg domain.Message) {
	rcpt, ok := g.reg.ResolveConn(recipient)
	if !ok {
		log.Debug().Str("module", "app.gateway").Str("recipient", recipient).Msg("recipient offline, stored only")
		return
	}
	ev := messageEvent{Type: "privateMessage", Message: msg}
	g.emit(rcpt, ev)
	g.emit(sender, ev)
	if !g.rooms.Shared(sender, rcpt) {
		g.emit(rcpt, directNotification{Type: "newDirectMessageNotification", Message: msg.Text, From: senderName})
	}
}

// Typing notifies every other connection in the room. Transient, never
// stored.
func (g *Gateway) Typing(id core.ConnID, room string, isTyping bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	name, _ := g.reg.ResolveName(id)
	g.broadcastRoom(room, typingEvent{Type: "typing", Name: name, IsTyping: isTyping}, id)
}

// RoomMessages is the read-only findAllMessages operation.
func (g *Gateway) RoomMessages(room string) []domain.Message {
	return g.store.RoomMessages(room)
}

// DirectMessages is the read-only findMessagesBetweenUsers operation.
func (g *Gateway) DirectMessages(senderName, recipientName string) []domain.Message {
	return g.store.DirectMessages(senderName, recipientName)
}

func (g *Gateway) broadcastPresence() {
	users := OnlineSnapshot(g.reg, func(id core.ConnID) bool {
		_, ok := g.conns[id]
		return ok
	})
	ev := onlineUsersEvent{Type: "onlineUsers", Users: users}
	for id := range g.conns {
		g.emit(id, ev)
	}
	log.Debug().Str("module", "app.gateway").Int("online", len(users)).Msg("presence broadcast")
}

func (g *Gateway) broadcastRoom(room string, v any, except core.ConnID) {
	for _, id := range g.rooms.Members(room) {
		if id == except {
			continue
		}
		g.emit(id, v)
	}
}

// emit marshals and best-effort sends. A full or closed peer is logged
// and skipped, never retried.
func (g *Gateway) emit(id core.ConnID, v any) {
	conn, ok := g.conns[id]
	if !ok {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.gateway").Msg("emit marshal")
		return
	}
	if err := conn.TrySend(data); err != nil {
		log.Warn().Err(err).Str("module", "app.gateway").Str("sid", string(id)).Msg("dropped outbound event")
	}
}

package chat

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"chat-relay/internal/core"
	"chat-relay/internal/domain"
)

func (ctl *ChatWSController) handleJoin(
	sid core.ConnID,
	conn *WsChatConn,
	data []byte,
) {
	type joinPayload struct {
		Type string `json:"type"`
		Name string `json:"name"`
		Room string `json:"room"`
	}
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "chat").Msg("bad join payload")
		ctl.sendError(conn, "bad_payload")
		return
	}

	log.Info().Str("module", "chat").Str("sid", string(sid)).Str("name", p.Name).Str("room", p.Room).Msg("join")
	history := ctl.Gateway.Join(sid, p.Name, p.Room)

	resp := struct {
		Type     string           `json:"type"`
		Room     string           `json:"room"`
		Messages []domain.Message `json:"messages"`
	}{
		Type:     "messages",
		Room:     p.Room,
		Messages: history,
	}
	ctl.sendJSON(conn, resp)
}

func (ctl *ChatWSController) handleLeaveRoom(
	sid core.ConnID,
	conn *WsChatConn,
	data []byte,
) {
	type leavePayload struct {
		Type string `json:"type"`
		Room string `json:"room"`
	}
	var p leavePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "chat").Msg("bad leaveRoom payload")
		ctl.sendError(conn, "bad_payload")
		return
	}

	log.Info().Str("module", "chat").Str("sid", string(sid)).Str("room", p.Room).Msg("leave")
	ctl.Gateway.LeaveRoom(sid, p.Room)
}

func (ctl *ChatWSController) handleTyping(
	sid core.ConnID,
	conn *WsChatConn,
	data []byte,
) {
	type typingPayload struct {
		Type     string `json:"type"`
		IsTyping bool   `json:"isTyping"`
		Room     string `json:"room"`
	}
	var p typingPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "chat").Msg("bad typing payload")
		ctl.sendError(conn, "bad_payload")
		return
	}

	ctl.Gateway.Typing(sid, p.Room, p.IsTyping)
}

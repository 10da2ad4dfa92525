package chat

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"chat-relay/internal/core"
	"chat-relay/internal/domain"
)

func (ctl *ChatWSController) handleCreateMessage(
	sid core.ConnID,
	conn *WsChatConn,
	data []byte,
) {
	var dto domain.CreateMessage
	if err := json.Unmarshal(data, &dto); err != nil {
		log.Error().Err(err).Str("module", "chat").Msg("bad createMessage payload")
		ctl.sendError(conn, "bad_payload")
		return
	}

	msg := ctl.Gateway.CreateMessage(sid, dto)

	// Direct reply so the client can optimistically echo without
	// waiting for its own broadcast copy.
	resp := struct {
		Type    string         `json:"type"`
		Message domain.Message `json:"message"`
	}{
		Type:    "messageCreated",
		Message: msg,
	}
	ctl.sendJSON(conn, resp)
}

func (ctl *ChatWSController) handleFindAllMessages(
	sid core.ConnID,
	conn *WsChatConn,
	data []byte,
) {
	type payload struct {
		Type string `json:"type"`
		Room string `json:"room"`
	}
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "chat").Msg("bad findAllMessages payload")
		ctl.sendError(conn, "bad_payload")
		return
	}

	resp := struct {
		Type     string           `json:"type"`
		Room     string           `json:"room"`
		Messages []domain.Message `json:"messages"`
	}{
		Type:     "messages",
		Room:     p.Room,
		Messages: ctl.Gateway.RoomMessages(p.Room),
	}
	ctl.sendJSON(conn, resp)
}

func (ctl *ChatWSController) handleFindMessagesBetweenUsers(
	sid core.ConnID,
	conn *WsChatConn,
	data []byte,
) {
	type payload struct {
		Type          string `json:"type"`
		SenderName    string `json:"senderName"`
		RecipientName string `json:"recipientName"`
	}
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "chat").Msg("bad findMessagesBetweenUsers payload")
		ctl.sendError(conn, "bad_payload")
		return
	}

	resp := struct {
		Type     string           `json:"type"`
		Messages []domain.Message `json:"messages"`
	}{
		Type:     "directMessages",
		Messages: ctl.Gateway.DirectMessages(p.SenderName, p.RecipientName),
	}
	ctl.sendJSON(conn, resp)
}

// Package domain contains entity without logic, just meta-data
package domain

import (
	"sort"
	"strings"
)

// Message is the wire shape of a single chat event. Exactly one routing
// mode is active per message: room-targeted or recipient-targeted.
type Message struct {
	Name          string `json:"name"`
	Text          string `json:"text"`
	RecipientID   string `json:"recipientId,omitempty"`
	SenderID      string `json:"senderId"`
	Room          string `json:"room"`
	RecipientName string `json:"recipientName,omitempty"`
	SenderName    string `json:"senderName"`
}

// CreateMessage is the inbound send request. Which optional field is
// set decides the routing mode, resolved once via Target.
type CreateMessage struct {
	Text          string `json:"text"`
	Room          string `json:"room,omitempty"`
	RecipientName string `json:"recipientName,omitempty"`
	RecipientID   string `json:"recipientId,omitempty"`
	SenderID      string `json:"senderId"`
}

type TargetKind int

const (
	TargetNone TargetKind = iota
	TargetRoom
	TargetDirect
)

// Target is a message's routing destination: a room broadcast, a named
// recipient, or nothing at all. Decided at the boundary, never
// re-inferred downstream.
type Target struct {
	Kind      TargetKind
	Room      string
	Recipient string
}

// Target resolves the routing mode. A set recipient name wins over a
// set room; neither set yields TargetNone (the caller treats that as a
// silent no-op).
func (d CreateMessage) Target() Target {
	switch {
	case d.RecipientName != "":
		return Target{Kind: TargetDirect, Recipient: d.RecipientName}
	case d.Room != "":
		return Target{Kind: TargetRoom, Room: d.Room}
	default:
		return Target{Kind: TargetNone}
	}
}

// ConversationKey canonicalizes a direct-conversation key: the two
// participant names sorted and joined, so (A,B) and (B,A) address the
// same log.
func ConversationKey(nameA, nameB string) string {
	pair := []string{nameA, nameB}
	sort.Strings(pair)
	return strings.Join(pair, "-")
}

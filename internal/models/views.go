package models

import (
	"strings"
	"time"
)

// ChatView is the read projection of a chat for the front-end.
type ChatView struct {
	ChatID        string    `json:"chat_id"`
	CreatedAt     time.Time `json:"created_at"`
	InitiatorName string    `json:"initiator_name"`
	Members       []string  `json:"members"`
}

// InvitationView is the read projection of an invitation for its receiver.
type InvitationView struct {
	ID         string          `json:"id"`
	ChatID     string          `json:"chat_id"`
	SenderName string          `json:"sender_name"`
	State      InvitationState `json:"state"`
	CreatedAt  time.Time       `json:"created_at"`
}

// MessageView is one thread entry as seen by a specific viewer.
type MessageView struct {
	ID         string    `json:"id"`
	SenderName string    `json:"sender_name"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	IsMine     bool      `json:"is_mine"`
	ReadBy     []string  `json:"read_by,omitempty"`
}

// ReadByLine renders the read-by footer shown under a message.
func (v MessageView) ReadByLine() string {
	return strings.Join(v.ReadBy, ", ")
}

// ChatThreadView is the message thread of one chat as seen by a viewer.
type ChatThreadView struct {
	ChatID   string        `json:"chat_id"`
	Members  []string      `json:"members"`
	Messages []MessageView `json:"messages"`
}

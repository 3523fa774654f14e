package models

import "time"

// InvitationState tracks the invitation state machine.
// Valid values: "pending", "accepted", "denied". Terminal states are set once.
type InvitationState string

const (
	InvitationPending  InvitationState = "pending"
	InvitationAccepted InvitationState = "accepted"
	InvitationDenied   InvitationState = "denied"
)

// Invitation is a pending request for a non-member to join a chat.
type Invitation struct {
	ID        string          `json:"id"`
	ChatID    string          `json:"chat_id"`
	Sender    User            `json:"sender"`
	Receiver  User            `json:"receiver"`
	CreatedAt time.Time       `json:"created_at"`
	State     InvitationState `json:"state"`
}

// Resolved reports whether the invitation reached a terminal state.
func (i *Invitation) Resolved() bool {
	return i.State != InvitationPending
}

package models

import "time"

// Chat is a group of users sharing a message thread.
// Members is only populated on the create path (SaveChat persists the chat and
// its initial member set as one unit); reads load memberships separately.
type Chat struct {
	ID        string       `json:"id"`
	CreatedAt time.Time    `json:"created_at"`
	Initiator User         `json:"initiator"`
	Members   []Membership `json:"members,omitempty"`
}

// Membership makes one user part of one chat. Member user ids are unique
// within a chat (enforced in the service and by the DB unique constraint).
type Membership struct {
	ChatID   string    `json:"chat_id"`
	User     User      `json:"user"`
	JoinedAt time.Time `json:"joined_at"`
}

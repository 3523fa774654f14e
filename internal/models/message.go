package models

import "time"

// Message is stored in MongoDB as one document per message, receipts embedded.
// Embedding keeps the receipt fan-out atomic with the message write and mirrors
// how the thread is always read (message plus its per-receiver state).
type Message struct {
	ID            string    `bson:"_id" json:"id"`
	ChatID        string    `bson:"chat_id" json:"chat_id"`
	SenderID      string    `bson:"sender_id" json:"sender_id"`
	SenderName    string    `bson:"sender_name" json:"sender_name"`
	Content       string    `bson:"content" json:"content"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
	SenderDeleted bool      `bson:"sender_deleted" json:"-"`
	Receipts      []Receipt `bson:"receipts" json:"receipts,omitempty"`
}

// Receipt is per-recipient delivery state for one message. Receipts are created
// once at send time (one per non-sender member) and only ever flagged, never
// deleted. ReceiverName is denormalized at fan-out so read-by projections need
// no identity lookups.
type Receipt struct {
	ReceiverID        string `bson:"receiver_id" json:"receiver_id"`
	ReceiverName      string `bson:"receiver_name" json:"receiver_name"`
	IsRead            bool   `bson:"is_read" json:"is_read"`
	DeletedByReceiver bool   `bson:"deleted_by_receiver" json:"-"`
}

// ReceiptFor returns a pointer to the receipt held by userID, or nil when the
// user was not a member at send time.
func (m *Message) ReceiptFor(userID string) *Receipt {
	for i := range m.Receipts {
		if m.Receipts[i].ReceiverID == userID {
			return &m.Receipts[i]
		}
	}
	return nil
}

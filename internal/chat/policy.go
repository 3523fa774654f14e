package chat

import "github.com/mywallhq/mywall-backend/internal/models"

type membershipOp int

const (
	opAddMember membershipOp = iota
	opRemoveMember
)

// membershipPolicy is the single authorization gate for mutating a chat's
// member set: both adding and removing members is reserved to the chat's
// initiator. Invitation acceptance does not pass through here; the receiver
// joins via the transactional accept path instead.
func membershipPolicy(op membershipOp, actor models.User, chat *models.Chat) error {
	switch op {
	case opAddMember, opRemoveMember:
		if chat.Initiator.ID != actor.ID {
			return ErrForbidden
		}
	}
	return nil
}

package chat

import (
	"errors"
	"fmt"
)

// Caller-fault errors surfaced by chat operations. None is retried internally;
// validation runs before any persistence call, so a failed operation leaves no
// partial mutation behind.
var (
	ErrChatNotFound       = errors.New("chat: chat not found")
	ErrUserNotFound       = errors.New("chat: user not found")
	ErrMessageNotFound    = errors.New("chat: message not found")
	ErrInvitationNotFound = errors.New("chat: invitation not found")
	ErrDuplicateMember    = errors.New("chat: duplicate user in member list")
	ErrSelfInvite         = errors.New("chat: initiator cannot add themselves")
	ErrAlreadyMember      = errors.New("chat: user is already a member of the chat")
	ErrNotAMember         = errors.New("chat: user is not a member of the chat")
	ErrInvitationResolved = errors.New("chat: invitation was already accepted or denied")
	ErrForbidden          = errors.New("chat: operation not permitted for this user")
)

// ErrStorage wraps failures coming out of the storage ports. These propagate
// as-is; the core has no compensating logic for them.
var ErrStorage = errors.New("chat: storage failure")

func storageErr(err error) error {
	return fmt.Errorf("%w: %v", ErrStorage, err)
}

package chat

import (
	"context"

	"github.com/mywallhq/mywall-backend/internal/models"
)

// ChatStore persists chats, memberships and invitations. Lookups return
// (nil, nil) when the entity is absent; a non-nil error always means the
// storage layer itself failed.
type ChatStore interface {
	// SaveChat persists a new chat together with its initial member set as
	// one unit.
	SaveChat(ctx context.Context, chat *models.Chat) error
	ChatByID(ctx context.Context, chatID string) (*models.Chat, error)
	// ChatsVisibleTo returns the chats the given user may see, i.e. the
	// chats they hold a membership in.
	ChatsVisibleTo(ctx context.Context, userID string) ([]models.Chat, error)

	MembershipsByChat(ctx context.Context, chatID string) ([]models.Membership, error)
	SaveMembership(ctx context.Context, m *models.Membership) error
	DeleteMembership(ctx context.Context, chatID, userID string) error

	SaveInvitation(ctx context.Context, inv *models.Invitation) error
	InvitationByID(ctx context.Context, invitationID string) (*models.Invitation, error)
	InvitationsReceivedBy(ctx context.Context, userID string) ([]models.Invitation, error)
	// CompleteInvitation persists the invitation's terminal state and the
	// receiver's membership in a single transaction.
	CompleteInvitation(ctx context.Context, inv *models.Invitation, m *models.Membership) error
}

// MessageStore persists messages with their embedded receipt sets.
// SaveMessage must write the message and all receipts as one unit.
type MessageStore interface {
	SaveMessage(ctx context.Context, msg *models.Message) error
	MessageByID(ctx context.Context, messageID string) (*models.Message, error)
	// MessagesByChat returns all messages of a chat, oldest first.
	MessagesByChat(ctx context.Context, chatID string) ([]models.Message, error)
}

// IdentityProvider resolves users from the identity subsystem.
// Lookups return (nil, nil) when no matching user exists.
type IdentityProvider interface {
	UserByID(ctx context.Context, userID string) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
}

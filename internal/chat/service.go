// Package chat implements the messaging core: chat and invitation lifecycle,
// message delivery with per-recipient read and soft-delete state, and the view
// projections consumed by the request-handling layer. Persistence and identity
// are reached through the ports in ports.go; the actor is always passed in
// explicitly by the caller.
package chat

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/mywallhq/mywall-backend/internal/models"
)

// Service is the chat domain service. All methods are short-lived units of
// work; they hold no state between calls beyond what the stores persist.
type Service struct {
	chats    ChatStore
	messages MessageStore
	identity IdentityProvider
}

func NewService(chats ChatStore, messages MessageStore, identity IdentityProvider) *Service {
	return &Service{chats: chats, messages: messages, identity: identity}
}

// StartChat creates a chat with the actor as initiator and first member, plus
// one membership per resolvable target user. Target ids that resolve to no
// user are skipped silently; duplicate ids and the actor's own id are caller
// faults. The chat and its member set are persisted as one unit.
func (s *Service) StartChat(ctx context.Context, actor models.User, targetUserIDs []string) (string, error) {
	if len(lo.Uniq(targetUserIDs)) != len(targetUserIDs) {
		return "", ErrDuplicateMember
	}
	if lo.Contains(targetUserIDs, actor.ID) {
		return "", ErrSelfInvite
	}

	now := time.Now().UTC()
	chat := &models.Chat{
		ID:        uuid.NewString(),
		CreatedAt: now,
		Initiator: actor,
	}
	chat.Members = append(chat.Members, models.Membership{
		ChatID:   chat.ID,
		User:     actor,
		JoinedAt: now,
	})

	for _, id := range targetUserIDs {
		user, err := s.identity.UserByID(ctx, id)
		if err != nil {
			return "", storageErr(err)
		}
		if user == nil {
			continue
		}
		chat.Members = append(chat.Members, models.Membership{
			ChatID:   chat.ID,
			User:     *user,
			JoinedAt: now,
		})
	}

	if err := s.chats.SaveChat(ctx, chat); err != nil {
		return "", storageErr(err)
	}
	return chat.ID, nil
}

// AddMember puts userID into the chat. Reserved to the initiator via the
// membership policy.
func (s *Service) AddMember(ctx context.Context, actor models.User, chatID, userID string) (*models.Membership, error) {
	user, err := s.identity.UserByID(ctx, userID)
	if err != nil {
		return nil, storageErr(err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	chat, err := s.chats.ChatByID(ctx, chatID)
	if err != nil {
		return nil, storageErr(err)
	}
	if chat == nil {
		return nil, ErrChatNotFound
	}
	if err := membershipPolicy(opAddMember, actor, chat); err != nil {
		return nil, err
	}

	members, err := s.chats.MembershipsByChat(ctx, chatID)
	if err != nil {
		return nil, storageErr(err)
	}
	if hasMember(members, user.ID) {
		return nil, ErrAlreadyMember
	}

	m := &models.Membership{ChatID: chat.ID, User: *user, JoinedAt: time.Now().UTC()}
	if err := s.chats.SaveMembership(ctx, m); err != nil {
		return nil, storageErr(err)
	}
	return m, nil
}

// RemoveMember deletes userID's membership. Reserved to the initiator.
func (s *Service) RemoveMember(ctx context.Context, actor models.User, chatID, userID string) (bool, error) {
	user, err := s.identity.UserByID(ctx, userID)
	if err != nil {
		return false, storageErr(err)
	}
	if user == nil {
		return false, ErrUserNotFound
	}

	chat, err := s.chats.ChatByID(ctx, chatID)
	if err != nil {
		return false, storageErr(err)
	}
	if chat == nil {
		return false, ErrChatNotFound
	}
	if err := membershipPolicy(opRemoveMember, actor, chat); err != nil {
		return false, err
	}

	members, err := s.chats.MembershipsByChat(ctx, chatID)
	if err != nil {
		return false, storageErr(err)
	}
	if !hasMember(members, user.ID) {
		return false, ErrNotAMember
	}

	if err := s.chats.DeleteMembership(ctx, chatID, user.ID); err != nil {
		return false, storageErr(err)
	}
	return true, nil
}

// GetChat projects one chat: id, creation time, initiator name and the member
// names in join order.
func (s *Service) GetChat(ctx context.Context, chatID string) (*models.ChatView, error) {
	chat, err := s.chats.ChatByID(ctx, chatID)
	if err != nil {
		return nil, storageErr(err)
	}
	if chat == nil {
		return nil, ErrChatNotFound
	}

	members, err := s.chats.MembershipsByChat(ctx, chatID)
	if err != nil {
		return nil, storageErr(err)
	}
	view := projectChat(chat, members)
	return &view, nil
}

// ListChats returns the chats visible to the actor, each enriched with member
// names. Visibility scoping lives in the store (membership-based).
func (s *Service) ListChats(ctx context.Context, actor models.User) ([]models.ChatView, error) {
	chats, err := s.chats.ChatsVisibleTo(ctx, actor.ID)
	if err != nil {
		return nil, storageErr(err)
	}

	views := make([]models.ChatView, 0, len(chats))
	for i := range chats {
		members, err := s.chats.MembershipsByChat(ctx, chats[i].ID)
		if err != nil {
			return nil, storageErr(err)
		}
		views = append(views, projectChat(&chats[i], members))
	}
	return views, nil
}

// InviteUser creates a pending invitation for the user registered under
// receiverEmail to join the chat.
func (s *Service) InviteUser(ctx context.Context, actor models.User, chatID, receiverEmail string) (*models.Invitation, error) {
	receiver, err := s.identity.UserByEmail(ctx, receiverEmail)
	if err != nil {
		return nil, storageErr(err)
	}
	if receiver == nil {
		return nil, ErrUserNotFound
	}

	chat, err := s.chats.ChatByID(ctx, chatID)
	if err != nil {
		return nil, storageErr(err)
	}
	if chat == nil {
		return nil, ErrChatNotFound
	}

	members, err := s.chats.MembershipsByChat(ctx, chatID)
	if err != nil {
		return nil, storageErr(err)
	}
	if hasMember(members, receiver.ID) {
		return nil, ErrAlreadyMember
	}

	inv := &models.Invitation{
		ID:        uuid.NewString(),
		ChatID:    chat.ID,
		Sender:    actor,
		Receiver:  *receiver,
		CreatedAt: time.Now().UTC(),
		State:     models.InvitationPending,
	}
	if err := s.chats.SaveInvitation(ctx, inv); err != nil {
		return nil, storageErr(err)
	}
	return inv, nil
}

// AcceptInvitation flips a pending invitation to accepted and adds the
// receiver to the chat. Both writes go through one store transaction, so the
// state flip and the membership are all-or-nothing.
func (s *Service) AcceptInvitation(ctx context.Context, actor models.User, invitationID string) error {
	inv, err := s.loadPendingInvitation(ctx, actor, invitationID)
	if err != nil {
		return err
	}

	members, err := s.chats.MembershipsByChat(ctx, inv.ChatID)
	if err != nil {
		return storageErr(err)
	}
	if hasMember(members, inv.Receiver.ID) {
		return ErrAlreadyMember
	}

	inv.State = models.InvitationAccepted
	m := &models.Membership{ChatID: inv.ChatID, User: inv.Receiver, JoinedAt: time.Now().UTC()}
	if err := s.chats.CompleteInvitation(ctx, inv, m); err != nil {
		return storageErr(err)
	}
	return nil
}

// DenyInvitation flips a pending invitation to denied. No membership is
// created.
func (s *Service) DenyInvitation(ctx context.Context, actor models.User, invitationID string) error {
	inv, err := s.loadPendingInvitation(ctx, actor, invitationID)
	if err != nil {
		return err
	}

	inv.State = models.InvitationDenied
	if err := s.chats.SaveInvitation(ctx, inv); err != nil {
		return storageErr(err)
	}
	return nil
}

// ListReceivedInvitations returns every invitation addressed to the actor,
// regardless of state.
func (s *Service) ListReceivedInvitations(ctx context.Context, actor models.User) ([]models.InvitationView, error) {
	invs, err := s.chats.InvitationsReceivedBy(ctx, actor.ID)
	if err != nil {
		return nil, storageErr(err)
	}

	views := make([]models.InvitationView, 0, len(invs))
	for _, inv := range invs {
		views = append(views, models.InvitationView{
			ID:         inv.ID,
			ChatID:     inv.ChatID,
			SenderName: inv.Sender.Name,
			State:      inv.State,
			CreatedAt:  inv.CreatedAt,
		})
	}
	return views, nil
}

// loadPendingInvitation runs the shared accept/deny preconditions: the
// invitation exists, the actor is its receiver and it is still pending.
func (s *Service) loadPendingInvitation(ctx context.Context, actor models.User, invitationID string) (*models.Invitation, error) {
	inv, err := s.chats.InvitationByID(ctx, invitationID)
	if err != nil {
		return nil, storageErr(err)
	}
	if inv == nil {
		return nil, ErrInvitationNotFound
	}
	if inv.Receiver.ID != actor.ID {
		return nil, ErrForbidden
	}
	if inv.Resolved() {
		return nil, ErrInvitationResolved
	}
	return inv, nil
}

func hasMember(members []models.Membership, userID string) bool {
	for _, m := range members {
		if m.User.ID == userID {
			return true
		}
	}
	return false
}

func memberNames(members []models.Membership) []string {
	names := make([]string, 0, len(members))
	for _, m := range members {
		names = append(names, m.User.Name)
	}
	return names
}

func projectChat(chat *models.Chat, members []models.Membership) models.ChatView {
	return models.ChatView{
		ChatID:        chat.ID,
		CreatedAt:     chat.CreatedAt,
		InitiatorName: chat.Initiator.Name,
		Members:       memberNames(members),
	}
}

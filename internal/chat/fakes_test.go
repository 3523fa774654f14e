package chat

import (
	"context"

	"github.com/mywallhq/mywall-backend/internal/models"
)

// In-memory ports for the service tests. They clone everything on the way in
// and out, so a mutation only becomes observable after going back through a
// Save call, the same as with the real stores.

type memChatStore struct {
	chats       map[string]models.Chat
	members     map[string][]models.Membership
	invitations map[string]models.Invitation
}

func newMemChatStore() *memChatStore {
	return &memChatStore{
		chats:       map[string]models.Chat{},
		members:     map[string][]models.Membership{},
		invitations: map[string]models.Invitation{},
	}
}

func (s *memChatStore) SaveChat(_ context.Context, chat *models.Chat) error {
	stored := *chat
	stored.Members = nil
	s.chats[chat.ID] = stored
	s.members[chat.ID] = append([]models.Membership(nil), chat.Members...)
	return nil
}

func (s *memChatStore) ChatByID(_ context.Context, chatID string) (*models.Chat, error) {
	chat, ok := s.chats[chatID]
	if !ok {
		return nil, nil
	}
	return &chat, nil
}

func (s *memChatStore) ChatsVisibleTo(_ context.Context, userID string) ([]models.Chat, error) {
	var chats []models.Chat
	for id, chat := range s.chats {
		for _, m := range s.members[id] {
			if m.User.ID == userID {
				chats = append(chats, chat)
				break
			}
		}
	}
	return chats, nil
}

func (s *memChatStore) MembershipsByChat(_ context.Context, chatID string) ([]models.Membership, error) {
	return append([]models.Membership(nil), s.members[chatID]...), nil
}

func (s *memChatStore) SaveMembership(_ context.Context, m *models.Membership) error {
	s.members[m.ChatID] = append(s.members[m.ChatID], *m)
	return nil
}

func (s *memChatStore) DeleteMembership(_ context.Context, chatID, userID string) error {
	kept := s.members[chatID][:0]
	for _, m := range s.members[chatID] {
		if m.User.ID != userID {
			kept = append(kept, m)
		}
	}
	s.members[chatID] = kept
	return nil
}

func (s *memChatStore) SaveInvitation(_ context.Context, inv *models.Invitation) error {
	s.invitations[inv.ID] = *inv
	return nil
}

func (s *memChatStore) InvitationByID(_ context.Context, invitationID string) (*models.Invitation, error) {
	inv, ok := s.invitations[invitationID]
	if !ok {
		return nil, nil
	}
	return &inv, nil
}

func (s *memChatStore) InvitationsReceivedBy(_ context.Context, userID string) ([]models.Invitation, error) {
	var invs []models.Invitation
	for _, inv := range s.invitations {
		if inv.Receiver.ID == userID {
			invs = append(invs, inv)
		}
	}
	return invs, nil
}

func (s *memChatStore) CompleteInvitation(_ context.Context, inv *models.Invitation, m *models.Membership) error {
	s.invitations[inv.ID] = *inv
	s.members[m.ChatID] = append(s.members[m.ChatID], *m)
	return nil
}

type memMessageStore struct {
	msgs []models.Message
}

func cloneMessage(msg models.Message) models.Message {
	msg.Receipts = append([]models.Receipt(nil), msg.Receipts...)
	return msg
}

func (s *memMessageStore) SaveMessage(_ context.Context, msg *models.Message) error {
	for i := range s.msgs {
		if s.msgs[i].ID == msg.ID {
			s.msgs[i] = cloneMessage(*msg)
			return nil
		}
	}
	s.msgs = append(s.msgs, cloneMessage(*msg))
	return nil
}

func (s *memMessageStore) MessageByID(_ context.Context, messageID string) (*models.Message, error) {
	for i := range s.msgs {
		if s.msgs[i].ID == messageID {
			msg := cloneMessage(s.msgs[i])
			return &msg, nil
		}
	}
	return nil, nil
}

func (s *memMessageStore) MessagesByChat(_ context.Context, chatID string) ([]models.Message, error) {
	var msgs []models.Message
	for i := range s.msgs {
		if s.msgs[i].ChatID == chatID {
			msgs = append(msgs, cloneMessage(s.msgs[i]))
		}
	}
	return msgs, nil
}

type memIdentity struct {
	users  map[string]models.User // by id
	emails map[string]string      // email -> user id
}

func newMemIdentity() *memIdentity {
	return &memIdentity{users: map[string]models.User{}, emails: map[string]string{}}
}

func (p *memIdentity) register(user models.User, email string) {
	p.users[user.ID] = user
	p.emails[email] = user.ID
}

func (p *memIdentity) UserByID(_ context.Context, userID string) (*models.User, error) {
	user, ok := p.users[userID]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (p *memIdentity) UserByEmail(_ context.Context, email string) (*models.User, error) {
	id, ok := p.emails[email]
	if !ok {
		return nil, nil
	}
	user := p.users[id]
	return &user, nil
}

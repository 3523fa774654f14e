package chat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mywallhq/mywall-backend/internal/models"
)

var (
	alice = models.User{ID: "11111111-1111-1111-1111-111111111111", Name: "Alice"}
	bob   = models.User{ID: "22222222-2222-2222-2222-222222222222", Name: "Bob"}
	clara = models.User{ID: "33333333-3333-3333-3333-333333333333", Name: "Clara"}
	dave  = models.User{ID: "44444444-4444-4444-4444-444444444444", Name: "Dave"}
)

type fixture struct {
	svc      *Service
	chats    *memChatStore
	messages *memMessageStore
	identity *memIdentity
}

func newFixture() *fixture {
	identity := newMemIdentity()
	for _, u := range []models.User{alice, bob, clara, dave} {
		identity.register(u, u.Name+"@mywall.test")
	}
	chats := newMemChatStore()
	messages := &memMessageStore{}
	return &fixture{
		svc:      NewService(chats, messages, identity),
		chats:    chats,
		messages: messages,
		identity: identity,
	}
}

func (f *fixture) startChat(t *testing.T, actor models.User, targets ...string) string {
	t.Helper()
	chatID, err := f.svc.StartChat(context.Background(), actor, targets)
	require.NoError(t, err)
	return chatID
}

func Test_Start_Chat_Creates_Initiator_Membership(t *testing.T) {
	req := require.New(t)
	f := newFixture()

	chatID := f.startChat(t, alice, bob.ID)

	chat, err := f.chats.ChatByID(context.Background(), chatID)
	req.NoError(err)
	req.NotNil(chat)
	req.Equal(alice.ID, chat.Initiator.ID)
	req.False(chat.CreatedAt.IsZero())

	members, err := f.chats.MembershipsByChat(context.Background(), chatID)
	req.NoError(err)
	req.Equal([]string{"Alice", "Bob"}, memberNames(members))
}

func Test_Start_Chat_Rejects_Duplicate_Targets(t *testing.T) {
	req := require.New(t)
	f := newFixture()

	_, err := f.svc.StartChat(context.Background(), alice, []string{bob.ID, bob.ID})
	req.ErrorIs(err, ErrDuplicateMember)
	req.Empty(f.chats.chats)
}

func Test_Start_Chat_Rejects_Self_Target(t *testing.T) {
	req := require.New(t)
	f := newFixture()

	_, err := f.svc.StartChat(context.Background(), alice, []string{bob.ID, alice.ID})
	req.ErrorIs(err, ErrSelfInvite)
	req.Empty(f.chats.chats)
}

func Test_Start_Chat_Skips_Unknown_Users(t *testing.T) {
	req := require.New(t)
	f := newFixture()

	chatID := f.startChat(t, alice, bob.ID, clara.ID, "99999999-9999-9999-9999-999999999999")

	members, err := f.chats.MembershipsByChat(context.Background(), chatID)
	req.NoError(err)
	req.Equal([]string{"Alice", "Bob", "Clara"}, memberNames(members))
}

func Test_Add_Member(t *testing.T) {
	req := require.New(t)
	f := newFixture()
	chatID := f.startChat(t, alice, bob.ID)

	m, err := f.svc.AddMember(context.Background(), alice, chatID, clara.ID)
	req.NoError(err)
	req.Equal(clara.ID, m.User.ID)

	members, err := f.chats.MembershipsByChat(context.Background(), chatID)
	req.NoError(err)
	req.True(hasMember(members, clara.ID))

	_, err = f.svc.AddMember(context.Background(), alice, chatID, clara.ID)
	req.ErrorIs(err, ErrAlreadyMember)

	_, err = f.svc.AddMember(context.Background(), alice, chatID, "99999999-9999-9999-9999-999999999999")
	req.ErrorIs(err, ErrUserNotFound)
}

func Test_Add_Member_Requires_Initiator(t *testing.T) {
	req := require.New(t)
	f := newFixture()
	chatID := f.startChat(t, alice, bob.ID)

	_, err := f.svc.AddMember(context.Background(), bob, chatID, clara.ID)
	req.ErrorIs(err, ErrForbidden)
}

func Test_Remove_Member(t *testing.T) {
	req := require.New(t)
	f := newFixture()
	chatID := f.startChat(t, alice, bob.ID)

	ok, err := f.svc.RemoveMember(context.Background(), alice, chatID, bob.ID)
	req.NoError(err)
	req.True(ok)

	members, err := f.chats.MembershipsByChat(context.Background(), chatID)
	req.NoError(err)
	req.False(hasMember(members, bob.ID))

	_, err = f.svc.RemoveMember(context.Background(), alice, chatID, bob.ID)
	req.ErrorIs(err, ErrNotAMember)

	_, err = f.svc.RemoveMember(context.Background(), alice, "99999999-9999-9999-9999-999999999999", bob.ID)
	req.ErrorIs(err, ErrChatNotFound)
}

func Test_Remove_Member_By_Non_Initiator_Is_Forbidden(t *testing.T) {
	req := require.New(t)
	f := newFixture()
	chatID := f.startChat(t, alice, bob.ID)

	// Forbidden whether or not the target actually is a member.
	_, err := f.svc.RemoveMember(context.Background(), bob, chatID, alice.ID)
	req.ErrorIs(err, ErrForbidden)
	_, err = f.svc.RemoveMember(context.Background(), bob, chatID, clara.ID)
	req.ErrorIs(err, ErrForbidden)
}

func Test_Get_Chat_Projection_Is_Idempotent(t *testing.T) {
	req := require.New(t)
	f := newFixture()
	chatID := f.startChat(t, alice, bob.ID)

	first, err := f.svc.GetChat(context.Background(), chatID)
	req.NoError(err)
	second, err := f.svc.GetChat(context.Background(), chatID)
	req.NoError(err)

	req.Equal(first, second)
	req.Equal("Alice", first.InitiatorName)
	req.Equal([]string{"Alice", "Bob"}, first.Members)
}

func Test_Get_Chat_Unknown(t *testing.T) {
	f := newFixture()

	_, err := f.svc.GetChat(context.Background(), "99999999-9999-9999-9999-999999999999")
	require.ErrorIs(t, err, ErrChatNotFound)
}

func Test_List_Chats_Is_Scoped_To_Membership(t *testing.T) {
	req := require.New(t)
	f := newFixture()
	f.startChat(t, alice, bob.ID)
	f.startChat(t, clara, bob.ID)

	views, err := f.svc.ListChats(context.Background(), bob)
	req.NoError(err)
	req.Len(views, 2)

	views, err = f.svc.ListChats(context.Background(), clara)
	req.NoError(err)
	req.Len(views, 1)
	req.Equal("Clara", views[0].InitiatorName)
	req.ElementsMatch([]string{"Clara", "Bob"}, views[0].Members)

	views, err = f.svc.ListChats(context.Background(), dave)
	req.NoError(err)
	req.Empty(views)
}

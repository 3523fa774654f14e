package store

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mywallhq/mywall-backend/internal/chat"
	"github.com/mywallhq/mywall-backend/internal/models"
)

const (
	membersKeyPrefix = "chat:"
	membersKeySuffix = ":members"
	membersTTL       = 5 * time.Minute
)

func membersKey(chatID string) string {
	return membersKeyPrefix + chatID + membersKeySuffix
}

// CachedChatStore is a read-through Redis cache in front of a chat.ChatStore.
// Only MembershipsByChat is cached (it runs on every send, list and policy
// check); every membership-mutating write drops the key. Cache faults are
// logged and swallowed so Redis trouble never fails a chat operation.
type CachedChatStore struct {
	inner chat.ChatStore
	rdb   *redis.Client
}

func NewCachedChatStore(inner chat.ChatStore, rdb *redis.Client) *CachedChatStore {
	return &CachedChatStore{inner: inner, rdb: rdb}
}

func (c *CachedChatStore) MembershipsByChat(ctx context.Context, chatID string) ([]models.Membership, error) {
	key := membersKey(chatID)
	if raw, err := c.rdb.Get(ctx, key).Result(); err == nil {
		var members []models.Membership
		if json.Unmarshal([]byte(raw), &members) == nil {
			return members, nil
		}
	}

	members, err := c.inner.MembershipsByChat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(members); err == nil {
		if err := c.rdb.Set(ctx, key, data, membersTTL).Err(); err != nil {
			log.Printf("chat_cache: warm failed for chat %s: %v", chatID, err)
		}
	}
	return members, nil
}

func (c *CachedChatStore) SaveChat(ctx context.Context, ch *models.Chat) error {
	if err := c.inner.SaveChat(ctx, ch); err != nil {
		return err
	}
	c.invalidate(ctx, ch.ID)
	return nil
}

func (c *CachedChatStore) SaveMembership(ctx context.Context, m *models.Membership) error {
	if err := c.inner.SaveMembership(ctx, m); err != nil {
		return err
	}
	c.invalidate(ctx, m.ChatID)
	return nil
}

func (c *CachedChatStore) DeleteMembership(ctx context.Context, chatID, userID string) error {
	if err := c.inner.DeleteMembership(ctx, chatID, userID); err != nil {
		return err
	}
	c.invalidate(ctx, chatID)
	return nil
}

func (c *CachedChatStore) CompleteInvitation(ctx context.Context, inv *models.Invitation, m *models.Membership) error {
	if err := c.inner.CompleteInvitation(ctx, inv, m); err != nil {
		return err
	}
	c.invalidate(ctx, m.ChatID)
	return nil
}

func (c *CachedChatStore) invalidate(ctx context.Context, chatID string) {
	if err := c.rdb.Del(ctx, membersKey(chatID)).Err(); err != nil {
		log.Printf("chat_cache: invalidate failed for chat %s: %v", chatID, err)
	}
}

// Pass-throughs for everything that is not membership-shaped.

func (c *CachedChatStore) ChatByID(ctx context.Context, chatID string) (*models.Chat, error) {
	return c.inner.ChatByID(ctx, chatID)
}

func (c *CachedChatStore) ChatsVisibleTo(ctx context.Context, userID string) ([]models.Chat, error) {
	return c.inner.ChatsVisibleTo(ctx, userID)
}

func (c *CachedChatStore) SaveInvitation(ctx context.Context, inv *models.Invitation) error {
	return c.inner.SaveInvitation(ctx, inv)
}

func (c *CachedChatStore) InvitationByID(ctx context.Context, invitationID string) (*models.Invitation, error) {
	return c.inner.InvitationByID(ctx, invitationID)
}

func (c *CachedChatStore) InvitationsReceivedBy(ctx context.Context, userID string) ([]models.Invitation, error) {
	return c.inner.InvitationsReceivedBy(ctx, userID)
}

package chat

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mywallhq/mywall-backend/internal/models"
)

// SendMessage creates a message in the chat with one unread receipt per
// current member other than the sender. The message and its receipts are
// persisted as one unit; membership changes after this point never touch the
// receipt set.
func (s *Service) SendMessage(ctx context.Context, actor models.User, chatID, content string) (*models.Message, error) {
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

	msg := &models.Message{
		ID:         uuid.NewString(),
		ChatID:     chat.ID,
		SenderID:   actor.ID,
		SenderName: actor.Name,
		Content:    content,
		CreatedAt:  time.Now().UTC(),
	}
	for _, m := range members {
		if m.User.ID == actor.ID {
			continue
		}
		msg.Receipts = append(msg.Receipts, models.Receipt{
			ReceiverID:   m.User.ID,
			ReceiverName: m.User.Name,
		})
	}

	if err := s.messages.SaveMessage(ctx, msg); err != nil {
		return nil, storageErr(err)
	}
	return msg, nil
}

// EditMessage replaces the content of the actor's own message. No edit audit
// is kept.
func (s *Service) EditMessage(ctx context.Context, actor models.User, messageID, newContent string) error {
	msg, err := s.messages.MessageByID(ctx, messageID)
	if err != nil {
		return storageErr(err)
	}
	if msg == nil {
		return ErrMessageNotFound
	}
	if msg.SenderID != actor.ID {
		return ErrForbidden
	}

	msg.Content = newContent
	if err := s.messages.SaveMessage(ctx, msg); err != nil {
		return storageErr(err)
	}
	return nil
}

// DeleteMessage hides the message from the actor only. A receiver flags their
// own receipt, the sender flags the sender side; the message stays in storage
// and stays visible to everyone else.
func (s *Service) DeleteMessage(ctx context.Context, actor models.User, messageID string) (bool, error) {
	msg, err := s.messages.MessageByID(ctx, messageID)
	if err != nil {
		return false, storageErr(err)
	}
	if msg == nil {
		return false, ErrMessageNotFound
	}

	chat, err := s.chats.ChatByID(ctx, msg.ChatID)
	if err != nil {
		return false, storageErr(err)
	}
	if chat == nil {
		return false, ErrChatNotFound
	}

	members, err := s.chats.MembershipsByChat(ctx, msg.ChatID)
	if err != nil {
		return false, storageErr(err)
	}
	if !hasMember(members, actor.ID) {
		return false, ErrNotAMember
	}

	changed := false
	if r := msg.ReceiptFor(actor.ID); r != nil {
		r.DeletedByReceiver = true
		changed = true
	}
	if msg.SenderID == actor.ID {
		msg.SenderDeleted = true
		changed = true
	}
	if changed {
		if err := s.messages.SaveMessage(ctx, msg); err != nil {
			return false, storageErr(err)
		}
	}
	return true, nil
}

// ListMessages returns the chat's thread as the actor sees it. Fetching the
// thread IS the read acknowledgment: any unread receipt held by the actor is
// flipped to read and persisted before projection, so a second fetch is a
// no-op. Messages soft-deleted for the actor are filtered out, as are messages
// sent before the actor joined (they carry no receipt for them).
func (s *Service) ListMessages(ctx context.Context, actor models.User, chatID string) (*models.ChatThreadView, error) {
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
	msgs, err := s.messages.MessagesByChat(ctx, chatID)
	if err != nil {
		return nil, storageErr(err)
	}

	view := &models.ChatThreadView{
		ChatID:  chat.ID,
		Members: memberNames(members),
	}
	for i := range msgs {
		msg := &msgs[i]
		if msg.SenderID == actor.ID {
			if msg.SenderDeleted {
				continue
			}
			view.Messages = append(view.Messages, projectMessage(msg, actor))
			continue
		}

		r := msg.ReceiptFor(actor.ID)
		if r == nil {
			continue
		}
		if !r.IsRead {
			r.IsRead = true
			if err := s.messages.SaveMessage(ctx, msg); err != nil {
				return nil, storageErr(err)
			}
		}
		if r.DeletedByReceiver {
			continue
		}
		view.Messages = append(view.Messages, projectMessage(msg, actor))
	}
	return view, nil
}

func projectMessage(msg *models.Message, viewer models.User) models.MessageView {
	v := models.MessageView{
		ID:         msg.ID,
		SenderName: msg.SenderName,
		Content:    msg.Content,
		CreatedAt:  msg.CreatedAt,
		IsMine:     msg.SenderID == viewer.ID,
	}
	for _, r := range msg.Receipts {
		if r.IsRead {
			v.ReadBy = append(v.ReadBy, r.ReceiverName)
		}
	}
	return v
}

// Package store provides the production adapters behind the chat core's
// ports: PostgreSQL for chats/memberships/invitations and users, MongoDB for
// messages, Redis as a read-through cache in front of membership lookups.
package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/mywallhq/mywall-backend/internal/models"
)

// PostgresChatStore implements chat.ChatStore on top of the chats,
// chat_members and chat_invitations tables.
type PostgresChatStore struct {
	db *sql.DB
}

func NewPostgresChatStore(db *sql.DB) *PostgresChatStore {
	return &PostgresChatStore{db: db}
}

// SaveChat inserts the chat and its initial member rows in one transaction.
func (s *PostgresChatStore) SaveChat(ctx context.Context, chat *models.Chat) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO chats (id, created_at, initiator_id) VALUES ($1, $2, $3)
	`, chat.ID, chat.CreatedAt, chat.Initiator.ID); err != nil {
		return err
	}
	for _, m := range chat.Members {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO chat_members (chat_id, user_id, joined_at) VALUES ($1, $2, $3)
		`, m.ChatID, m.User.ID, m.JoinedAt); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *PostgresChatStore) ChatByID(ctx context.Context, chatID string) (*models.Chat, error) {
	id, err := uuid.Parse(chatID)
	if err != nil {
		return nil, nil // malformed id cannot match any chat
	}

	var chat models.Chat
	err = s.db.QueryRowContext(ctx, `
		SELECT c.id, c.created_at, c.initiator_id, u.username
		FROM chats c
		JOIN users u ON u.id = c.initiator_id
		WHERE c.id = $1
	`, id).Scan(&chat.ID, &chat.CreatedAt, &chat.Initiator.ID, &chat.Initiator.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

func (s *PostgresChatStore) ChatsVisibleTo(ctx context.Context, userID string) ([]models.Chat, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.created_at, c.initiator_id, u.username
		FROM chats c
		JOIN users u ON u.id = c.initiator_id
		JOIN chat_members m ON m.chat_id = c.id
		WHERE m.user_id = $1
		ORDER BY c.created_at DESC
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chats []models.Chat
	for rows.Next() {
		var chat models.Chat
		if err := rows.Scan(&chat.ID, &chat.CreatedAt, &chat.Initiator.ID, &chat.Initiator.Name); err != nil {
			return nil, err
		}
		chats = append(chats, chat)
	}
	return chats, rows.Err()
}

func (s *PostgresChatStore) MembershipsByChat(ctx context.Context, chatID string) ([]models.Membership, error) {
	id, err := uuid.Parse(chatID)
	if err != nil {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT m.chat_id, m.user_id, u.username, m.joined_at
		FROM chat_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.chat_id = $1
		ORDER BY m.joined_at, u.username
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []models.Membership
	for rows.Next() {
		var m models.Membership
		if err := rows.Scan(&m.ChatID, &m.User.ID, &m.User.Name, &m.JoinedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (s *PostgresChatStore) SaveMembership(ctx context.Context, m *models.Membership) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO chat_members (chat_id, user_id, joined_at) VALUES ($1, $2, $3)
	`, m.ChatID, m.User.ID, m.JoinedAt)
	return err
}

func (s *PostgresChatStore) DeleteMembership(ctx context.Context, chatID, userID string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM chat_members WHERE chat_id = $1 AND user_id = $2
	`, chatID, userID)
	return err
}

func (s *PostgresChatStore) SaveInvitation(ctx context.Context, inv *models.Invitation) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO chat_invitations (id, chat_id, sender_id, receiver_id, state, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET state = EXCLUDED.state
	`, inv.ID, inv.ChatID, inv.Sender.ID, inv.Receiver.ID, inv.State, inv.CreatedAt)
	return err
}

func (s *PostgresChatStore) InvitationByID(ctx context.Context, invitationID string) (*models.Invitation, error) {
	id, err := uuid.Parse(invitationID)
	if err != nil {
		return nil, nil
	}

	inv, err := scanInvitation(s.db.QueryRowContext(ctx, invitationQuery+` WHERE i.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *PostgresChatStore) InvitationsReceivedBy(ctx context.Context, userID string) ([]models.Invitation, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, invitationQuery+`
		WHERE i.receiver_id = $1
		ORDER BY i.created_at DESC
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invs []models.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		invs = append(invs, *inv)
	}
	return invs, rows.Err()
}

// CompleteInvitation persists the terminal state and the receiver's membership
// atomically, so a crash can never leave an accepted invitation without its
// membership or the other way around.
func (s *PostgresChatStore) CompleteInvitation(ctx context.Context, inv *models.Invitation, m *models.Membership) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		UPDATE chat_invitations SET state = $1 WHERE id = $2
	`, inv.State, inv.ID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO chat_members (chat_id, user_id, joined_at) VALUES ($1, $2, $3)
	`, m.ChatID, m.User.ID, m.JoinedAt); err != nil {
		return err
	}
	return tx.Commit()
}

const invitationQuery = `
	SELECT i.id, i.chat_id, i.sender_id, su.username, i.receiver_id, ru.username, i.state, i.created_at
	FROM chat_invitations i
	JOIN users su ON su.id = i.sender_id
	JOIN users ru ON ru.id = i.receiver_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvitation(row rowScanner) (*models.Invitation, error) {
	var inv models.Invitation
	err := row.Scan(
		&inv.ID, &inv.ChatID,
		&inv.Sender.ID, &inv.Sender.Name,
		&inv.Receiver.ID, &inv.Receiver.Name,
		&inv.State, &inv.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/mywallhq/mywall-backend/internal/models"
)

// PostgresIdentity implements chat.IdentityProvider against the users table.
// Only active users resolve; lookups never authenticate, they only resolve.
type PostgresIdentity struct {
	db *sql.DB
}

func NewPostgresIdentity(db *sql.DB) *PostgresIdentity {
	return &PostgresIdentity{db: db}
}

func (p *PostgresIdentity) UserByID(ctx context.Context, userID string) (*models.User, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, nil // malformed id cannot match any user
	}

	var user models.User
	err = p.db.QueryRowContext(ctx, `
		SELECT id, username FROM users WHERE id = $1 AND is_active = TRUE
	`, id).Scan(&user.ID, &user.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (p *PostgresIdentity) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := p.db.QueryRowContext(ctx, `
		SELECT id, username FROM users WHERE LOWER(email) = $1 AND is_active = TRUE
	`, strings.ToLower(strings.TrimSpace(email))).Scan(&user.ID, &user.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
